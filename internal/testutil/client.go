package testutil

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/models"
)

// FakeClient implements client.Client with overridable funcs. Unset funcs
// return zero values. Calls are counted per method name.
type FakeClient struct {
	HealthFn              func(ctx context.Context) (string, error)
	LookupProductFn       func(ctx context.Context, barcode string) (*client.ProductPayload, error)
	CheckFn               func(ctx context.Context, barcode string, productData map[string]any) (*models.CheckResult, error)
	GetRestrictionsFn     func(ctx context.Context) (*models.Restrictions, error)
	SetRestrictionsFn     func(ctx context.Context, r models.Restrictions) (*models.Restrictions, error)
	ListProfilesFn        func(ctx context.Context) (*client.ProfileList, error)
	CreateProfileFn       func(ctx context.Context, p models.Profile) (*models.Profile, error)
	DeleteProfileFn       func(ctx context.Context, id models.ProfileID) error
	SwitchActiveProfileFn func(ctx context.Context, id models.ProfileID) error
	SaveHistoryFn         func(ctx context.Context, item models.HistoryItem) error

	mu    sync.Mutex
	calls map[string]int
}

var _ client.Client = (*FakeClient)(nil)

func (f *FakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (f *FakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *FakeClient) Close() error {
	f.record("Close")
	return nil
}

func (f *FakeClient) Health(ctx context.Context) (string, error) {
	f.record("Health")
	if f.HealthFn == nil {
		return "healthy", nil
	}
	return f.HealthFn(ctx)
}

func (f *FakeClient) LookupProduct(ctx context.Context, barcode string) (*client.ProductPayload, error) {
	f.record("LookupProduct")
	if f.LookupProductFn == nil {
		return &client.ProductPayload{}, nil
	}
	return f.LookupProductFn(ctx, barcode)
}

func (f *FakeClient) Check(ctx context.Context, barcode string, productData map[string]any) (*models.CheckResult, error) {
	f.record("Check")
	if f.CheckFn == nil {
		return &models.CheckResult{}, nil
	}
	return f.CheckFn(ctx, barcode, productData)
}

func (f *FakeClient) GetRestrictions(ctx context.Context) (*models.Restrictions, error) {
	f.record("GetRestrictions")
	if f.GetRestrictionsFn == nil {
		return &models.Restrictions{}, nil
	}
	return f.GetRestrictionsFn(ctx)
}

func (f *FakeClient) SetRestrictions(ctx context.Context, r models.Restrictions) (*models.Restrictions, error) {
	f.record("SetRestrictions")
	if f.SetRestrictionsFn == nil {
		return &r, nil
	}
	return f.SetRestrictionsFn(ctx, r)
}

func (f *FakeClient) ListProfiles(ctx context.Context) (*client.ProfileList, error) {
	f.record("ListProfiles")
	if f.ListProfilesFn == nil {
		return &client.ProfileList{}, nil
	}
	return f.ListProfilesFn(ctx)
}

func (f *FakeClient) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	f.record("CreateProfile")
	if f.CreateProfileFn == nil {
		return &p, nil
	}
	return f.CreateProfileFn(ctx, p)
}

func (f *FakeClient) DeleteProfile(ctx context.Context, id models.ProfileID) error {
	f.record("DeleteProfile")
	if f.DeleteProfileFn == nil {
		return nil
	}
	return f.DeleteProfileFn(ctx, id)
}

func (f *FakeClient) SwitchActiveProfile(ctx context.Context, id models.ProfileID) error {
	f.record("SwitchActiveProfile")
	if f.SwitchActiveProfileFn == nil {
		return nil
	}
	return f.SwitchActiveProfileFn(ctx, id)
}

func (f *FakeClient) SaveHistory(ctx context.Context, item models.HistoryItem) error {
	f.record("SaveHistory")
	if f.SaveHistoryFn == nil {
		return nil
	}
	return f.SaveHistoryFn(ctx, item)
}
