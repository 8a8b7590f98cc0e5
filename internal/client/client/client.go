package client

import (
	"context"

	"github.com/dmitrijs2005/safescan/internal/client/models"
)

// Client is the transport contract of the SafeScan backend.
type Client interface {
	Close() error
	Health(ctx context.Context) (string, error)
	LookupProduct(ctx context.Context, barcode string) (*ProductPayload, error)
	Check(ctx context.Context, barcode string, productData map[string]any) (*models.CheckResult, error)
	GetRestrictions(ctx context.Context) (*models.Restrictions, error)
	SetRestrictions(ctx context.Context, r models.Restrictions) (*models.Restrictions, error)
	ListProfiles(ctx context.Context) (*ProfileList, error)
	CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id models.ProfileID) error
	SwitchActiveProfile(ctx context.Context, id models.ProfileID) error
	SaveHistory(ctx context.Context, item models.HistoryItem) error
}
