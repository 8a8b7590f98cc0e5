package testutil

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/models"
)

// ProfileBackend is an in-memory profile collaborator. It refuses to delete
// the last profile with a 400 like the real backend. Wire it into a
// FakeClient with Install.
type ProfileBackend struct {
	mu       sync.Mutex
	profiles []models.Profile
	active   models.ProfileID
	nextID   int
}

func NewProfileBackend(profiles ...models.Profile) *ProfileBackend {
	b := &ProfileBackend{profiles: profiles, nextID: len(profiles) + 1}
	if len(profiles) > 0 {
		b.active = profiles[0].ID
	}
	return b
}

func (b *ProfileBackend) Install(f *FakeClient) {
	f.ListProfilesFn = b.list
	f.GetRestrictionsFn = b.restrictions
	f.SetRestrictionsFn = b.setRestrictions
	f.CreateProfileFn = b.create
	f.DeleteProfileFn = b.delete
	f.SwitchActiveProfileFn = b.switchActive
}

func (b *ProfileBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.profiles)
}

func (b *ProfileBackend) list(context.Context) (*client.ProfileList, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := &client.ProfileList{ActiveProfileID: b.active}
	for _, p := range b.profiles {
		out.Profiles = append(out.Profiles, p.Clone())
	}
	return out, nil
}

func (b *ProfileBackend) indexOf(id models.ProfileID) int {
	return slices.IndexFunc(b.profiles, func(p models.Profile) bool { return p.ID == id })
}

func (b *ProfileBackend) restrictions(context.Context) (*models.Restrictions, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(b.active)
	if i < 0 {
		return &models.Restrictions{}, nil
	}
	p := b.profiles[i].Clone()
	return &models.Restrictions{Allergies: p.Allergies, Restrictions: p.Restrictions}, nil
}

func (b *ProfileBackend) setRestrictions(_ context.Context, r models.Restrictions) (*models.Restrictions, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(b.active); i >= 0 {
		b.profiles[i].Allergies = slices.Clone(r.Allergies)
		b.profiles[i].Restrictions = slices.Clone(r.Restrictions)
	}
	return &r, nil
}

func (b *ProfileBackend) create(_ context.Context, p models.Profile) (*models.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = models.ProfileID(fmt.Sprint(b.nextID))
	b.nextID++
	b.profiles = append(b.profiles, p.Clone())
	return &p, nil
}

func (b *ProfileBackend) delete(_ context.Context, id models.ProfileID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.profiles) <= 1 {
		return &client.StatusError{Operation: "delete profile", Code: http.StatusBadRequest, Message: "Cannot delete the last profile"}
	}
	i := b.indexOf(id)
	if i < 0 {
		return &client.StatusError{Operation: "delete profile", Code: http.StatusNotFound, Message: "profile not found"}
	}
	b.profiles = slices.Delete(b.profiles, i, i+1)
	if b.active == id {
		b.active = b.profiles[0].ID
	}
	return nil
}

func (b *ProfileBackend) switchActive(_ context.Context, id models.ProfileID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(id) < 0 {
		return &client.StatusError{Operation: "switch profile", Code: http.StatusNotFound, Message: "profile not found"}
	}
	b.active = id
	return nil
}
