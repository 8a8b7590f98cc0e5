package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/dmitrijs2005/safescan/internal/logging"
	"github.com/dmitrijs2005/safescan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T, profiles ...models.Profile) (*ProfileStore, *testutil.FakeClient, *testutil.ProfileBackend) {
	t.Helper()
	fc := &testutil.FakeClient{}
	backend := testutil.NewProfileBackend(profiles...)
	backend.Install(fc)
	store := NewProfileStore(fc, true, logging.NewNopLogger())
	require.NoError(t, store.Load(context.Background()))
	return store, fc, backend
}

func profileX() models.Profile {
	return models.Profile{ID: "x", Name: "X", Allergies: []string{"peanuts"}, Restrictions: []string{}}
}

func profileY() models.Profile {
	return models.Profile{ID: "y", Name: "Y", Allergies: []string{"milk"}, Restrictions: []string{"vegan"}}
}

func TestProfileStore_DefaultBeforeLoad(t *testing.T) {
	store := NewProfileStore(&testutil.FakeClient{}, true, logging.NewNopLogger())
	snap := store.Snapshot()
	assert.False(t, snap.Loaded)
	assert.Equal(t, models.ProfileID(common.DefaultProfileID), snap.Active.ID)
	assert.Len(t, snap.Profiles, 1)
}

func TestProfileStore_LoadMulti(t *testing.T) {
	store, _, _ := newProfileFixture(t, profileX(), profileY())

	snap := store.Snapshot()
	require.True(t, snap.Loaded)
	require.Len(t, snap.Profiles, 2)
	assert.Equal(t, models.ProfileID("x"), snap.Active.ID)
	assert.Equal(t, []string{"peanuts"}, snap.Active.Allergies)
}

func TestProfileStore_LoadPicksActiveFromBackend(t *testing.T) {
	fc := &testutil.FakeClient{
		ListProfilesFn: func(context.Context) (*client.ProfileList, error) {
			return &client.ProfileList{Profiles: []models.Profile{profileX(), profileY()}, ActiveProfileID: "y"}, nil
		},
		GetRestrictionsFn: func(context.Context) (*models.Restrictions, error) {
			return &models.Restrictions{Allergies: []string{"Milk", "milk", " soy"}}, nil
		},
	}
	store := NewProfileStore(fc, true, logging.NewNopLogger())
	require.NoError(t, store.Load(context.Background()))

	active := store.Active()
	assert.Equal(t, models.ProfileID("y"), active.ID)
	assert.Equal(t, []string{"Milk", "soy"}, active.Allergies)
	assert.Equal(t, []string{}, active.Restrictions)
}

func TestProfileStore_LoadSingleProfileMode(t *testing.T) {
	fc := &testutil.FakeClient{
		GetRestrictionsFn: func(context.Context) (*models.Restrictions, error) {
			return &models.Restrictions{Allergies: []string{"gluten"}}, nil
		},
	}
	store := NewProfileStore(fc, false, logging.NewNopLogger())
	require.NoError(t, store.Load(context.Background()))

	assert.Zero(t, fc.Calls("ListProfiles"))
	active := store.Active()
	assert.Equal(t, models.ProfileID(common.DefaultProfileID), active.ID)
	assert.Equal(t, []string{"gluten"}, active.Allergies)

	ctx := context.Background()
	require.ErrorIs(t, store.SwitchActive(ctx, "x"), common.ErrMultiProfileDisabled)
	_, err := store.Create(ctx, "new", nil, nil)
	require.ErrorIs(t, err, common.ErrMultiProfileDisabled)
	require.ErrorIs(t, store.Delete(ctx, "x"), common.ErrMultiProfileDisabled)
}

func TestProfileStore_LoadEmptyListIsRejected(t *testing.T) {
	fc := &testutil.FakeClient{}
	store := NewProfileStore(fc, true, logging.NewNopLogger())
	err := store.Load(context.Background())
	require.ErrorIs(t, err, common.ErrRemoteRejected)
	assert.False(t, store.Snapshot().Loaded)
}

func TestProfileStore_LoadFailureKeepsState(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX(), profileY())
	fc.ListProfilesFn = func(context.Context) (*client.ProfileList, error) {
		return nil, errors.New("decode response: bad json")
	}

	err := store.Load(context.Background())
	require.ErrorIs(t, err, common.ErrRemoteRejected)
	assert.Equal(t, models.ProfileID("x"), store.Active().ID)
	assert.Len(t, store.Profiles(), 2)
}

func TestProfileStore_LoadActiveMissingFromList(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX(), profileY())
	fc.ListProfilesFn = func(context.Context) (*client.ProfileList, error) {
		return &client.ProfileList{Profiles: []models.Profile{profileX(), profileY()}, ActiveProfileID: "z"}, nil
	}
	fc.GetRestrictionsFn = func(context.Context) (*models.Restrictions, error) {
		return &models.Restrictions{Allergies: []string{"soy"}, Restrictions: []string{"halal"}}, nil
	}

	err := store.Load(context.Background())
	require.ErrorIs(t, err, common.ErrRemoteRejected)

	snap := store.Snapshot()
	assert.Equal(t, models.ProfileID("x"), snap.Active.ID)
	assert.Equal(t, []string{"peanuts"}, snap.Active.Allergies)
	require.Len(t, snap.Profiles, 2)
	assert.Equal(t, []string{"peanuts"}, snap.Profiles[0].Allergies)
	assert.Equal(t, []string{"milk"}, snap.Profiles[1].Allergies)
}

func TestProfileStore_SwitchActiveReloadsSets(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX(), profileY())

	require.NoError(t, store.SwitchActive(context.Background(), "y"))

	active := store.Active()
	assert.Equal(t, models.ProfileID("y"), active.ID)
	assert.Equal(t, []string{"milk"}, active.Allergies)
	assert.Equal(t, []string{"vegan"}, active.Restrictions)
	assert.Equal(t, 1, fc.Calls("SwitchActiveProfile"))
	assert.Equal(t, 2, fc.Calls("ListProfiles"))
}

func TestProfileStore_SwitchActiveUnknown(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX())

	err := store.SwitchActive(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrProfileNotFound)
	assert.Zero(t, fc.Calls("SwitchActiveProfile"))
}

func TestProfileStore_CreateAppendsWithoutSwitching(t *testing.T) {
	store, _, backend := newProfileFixture(t, profileX())

	p, err := store.Create(context.Background(), "  Kids ", []string{"eggs", "Eggs"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kids", p.Name)
	assert.Equal(t, []string{"eggs"}, p.Allergies)
	assert.NotEmpty(t, p.ID)

	assert.Len(t, store.Profiles(), 2)
	assert.Equal(t, models.ProfileID("x"), store.Active().ID)
	assert.Equal(t, 2, backend.Len())

	_, err = store.Create(context.Background(), " ", nil, nil)
	require.ErrorIs(t, err, common.ErrEmptyProfileName)
}

func TestProfileStore_DeleteLastProfileIsRejected(t *testing.T) {
	store, _, _ := newProfileFixture(t, profileX())
	before := store.Snapshot()

	err := store.Delete(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrProfileConstraint)

	var pce *ProfileConstraintError
	require.ErrorAs(t, err, &pce)
	assert.Equal(t, "Cannot delete the last profile", pce.Error())
	assert.Equal(t, before, store.Snapshot())
}

func TestProfileStore_DeleteConstraintWithoutMessage(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX(), profileY())
	fc.DeleteProfileFn = func(context.Context, models.ProfileID) error {
		return &client.StatusError{Operation: "delete profile", Code: http.StatusBadRequest}
	}

	err := store.Delete(context.Background(), "y")
	require.ErrorIs(t, err, common.ErrProfileConstraint)
	assert.Equal(t, "profile cannot be deleted", err.Error())
	assert.Len(t, store.Profiles(), 2)
}

func TestProfileStore_DeleteInactive(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX(), profileY())

	require.NoError(t, store.Delete(context.Background(), "y"))
	require.Len(t, store.Profiles(), 1)
	assert.Equal(t, models.ProfileID("x"), store.Active().ID)
	assert.Equal(t, 1, fc.Calls("ListProfiles"))
}

func TestProfileStore_DeleteActiveReloads(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX(), profileY())

	require.NoError(t, store.Delete(context.Background(), "x"))
	active := store.Active()
	assert.Equal(t, models.ProfileID("y"), active.ID)
	assert.Equal(t, []string{"milk"}, active.Allergies)
	assert.Equal(t, 2, fc.Calls("ListProfiles"))
}

func TestProfileStore_SaveRestrictions(t *testing.T) {
	store, _, _ := newProfileFixture(t, profileX(), profileY())

	p, err := store.SaveRestrictions(context.Background(), []string{"soy", " Soy", "peanuts"}, []string{"halal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"peanuts", "soy"}, p.Allergies)
	assert.Equal(t, []string{"halal"}, p.Restrictions)

	snap := store.Snapshot()
	assert.Equal(t, p, snap.Active)
	assert.Equal(t, p, snap.Profiles[0])
}

func TestProfileStore_SaveRestrictionsFailureKeepsState(t *testing.T) {
	store, fc, _ := newProfileFixture(t, profileX())
	fc.SetRestrictionsFn = func(context.Context, models.Restrictions) (*models.Restrictions, error) {
		return nil, &client.StatusError{Operation: "set restrictions", Code: 500}
	}

	_, err := store.SaveRestrictions(context.Background(), []string{"soy"}, nil)
	require.ErrorIs(t, err, common.ErrRemoteRejected)
	assert.Equal(t, []string{"peanuts"}, store.Active().Allergies)
}

func TestProfileStore_SnapshotDoesNotAlias(t *testing.T) {
	store, _, _ := newProfileFixture(t, profileX())
	snap := store.Snapshot()
	snap.Active.Allergies[0] = "changed"
	snap.Profiles[0].Name = "changed"

	assert.Equal(t, []string{"peanuts"}, store.Active().Allergies)
	assert.Equal(t, "X", store.Profiles()[0].Name)
}

func TestProfileStore_ConcurrentSwitchAndRead(t *testing.T) {
	store, _, _ := newProfileFixture(t, profileX(), profileY())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			id := models.ProfileID("x")
			if i%2 == 1 {
				id = "y"
			}
			assert.NoError(t, store.SwitchActive(ctx, id))
		}(i)
		go func() {
			defer wg.Done()
			a := store.Active()
			switch a.ID {
			case "x":
				assert.Equal(t, []string{"peanuts"}, a.Allergies)
			case "y":
				assert.Equal(t, []string{"milk"}, a.Allergies)
			}
		}()
	}
	wg.Wait()
}
