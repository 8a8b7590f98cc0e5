package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/dmitrijs2005/safescan/internal/logging"
)

// ProfileSnapshot is one consistent view of the profile state. The active
// profile's id and its sets always come from the same load.
type ProfileSnapshot struct {
	Profiles []models.Profile
	Active   models.Profile
	Loaded   bool
}

func (s *ProfileSnapshot) clone() ProfileSnapshot {
	out := ProfileSnapshot{Active: s.Active.Clone(), Loaded: s.Loaded}
	out.Profiles = make([]models.Profile, len(s.Profiles))
	for i, p := range s.Profiles {
		out.Profiles[i] = p.Clone()
	}
	return out
}

// ProfileStore mirrors the remote dietary profiles. Reads are lock-free and
// see whole snapshots; mutations are serialized.
type ProfileStore struct {
	client client.Client
	multi  bool
	log    logging.Logger

	mu    sync.Mutex
	state atomic.Pointer[ProfileSnapshot]
}

func defaultProfile() models.Profile {
	return models.Profile{ID: common.DefaultProfileID, Name: "Default", Allergies: []string{}, Restrictions: []string{}}
}

// NewProfileStore creates a store. With multiProfile false only the
// restrictions endpoint is used and the active profile is a synthetic default.
func NewProfileStore(c client.Client, multiProfile bool, log logging.Logger) *ProfileStore {
	s := &ProfileStore{client: c, multi: multiProfile, log: log}
	d := defaultProfile()
	s.state.Store(&ProfileSnapshot{Profiles: []models.Profile{d}, Active: d})
	return s
}

func (s *ProfileStore) MultiProfile() bool { return s.multi }

func (s *ProfileStore) Snapshot() ProfileSnapshot { return s.state.Load().clone() }

func (s *ProfileStore) Active() models.Profile { return s.state.Load().Active.Clone() }

func (s *ProfileStore) Profiles() []models.Profile { return s.Snapshot().Profiles }

// Load fetches the profile list, the active id and the active restrictions.
func (s *ProfileStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *ProfileStore) loadLocked(ctx context.Context) error {
	r, list, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	allergies := models.NormalizeSet(r.Allergies)
	restrictions := models.NormalizeSet(r.Restrictions)

	if !s.multi {
		d := defaultProfile()
		d.Allergies, d.Restrictions = allergies, restrictions
		s.state.Store(&ProfileSnapshot{Profiles: []models.Profile{d}, Active: d, Loaded: true})
		return nil
	}

	if len(list.Profiles) == 0 {
		return fmt.Errorf("%w: backend returned no profiles", common.ErrRemoteRejected)
	}

	profiles := make([]models.Profile, len(list.Profiles))
	idx := -1
	for i, p := range list.Profiles {
		p = p.Clone()
		p.Allergies = models.NormalizeSet(p.Allergies)
		p.Restrictions = models.NormalizeSet(p.Restrictions)
		profiles[i] = p
		if p.ID == list.ActiveProfileID {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: active profile %s not in list", common.ErrRemoteRejected, list.ActiveProfileID)
	}
	profiles[idx].Allergies = allergies
	profiles[idx].Restrictions = restrictions

	s.state.Store(&ProfileSnapshot{Profiles: profiles, Active: profiles[idx].Clone(), Loaded: true})
	s.log.Debug(ctx, "profiles loaded", "count", len(profiles), "active", profiles[idx].ID)
	return nil
}

func (s *ProfileStore) fetch(ctx context.Context) (*models.Restrictions, *client.ProfileList, error) {
	var list *client.ProfileList
	if s.multi {
		l, err := s.client.ListProfiles(ctx)
		if err != nil {
			return nil, nil, classify(err)
		}
		list = l
	}
	r, err := s.client.GetRestrictions(ctx)
	if err != nil {
		return nil, nil, classify(err)
	}
	return r, list, nil
}

// SwitchActive makes id the active profile and reloads, so the cached sets
// are exactly the new profile's.
func (s *ProfileStore) SwitchActive(ctx context.Context, id models.ProfileID) error {
	if !s.multi {
		return common.ErrMultiProfileDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	if cur.Loaded && !slices.ContainsFunc(cur.Profiles, func(p models.Profile) bool { return p.ID == id }) {
		return fmt.Errorf("%w: %s", common.ErrProfileNotFound, id)
	}
	if err := s.client.SwitchActiveProfile(ctx, id); err != nil {
		return classify(err)
	}
	return s.loadLocked(ctx)
}

// Create adds a profile remotely and to the cached list. It does not switch.
func (s *ProfileStore) Create(ctx context.Context, name string, allergies, restrictions []string) (models.Profile, error) {
	if !s.multi {
		return models.Profile{}, common.ErrMultiProfileDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, common.ErrEmptyProfileName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.client.CreateProfile(ctx, models.Profile{
		Name:         name,
		Allergies:    models.NormalizeSet(allergies),
		Restrictions: models.NormalizeSet(restrictions),
	})
	if err != nil {
		return models.Profile{}, classify(err)
	}
	created := p.Clone()
	created.Allergies = models.NormalizeSet(created.Allergies)
	created.Restrictions = models.NormalizeSet(created.Restrictions)

	next := s.state.Load().clone()
	next.Profiles = append(next.Profiles, created)
	s.state.Store(&next)
	s.log.Info(ctx, "profile created", "id", created.ID, "name", created.Name)
	return created.Clone(), nil
}

// Delete removes a profile. A 400 from the backend (for example deleting the
// last profile) becomes *ProfileConstraintError and leaves the cache untouched.
func (s *ProfileStore) Delete(ctx context.Context, id models.ProfileID) error {
	if !s.multi {
		return common.ErrMultiProfileDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.DeleteProfile(ctx, id); err != nil {
		var se *client.StatusError
		if errors.As(err, &se) && se.BadRequest() {
			msg := se.Message
			if msg == "" {
				msg = "profile cannot be deleted"
			}
			return &ProfileConstraintError{ProfileID: id, Message: msg}
		}
		return classify(err)
	}

	cur := s.state.Load()
	if cur.Active.ID == id {
		// The backend picks the new active profile.
		return s.loadLocked(ctx)
	}
	next := cur.clone()
	next.Profiles = slices.DeleteFunc(next.Profiles, func(p models.Profile) bool { return p.ID == id })
	s.state.Store(&next)
	s.log.Info(ctx, "profile deleted", "id", id)
	return nil
}

// SaveRestrictions replaces the active profile's sets with the values
// echoed back by the backend.
func (s *ProfileStore) SaveRestrictions(ctx context.Context, allergies, restrictions []string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	echoed, err := s.client.SetRestrictions(ctx, models.Restrictions{
		Allergies:    models.NormalizeSet(allergies),
		Restrictions: models.NormalizeSet(restrictions),
	})
	if err != nil {
		return models.Profile{}, classify(err)
	}

	next := s.state.Load().clone()
	next.Active.Allergies = models.NormalizeSet(echoed.Allergies)
	next.Active.Restrictions = models.NormalizeSet(echoed.Restrictions)
	for i := range next.Profiles {
		if next.Profiles[i].ID == next.Active.ID {
			next.Profiles[i] = next.Active.Clone()
		}
	}
	s.state.Store(&next)
	return next.Active.Clone(), nil
}
