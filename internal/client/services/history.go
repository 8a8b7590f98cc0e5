package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/client/repositories/slots"
	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/dmitrijs2005/safescan/internal/logging"
)

// Themes accepted by SetTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// HistoryCache keeps scan history and notifications, newest first, bounded by
// common.HistoryLimit and common.NotificationLimit. Every mutation is written
// to the slot repository before the in-memory view changes.
type HistoryCache struct {
	repo  slots.Repository
	clock common.Clock
	ids   common.IDGenerator
	log   logging.Logger

	mu            sync.Mutex
	loaded        bool
	history       []models.HistoryItem
	notifications []models.Notification
	theme         string
}

func NewHistoryCache(repo slots.Repository, clock common.Clock, ids common.IDGenerator, log logging.Logger) *HistoryCache {
	return &HistoryCache{repo: repo, clock: clock, ids: ids, log: log, theme: ThemeLight}
}

// Load reads the persisted slots. A corrupt slot is logged and treated as empty.
func (h *HistoryCache) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loadLocked(ctx)
}

func (h *HistoryCache) loadLocked(ctx context.Context) error {
	history, err := readSlot[[]models.HistoryItem](ctx, h, common.SlotHistory)
	if err != nil {
		return err
	}
	notifications, err := readSlot[[]models.Notification](ctx, h, common.SlotNotifications)
	if err != nil {
		return err
	}
	theme, err := readSlot[string](ctx, h, common.SlotTheme)
	if err != nil {
		return err
	}
	if theme != ThemeDark {
		theme = ThemeLight
	}

	h.history = capped(history, common.HistoryLimit)
	h.notifications = capped(notifications, common.NotificationLimit)
	h.theme = theme
	h.loaded = true
	return nil
}

// readSlot decodes one slot. A missing or corrupt slot yields the zero value.
func readSlot[T any](ctx context.Context, h *HistoryCache, key string) (T, error) {
	var zero T
	b, err := h.repo.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", key, err)
	}
	if len(b) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		h.log.Warn(ctx, "ignoring corrupt slot", "slot", key, "error", err)
		return zero, nil
	}
	return v, nil
}

func (h *HistoryCache) ensureLoaded(ctx context.Context) error {
	if h.loaded {
		return nil
	}
	return h.loadLocked(ctx)
}

// commit persists the given slots in one write and only then swaps them in.
func (h *HistoryCache) commit(ctx context.Context, history []models.HistoryItem, notifications []models.Notification) error {
	values := make(map[string][]byte, 2)
	if history != nil {
		b, err := json.Marshal(history)
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		values[common.SlotHistory] = b
	}
	if notifications != nil {
		b, err := json.Marshal(notifications)
		if err != nil {
			return fmt.Errorf("encode notifications: %w", err)
		}
		values[common.SlotNotifications] = b
	}
	if err := h.repo.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	if history != nil {
		h.history = history
	}
	if notifications != nil {
		h.notifications = notifications
	}
	return nil
}

// RecordScan puts a fresh unchecked entry for barcode at the front, replacing
// any older entry for the same barcode, with a snapshot of profile.
func (h *HistoryCache) RecordScan(ctx context.Context, barcode string, product models.Product, profile models.Profile) (models.HistoryItem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensureLoaded(ctx); err != nil {
		return models.HistoryItem{}, err
	}

	snapshot := product.Clone()
	item := models.HistoryItem{
		Barcode:                     barcode,
		ProductName:                 product.ProductName,
		ImageURL:                    product.ImageURL,
		ProductSnapshot:             &snapshot,
		Timestamp:                   h.clock.Now(),
		ProfileID:                   profile.ID,
		ProfileName:                 profile.Name,
		ProfileAllergiesSnapshot:    append([]string{}, profile.Allergies...),
		ProfileRestrictionsSnapshot: append([]string{}, profile.Restrictions...),
	}

	next := make([]models.HistoryItem, 0, len(h.history)+1)
	next = append(next, item)
	for _, it := range h.history {
		if it.Barcode != barcode {
			next = append(next, it)
		}
	}
	next = capped(next, common.HistoryLimit)

	if err := h.commit(ctx, next, nil); err != nil {
		return models.HistoryItem{}, err
	}
	return item.Clone(), nil
}

// RecordCheckResult stores the check outcome on the existing entry for
// barcode. The entry keeps its position and its profile snapshot. A
// notification is prepended only when the result has issues.
func (h *HistoryCache) RecordCheckResult(ctx context.Context, barcode string, result models.CheckResult) (models.HistoryItem, *models.Notification, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensureLoaded(ctx); err != nil {
		return models.HistoryItem{}, nil, err
	}

	idx := slices.IndexFunc(h.history, func(it models.HistoryItem) bool { return it.Barcode == barcode })
	if idx < 0 {
		return models.HistoryItem{}, nil, fmt.Errorf("%w: %s", common.ErrHistoryItemNotFound, barcode)
	}

	now := h.clock.Now()
	safe := !result.HasIssues

	item := h.history[idx].Clone()
	item.IsSafe = &safe
	item.Flagged = slices.Clone(result.Flagged)
	item.CheckedAt = &now

	nextHistory := slices.Clone(h.history)
	nextHistory[idx] = item

	var notification *models.Notification
	var nextNotifications []models.Notification
	if result.HasIssues {
		notification = &models.Notification{
			ID:          h.ids.New(),
			Barcode:     barcode,
			ProductName: item.ProductName,
			Timestamp:   now,
			Flagged:     slices.Clone(result.Flagged),
		}
		nextNotifications = make([]models.Notification, 0, len(h.notifications)+1)
		nextNotifications = append(nextNotifications, *notification)
		nextNotifications = append(nextNotifications, h.notifications...)
		nextNotifications = capped(nextNotifications, common.NotificationLimit)
	}

	if err := h.commit(ctx, nextHistory, nextNotifications); err != nil {
		return models.HistoryItem{}, nil, err
	}
	return item.Clone(), notification, nil
}

// Get returns the entry for barcode.
func (h *HistoryCache) Get(barcode string) (models.HistoryItem, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, it := range h.history {
		if it.Barcode == barcode {
			return it.Clone(), true
		}
	}
	return models.HistoryItem{}, false
}

// History returns entries newest first. A non-empty profileID keeps only the
// entries recorded under that profile.
func (h *HistoryCache) History(profileID models.ProfileID) []models.HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.HistoryItem, 0, len(h.history))
	for _, it := range h.history {
		if profileID == "" || it.ProfileID == profileID {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (h *HistoryCache) Notifications() []models.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.Notification, len(h.notifications))
	for i, n := range h.notifications {
		n.Flagged = slices.Clone(n.Flagged)
		out[i] = n
	}
	return out
}

// Clear deletes the history and notification slots. The theme is kept. Each
// slot is dropped from memory only after its delete succeeded.
func (h *HistoryCache) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.repo.Delete(ctx, common.SlotNotifications); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	h.notifications = []models.Notification{}
	if err := h.repo.Delete(ctx, common.SlotHistory); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	h.history = []models.HistoryItem{}
	return nil
}

// Reset wipes every stored slot, the theme included.
func (h *HistoryCache) Reset(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.repo.Clear(ctx); err != nil {
		return fmt.Errorf("reset local data: %w", err)
	}
	h.history = []models.HistoryItem{}
	h.notifications = []models.Notification{}
	h.theme = ThemeLight
	h.loaded = true
	return nil
}

// Slots reports the size in bytes of every persisted slot.
func (h *HistoryCache) Slots(ctx context.Context) (map[string]int, error) {
	all, err := h.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	out := make(map[string]int, len(all))
	for k, v := range all {
		out[k] = len(v)
	}
	return out, nil
}

func (h *HistoryCache) Theme() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.theme
}

func (h *HistoryCache) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return common.ErrInvalidTheme
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	b, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	if err := h.repo.Set(ctx, common.SlotTheme, b); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	h.theme = theme
	return nil
}

// capped drops the oldest entries beyond limit.
func capped[T any](items []T, limit int) []T {
	if items == nil {
		return []T{}
	}
	if len(items) > limit {
		return items[:limit:limit]
	}
	return items
}
