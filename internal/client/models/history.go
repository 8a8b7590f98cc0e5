package models

import (
	"slices"
	"time"
)

// HistoryItem records one scanned product. Barcode is unique within the
// cache. The profile fields are captured when the item is created and are
// never rewritten afterwards.
type HistoryItem struct {
	Barcode                     string              `json:"barcode"`
	ProductName                 string              `json:"productName"`
	ImageURL                    string              `json:"imageUrl,omitempty"`
	ProductSnapshot             *Product            `json:"productSnapshot,omitempty"`
	IsSafe                      *bool               `json:"isSafe"`
	Flagged                     []FlaggedIngredient `json:"flagged,omitempty"`
	Timestamp                   time.Time           `json:"timestamp"`
	CheckedAt                   *time.Time          `json:"checkedAt,omitempty"`
	ProfileID                   ProfileID           `json:"profileId"`
	ProfileName                 string              `json:"profileName"`
	ProfileAllergiesSnapshot    []string            `json:"profileAllergiesSnapshot"`
	ProfileRestrictionsSnapshot []string            `json:"profileRestrictionsSnapshot"`
}

// Checked reports whether the ingredient check has completed for this item.
func (h HistoryItem) Checked() bool { return h.IsSafe != nil }

// Clone returns a deep copy of the item.
func (h HistoryItem) Clone() HistoryItem {
	if h.ProductSnapshot != nil {
		p := h.ProductSnapshot.Clone()
		h.ProductSnapshot = &p
	}
	if h.IsSafe != nil {
		v := *h.IsSafe
		h.IsSafe = &v
	}
	if h.CheckedAt != nil {
		v := *h.CheckedAt
		h.CheckedAt = &v
	}
	h.Flagged = slices.Clone(h.Flagged)
	h.ProfileAllergiesSnapshot = slices.Clone(h.ProfileAllergiesSnapshot)
	h.ProfileRestrictionsSnapshot = slices.Clone(h.ProfileRestrictionsSnapshot)
	return h
}

// Notification is an alert about a product that violated the active
// profile. Notifications are only ever prepended and trimmed.
type Notification struct {
	ID          string              `json:"id"`
	Barcode     string              `json:"barcode"`
	ProductName string              `json:"productName"`
	Timestamp   time.Time           `json:"timestamp"`
	Flagged     []FlaggedIngredient `json:"flagged"`
}
