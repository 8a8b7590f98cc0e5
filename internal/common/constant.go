// Package common contains shared constants and sentinel errors used across
// SafeScan components.
package common

// Slot keys of the local key/value store.
const (
	SlotHistory       = "scan_history"
	SlotNotifications = "notifications"
	SlotTheme         = "theme"
)

// Retention caps for the locally persisted collections.
const (
	HistoryLimit      = 100
	NotificationLimit = 50
)

// DefaultProfileID identifies the synthetic profile used when the backend
// runs in single-profile mode.
const DefaultProfileID = "default"
