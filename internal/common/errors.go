// Package common defines shared constants and sentinel errors used across
// the client layers of SafeScan. Callers should use errors.Is to match these
// values; component packages wrap them in typed errors that carry details.
package common

import "errors"

var (
	// ErrNetworkUnreachable: every endpoint candidate failed at the transport level.
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrProductNotFound is a terminal lookup outcome, not a failure of the client.
	ErrProductNotFound = errors.New("product not found")

	// ErrCameraUnavailable covers permission denial and missing devices.
	ErrCameraUnavailable = errors.New("camera unavailable")

	// ErrProfileConstraint is returned when the backend refuses a profile
	// mutation, e.g. deleting the last remaining profile.
	ErrProfileConstraint = errors.New("profile constraint violation")

	// ErrRemoteRejected marks any other non-2xx answer of the backend.
	ErrRemoteRejected = errors.New("remote rejected request")

	// Validation errors.
	ErrEmptyBarcode     = errors.New("barcode is empty")
	ErrEmptyProfileName = errors.New("profile name is empty")
	ErrInvalidTheme     = errors.New("theme must be light or dark")

	// Local state errors.
	ErrHistoryItemNotFound  = errors.New("history item not found")
	ErrStaleResponse        = errors.New("stale response discarded")
	ErrMultiProfileDisabled = errors.New("multi-profile support is disabled")
	ErrProfileNotFound      = errors.New("profile not found")
)
