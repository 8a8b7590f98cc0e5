package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/services"
	"github.com/dmitrijs2005/safescan/internal/common"
)

// describeError turns any error surfaced by the services into a message for
// the user. Stale responses yield "" and are not shown.
func describeError(err error) string {
	var (
		se  *client.StatusError
		pce *services.ProfileConstraintError
	)
	switch {
	case err == nil, errors.Is(err, common.ErrStaleResponse):
		return ""
	case errors.Is(err, common.ErrEmptyBarcode):
		return "Please enter a barcode."
	case errors.Is(err, common.ErrProductNotFound):
		return "Product not found."
	case errors.Is(err, common.ErrNetworkUnreachable):
		return "Cannot reach the SafeScan backend. Check your connection and try again."
	case errors.Is(err, common.ErrCameraUnavailable):
		return fmt.Sprintf("%v. Use 'lookup <barcode>' to enter the code manually.", err)
	case errors.As(err, &pce):
		return "Cannot change profiles: " + pce.Message
	case errors.Is(err, common.ErrMultiProfileDisabled):
		return "The backend supports a single profile only."
	case errors.Is(err, common.ErrProfileNotFound):
		return "No such profile. Type 'profiles' to list them."
	case errors.Is(err, common.ErrEmptyProfileName):
		return "Profile name must not be empty."
	case errors.Is(err, common.ErrInvalidTheme):
		return "Theme must be light or dark."
	case errors.Is(err, common.ErrHistoryItemNotFound):
		return "That product is no longer in your history. Scan it again."
	case errors.Is(err, services.ErrNoSuchCandidate):
		return "No such similar product."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.As(err, &se):
		if se.Message != "" {
			return fmt.Sprintf("The backend rejected the request (status %d): %s", se.Code, se.Message)
		}
		return fmt.Sprintf("The backend rejected the request (status %d).", se.Code)
	case errors.Is(err, common.ErrRemoteRejected):
		return "The backend sent an unexpected answer."
	default:
		return "Unexpected error: " + err.Error()
	}
}

func (a *App) report(err error) {
	if msg := describeError(err); msg != "" {
		a.println(msg)
	}
}
