package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/common"
)

// ErrNoSuchCandidate is returned when a similar-product index is out of range.
var ErrNoSuchCandidate = errors.New("no such similar product")

// ProductNotFoundError is the terminal "unknown barcode" outcome. Similar
// holds the disambiguation candidates offered by the backend, if any.
type ProductNotFoundError struct {
	Barcode string
	Message string
	Similar []models.SimilarProduct
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.Barcode)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == common.ErrProductNotFound }

// ProfileConstraintError carries the backend's refusal message verbatim.
type ProfileConstraintError struct {
	ProfileID models.ProfileID
	Message   string
}

func (e *ProfileConstraintError) Error() string { return e.Message }

func (e *ProfileConstraintError) Is(target error) bool { return target == common.ErrProfileConstraint }

// classify makes sure a remote failure belongs to the taxonomy: transport
// failures and status errors pass through, anything else (a malformed body)
// is reported as a rejected request.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *client.StatusError
	switch {
	case errors.Is(err, common.ErrNetworkUnreachable),
		errors.As(err, &se),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrRemoteRejected, err)
	}
}
