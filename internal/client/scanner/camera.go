package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/safescan/internal/common"
)

// DecodeResult is one output of the decoder: either a decoded value or an error.
type DecodeResult struct {
	Text string
	Err  error
}

// Feed is an acquired camera stream delivering decode results.
type Feed interface {
	Results() <-chan DecodeResult
	Close() error
}

// Camera acquires the device. Open fails when permission is denied or no
// device is present.
type Camera interface {
	Open(ctx context.Context) (Feed, error)
}

// ErrNoCode is the "no barcode in this frame" signal of a decoder.
var ErrNoCode = errors.New("no barcode found in frame")

// IsNotFound reports decoder not-found signals, which are expected on almost
// every frame and are never surfaced.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoCode) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "NotFoundException") || strings.Contains(msg, "No MultiFormat Readers")
}

// CameraError reports a failed acquisition. It matches common.ErrCameraUnavailable.
type CameraError struct {
	Err error
}

func (e *CameraError) Error() string { return fmt.Sprintf("camera unavailable: %v", e.Err) }

func (e *CameraError) Unwrap() error { return e.Err }

func (e *CameraError) Is(target error) bool { return target == common.ErrCameraUnavailable }
