// Package scanner owns the camera lifecycle: acquisition, decode delivery and
// guaranteed release.
package scanner

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/safescan/internal/logging"
)

// State of a scanner session.
type State int

const (
	Idle State = iota
	Starting
	Active
	Captured
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Captured:
		return "captured"
	default:
		return "unknown"
	}
}

// ErrSessionClosed is returned by Start after Close.
var ErrSessionClosed = errors.New("scanner session closed")

// heldFeed guards a Feed so it is released exactly once.
type heldFeed struct {
	Feed
	once sync.Once
	stop chan struct{}
}

func (h *heldFeed) release() {
	h.once.Do(func() {
		close(h.stop)
		_ = h.Feed.Close()
	})
}

// Session is the scanner state machine. At most one feed is held at a time
// and every captured value is delivered once on Decoded.
type Session struct {
	camera Camera
	log    logging.Logger

	mu      sync.Mutex
	state   State
	gen     uint64
	feed    *heldFeed
	closed  bool
	done    chan struct{}
	decoded chan string
	wg      sync.WaitGroup
}

func NewSession(camera Camera, log logging.Logger) *Session {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Session{
		camera:  camera,
		log:     log,
		done:    make(chan struct{}),
		decoded: make(chan string, 1),
	}
}

// Decoded is the session's single event channel. It is closed by Close.
func (s *Session) Decoded() <-chan string { return s.decoded }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start acquires the camera. It is a no-op unless the session is Idle. On
// failure the session is back to Idle and the error matches
// common.ErrCameraUnavailable.
func (s *Session) Start(ctx context.Context) error {
	_, err := s.Acquire(ctx)
	return err
}

// Acquire is Start that also reports whether this call brought the camera
// up. It is false when the session was not Idle or a Stop arrived while the
// camera was opening.
func (s *Session) Acquire(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrSessionClosed
	}
	if s.state != Idle {
		s.mu.Unlock()
		return false, nil
	}
	s.gen++
	gen := s.gen
	s.state = Starting
	s.mu.Unlock()

	feed, err := s.camera.Open(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		// Stop or Close arrived while the camera was opening.
		if err == nil {
			_ = feed.Close()
		}
		return false, nil
	}
	if err != nil {
		s.state = Idle
		s.log.Warn(ctx, "camera start failed", "error", err)
		return false, &CameraError{Err: err}
	}

	h := &heldFeed{Feed: feed, stop: make(chan struct{})}
	s.feed = h
	s.state = Active
	s.wg.Add(1)
	go s.pump(gen, h)
	s.log.Debug(ctx, "camera started")
	return true, nil
}

// Stop releases the camera. Calling it while Idle is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	switch s.state {
	case Starting:
		s.gen++
		s.state = Idle
	case Active:
		s.gen++
		s.releaseLocked()
		s.state = Idle
	}
}

func (s *Session) releaseLocked() {
	if s.feed != nil {
		s.feed.release()
		s.feed = nil
	}
}

// Close stops the session, waits for in-flight deliveries and closes Decoded.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopLocked()
	s.gen++
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	close(s.decoded)
	return nil
}

func (s *Session) pump(gen uint64, h *heldFeed) {
	defer s.wg.Done()
	ctx := context.Background()
	results := h.Results()

	for {
		var res DecodeResult
		var ok bool
		select {
		case <-h.stop:
			return
		case res, ok = <-results:
		}

		if !ok {
			s.mu.Lock()
			if s.gen == gen && s.state == Active {
				s.gen++
				s.releaseLocked()
				s.state = Idle
				s.log.Warn(ctx, "camera feed ended")
			}
			s.mu.Unlock()
			return
		}

		if res.Err != nil {
			if !IsNotFound(res.Err) {
				s.log.Debug(ctx, "decode error", "error", res.Err)
			}
			continue
		}
		text := strings.TrimSpace(res.Text)
		if text == "" {
			continue
		}

		s.mu.Lock()
		if s.gen != gen || s.state != Active {
			s.mu.Unlock()
			return
		}
		s.state = Captured
		s.gen++
		s.releaseLocked()
		s.mu.Unlock()

		s.log.Debug(ctx, "barcode captured", "barcode", text)
		select {
		case s.decoded <- text:
		case <-s.done:
		}

		s.mu.Lock()
		if s.state == Captured {
			s.state = Idle
		}
		s.mu.Unlock()
		return
	}
}
