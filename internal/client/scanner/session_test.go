package scanner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	results chan DecodeResult
	closes  atomic.Int32
}

func newFakeFeed() *fakeFeed { return &fakeFeed{results: make(chan DecodeResult, 8)} }

func (f *fakeFeed) Results() <-chan DecodeResult { return f.results }
func (f *fakeFeed) Close() error {
	f.closes.Add(1)
	return nil
}

type fakeCamera struct {
	mu      sync.Mutex
	opens   int
	feeds   []*fakeFeed
	openErr error
	gate    chan struct{} // when set, Open blocks until it is closed
	opening chan struct{}
}

func (c *fakeCamera) Open(ctx context.Context) (Feed, error) {
	c.mu.Lock()
	gate, opening := c.gate, c.opening
	c.mu.Unlock()
	if opening != nil {
		close(opening)
	}
	if gate != nil {
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.opens++
	if c.openErr != nil {
		return nil, c.openErr
	}
	f := newFakeFeed()
	c.feeds = append(c.feeds, f)
	return f, nil
}

func (c *fakeCamera) lastFeed() *fakeFeed {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feeds[len(c.feeds)-1]
}

func (c *fakeCamera) openCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

func newSession(t *testing.T, cam Camera) *Session {
	t.Helper()
	s := NewSession(cam, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func waitState(t *testing.T, s *Session, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return s.State() == want }, time.Second, 5*time.Millisecond)
}

func TestStart_WhileActiveIsNoop(t *testing.T) {
	cam := &fakeCamera{}
	s := newSession(t, cam)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.Equal(t, Active, s.State())
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))

	assert.Equal(t, 1, cam.openCount(), "only one camera resource may be held")
}

func TestAcquire_ReportsNoop(t *testing.T) {
	cam := &fakeCamera{}
	s := newSession(t, cam)
	ctx := context.Background()

	started, err := s.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, started)
	started, err = s.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, started, "already active")

	// The first capture fills the Decoded buffer, so the second one stays
	// Captured until a reader drains it.
	cam.lastFeed().results <- DecodeResult{Text: "111"}
	waitState(t, s, Idle)
	started, err = s.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, started)
	cam.lastFeed().results <- DecodeResult{Text: "222"}
	waitState(t, s, Captured)

	started, err = s.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, started, "captured")
	assert.Equal(t, Captured, s.State())
	assert.Equal(t, 2, cam.openCount())

	assert.Equal(t, "111", <-s.Decoded())
	assert.Equal(t, "222", <-s.Decoded())
	waitState(t, s, Idle)
}

func TestStop_WhileIdleIsNoop(t *testing.T) {
	s := newSession(t, &fakeCamera{})
	s.Stop()
	s.Stop()
	assert.Equal(t, Idle, s.State())
}

func TestStop_ReleasesCameraOnce(t *testing.T) {
	cam := &fakeCamera{}
	s := newSession(t, cam)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()

	assert.Equal(t, Idle, s.State())
	assert.EqualValues(t, 1, cam.lastFeed().closes.Load())
}

func TestStart_FailureReturnsToIdle(t *testing.T) {
	cam := &fakeCamera{openErr: errors.New("permission denied")}
	s := newSession(t, cam)

	err := s.Start(context.Background())
	require.ErrorIs(t, err, common.ErrCameraUnavailable)
	var ce *CameraError
	require.ErrorAs(t, err, &ce)
	assert.EqualError(t, ce.Err, "permission denied")
	assert.Equal(t, Idle, s.State())

	cam.mu.Lock()
	cam.openErr = nil
	cam.mu.Unlock()
	require.NoError(t, s.Start(context.Background()), "controls must stay usable after a failure")
	assert.Equal(t, Active, s.State())
}

func TestCapture_EmitsOnceAndReleases(t *testing.T) {
	cam := &fakeCamera{}
	s := newSession(t, cam)
	require.NoError(t, s.Start(context.Background()))

	feed := cam.lastFeed()
	feed.results <- DecodeResult{Err: ErrNoCode}
	feed.results <- DecodeResult{Err: errors.New("NotFoundException: no code")}
	feed.results <- DecodeResult{Err: errors.New("checksum mismatch")}
	feed.results <- DecodeResult{Text: " 4006381333931 "}
	feed.results <- DecodeResult{Text: "5000000000000"}

	select {
	case v := <-s.Decoded():
		assert.Equal(t, "4006381333931", v)
	case <-time.After(time.Second):
		t.Fatal("no decoded value")
	}

	waitState(t, s, Idle)
	assert.EqualValues(t, 1, feed.closes.Load())

	select {
	case v := <-s.Decoded():
		t.Fatalf("unexpected second event %q", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLateResultFromOldFeedIsIgnored(t *testing.T) {
	cam := &fakeCamera{}
	s := newSession(t, cam)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	old := cam.lastFeed()
	s.Stop()
	old.results <- DecodeResult{Text: "stale"}

	require.NoError(t, s.Start(ctx))
	cam.lastFeed().results <- DecodeResult{Text: "fresh"}

	select {
	case v := <-s.Decoded():
		assert.Equal(t, "fresh", v)
	case <-time.After(time.Second):
		t.Fatal("no decoded value")
	}
}

func TestStop_DuringStartingReleasesFeedWhenOpenReturns(t *testing.T) {
	cam := &fakeCamera{gate: make(chan struct{}), opening: make(chan struct{})}
	s := newSession(t, cam)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(context.Background()) }()

	<-cam.opening
	require.Equal(t, Starting, s.State())
	require.NoError(t, s.Start(context.Background()), "start while starting is a no-op")

	s.Stop()
	assert.Equal(t, Idle, s.State())

	close(cam.gate)
	require.NoError(t, <-errCh)

	assert.Equal(t, Idle, s.State())
	assert.EqualValues(t, 1, cam.lastFeed().closes.Load())
}

func TestFeedEnded_ReturnsToIdle(t *testing.T) {
	cam := &fakeCamera{}
	s := newSession(t, cam)
	require.NoError(t, s.Start(context.Background()))

	close(cam.lastFeed().results)
	waitState(t, s, Idle)
	assert.EqualValues(t, 1, cam.lastFeed().closes.Load())
}

func TestClose_ReleasesAndClosesChannel(t *testing.T) {
	cam := &fakeCamera{}
	s := NewSession(cam, nil)
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, ok := <-s.Decoded()
	assert.False(t, ok)
	assert.EqualValues(t, 1, cam.lastFeed().closes.Load())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSessionClosed)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNoCode))
	assert.True(t, IsNotFound(errors.New("NotFoundException")))
	assert.True(t, IsNotFound(errors.New("No MultiFormat Readers were able to detect the code.")))
	assert.False(t, IsNotFound(errors.New("format error")))
	assert.False(t, IsNotFound(nil))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "captured", Captured.String())
	assert.Equal(t, "unknown", State(42).String())
}
