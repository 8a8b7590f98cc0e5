package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/safescan/internal/client/resolver"
	"github.com/dmitrijs2005/safescan/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	a := newTestApp(t, "", nil)
	var buf bytes.Buffer
	log, err := logging.New("text", "info", &buf)
	require.NoError(t, err)
	a.log = log
	ctx := context.Background()

	a.setMode(ctx, ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Contains(t, buf.String(), "mode=online")

	buf.Reset()
	a.setMode(ctx, ModeOnline)
	assert.Empty(t, buf.String())

	a.setMode(ctx, ModeOffline)
	assert.Equal(t, ModeOffline, a.Mode())
	assert.Contains(t, buf.String(), "mode=offline")
}

func TestGetStatus(t *testing.T) {
	a := newTestApp(t, "", nil)
	assert.Equal(t, "(X offline)", a.getStatus())
}

func TestStartOnlineStatusWatcher_FollowsHealth(t *testing.T) {
	a := newTestApp(t, "", nil)
	var down atomic.Bool
	a.client.HealthFn = func(context.Context) (string, error) {
		if down.Load() {
			return "", &resolver.NetworkError{Attempts: []string{"http://a"}, Last: errors.New("refused")}
		}
		return "healthy", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	down.Store(true)
	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRun_LoadsStateAndExits(t *testing.T) {
	a := newTestApp(t, "lookup 111\nhistory\nquit\n", nil)
	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	a.Run(context.Background())

	out := a.out.String()
	assert.True(t, strings.HasPrefix(out, "Welcome to SafeScan CLI"))
	assert.Contains(t, out, "Product 111 (111)")
	assert.Contains(t, out, "unchecked")
	assert.Contains(t, out, "Bye!")
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Equal(t, 1, a.client.Calls("Close"))
}
