package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/config"
	"github.com/dmitrijs2005/safescan/internal/client/repositories/slots"
	"github.com/dmitrijs2005/safescan/internal/client/resolver"
	"github.com/dmitrijs2005/safescan/internal/client/scanner"
	"github.com/dmitrijs2005/safescan/internal/client/services"
	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/dmitrijs2005/safescan/internal/logging"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const healthTimeout = 3 * time.Second

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config   *config.Config
	log      logging.Logger
	client   client.Client
	profiles *services.ProfileStore
	history  *services.HistoryCache
	checks   *services.CheckService
	scanner  *scanner.Session
	store    io.Closer
	reader   *bufio.Reader

	outMu sync.Mutex
	out   io.Writer

	mu   sync.Mutex
	mode Mode
	last *services.ScanOutcome
}

// NewApp builds the whole client from c. The returned App owns the store, the
// scanner and the HTTP client; they are released when Run returns.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	opts := []resolver.Option{
		resolver.WithAttemptTimeout(c.RequestTimeout),
		resolver.WithLogger(log.With("component", "resolver")),
	}
	if c.FallbackOnServerErrors {
		opts = append(opts, resolver.WithPolicy(resolver.ServerErrors))
	}
	api, err := client.NewHTTPClient(c.Endpoints, opts...)
	if err != nil {
		return nil, err
	}

	repo, store, err := slots.NewFromConfig(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing slot store", "error", err)
		return nil, err
	}

	camera, err := scanner.NewExecCamera(c.CameraCommand)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := newApp(c, log, api, repo, scanner.NewSession(camera, log.With("component", "scanner")), os.Stdin, os.Stdout)
	a.store = store
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api client.Client, repo slots.Repository, session *scanner.Session, in io.Reader, out io.Writer) *App {
	profiles := services.NewProfileStore(api, c.MultiProfile, log.With("component", "profiles"))
	history := services.NewHistoryCache(repo, common.RealClock{}, common.UUIDGenerator{}, log.With("component", "history"))
	products := services.NewProductService(api, log.With("component", "products"))

	return &App{
		config:   c,
		log:      log,
		client:   api,
		profiles: profiles,
		history:  history,
		checks:   services.NewCheckService(products, profiles, history, api, log.With("component", "checks")),
		scanner:  session,
		reader:   bufio.NewReader(in),
		out:      out,
		mode:     ModeOffline,
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) lastOutcome() *services.ScanOutcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func (a *App) setLastOutcome(o *services.ScanOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = o
}

// Run loads local and remote state, starts the background workers and blocks
// in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close(ctx)

	a.println("Welcome to SafeScan CLI (type 'help' for commands)")

	if err := a.history.Load(ctx); err != nil {
		a.log.Warn(ctx, "loading local history failed", "error", err)
	}
	a.checkHealth(ctx)
	if err := a.profiles.Load(ctx); err != nil {
		a.report(err)
	}

	go a.checks.Watch(ctx, a.scanner.Decoded(), a.showOutcome)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	prompt := func() string { return "" }
	if isTerminal(int(os.Stdin.Fd())) {
		prompt = func() string { return fmt.Sprintf("safescan %s> ", a.getStatus()) }
	}
	runREPL(ctx, a, a.reader, a.out, prompt)
}

func (a *App) close(ctx context.Context) {
	if err := a.scanner.Close(); err != nil {
		a.log.Warn(ctx, "closing scanner failed", "error", err)
	}
	if err := a.client.Close(); err != nil {
		a.log.Warn(ctx, "closing client failed", "error", err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn(ctx, "closing slot store failed", "error", err)
		}
	}
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s %s)", a.profiles.Active().Name, a.Mode())
}

func (a *App) checkHealth(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if _, err := a.client.Health(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkHealth(ctx)
		case <-ctx.Done():
			return
		}
	}
}
