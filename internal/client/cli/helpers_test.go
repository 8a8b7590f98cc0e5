package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/config"
	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/client/repositories/slots"
	"github.com/dmitrijs2005/safescan/internal/client/scanner"
	"github.com/dmitrijs2005/safescan/internal/logging"
	"github.com/dmitrijs2005/safescan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the background writers of App.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type fakeFeed struct {
	results chan scanner.DecodeResult
}

func (f *fakeFeed) Results() <-chan scanner.DecodeResult { return f.results }
func (f *fakeFeed) Close() error                         { return nil }

// fakeCamera yields one feed pre-loaded with codes, or fails with err.
type fakeCamera struct {
	codes []string
	err   error
}

func (c *fakeCamera) Open(context.Context) (scanner.Feed, error) {
	if c.err != nil {
		return nil, c.err
	}
	f := &fakeFeed{results: make(chan scanner.DecodeResult, len(c.codes))}
	for _, code := range c.codes {
		f.results <- scanner.DecodeResult{Text: code}
	}
	return f, nil
}

func newFakeClient() *testutil.FakeClient {
	fc := &testutil.FakeClient{
		LookupProductFn: func(_ context.Context, barcode string) (*client.ProductPayload, error) {
			if barcode == "0123456789" {
				return nil, &client.StatusError{
					Operation: "lookup product",
					Code:      http.StatusNotFound,
					Message:   "Product not found",
					Body:      []byte(`{"error":"Product not found","similarProducts":[{"barcode":"0123456788","productName":"Near Match"}]}`),
				}
			}
			return &client.ProductPayload{
				ProductName: "Product " + barcode,
				AllData:     map[string]any{"ingredients_text": "milk, sugar"},
			}, nil
		},
		CheckFn: func(context.Context, string, map[string]any) (*models.CheckResult, error) {
			return &models.CheckResult{HasIssues: true, Flagged: []models.FlaggedIngredient{{Ingredient: "milk", Type: "allergy", Item: "milk"}}}, nil
		},
	}
	testutil.NewProfileBackend(
		models.Profile{ID: "x", Name: "X", Allergies: []string{"milk"}},
		models.Profile{ID: "y", Name: "Y", Restrictions: []string{"vegan"}},
	).Install(fc)
	return fc
}

type testApp struct {
	*App
	client *testutil.FakeClient
	out    *syncBuffer
}

func newTestApp(t *testing.T, input string, camera scanner.Camera) *testApp {
	t.Helper()
	fc := newFakeClient()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OnlineCheckInterval = 10 * time.Millisecond

	if camera == nil {
		camera = &fakeCamera{}
	}
	session := scanner.NewSession(camera, nil)
	t.Cleanup(func() { _ = session.Close() })

	out := &syncBuffer{}
	a := newApp(cfg, logging.NewNopLogger(), fc, slots.NewMemoryRepository(), session, strings.NewReader(input), out)
	require.NoError(t, a.profiles.Load(context.Background()))
	return &testApp{App: a, client: fc, out: out}
}
