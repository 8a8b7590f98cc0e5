// Package resolver implements the endpoint fallback used by every remote
// call: a logical operation is tried against an ordered list of base URLs
// until one of them answers at the transport level.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/dmitrijs2005/safescan/internal/logging"
)

// Policy decides which answered responses still move on to the next candidate.
type Policy int

const (
	// TransportOnly returns the first response that arrived, whatever its status.
	TransportOnly Policy = iota
	// ServerErrors also falls through on 5xx responses.
	ServerErrors
)

// Request describes one logical remote operation.
type Request struct {
	Method string
	// Path holds raw, unescaped segments, e.g. {"api", "scan", barcode}.
	Path  []string
	Query url.Values
	// Body is JSON encoded when non-nil.
	Body any
	// Policy overrides the resolver default when set.
	Policy *Policy
}

// Response is a fully read HTTP response together with the endpoint that produced it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Endpoint   string
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// NetworkError is returned when every candidate failed at the transport level.
type NetworkError struct {
	Attempts []string
	Last     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("all %d endpoints unreachable (tried %s): %v",
		len(e.Attempts), strings.Join(e.Attempts, ", "), e.Last)
}

func (e *NetworkError) Unwrap() error { return e.Last }

func (e *NetworkError) Is(target error) bool { return target == common.ErrNetworkUnreachable }

// Doer is the subset of *http.Client used by the resolver.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver tries candidates in order. It is safe for concurrent use.
type Resolver struct {
	bases   []string
	doer    Doer
	policy  Policy
	timeout time.Duration
	log     logging.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPolicy sets the default fallback policy.
func WithPolicy(p Policy) Option { return func(r *Resolver) { r.policy = p } }

// WithDoer replaces the HTTP client.
func WithDoer(d Doer) Option { return func(r *Resolver) { r.doer = d } }

// WithAttemptTimeout bounds every single attempt. Zero means no bound.
func WithAttemptTimeout(d time.Duration) Option { return func(r *Resolver) { r.timeout = d } }

// WithLogger sets the logger used for per-attempt diagnostics.
func WithLogger(l logging.Logger) Option { return func(r *Resolver) { r.log = l } }

// New constructs a Resolver over the given base URLs.
func New(bases []string, opts ...Option) (*Resolver, error) {
	if len(bases) == 0 {
		return nil, errors.New("resolver: no endpoint candidates")
	}
	r := &Resolver{doer: http.DefaultClient, log: logging.NewNopLogger()}
	for _, b := range bases {
		u, err := url.Parse(b)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("resolver: invalid endpoint %q", b)
		}
		r.bases = append(r.bases, strings.TrimRight(b, "/"))
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Endpoints returns a copy of the candidate list.
func (r *Resolver) Endpoints() []string {
	return append([]string(nil), r.bases...)
}

// Do executes req against the candidates. A non-nil error is either the
// context error or a *NetworkError.
func (r *Resolver) Do(ctx context.Context, req Request) (*Response, error) {
	policy := r.policy
	if req.Policy != nil {
		policy = *req.Policy
	}

	var body []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = b
	}

	path := buildPath(req.Path)
	netErr := &NetworkError{}
	var lastServerErr *Response

	for _, base := range r.bases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := base + path
		if len(req.Query) > 0 {
			target += "?" + req.Query.Encode()
		}
		netErr.Attempts = append(netErr.Attempts, base)

		resp, err := r.attempt(ctx, req.Method, target, body)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.log.Debug(ctx, "endpoint unreachable", "endpoint", base, "path", path, "error", err)
			netErr.Last = err
			continue
		}
		resp.Endpoint = base
		r.log.Debug(ctx, "endpoint answered", "endpoint", base, "path", path, "status", resp.StatusCode)

		if policy == ServerErrors && resp.StatusCode >= 500 {
			lastServerErr = resp
			continue
		}
		return resp, nil
	}

	if lastServerErr != nil {
		return lastServerErr, nil
	}
	return nil, netErr
}

func (r *Resolver) attempt(ctx context.Context, method, target string, body []byte) (*Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := r.doer.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	b, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: b}, nil
}

func buildPath(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}
