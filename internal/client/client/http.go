package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/client/resolver"
)

// HTTPClient implements Client over the endpoint resolver.
type HTTPClient struct {
	httpClient *http.Client
	resolver   *resolver.Resolver
}

// NewHTTPClient builds a client for the given endpoint candidates. Options are
// passed to the resolver; the HTTP transport is owned by the client.
func NewHTTPClient(endpoints []string, opts ...resolver.Option) (*HTTPClient, error) {
	hc := &http.Client{}
	r, err := resolver.New(endpoints, append([]resolver.Option{resolver.WithDoer(hc)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{httpClient: hc, resolver: r}, nil
}

// Endpoints returns the candidate list in resolution order.
func (c *HTTPClient) Endpoints() []string { return c.resolver.Endpoints() }

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// call runs req and decodes a 2xx body into out (when out is non-nil).
func (c *HTTPClient) call(ctx context.Context, op string, req resolver.Request, out any) error {
	resp, err := c.resolver.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.OK() {
		return statusError(op, resp)
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// Health returns the status string reported by the backend. A 5xx from one
// candidate moves on to the next one.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	p := resolver.ServerErrors
	var out healthResponse
	err := c.call(ctx, "health", resolver.Request{
		Method: http.MethodGet,
		Path:   []string{"api", "health"},
		Policy: &p,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *HTTPClient) LookupProduct(ctx context.Context, barcode string) (*ProductPayload, error) {
	var out ProductPayload
	err := c.call(ctx, "lookup product", resolver.Request{
		Method: http.MethodGet,
		Path:   []string{"api", "scan", barcode},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Check(ctx context.Context, barcode string, productData map[string]any) (*models.CheckResult, error) {
	var out models.CheckResult
	err := c.call(ctx, "check", resolver.Request{
		Method: http.MethodPost,
		Path:   []string{"api", "check"},
		Body:   checkRequest{Barcode: barcode, ProductData: productData},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetRestrictions(ctx context.Context) (*models.Restrictions, error) {
	var out models.Restrictions
	err := c.call(ctx, "get restrictions", resolver.Request{
		Method: http.MethodGet,
		Path:   []string{"api", "profile", "restrictions"},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetRestrictions stores r and returns the set echoed back by the backend.
func (c *HTTPClient) SetRestrictions(ctx context.Context, r models.Restrictions) (*models.Restrictions, error) {
	out := r
	err := c.call(ctx, "set restrictions", resolver.Request{
		Method: http.MethodPost,
		Path:   []string{"api", "profile", "restrictions"},
		Body:   r,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListProfiles(ctx context.Context) (*ProfileList, error) {
	var out ProfileList
	err := c.call(ctx, "list profiles", resolver.Request{
		Method: http.MethodGet,
		Path:   []string{"api", "profiles"},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var out models.Profile
	err := c.call(ctx, "create profile", resolver.Request{
		Method: http.MethodPost,
		Path:   []string{"api", "profiles"},
		Body: createProfileRequest{
			Name:         p.Name,
			Allergies:    models.NormalizeSet(p.Allergies),
			Restrictions: models.NormalizeSet(p.Restrictions),
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteProfile(ctx context.Context, id models.ProfileID) error {
	return c.call(ctx, "delete profile", resolver.Request{
		Method: http.MethodDelete,
		Path:   []string{"api", "profiles", string(id)},
	}, nil)
}

func (c *HTTPClient) SwitchActiveProfile(ctx context.Context, id models.ProfileID) error {
	return c.call(ctx, "switch profile", resolver.Request{
		Method: http.MethodPost,
		Path:   []string{"api", "profiles", "active"},
		Body:   switchProfileRequest{ProfileID: id},
	}, nil)
}

func (c *HTTPClient) SaveHistory(ctx context.Context, item models.HistoryItem) error {
	return c.call(ctx, "save history", resolver.Request{
		Method: http.MethodPost,
		Path:   []string{"api", "history"},
		Body:   item,
	}, nil)
}
