// Package square is a minimal client for the Square Connect v2 endpoints this
// project consumes: ListPayments, RetrieveOrder, ListLocations and
// ListMerchants. Failures surface as *APIError carrying the platform's error
// list, so callers consume a tagged success/failure result instead of probing
// response bodies.
package square

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	productionBaseURL = "https://connect.squareup.com"
	sandboxBaseURL    = "https://connect.squareupsandbox.com"
)

// DefaultPageSize is the page size used by the downloader.
const DefaultPageSize = 200

// Client talks to the Square Connect API. Construct it once per run and pass
// it into whatever needs it; there is no package-level instance.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithBaseURL points the client at a different host, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// NewClient builds a client for the given access token and environment
// ("production" or "sandbox"; anything else falls back to production).
func NewClient(token, environment string, opts ...Option) *Client {
	base := productionBaseURL
	if environment == "sandbox" {
		base = sandboxBaseURL
	}
	c := &Client{
		baseURL: base,
		token:   token,
		httpc:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPaymentsParams are the query parameters of the ListPayments call.
// Cursor is empty on the first page.
type ListPaymentsParams struct {
	BeginTime  string // RFC 3339
	EndTime    string // RFC 3339
	LocationID string
	Cursor     string
	Limit      int
}

// ListPayments fetches one page of payments in the given window.
func (c *Client) ListPayments(ctx context.Context, p ListPaymentsParams) (*ListPaymentsResponse, error) {
	q := url.Values{}
	q.Set("begin_time", p.BeginTime)
	q.Set("end_time", p.EndTime)
	q.Set("location_id", p.LocationID)
	if p.Cursor != "" {
		q.Set("cursor", p.Cursor)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	q.Set("limit", strconv.Itoa(limit))

	var resp ListPaymentsResponse
	if err := c.get(ctx, "/v2/payments?"+q.Encode(), &resp, resp.errors); err != nil {
		return nil, fmt.Errorf("ListPayments: %w", err)
	}
	return &resp, nil
}

// RetrieveOrder fetches a single order with its line items.
func (c *Client) RetrieveOrder(ctx context.Context, orderID string) (*RetrieveOrderResponse, error) {
	var resp RetrieveOrderResponse
	if err := c.get(ctx, "/v2/orders/"+url.PathEscape(orderID), &resp, resp.errors); err != nil {
		return nil, fmt.Errorf("RetrieveOrder: %w", err)
	}
	return &resp, nil
}

// ListLocations fetches every location visible to the token.
func (c *Client) ListLocations(ctx context.Context) (*ListLocationsResponse, error) {
	var resp ListLocationsResponse
	if err := c.get(ctx, "/v2/locations", &resp, resp.errors); err != nil {
		return nil, fmt.Errorf("ListLocations: %w", err)
	}
	return &resp, nil
}

// ListMerchants fetches the merchant list.
func (c *Client) ListMerchants(ctx context.Context) (*ListMerchantsResponse, error) {
	var resp ListMerchantsResponse
	if err := c.get(ctx, "/v2/merchants", &resp, resp.errors); err != nil {
		return nil, fmt.Errorf("ListMerchants: %w", err)
	}
	return &resp, nil
}

// get performs one GET request and decodes the body into out. errsOf reads
// the decoded error list back out so the envelope check works on any response
// type.
func (c *Client) get(ctx context.Context, path string, out any, errsOf func() []Error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if res.StatusCode >= 400 {
			return &APIError{StatusCode: res.StatusCode}
		}
		return fmt.Errorf("decoding response: %w", err)
	}

	if errs := errsOf(); res.StatusCode >= 400 || len(errs) > 0 {
		return &APIError{StatusCode: res.StatusCode, Errors: errs}
	}
	return nil
}

func (r *ListPaymentsResponse) errors() []Error  { return r.Errors }
func (r *RetrieveOrderResponse) errors() []Error { return r.Errors }
func (r *ListLocationsResponse) errors() []Error { return r.Errors }
func (r *ListMerchantsResponse) errors() []Error { return r.Errors }
