// Package finnhub implements the Finnhub provider: market data, news and
// recommendation-trend ratings. Authentication is the X-Finnhub-Token
// header. ESG and ownership data are not part of the subscribed surface,
// so those capabilities are simply not implemented here.
package finnhub

import (
	"time"

	"findata/internal/httpx"
	"findata/internal/ratelimit"
)

const (
	providerName = "Finnhub"
	baseURL      = "https://finnhub.io/api/v1"
)

// Client is a client for the Finnhub API.
type Client struct {
	name    string
	baseURL string
	http    *httpx.Client
	now     func() time.Time
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP executor.
func WithHTTPClient(hc *httpx.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithDoer replaces only the transport, keeping auth wiring intact.
func WithDoer(d httpx.Doer) Option {
	return func(c *Client) { c.http.HTTP = d }
}

// WithRateLimit meters outbound requests.
func WithRateLimit(tb *ratelimit.TokenBucket) Option {
	return func(c *Client) { c.http.Limiter = tb }
}

// WithClock overrides the fetch-timestamp clock.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Finnhub client.
func New(token string, options ...Option) *Client {
	c := &Client{
		name:    providerName,
		baseURL: baseURL,
		http:    httpx.New(10 * time.Second),
		now:     time.Now,
	}
	c.http.Auth = httpx.AuthHeader{Header: "X-Finnhub-Token", Key: token}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return c.name }
