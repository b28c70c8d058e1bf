// Package fmp implements the Financial Modeling Prep provider. It covers
// market data, news, ratings, ESG and ownership; authentication is a
// query-parameter API key.
package fmp

import (
	"time"

	"findata/internal/httpx"
	"findata/internal/ratelimit"
)

const (
	providerName = "FMP"
	baseURL      = "https://financialmodelingprep.com/api"
)

// Client is a client for the Financial Modeling Prep API.
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

// New creates an FMP client. The API key is sent as the apikey query
// parameter on every request.
func New(apiKey string, options ...Option) *Client {
	c := &Client{
		name:    providerName,
		baseURL: baseURL,
		http:    httpx.New(10 * time.Second),
		now:     time.Now,
	}
	c.http.Auth = httpx.AuthQueryParam{Param: "apikey", Key: apiKey}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return c.name }
