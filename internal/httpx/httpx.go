// Package httpx is the shared HTTP plumbing for provider clients: one
// tuned transport, an injected auth strategy per provider, and an optional
// rate limiter. Providers compose a Client instead of inheriting one.
package httpx

import (
	"context"
	"net"
	"net/http"
	"time"

	"findata/internal/ratelimit"
)

// Doer is the minimal HTTP client surface, satisfied by *http.Client.
//
//go:generate mockgen -package=fmp_test -destination=../provider/fmp/mock_doer_test.go -source=httpx.go Doer
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a small wrapper around http.Client with sane defaults.
type Client struct {
	HTTP      Doer
	UserAgent string
	Headers   map[string]string
	Auth      Auth
	Limiter   *ratelimit.TokenBucket
}

func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: "findata/1.0"}
}

// Do applies user agent, extra headers, auth strategy and the rate limiter
// before executing the request.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if c.Auth != nil {
		if err := c.Auth.Apply(ctx, req); err != nil {
			return nil, err
		}
	}
	return c.HTTP.Do(req)
}
