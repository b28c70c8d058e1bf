// Package edgar implements the SEC EDGAR filings provider. EDGAR needs no
// credential but requires a descriptive User-Agent; symbols are resolved
// to CIK numbers through the company_tickers.json mapping file, which is
// cached for a week and served stale if a refresh fails.
package edgar

import (
	"sync"
	"time"

	"findata/internal/cache"
	"findata/internal/httpx"
	"findata/internal/ratelimit"
	"golang.org/x/sync/singleflight"
)

const (
	providerName = "EDGAR"

	// Listing and mapping data live on data.sec.gov, archives on www.
	dataBaseURL    = "https://data.sec.gov"
	archiveBaseURL = "https://www.sec.gov"

	tickerMapTTL = cache.TTLTickerMap
)

// Client is a client for the SEC EDGAR APIs.
type Client struct {
	name        string
	dataBase    string
	archiveBase string
	http        *httpx.Client
	now         func() time.Time

	// symbol -> ten-digit CIK, refreshed weekly
	tickersMu      sync.RWMutex
	tickers        map[string]string
	tickersExpires time.Time
	sf             singleflight.Group
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURLs overrides both API hosts (tests point them at one server).
func WithBaseURLs(dataBase, archiveBase string) Option {
	return func(c *Client) {
		c.dataBase = dataBase
		c.archiveBase = archiveBase
	}
}

// WithHTTPClient replaces the underlying HTTP executor.
func WithHTTPClient(hc *httpx.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithDoer replaces only the transport.
func WithDoer(d httpx.Doer) Option {
	return func(c *Client) { c.http.HTTP = d }
}

// WithRateLimit meters outbound requests; the SEC asks for at most ten
// requests per second.
func WithRateLimit(tb *ratelimit.TokenBucket) Option {
	return func(c *Client) { c.http.Limiter = tb }
}

// WithClock overrides the clock.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates an EDGAR client. userAgent must identify the application
// and a contact address; the SEC rejects anonymous clients.
func New(userAgent string, options ...Option) *Client {
	c := &Client{
		name:        providerName,
		dataBase:    dataBaseURL,
		archiveBase: archiveBaseURL,
		http:        httpx.New(15 * time.Second),
		now:         time.Now,
	}
	c.http.UserAgent = userAgent
	c.http.Auth = httpx.AuthNone{}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return c.name }
