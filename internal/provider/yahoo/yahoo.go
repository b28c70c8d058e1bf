// Package yahoo implements a credential-free market data provider on the
// Yahoo chart API. It serves quotes and historical prices; search,
// profiles and financial statements are not part of the chart surface
// and report unsupported.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/httpx"
	"findata/internal/provider"
	"findata/internal/ratelimit"
	"findata/internal/record"
)

const (
	providerName = "Yahoo"
	chartBaseURL = "https://query1.finance.yahoo.com"
)

type Client struct {
	name    string
	baseURL string
	http    *httpx.Client
	now     func() time.Time
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *httpx.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithDoer(d httpx.Doer) Option {
	return func(c *Client) { c.http.HTTP = d }
}

func WithRateLimit(tb *ratelimit.TokenBucket) Option {
	return func(c *Client) { c.http.Limiter = tb }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(options ...Option) *Client {
	c := &Client{
		name:    providerName,
		baseURL: chartBaseURL,
		http:    httpx.New(10 * time.Second),
		now:     time.Now,
	}
	c.http.Auth = httpx.AuthNone{}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return c.name }

// chartResponse is the /v8/finance/chart envelope.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
		RegularMarketTime  int64   `json:"regularMarketTime"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []float64 `json:"open"`
			High   []float64 `json:"high"`
			Low    []float64 `json:"low"`
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

var chartIntervals = map[provider.Interval]struct {
	code string
	span time.Duration
}{
	provider.IntervalDaily:   {"1d", 24 * time.Hour},
	provider.IntervalWeekly:  {"1wk", 7 * 24 * time.Hour},
	provider.IntervalMonthly: {"1mo", 31 * 24 * time.Hour},
}

func (c *Client) fetchChart(ctx context.Context, op, symbol, interval string, from, to int64) (chartResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&period1=%d&period2=%d",
		c.baseURL, url.PathEscape(symbol), interval, from, to)
	var raw chartResponse
	if err := c.http.GetJSON(ctx, c.name, op, u, &raw); err != nil {
		return chartResult{}, err
	}
	if len(raw.Chart.Result) == 0 {
		return chartResult{}, nil
	}
	return raw.Chart.Result[0], nil
}

// Quote derives the current quote from a one-day chart: price and
// previous close come from the chart meta, change and the percent figure
// (percent points) are computed from them.
func (c *Client) Quote(ctx context.Context, symbol string) (record.Quote, error) {
	to := c.now()
	from := to.Add(-24 * time.Hour)
	res, err := c.fetchChart(ctx, "quote", symbol, "1d", from.Unix(), to.Unix())
	if err != nil {
		return record.Quote{}, err
	}
	return normalizeQuote(symbol, res, c.name, c.now().UTC()), nil
}

func normalizeQuote(symbol string, r chartResult, name string, fetched time.Time) record.Quote {
	q := record.Quote{
		Symbol:        symbol,
		Price:         r.Meta.RegularMarketPrice,
		PreviousClose: r.Meta.ChartPreviousClose,
		Provider:      name,
		FetchedAt:     fetched,
	}
	if q.Price > 0 && q.PreviousClose > 0 {
		q.Change = q.Price - q.PreviousClose
		q.ChangePercent = q.Change / q.PreviousClose * 100
	}
	if r.Meta.RegularMarketTime > 0 {
		q.Timestamp = time.Unix(r.Meta.RegularMarketTime, 0).UTC()
	} else {
		q.Timestamp = fetched
	}
	if len(r.Indicators.Quote) > 0 && len(r.Timestamp) > 0 {
		bar := r.Indicators.Quote[0]
		last := len(r.Timestamp) - 1
		if last < len(bar.Open) {
			q.Open = bar.Open[last]
		}
		if last < len(bar.High) {
			q.High = bar.High[last]
		}
		if last < len(bar.Low) {
			q.Low = bar.Low[last]
		}
		if last < len(bar.Volume) {
			q.Volume = bar.Volume[last]
		}
	}
	return q
}

func (c *Client) HistoricalPrices(ctx context.Context, symbol string, interval provider.Interval, size int) (record.PriceSeries, error) {
	iv, ok := chartIntervals[interval]
	if !ok {
		return record.PriceSeries{}, provider.ErrUnsupported
	}
	if size <= 0 {
		size = 100
	}
	to := c.now()
	from := to.Add(-time.Duration(size) * iv.span)
	res, err := c.fetchChart(ctx, "historical", symbol, iv.code, from.Unix(), to.Unix())
	if err != nil {
		return record.PriceSeries{}, err
	}
	return normalizeSeries(symbol, interval, res, c.name, c.now().UTC()), nil
}

func normalizeSeries(symbol string, interval provider.Interval, r chartResult, name string, fetched time.Time) record.PriceSeries {
	s := record.PriceSeries{Symbol: symbol, Interval: string(interval), Provider: name, FetchedAt: fetched}
	if len(r.Indicators.Quote) == 0 {
		return s
	}
	bar := r.Indicators.Quote[0]
	s.Points = make([]record.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(bar.Close) {
			break
		}
		p := record.PricePoint{Date: time.Unix(ts, 0).UTC(), Close: bar.Close[i]}
		if i < len(bar.Open) {
			p.Open = bar.Open[i]
		}
		if i < len(bar.High) {
			p.High = bar.High[i]
		}
		if i < len(bar.Low) {
			p.Low = bar.Low[i]
		}
		if i < len(bar.Volume) {
			p.Volume = bar.Volume[i]
		}
		s.Points = append(s.Points, p)
	}
	return s
}

// Search is not served by the chart API.
func (c *Client) Search(ctx context.Context, term string) ([]record.SymbolMatch, error) {
	return nil, provider.ErrUnsupported
}

// Profile is not served by the chart API.
func (c *Client) Profile(ctx context.Context, symbol string) (record.CompanyProfile, error) {
	return record.CompanyProfile{}, provider.ErrUnsupported
}

// Financials is not served by the chart API.
func (c *Client) Financials(ctx context.Context, symbol string, period provider.Period) ([]record.FinancialPeriod, error) {
	return nil, provider.ErrUnsupported
}
