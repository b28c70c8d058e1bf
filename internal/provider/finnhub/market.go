package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/provider"
	"findata/internal/record"
)

// rawQuote is the /quote response. Fields are single letters upstream:
// c=current, d=change, dp=change percent (already percent points),
// o/h/l=session, pc=previous close, t=epoch seconds.
type rawQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// Quote fetches the current quote. An unknown symbol comes back as all
// zeros, which normalizes to an invalid record rather than an error.
func (c *Client) Quote(ctx context.Context, symbol string) (record.Quote, error) {
	u := fmt.Sprintf("%s/quote?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	var raw rawQuote
	if err := c.http.GetJSON(ctx, c.name, "quote", u, &raw); err != nil {
		return record.Quote{}, err
	}
	return normalizeQuote(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeQuote(symbol string, r rawQuote, name string, fetched time.Time) record.Quote {
	q := record.Quote{
		Symbol:        symbol,
		Price:         r.Current,
		Change:        r.Change,
		ChangePercent: r.ChangePercent,
		Open:          r.Open,
		High:          r.High,
		Low:           r.Low,
		PreviousClose: r.PrevClose,
		Provider:      name,
		FetchedAt:     fetched,
	}
	if r.Timestamp > 0 {
		q.Timestamp = time.Unix(r.Timestamp, 0).UTC()
	} else {
		q.Timestamp = fetched
	}
	return q
}

// rawProfile is the /stock/profile2 response. Market cap arrives in
// millions and is scaled to absolute currency units.
type rawProfile struct {
	Name            string  `json:"name"`
	Country         string  `json:"country"`
	WebURL          string  `json:"weburl"`
	FinnhubIndustry string  `json:"finnhubIndustry"`
	MarketCapM      float64 `json:"marketCapitalization"`
}

func (c *Client) Profile(ctx context.Context, symbol string) (record.CompanyProfile, error) {
	u := fmt.Sprintf("%s/stock/profile2?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	var raw rawProfile
	if err := c.http.GetJSON(ctx, c.name, "profile", u, &raw); err != nil {
		return record.CompanyProfile{}, err
	}
	return normalizeProfile(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeProfile(symbol string, r rawProfile, name string, fetched time.Time) record.CompanyProfile {
	return record.CompanyProfile{
		Symbol:    symbol,
		Name:      r.Name,
		Industry:  r.FinnhubIndustry,
		Website:   r.WebURL,
		Country:   r.Country,
		MarketCap: r.MarketCapM * 1e6,
		Provider:  name,
		FetchedAt: fetched,
	}
}

// rawSearch is the /search envelope.
type rawSearch struct {
	Count  int `json:"count"`
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"result"`
}

func (c *Client) Search(ctx context.Context, term string) ([]record.SymbolMatch, error) {
	u := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(term))
	var raw rawSearch
	if err := c.http.GetJSON(ctx, c.name, "search", u, &raw); err != nil {
		return nil, err
	}
	out := make([]record.SymbolMatch, 0, len(raw.Result))
	for _, r := range raw.Result {
		out = append(out, record.SymbolMatch{Symbol: r.Symbol, Name: r.Description})
	}
	return out, nil
}

// Financials is structurally unsupported: Finnhub exposes derived metric
// aggregates, not per-period statements matching the canonical schema.
func (c *Client) Financials(ctx context.Context, symbol string, period provider.Period) ([]record.FinancialPeriod, error) {
	return nil, provider.ErrUnsupported
}

// rawCandle is the /stock/candle column-oriented response.
type rawCandle struct {
	Close  []float64 `json:"c"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Open   []float64 `json:"o"`
	Time   []int64   `json:"t"`
	Volume []float64 `json:"v"`
	Status string    `json:"s"` // "ok" or "no_data"
}

var resolutions = map[provider.Interval]struct {
	code string
	span time.Duration
}{
	provider.IntervalDaily:   {"D", 24 * time.Hour},
	provider.IntervalWeekly:  {"W", 7 * 24 * time.Hour},
	provider.IntervalMonthly: {"M", 31 * 24 * time.Hour},
}

func (c *Client) HistoricalPrices(ctx context.Context, symbol string, interval provider.Interval, size int) (record.PriceSeries, error) {
	res, ok := resolutions[interval]
	if !ok {
		return record.PriceSeries{}, provider.ErrUnsupported
	}
	if size <= 0 {
		size = 100
	}
	to := c.now()
	from := to.Add(-time.Duration(size) * res.span)
	u := fmt.Sprintf("%s/stock/candle?symbol=%s&resolution=%s&from=%d&to=%d",
		c.baseURL, url.QueryEscape(symbol), res.code, from.Unix(), to.Unix())
	var raw rawCandle
	if err := c.http.GetJSON(ctx, c.name, "historical", u, &raw); err != nil {
		return record.PriceSeries{}, err
	}
	return normalizeCandles(symbol, interval, raw, c.name, c.now().UTC()), nil
}

func normalizeCandles(symbol string, interval provider.Interval, r rawCandle, name string, fetched time.Time) record.PriceSeries {
	s := record.PriceSeries{Symbol: symbol, Interval: string(interval), Provider: name, FetchedAt: fetched}
	if r.Status != "ok" {
		return s
	}
	n := len(r.Time)
	// Column arrays must agree in length; truncate to the shortest to
	// survive ragged payloads.
	for _, col := range [][]float64{r.Close, r.High, r.Low, r.Open, r.Volume} {
		if len(col) < n {
			n = len(col)
		}
	}
	s.Points = make([]record.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		s.Points = append(s.Points, record.PricePoint{
			Date:   time.Unix(r.Time[i], 0).UTC(),
			Open:   r.Open[i],
			High:   r.High[i],
			Low:    r.Low[i],
			Close:  r.Close[i],
			Volume: int64(r.Volume[i]),
		})
	}
	return s
}
