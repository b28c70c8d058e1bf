package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"findata/internal/provider"
	"findata/internal/record"
)

// rawSearch is one /v3/search hit.
type rawSearch struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	StockExchange string `json:"stockExchange"`
	Currency      string `json:"currency"`
}

func (c *Client) Search(ctx context.Context, term string) ([]record.SymbolMatch, error) {
	u := fmt.Sprintf("%s/v3/search?query=%s&limit=20", c.baseURL, url.QueryEscape(term))
	var raw []rawSearch
	if err := c.http.GetJSON(ctx, c.name, "search", u, &raw); err != nil {
		return nil, err
	}
	return normalizeSearch(raw), nil
}

func normalizeSearch(raw []rawSearch) []record.SymbolMatch {
	out := make([]record.SymbolMatch, 0, len(raw))
	for _, r := range raw {
		out = append(out, record.SymbolMatch{
			Symbol:   r.Symbol,
			Name:     r.Name,
			Exchange: r.StockExchange,
			Currency: r.Currency,
		})
	}
	return out
}

// rawProfile is one element of the /v3/profile array.
type rawProfile struct {
	Symbol            string      `json:"symbol"`
	CompanyName       string      `json:"companyName"`
	Description       string      `json:"description"`
	Sector            string      `json:"sector"`
	Industry          string      `json:"industry"`
	Website           string      `json:"website"`
	Country           string      `json:"country"`
	FullTimeEmployees json.Number `json:"fullTimeEmployees"` // sometimes a quoted string
	MktCap            float64     `json:"mktCap"`
	PE                float64     `json:"pe"`
	PB                float64     `json:"priceToBookRatio"`
}

func (c *Client) Profile(ctx context.Context, symbol string) (record.CompanyProfile, error) {
	u := fmt.Sprintf("%s/v3/profile/%s", c.baseURL, url.PathEscape(symbol))
	var raw []rawProfile
	if err := c.http.GetJSON(ctx, c.name, "profile", u, &raw); err != nil {
		return record.CompanyProfile{}, err
	}
	if len(raw) == 0 {
		return record.CompanyProfile{Symbol: symbol, Provider: c.name, FetchedAt: c.now().UTC()}, nil
	}
	return normalizeProfile(symbol, raw[0], c.name, c.now().UTC()), nil
}

func normalizeProfile(symbol string, r rawProfile, name string, fetched time.Time) record.CompanyProfile {
	employees, _ := r.FullTimeEmployees.Int64()
	return record.CompanyProfile{
		Symbol:      symbol,
		Name:        r.CompanyName,
		Description: r.Description,
		Sector:      r.Sector,
		Industry:    r.Industry,
		Website:     r.Website,
		Country:     r.Country,
		Employees:   employees,
		MarketCap:   r.MktCap,
		PERatio:     r.PE,
		PriceToBook: r.PB,
		Provider:    name,
		FetchedAt:   fetched,
	}
}

// rawQuote is one element of the /v3/quote array. changesPercentage has
// shipped both as a number and as a formatted "(1.25%)" string.
type rawQuote struct {
	Symbol            string          `json:"symbol"`
	Price             float64         `json:"price"`
	Change            float64         `json:"change"`
	ChangesPercentage json.RawMessage `json:"changesPercentage"`
	Volume            int64           `json:"volume"`
	Open              float64         `json:"open"`
	DayHigh           float64         `json:"dayHigh"`
	DayLow            float64         `json:"dayLow"`
	PreviousClose     float64         `json:"previousClose"`
	Timestamp         int64           `json:"timestamp"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (record.Quote, error) {
	u := fmt.Sprintf("%s/v3/quote/%s", c.baseURL, url.PathEscape(symbol))
	var raw []rawQuote
	if err := c.http.GetJSON(ctx, c.name, "quote", u, &raw); err != nil {
		return record.Quote{}, err
	}
	if len(raw) == 0 {
		return record.Quote{Symbol: symbol, Provider: c.name, FetchedAt: c.now().UTC()}, nil
	}
	return normalizeQuote(symbol, raw[0], c.name, c.now().UTC()), nil
}

func normalizeQuote(symbol string, r rawQuote, name string, fetched time.Time) record.Quote {
	q := record.Quote{
		Symbol:        symbol,
		Price:         r.Price,
		Change:        r.Change,
		ChangePercent: parsePercent(r.ChangesPercentage),
		Volume:        r.Volume,
		Open:          r.Open,
		High:          r.DayHigh,
		Low:           r.DayLow,
		PreviousClose: r.PreviousClose,
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

// parsePercent accepts 1.25, "1.25", "1.25%" and "(1.25%)" and returns
// percent points. Anything unparseable defaults to zero.
func parsePercent(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "()")
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// rawIncome is one /v3/income-statement period. Margin ratios arrive as
// 0-1 fractions and are converted to percent points.
type rawIncome struct {
	Date                  string  `json:"date"`
	Period                string  `json:"period"`
	CalendarYear          string  `json:"calendarYear"`
	Revenue               float64 `json:"revenue"`
	NetIncome             float64 `json:"netIncome"`
	EPS                   float64 `json:"eps"`
	GrossProfitRatio      float64 `json:"grossProfitRatio"`
	OperatingIncomeRatio  float64 `json:"operatingIncomeRatio"`
	NetIncomeRatio        float64 `json:"netIncomeRatio"`
}

func (c *Client) Financials(ctx context.Context, symbol string, period provider.Period) ([]record.FinancialPeriod, error) {
	p := "annual"
	if period == provider.PeriodQuarterly {
		p = "quarter"
	}
	u := fmt.Sprintf("%s/v3/income-statement/%s?period=%s&limit=12", c.baseURL, url.PathEscape(symbol), p)
	var raw []rawIncome
	if err := c.http.GetJSON(ctx, c.name, "financials", u, &raw); err != nil {
		return nil, err
	}
	return normalizeFinancials(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeFinancials(symbol string, raw []rawIncome, name string, fetched time.Time) []record.FinancialPeriod {
	out := make([]record.FinancialPeriod, 0, len(raw))
	for _, r := range raw {
		year, _ := strconv.Atoi(r.CalendarYear)
		p := strings.ToUpper(strings.TrimSpace(r.Period))
		if p == "" || p == "FY" {
			p = "annual"
		}
		end, _ := time.Parse("2006-01-02", r.Date)
		out = append(out, record.FinancialPeriod{
			Symbol:          symbol,
			Period:          p,
			FiscalYear:      year,
			EndDate:         end,
			Revenue:         r.Revenue,
			NetIncome:       r.NetIncome,
			EPS:             r.EPS,
			GrossMargin:     r.GrossProfitRatio * 100,
			OperatingMargin: r.OperatingIncomeRatio * 100,
			NetMargin:       r.NetIncomeRatio * 100,
			Provider:        name,
			FetchedAt:       fetched,
		})
	}
	return out
}

// rawHistory is the /v3/historical-price-full envelope.
type rawHistory struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	} `json:"historical"`
}

// HistoricalPrices serves daily bars only; the endpoint has no weekly or
// monthly resolution, so those intervals are structurally unsupported.
func (c *Client) HistoricalPrices(ctx context.Context, symbol string, interval provider.Interval, size int) (record.PriceSeries, error) {
	if interval != provider.IntervalDaily {
		return record.PriceSeries{}, provider.ErrUnsupported
	}
	if size <= 0 {
		size = 100
	}
	u := fmt.Sprintf("%s/v3/historical-price-full/%s?timeseries=%d", c.baseURL, url.PathEscape(symbol), size)
	var raw rawHistory
	if err := c.http.GetJSON(ctx, c.name, "historical", u, &raw); err != nil {
		return record.PriceSeries{}, err
	}
	return normalizeHistory(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeHistory(symbol string, raw rawHistory, name string, fetched time.Time) record.PriceSeries {
	s := record.PriceSeries{
		Symbol:    symbol,
		Interval:  string(provider.IntervalDaily),
		Points:    make([]record.PricePoint, 0, len(raw.Historical)),
		Provider:  name,
		FetchedAt: fetched,
	}
	// FMP returns newest-first; canonical order is oldest-first.
	for i := len(raw.Historical) - 1; i >= 0; i-- {
		h := raw.Historical[i]
		d, _ := time.Parse("2006-01-02", h.Date)
		s.Points = append(s.Points, record.PricePoint{
			Date: d, Open: h.Open, High: h.High, Low: h.Low, Close: h.Close, Volume: h.Volume,
		})
	}
	return s
}
