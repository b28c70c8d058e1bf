// Package record defines the canonical, provider-independent data shapes
// produced by the normalizer adapters. Records are value objects: a new
// fetch always produces a new record, nothing is mutated in place.
//
// Percentage convention: every percentage field holds percent points
// (2.5 means 2.5%), never a 0-1 fraction. Adapters convert on the way in.
package record

import "time"

// Quote is a normalized market quote. A Quote with Price == 0 is treated
// as invalid, not as a free security.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previous_close"`
	Timestamp     time.Time `json:"timestamp"`
	Provider      string    `json:"provider"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Valid reports whether the quote is usable for fallback purposes.
func (q Quote) Valid() bool { return q.Price > 0 }

// CompanyProfile is normalized company master data.
type CompanyProfile struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Sector      string    `json:"sector"`
	Industry    string    `json:"industry"`
	Website     string    `json:"website"`
	Country     string    `json:"country"`
	Employees   int64     `json:"employees"`
	MarketCap   float64   `json:"market_cap"`
	PERatio     float64   `json:"pe_ratio"`
	PriceToBook float64   `json:"price_to_book"`
	Provider    string    `json:"provider"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Valid requires a non-empty company name.
func (p CompanyProfile) Valid() bool { return p.Name != "" }

// SymbolMatch is a single search hit.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// FinancialPeriod is one reported fiscal period. Periods are keyed by
// (Period, FiscalYear) so a re-fetch upserts rather than duplicates.
type FinancialPeriod struct {
	Symbol          string    `json:"symbol"`
	Period          string    `json:"period"` // "annual" or "Q1".."Q4"
	FiscalYear      int       `json:"fiscal_year"`
	EndDate         time.Time `json:"end_date"`
	Revenue         float64   `json:"revenue"`
	NetIncome       float64   `json:"net_income"`
	EPS             float64   `json:"eps"`
	GrossMargin     float64   `json:"gross_margin"`     // percent points
	OperatingMargin float64   `json:"operating_margin"` // percent points
	NetMargin       float64   `json:"net_margin"`       // percent points
	Provider        string    `json:"provider"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// PricePoint is a single historical OHLCV bar.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered run of historical bars, oldest first.
type PriceSeries struct {
	Symbol    string       `json:"symbol"`
	Interval  string       `json:"interval"`
	Points    []PricePoint `json:"points"`
	Provider  string       `json:"provider"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// NewsArticle is a normalized news item scoped to a symbol.
type NewsArticle struct {
	Symbol      string    `json:"symbol"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Provider    string    `json:"provider"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// SecFiling is one regulatory filing. AccessionNumber is the natural key
// for idempotent import. Sections is populated only after extraction.
type SecFiling struct {
	Symbol          string            `json:"symbol"`
	CIK             string            `json:"cik"`
	FormType        string            `json:"form_type"`
	FilingDate      time.Time         `json:"filing_date"`
	ReportDate      time.Time         `json:"report_date"`
	AccessionNumber string            `json:"accession_number"`
	PrimaryDocument string            `json:"primary_document"`
	DocumentURL     string            `json:"document_url"`
	Sections        map[string]string `json:"sections,omitempty"`
	Summary         string            `json:"summary,omitempty"`
	Provider        string            `json:"provider"`
	FetchedAt       time.Time         `json:"fetched_at"`
}

// InsiderTransaction is one reported insider trade. Complete distinguishes
// "all numeric fields present" from zero-defaulted gaps in the source.
type InsiderTransaction struct {
	Symbol          string    `json:"symbol"`
	InsiderName     string    `json:"insider_name"`
	InsiderTitle    string    `json:"insider_title"`
	TransactionType string    `json:"transaction_type"`
	Shares          float64   `json:"shares"`
	Price           float64   `json:"price"`
	Date            time.Time `json:"date"`
	Complete        bool      `json:"complete"`
	Provider        string    `json:"provider"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// InstitutionalHolding is one 13F-style position, keyed by symbol+Institution.
type InstitutionalHolding struct {
	Symbol      string    `json:"symbol"`
	Institution string    `json:"institution"`
	Shares      float64   `json:"shares"`
	Value       float64   `json:"value"`
	Change      float64   `json:"change"`
	ReportDate  time.Time `json:"report_date"`
	Complete    bool      `json:"complete"`
	Provider    string    `json:"provider"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Executive is one officer/director from company master data.
type Executive struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Pay       float64   `json:"pay"`
	YearBorn  int       `json:"year_born"`
	Provider  string    `json:"provider"`
	FetchedAt time.Time `json:"fetched_at"`
}

// AnalystRating is a single firm's rating with an optional price target
// (0 means no target published).
type AnalystRating struct {
	Symbol      string    `json:"symbol"`
	Firm        string    `json:"firm"`
	Rating      string    `json:"rating"`
	PriceTarget float64   `json:"price_target"`
	Date        time.Time `json:"date"`
	Provider    string    `json:"provider"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// RatingConsensus is derived from a set of individual ratings.
// Buy+Hold+Sell always equals the number of ratings that were classified;
// unclassifiable labels are dropped, never counted.
type RatingConsensus struct {
	Symbol        string    `json:"symbol"`
	Buy           int       `json:"buy"`
	Hold          int       `json:"hold"`
	Sell          int       `json:"sell"`
	AverageTarget float64   `json:"average_target"`
	MedianTarget  float64   `json:"median_target"`
	HighTarget    float64   `json:"high_target"`
	LowTarget     float64   `json:"low_target"`
	Provider      string    `json:"provider"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Valid requires at least one classified rating.
func (c RatingConsensus) Valid() bool { return c.Buy+c.Hold+c.Sell > 0 }

// EsgScore is a normalized ESG rating snapshot.
type EsgScore struct {
	Symbol        string    `json:"symbol"`
	Environmental float64   `json:"environmental"`
	Social        float64   `json:"social"`
	Governance    float64   `json:"governance"`
	Total         float64   `json:"total"`
	Date          time.Time `json:"date"`
	Complete      bool      `json:"complete"`
	Provider      string    `json:"provider"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Valid requires a positive total score.
func (e EsgScore) Valid() bool { return e.Total > 0 }
