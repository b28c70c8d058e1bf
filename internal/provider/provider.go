// Package provider defines the capability contracts a data source must
// satisfy and the error taxonomy the aggregator consumes. A provider
// implements only the capabilities its upstream actually offers; an
// operation it structurally cannot serve returns ErrUnsupported.
package provider

import (
	"context"

	"findata/internal/record"
)

// Interval selects a historical price resolution.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// Period selects annual vs quarterly financial statements.
type Period string

const (
	PeriodAnnual    Period = "annual"
	PeriodQuarterly Period = "quarterly"
)

// MarketData is the core market data capability.
type MarketData interface {
	Name() string
	Search(ctx context.Context, term string) ([]record.SymbolMatch, error)
	Profile(ctx context.Context, symbol string) (record.CompanyProfile, error)
	Quote(ctx context.Context, symbol string) (record.Quote, error)
	Financials(ctx context.Context, symbol string, period Period) ([]record.FinancialPeriod, error)
	HistoricalPrices(ctx context.Context, symbol string, interval Interval, size int) (record.PriceSeries, error)
}

// News serves symbol-scoped news articles, newest first.
type News interface {
	Name() string
	CompanyNews(ctx context.Context, symbol string, limit int) ([]record.NewsArticle, error)
}

// Filings serves regulatory filings and their raw documents.
type Filings interface {
	Name() string
	Filings(ctx context.Context, symbol, formType string, limit int) ([]record.SecFiling, error)
	// FilingDocument downloads the raw primary document for a filing.
	FilingDocument(ctx context.Context, filing record.SecFiling) ([]byte, error)
}

// Ratings serves analyst ratings with price targets.
type Ratings interface {
	Name() string
	AnalystRatings(ctx context.Context, symbol string) ([]record.AnalystRating, error)
}

// ESG serves ESG score snapshots.
type ESG interface {
	Name() string
	EsgScore(ctx context.Context, symbol string) (record.EsgScore, error)
}

// Ownership serves insider, institutional and executive data.
type Ownership interface {
	Name() string
	InsiderTransactions(ctx context.Context, symbol string, limit int) ([]record.InsiderTransaction, error)
	InstitutionalHolders(ctx context.Context, symbol string) ([]record.InstitutionalHolding, error)
	Executives(ctx context.Context, symbol string) ([]record.Executive, error)
}
