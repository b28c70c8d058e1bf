// Package providertest holds scriptable provider fakes and an explicit
// fault-injection wrapper for exercising fallback behavior. It is test
// support only: nothing in the production wiring constructs these, and
// failure injection never happens unless a test asks for it.
package providertest

import (
	"context"
	"sync"

	"findata/internal/provider"
	"findata/internal/record"
)

// Market is a scriptable MarketData fake. Any hook left nil reports
// ErrUnsupported, mirroring a provider that lacks the operation. Every
// invocation is counted per operation.
type Market struct {
	ProviderName string

	SearchFunc     func(ctx context.Context, term string) ([]record.SymbolMatch, error)
	ProfileFunc    func(ctx context.Context, symbol string) (record.CompanyProfile, error)
	QuoteFunc      func(ctx context.Context, symbol string) (record.Quote, error)
	FinancialsFunc func(ctx context.Context, symbol string, period provider.Period) ([]record.FinancialPeriod, error)
	HistoricalFunc func(ctx context.Context, symbol string, interval provider.Interval, size int) (record.PriceSeries, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *Market) Name() string { return m.ProviderName }

// Calls reports how many times an operation ran.
func (m *Market) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *Market) count(op string) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
	m.mu.Unlock()
}

func (m *Market) Search(ctx context.Context, term string) ([]record.SymbolMatch, error) {
	m.count("search")
	if m.SearchFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return m.SearchFunc(ctx, term)
}

func (m *Market) Profile(ctx context.Context, symbol string) (record.CompanyProfile, error) {
	m.count("profile")
	if m.ProfileFunc == nil {
		return record.CompanyProfile{}, provider.ErrUnsupported
	}
	return m.ProfileFunc(ctx, symbol)
}

func (m *Market) Quote(ctx context.Context, symbol string) (record.Quote, error) {
	m.count("quote")
	if m.QuoteFunc == nil {
		return record.Quote{}, provider.ErrUnsupported
	}
	return m.QuoteFunc(ctx, symbol)
}

func (m *Market) Financials(ctx context.Context, symbol string, period provider.Period) ([]record.FinancialPeriod, error) {
	m.count("financials")
	if m.FinancialsFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return m.FinancialsFunc(ctx, symbol, period)
}

func (m *Market) HistoricalPrices(ctx context.Context, symbol string, interval provider.Interval, size int) (record.PriceSeries, error) {
	m.count("historical")
	if m.HistoricalFunc == nil {
		return record.PriceSeries{}, provider.ErrUnsupported
	}
	return m.HistoricalFunc(ctx, symbol, interval, size)
}

// Ratings is a scriptable Ratings fake.
type Ratings struct {
	ProviderName string
	RatingsFunc  func(ctx context.Context, symbol string) ([]record.AnalystRating, error)

	mu    sync.Mutex
	calls int
}

func (r *Ratings) Name() string { return r.ProviderName }

func (r *Ratings) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *Ratings) AnalystRatings(ctx context.Context, symbol string) ([]record.AnalystRating, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.RatingsFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return r.RatingsFunc(ctx, symbol)
}

// News is a scriptable News fake.
type News struct {
	ProviderName string
	NewsFunc     func(ctx context.Context, symbol string, limit int) ([]record.NewsArticle, error)
}

func (n *News) Name() string { return n.ProviderName }

func (n *News) CompanyNews(ctx context.Context, symbol string, limit int) ([]record.NewsArticle, error) {
	if n.NewsFunc == nil {
		return nil, provider.ErrUnsupported
	}
	return n.NewsFunc(ctx, symbol, limit)
}

// FaultyMarket wraps a MarketData and fails every Nth call with a
// transient error. Fault injection is opt-in for tests that exercise
// degraded-provider messaging; it has no production counterpart.
type FaultyMarket struct {
	provider.MarketData
	FailEvery int

	mu sync.Mutex
	n  int
}

func (f *FaultyMarket) shouldFail() bool {
	if f.FailEvery <= 0 {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return f.n%f.FailEvery == 0
}

func (f *FaultyMarket) Quote(ctx context.Context, symbol string) (record.Quote, error) {
	if f.shouldFail() {
		return record.Quote{}, provider.Transient(f.Name(), "quote", context.DeadlineExceeded)
	}
	return f.MarketData.Quote(ctx, symbol)
}

func (f *FaultyMarket) Profile(ctx context.Context, symbol string) (record.CompanyProfile, error) {
	if f.shouldFail() {
		return record.CompanyProfile{}, provider.Transient(f.Name(), "profile", context.DeadlineExceeded)
	}
	return f.MarketData.Profile(ctx, symbol)
}
