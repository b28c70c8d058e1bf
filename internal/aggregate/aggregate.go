// Package aggregate is the provider-fallback orchestration engine. For
// every operation it walks a fixed, priority-ordered provider list,
// returns the first result that passes the operation's validity
// predicate, and degrades to a documented empty default when the list is
// exhausted. Results - empty defaults included - are memoized in the
// cache layer under per-operation TTLs.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"findata/internal/cache"
	"findata/internal/provider"
	"findata/internal/record"
)

// Providers holds the priority-ordered provider chains per capability.
// Order is a configuration-time decision reflecting cost and reliability;
// the walk never reorders or parallelizes it.
type Providers struct {
	Market    []provider.MarketData
	News      []provider.News
	Filings   []provider.Filings
	Ratings   []provider.Ratings
	ESG       []provider.ESG
	Ownership []provider.Ownership
}

// Service is the single always-answering facade over all providers.
type Service struct {
	p           Providers
	cache       *cache.Cache
	log         zerolog.Logger
	callTimeout time.Duration

	mu       sync.Mutex
	disabled map[string]struct{} // providers condemned by a ConfigError
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithCache(c *cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithCallTimeout bounds each individual provider call.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) { s.callTimeout = d }
}

// New validates the configuration and builds the service. A capability
// with zero providers is a startup misconfiguration - the only error
// this package ever surfaces.
func New(p Providers, options ...Option) (*Service, error) {
	var missing []string
	if len(p.Market) == 0 {
		missing = append(missing, "market")
	}
	if len(p.News) == 0 {
		missing = append(missing, "news")
	}
	if len(p.Filings) == 0 {
		missing = append(missing, "filings")
	}
	if len(p.Ratings) == 0 {
		missing = append(missing, "ratings")
	}
	if len(p.ESG) == 0 {
		missing = append(missing, "esg")
	}
	if len(p.Ownership) == 0 {
		missing = append(missing, "ownership")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no providers configured for capabilities: %s", strings.Join(missing, ", "))
	}

	s := &Service{
		p:           p,
		cache:       cache.New(),
		log:         zerolog.Nop(),
		callTimeout: 10 * time.Second,
		disabled:    make(map[string]struct{}),
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

func (s *Service) isDisabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.disabled[name]
	return ok
}

func (s *Service) disable(name string) {
	s.mu.Lock()
	s.disabled[name] = struct{}{}
	s.mu.Unlock()
}

type named interface{ Name() string }

// first walks the provider chain in priority order and returns the first
// valid result, or empty when every provider fails, is unsupported, or
// answers with something the validity predicate rejects.
func first[P named, T any](ctx context.Context, s *Service, op string, providers []P, call func(context.Context, P) (T, error), valid func(T) bool, empty T) T {
	for _, p := range providers {
		if s.isDisabled(p.Name()) {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
		v, err := call(cctx, p)
		cancel()
		if err != nil {
			switch {
			case provider.IsUnsupported(err):
				s.log.Debug().Str("provider", p.Name()).Str("op", op).Msg("operation not supported")
			case provider.IsConfig(err):
				s.log.Error().Err(err).Str("provider", p.Name()).Str("op", op).Msg("provider disabled for this run")
				s.disable(p.Name())
			default:
				s.log.Warn().Err(err).Str("provider", p.Name()).Str("op", op).Msg("provider call failed, trying next")
			}
			continue
		}
		if !valid(v) {
			s.log.Debug().Str("provider", p.Name()).Str("op", op).Msg("result failed validity check, trying next")
			continue
		}
		return v
	}
	return empty
}

// cached memoizes a fallback walk under the operation key. The walk
// itself never errors, so neither does this.
func cached[T any](ctx context.Context, s *Service, key string, ttl time.Duration, walk func(ctx context.Context) T) T {
	v, _ := cache.Cached(ctx, s.cache, key, ttl, func(ctx context.Context) (T, error) {
		return walk(ctx), nil
	})
	return v
}

func nonEmpty[E any](v []E) bool { return len(v) > 0 }

// Search finds symbols matching a free-text term.
func (s *Service) Search(ctx context.Context, term string) []record.SymbolMatch {
	return cached(ctx, s, cache.Key("search", term), cache.TTLSearch, func(ctx context.Context) []record.SymbolMatch {
		return first(ctx, s, "search", s.p.Market, func(ctx context.Context, p provider.MarketData) ([]record.SymbolMatch, error) {
			return p.Search(ctx, term)
		}, nonEmpty, []record.SymbolMatch{})
	})
}

// Quote returns the current quote, or a zero-price empty quote when no
// provider has usable data.
func (s *Service) Quote(ctx context.Context, symbol string) record.Quote {
	return cached(ctx, s, cache.Key("quote", symbol), cache.TTLQuote, func(ctx context.Context) record.Quote {
		return first(ctx, s, "quote", s.p.Market, func(ctx context.Context, p provider.MarketData) (record.Quote, error) {
			return p.Quote(ctx, symbol)
		}, record.Quote.Valid, record.Quote{Symbol: symbol})
	})
}

// Profile returns company master data, or an empty profile.
func (s *Service) Profile(ctx context.Context, symbol string) record.CompanyProfile {
	return cached(ctx, s, cache.Key("profile", symbol), cache.TTLProfile, func(ctx context.Context) record.CompanyProfile {
		return first(ctx, s, "profile", s.p.Market, func(ctx context.Context, p provider.MarketData) (record.CompanyProfile, error) {
			return p.Profile(ctx, symbol)
		}, record.CompanyProfile.Valid, record.CompanyProfile{Symbol: symbol})
	})
}

// Financials returns reported fiscal periods, newest first.
func (s *Service) Financials(ctx context.Context, symbol string, period provider.Period) []record.FinancialPeriod {
	key := cache.Key("financials", symbol, string(period))
	return cached(ctx, s, key, cache.TTLFinancials, func(ctx context.Context) []record.FinancialPeriod {
		return first(ctx, s, "financials", s.p.Market, func(ctx context.Context, p provider.MarketData) ([]record.FinancialPeriod, error) {
			return p.Financials(ctx, symbol, period)
		}, nonEmpty, []record.FinancialPeriod{})
	})
}

func historyTTL(interval provider.Interval) time.Duration {
	switch interval {
	case provider.IntervalWeekly:
		return cache.TTLHistoryWeekly
	case provider.IntervalMonthly:
		return cache.TTLHistoryMonth
	default:
		return cache.TTLHistoryDaily
	}
}

// HistoricalPrices returns an OHLCV series, oldest first.
func (s *Service) HistoricalPrices(ctx context.Context, symbol string, interval provider.Interval, size int) record.PriceSeries {
	key := cache.Key("historical", symbol, string(interval), fmt.Sprintf("%d", size))
	return cached(ctx, s, key, historyTTL(interval), func(ctx context.Context) record.PriceSeries {
		return first(ctx, s, "historical", s.p.Market, func(ctx context.Context, p provider.MarketData) (record.PriceSeries, error) {
			return p.HistoricalPrices(ctx, symbol, interval, size)
		}, func(ps record.PriceSeries) bool { return len(ps.Points) > 0 }, record.PriceSeries{Symbol: symbol, Interval: string(interval)})
	})
}

// CompanyNews returns recent articles for a symbol.
func (s *Service) CompanyNews(ctx context.Context, symbol string, limit int) []record.NewsArticle {
	key := cache.Key("news", symbol, fmt.Sprintf("%d", limit))
	return cached(ctx, s, key, cache.TTLNews, func(ctx context.Context) []record.NewsArticle {
		return first(ctx, s, "news", s.p.News, func(ctx context.Context, p provider.News) ([]record.NewsArticle, error) {
			return p.CompanyNews(ctx, symbol, limit)
		}, nonEmpty, []record.NewsArticle{})
	})
}

// Filings lists regulatory filings, optionally filtered by form type.
func (s *Service) Filings(ctx context.Context, symbol, formType string, limit int) []record.SecFiling {
	key := cache.Key("filings", symbol, formType, fmt.Sprintf("%d", limit))
	return cached(ctx, s, key, cache.TTLFilings, func(ctx context.Context) []record.SecFiling {
		return first(ctx, s, "filings", s.p.Filings, func(ctx context.Context, p provider.Filings) ([]record.SecFiling, error) {
			return p.Filings(ctx, symbol, formType, limit)
		}, nonEmpty, []record.SecFiling{})
	})
}

// FilingDocument downloads a filing's primary document. Unlike the read
// operations this surfaces an error: the filing workflow needs to know a
// download failed rather than process an empty document.
func (s *Service) FilingDocument(ctx context.Context, filing record.SecFiling) ([]byte, error) {
	var lastErr error
	for _, p := range s.p.Filings {
		if s.isDisabled(p.Name()) {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
		body, err := p.FilingDocument(cctx, filing)
		cancel()
		if err != nil {
			if provider.IsConfig(err) {
				s.disable(p.Name())
			}
			if !provider.IsUnsupported(err) {
				lastErr = err
				s.log.Warn().Err(err).Str("provider", p.Name()).Str("accession", filing.AccessionNumber).Msg("document download failed")
			}
			continue
		}
		if len(body) > 0 {
			return body, nil
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no provider could serve the document")
	}
	return nil, fmt.Errorf("filing %s: %w", filing.AccessionNumber, lastErr)
}

// AnalystRatings returns individual ratings for a symbol.
func (s *Service) AnalystRatings(ctx context.Context, symbol string) []record.AnalystRating {
	return cached(ctx, s, cache.Key("ratings", symbol), cache.TTLRatings, func(ctx context.Context) []record.AnalystRating {
		return first(ctx, s, "ratings", s.p.Ratings, func(ctx context.Context, p provider.Ratings) ([]record.AnalystRating, error) {
			return p.AnalystRatings(ctx, symbol)
		}, nonEmpty, []record.AnalystRating{})
	})
}

// RatingConsensus derives the consensus from the (cached) ratings walk.
func (s *Service) RatingConsensus(ctx context.Context, symbol string) record.RatingConsensus {
	ratings := s.AnalystRatings(ctx, symbol)
	c := record.BuildConsensus(symbol, ratings)
	if len(ratings) > 0 {
		c.Provider = ratings[0].Provider
		c.FetchedAt = ratings[0].FetchedAt
	}
	return c
}

// EsgScore returns the ESG snapshot, or an empty score.
func (s *Service) EsgScore(ctx context.Context, symbol string) record.EsgScore {
	return cached(ctx, s, cache.Key("esg", symbol), cache.TTLEsg, func(ctx context.Context) record.EsgScore {
		return first(ctx, s, "esg", s.p.ESG, func(ctx context.Context, p provider.ESG) (record.EsgScore, error) {
			return p.EsgScore(ctx, symbol)
		}, record.EsgScore.Valid, record.EsgScore{Symbol: symbol})
	})
}

// InsiderTransactions returns recent insider trades.
func (s *Service) InsiderTransactions(ctx context.Context, symbol string, limit int) []record.InsiderTransaction {
	key := cache.Key("insider", symbol, fmt.Sprintf("%d", limit))
	return cached(ctx, s, key, cache.TTLInsider, func(ctx context.Context) []record.InsiderTransaction {
		return first(ctx, s, "insider", s.p.Ownership, func(ctx context.Context, p provider.Ownership) ([]record.InsiderTransaction, error) {
			return p.InsiderTransactions(ctx, symbol, limit)
		}, nonEmpty, []record.InsiderTransaction{})
	})
}

// InstitutionalHolders returns 13F-style positions.
func (s *Service) InstitutionalHolders(ctx context.Context, symbol string) []record.InstitutionalHolding {
	return cached(ctx, s, cache.Key("institutional", symbol), cache.TTLInstitutional, func(ctx context.Context) []record.InstitutionalHolding {
		return first(ctx, s, "institutional", s.p.Ownership, func(ctx context.Context, p provider.Ownership) ([]record.InstitutionalHolding, error) {
			return p.InstitutionalHolders(ctx, symbol)
		}, nonEmpty, []record.InstitutionalHolding{})
	})
}

// Executives returns officers and directors.
func (s *Service) Executives(ctx context.Context, symbol string) []record.Executive {
	return cached(ctx, s, cache.Key("executives", symbol), cache.TTLExecutives, func(ctx context.Context) []record.Executive {
		return first(ctx, s, "executives", s.p.Ownership, func(ctx context.Context, p provider.Ownership) ([]record.Executive, error) {
			return p.Executives(ctx, symbol)
		}, nonEmpty, []record.Executive{})
	})
}
