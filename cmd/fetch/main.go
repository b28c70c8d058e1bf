// Command fetch runs one aggregator operation from the command line and
// prints the canonical JSON result. Useful for poking at providers
// without standing up the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"findata/internal/aggregate"
	"findata/internal/config"
	"findata/internal/provider"
	"findata/internal/provider/edgar"
	"findata/internal/provider/finnhub"
	"findata/internal/provider/fmp"
	"findata/internal/provider/yahoo"
)

func main() {
	var (
		op         string
		symbol     string
		term       string
		period     string
		interval   string
		form       string
		limit      int
		timeout    int
		configPath string
		verbose    bool
	)
	flag.StringVar(&op, "op", "quote", "operation: search|quote|profile|financials|history|news|filings|ratings|consensus|esg|insider|institutional|executives")
	flag.StringVar(&symbol, "symbol", "AAPL", "ticker symbol")
	flag.StringVar(&term, "q", "", "search term (op=search)")
	flag.StringVar(&period, "period", "annual", "annual|quarterly (op=financials)")
	flag.StringVar(&interval, "interval", "daily", "daily|weekly|monthly (op=history)")
	flag.StringVar(&form, "form", "", "form type filter, e.g. 10-K (op=filings)")
	flag.IntVar(&limit, "limit", 20, "result limit where the operation takes one")
	flag.IntVar(&timeout, "timeout", 30, "overall timeout seconds")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.BoolVar(&verbose, "v", false, "log provider fallback decisions")
	flag.Parse()

	_ = godotenv.Load()
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if !verbose {
		log = log.Level(zerolog.WarnLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	svc, err := aggregate.New(buildProviders(cfg),
		aggregate.WithLogger(log),
		aggregate.WithCallTimeout(time.Duration(cfg.Server.CallTimeoutSec)*time.Second),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("startup validation")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	var out any
	switch op {
	case "search":
		if term == "" {
			term = symbol
		}
		out = svc.Search(ctx, term)
	case "quote":
		out = svc.Quote(ctx, symbol)
	case "profile":
		out = svc.Profile(ctx, symbol)
	case "financials":
		p := provider.PeriodAnnual
		if period == "quarterly" {
			p = provider.PeriodQuarterly
		}
		out = svc.Financials(ctx, symbol, p)
	case "history":
		iv := provider.IntervalDaily
		switch interval {
		case "weekly":
			iv = provider.IntervalWeekly
		case "monthly":
			iv = provider.IntervalMonthly
		}
		out = svc.HistoricalPrices(ctx, symbol, iv, limit)
	case "news":
		out = svc.CompanyNews(ctx, symbol, limit)
	case "filings":
		out = svc.Filings(ctx, symbol, form, limit)
	case "ratings":
		out = svc.AnalystRatings(ctx, symbol)
	case "consensus":
		out = svc.RatingConsensus(ctx, symbol)
	case "esg":
		out = svc.EsgScore(ctx, symbol)
	case "insider":
		out = svc.InsiderTransactions(ctx, symbol, limit)
	case "institutional":
		out = svc.InstitutionalHolders(ctx, symbol)
	case "executives":
		out = svc.Executives(ctx, symbol)
	default:
		log.Fatal().Str("op", op).Msg("unknown operation")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildProviders mirrors the server wiring: enabled clients keyed by
// name, assembled per capability in configured priority order.
func buildProviders(cfg config.Config) aggregate.Providers {
	market := map[string]provider.MarketData{}
	news := map[string]provider.News{}
	filings := map[string]provider.Filings{}
	ratings := map[string]provider.Ratings{}
	esg := map[string]provider.ESG{}
	ownership := map[string]provider.Ownership{}

	if cfg.FMP.Enabled {
		var opts []fmp.Option
		if cfg.FMP.BaseURL != "" {
			opts = append(opts, fmp.WithBaseURL(cfg.FMP.BaseURL))
		}
		c := fmp.New(cfg.FMP.APIKey, opts...)
		market[c.Name()] = c
		news[c.Name()] = c
		ratings[c.Name()] = c
		esg[c.Name()] = c
		ownership[c.Name()] = c
	}
	if cfg.Finnhub.Enabled {
		var opts []finnhub.Option
		if cfg.Finnhub.BaseURL != "" {
			opts = append(opts, finnhub.WithBaseURL(cfg.Finnhub.BaseURL))
		}
		c := finnhub.New(cfg.Finnhub.APIKey, opts...)
		market[c.Name()] = c
		news[c.Name()] = c
		ratings[c.Name()] = c
	}
	if cfg.Edgar.Enabled {
		var opts []edgar.Option
		if cfg.Edgar.DataBaseURL != "" && cfg.Edgar.ArchiveBaseURL != "" {
			opts = append(opts, edgar.WithBaseURLs(cfg.Edgar.DataBaseURL, cfg.Edgar.ArchiveBaseURL))
		}
		c := edgar.New(cfg.Edgar.UserAgent, opts...)
		filings[c.Name()] = c
	}
	if cfg.Yahoo.Enabled {
		var opts []yahoo.Option
		if cfg.Yahoo.BaseURL != "" {
			opts = append(opts, yahoo.WithBaseURL(cfg.Yahoo.BaseURL))
		}
		c := yahoo.New(opts...)
		market[c.Name()] = c
	}

	var p aggregate.Providers
	for _, name := range cfg.Priority.Market {
		if c, ok := market[name]; ok {
			p.Market = append(p.Market, c)
		}
	}
	for _, name := range cfg.Priority.News {
		if c, ok := news[name]; ok {
			p.News = append(p.News, c)
		}
	}
	for _, name := range cfg.Priority.Filings {
		if c, ok := filings[name]; ok {
			p.Filings = append(p.Filings, c)
		}
	}
	for _, name := range cfg.Priority.Ratings {
		if c, ok := ratings[name]; ok {
			p.Ratings = append(p.Ratings, c)
		}
	}
	for _, name := range cfg.Priority.Esg {
		if c, ok := esg[name]; ok {
			p.ESG = append(p.ESG, c)
		}
	}
	for _, name := range cfg.Priority.Ownership {
		if c, ok := ownership[name]; ok {
			p.Ownership = append(p.Ownership, c)
		}
	}
	return p
}
