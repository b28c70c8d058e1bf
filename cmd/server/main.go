// Command server exposes the aggregation service as a JSON HTTP API.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
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
	"findata/internal/ratelimit"
)

func main() {
	_ = godotenv.Load()
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.FMP.Enabled && cfg.FMP.APIKey == "" {
		log.Warn().Msg("fmp enabled but FMP_API_KEY not set")
	}
	if cfg.Finnhub.Enabled && cfg.Finnhub.APIKey == "" {
		log.Warn().Msg("finnhub enabled but FINNHUB_API_KEY not set")
	}

	svc, err := aggregate.New(buildProviders(cfg),
		aggregate.WithLogger(log),
		aggregate.WithCallTimeout(time.Duration(cfg.Server.CallTimeoutSec)*time.Second),
	)
	if err != nil {
		// A capability without providers is a deployment mistake, not
		// something to limp along with.
		log.Fatal().Err(err).Msg("startup validation")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	registerAPI(mux, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(recoverPanic(mux, log)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.RequestTimeoutSec+5) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// buildProviders constructs every enabled client and assembles the
// per-capability chains in configured priority order. A priority entry
// naming a disabled provider, or one that lacks the capability, is
// skipped.
func buildProviders(cfg config.Config) aggregate.Providers {
	market := map[string]provider.MarketData{}
	news := map[string]provider.News{}
	filings := map[string]provider.Filings{}
	ratings := map[string]provider.Ratings{}
	esg := map[string]provider.ESG{}
	ownership := map[string]provider.Ownership{}

	if cfg.FMP.Enabled {
		var opts []fmp.Option
		if cfg.FMP.MaxRequestsPerMinute > 0 {
			opts = append(opts, fmp.WithRateLimit(ratelimit.PerMinute(cfg.FMP.MaxRequestsPerMinute, cfg.FMP.Burst)))
		}
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
		if cfg.Finnhub.MaxRequestsPerMinute > 0 {
			opts = append(opts, finnhub.WithRateLimit(ratelimit.PerMinute(cfg.Finnhub.MaxRequestsPerMinute, cfg.Finnhub.Burst)))
		}
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
		if cfg.Edgar.MaxRequestsPerMinute > 0 {
			opts = append(opts, edgar.WithRateLimit(ratelimit.PerMinute(cfg.Edgar.MaxRequestsPerMinute, cfg.Edgar.Burst)))
		}
		if cfg.Edgar.DataBaseURL != "" && cfg.Edgar.ArchiveBaseURL != "" {
			opts = append(opts, edgar.WithBaseURLs(cfg.Edgar.DataBaseURL, cfg.Edgar.ArchiveBaseURL))
		}
		c := edgar.New(cfg.Edgar.UserAgent, opts...)
		filings[c.Name()] = c
	}
	if cfg.Yahoo.Enabled {
		var opts []yahoo.Option
		if cfg.Yahoo.MaxRequestsPerMinute > 0 {
			opts = append(opts, yahoo.WithRateLimit(ratelimit.PerMinute(cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst)))
		}
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

func registerAPI(mux *http.ServeMux, svc *aggregate.Service) {
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		if term == "" {
			http.Error(w, "missing q query param", http.StatusBadRequest)
			return
		}
		writeJSON(w, svc.Search(r.Context(), term))
	})
	mux.HandleFunc("/api/quote", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.Quote(r.Context(), symbol))
	}))
	mux.HandleFunc("/api/profile", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.Profile(r.Context(), symbol))
	}))
	mux.HandleFunc("/api/financials", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		period := provider.PeriodAnnual
		if r.URL.Query().Get("period") == "quarterly" {
			period = provider.PeriodQuarterly
		}
		writeJSON(w, svc.Financials(r.Context(), symbol, period))
	}))
	mux.HandleFunc("/api/history", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		interval := provider.IntervalDaily
		switch r.URL.Query().Get("interval") {
		case "weekly":
			interval = provider.IntervalWeekly
		case "monthly":
			interval = provider.IntervalMonthly
		}
		writeJSON(w, svc.HistoricalPrices(r.Context(), symbol, interval, intParam(r, "size", 100)))
	}))
	mux.HandleFunc("/api/news", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.CompanyNews(r.Context(), symbol, intParam(r, "limit", 20)))
	}))
	mux.HandleFunc("/api/filings", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.Filings(r.Context(), symbol, r.URL.Query().Get("form"), intParam(r, "limit", 20)))
	}))
	mux.HandleFunc("/api/ratings", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.AnalystRatings(r.Context(), symbol))
	}))
	mux.HandleFunc("/api/consensus", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.RatingConsensus(r.Context(), symbol))
	}))
	mux.HandleFunc("/api/esg", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.EsgScore(r.Context(), symbol))
	}))
	mux.HandleFunc("/api/insider", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.InsiderTransactions(r.Context(), symbol, intParam(r, "limit", 50)))
	}))
	mux.HandleFunc("/api/institutional", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.InstitutionalHolders(r.Context(), symbol))
	}))
	mux.HandleFunc("/api/executives", withSymbol(func(w http.ResponseWriter, r *http.Request, symbol string) {
		writeJSON(w, svc.Executives(r.Context(), symbol))
	}))
}

func withSymbol(h func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
		if symbol == "" {
			http.Error(w, "missing symbol query param", http.StatusBadRequest)
			return
		}
		h(w, r, symbol)
	}
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func recoverPanic(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
