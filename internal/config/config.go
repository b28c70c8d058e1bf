// Package config loads settings from an optional JSON file with
// environment-variable overrides for secrets and deploy-time knobs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
	CallTimeoutSec    int    `json:"call_timeout_sec"`
}

type FMP struct {
	Enabled              bool   `json:"enabled"`
	APIKey               string `json:"api_key"`
	BaseURL              string `json:"base_url"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
	Burst                int    `json:"burst"`
}

type Finnhub struct {
	Enabled              bool   `json:"enabled"`
	APIKey               string `json:"api_key"`
	BaseURL              string `json:"base_url"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
	Burst                int    `json:"burst"`
}

type Edgar struct {
	Enabled              bool   `json:"enabled"`
	UserAgent            string `json:"user_agent"`
	DataBaseURL          string `json:"data_base_url"`
	ArchiveBaseURL       string `json:"archive_base_url"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
	Burst                int    `json:"burst"`
}

type Yahoo struct {
	Enabled              bool   `json:"enabled"`
	BaseURL              string `json:"base_url"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute"`
	Burst                int    `json:"burst"`
}

// Priority orders provider names per capability. Order is the fallback
// order; names not matching an enabled provider are skipped at wiring.
type Priority struct {
	Market    []string `json:"market"`
	News      []string `json:"news"`
	Filings   []string `json:"filings"`
	Ratings   []string `json:"ratings"`
	Esg       []string `json:"esg"`
	Ownership []string `json:"ownership"`
}

type Config struct {
	Server   Server   `json:"server"`
	FMP      FMP      `json:"fmp"`
	Finnhub  Finnhub  `json:"finnhub"`
	Edgar    Edgar    `json:"edgar"`
	Yahoo    Yahoo    `json:"yahoo"`
	Priority Priority `json:"priority"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 15, CallTimeoutSec: 10},
		FMP: FMP{
			Enabled:              true,
			MaxRequestsPerMinute: 120,
			Burst:                4,
		},
		Finnhub: Finnhub{
			Enabled:              true,
			MaxRequestsPerMinute: 60,
			Burst:                2,
		},
		Edgar: Edgar{
			Enabled:              true,
			UserAgent:            "findata/1.0",
			MaxRequestsPerMinute: 600,
			Burst:                10,
		},
		Yahoo: Yahoo{
			Enabled:              true,
			MaxRequestsPerMinute: 120,
			Burst:                4,
		},
		Priority: Priority{
			Market:    []string{"FMP", "Finnhub", "Yahoo"},
			News:      []string{"FMP", "Finnhub"},
			Filings:   []string{"EDGAR"},
			Ratings:   []string{"FMP", "Finnhub"},
			Esg:       []string{"FMP"},
			Ownership: []string{"FMP"},
		},
	}
}

// Load reads JSON config from path. If path is empty or the file does
// not exist, it returns defaults. Environment variables override select
// fields so keys stay out of config files.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString("PORT", &cfg.Server.Port)
	setInt("REQUEST_TIMEOUT_SEC", &cfg.Server.RequestTimeoutSec)
	setInt("CALL_TIMEOUT_SEC", &cfg.Server.CallTimeoutSec)

	setBool("FMP_ENABLED", &cfg.FMP.Enabled)
	setString("FMP_API_KEY", &cfg.FMP.APIKey)
	setString("FMP_BASE_URL", &cfg.FMP.BaseURL)
	setInt("FMP_MAX_RPM", &cfg.FMP.MaxRequestsPerMinute)
	setInt("FMP_BURST", &cfg.FMP.Burst)

	setBool("FINNHUB_ENABLED", &cfg.Finnhub.Enabled)
	setString("FINNHUB_API_KEY", &cfg.Finnhub.APIKey)
	setString("FINNHUB_BASE_URL", &cfg.Finnhub.BaseURL)
	setInt("FINNHUB_MAX_RPM", &cfg.Finnhub.MaxRequestsPerMinute)
	setInt("FINNHUB_BURST", &cfg.Finnhub.Burst)

	setBool("EDGAR_ENABLED", &cfg.Edgar.Enabled)
	setString("EDGAR_USER_AGENT", &cfg.Edgar.UserAgent)
	setString("EDGAR_DATA_BASE_URL", &cfg.Edgar.DataBaseURL)
	setString("EDGAR_ARCHIVE_BASE_URL", &cfg.Edgar.ArchiveBaseURL)
	setInt("EDGAR_MAX_RPM", &cfg.Edgar.MaxRequestsPerMinute)
	setInt("EDGAR_BURST", &cfg.Edgar.Burst)

	setBool("YAHOO_ENABLED", &cfg.Yahoo.Enabled)
	setString("YAHOO_BASE_URL", &cfg.Yahoo.BaseURL)
	setInt("YAHOO_MAX_RPM", &cfg.Yahoo.MaxRequestsPerMinute)
	setInt("YAHOO_BURST", &cfg.Yahoo.Burst)

	setList("MARKET_PRIORITY", &cfg.Priority.Market)
	setList("NEWS_PRIORITY", &cfg.Priority.News)
	setList("FILINGS_PRIORITY", &cfg.Priority.Filings)
	setList("RATINGS_PRIORITY", &cfg.Priority.Ratings)
	setList("ESG_PRIORITY", &cfg.Priority.Esg)
	setList("OWNERSHIP_PRIORITY", &cfg.Priority.Ownership)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		var x int
		if _, err := fmt.Sscanf(v, "%d", &x); err == nil && x > 0 {
			*dst = x
		}
	}
}

func setBool(key string, dst *bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		*dst = true
	case "0", "false", "no", "n":
		*dst = false
	}
}

func setList(key string, dst *[]string) {
	if v := os.Getenv(key); v != "" {
		*dst = splitCSV(v)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
