package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"findata/internal/aggregate"
	"findata/internal/config"
	"findata/internal/record"
)

// fakeUpstream answers just enough of the FMP and EDGAR surfaces to
// exercise the wiring end to end.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/quote/AAPL", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"symbol":"AAPL","price":175.23,"change":2.5,"changesPercentage":1.45,"volume":1000,"timestamp":1700000000}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(upstream string) config.Config {
	cfg := config.Default()
	cfg.FMP.APIKey = "test-key"
	cfg.FMP.BaseURL = upstream
	cfg.Finnhub.Enabled = false
	cfg.Yahoo.Enabled = false
	cfg.Edgar.DataBaseURL = upstream
	cfg.Edgar.ArchiveBaseURL = upstream
	return cfg
}

func TestBuildProviders_PriorityOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Priority.Market = []string{"Yahoo", "FMP", "Finnhub"}
	p := buildProviders(cfg)
	require.Len(t, p.Market, 3)
	require.Equal(t, "Yahoo", p.Market[0].Name())
	require.Equal(t, "FMP", p.Market[1].Name())
	require.Equal(t, "Finnhub", p.Market[2].Name())
}

func TestBuildProviders_DisabledAndUnknownNamesSkipped(t *testing.T) {
	cfg := config.Default()
	cfg.Finnhub.Enabled = false
	cfg.Priority.Market = []string{"Finnhub", "Bloomberg", "FMP"}
	p := buildProviders(cfg)
	require.Len(t, p.Market, 1)
	require.Equal(t, "FMP", p.Market[0].Name())
	// Finnhub is gone from ratings too; FMP remains.
	require.Len(t, p.Ratings, 1)
}

func TestQuoteEndpoint(t *testing.T) {
	upstream := fakeUpstream(t)
	cfg := testConfig(upstream.URL)

	svc, err := aggregate.New(buildProviders(cfg), aggregate.WithCallTimeout(2*time.Second))
	require.NoError(t, err)

	mux := http.NewServeMux()
	registerAPI(mux, svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote?symbol=AAPL", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var q record.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	require.Equal(t, 175.23, q.Price)
	require.Equal(t, "FMP", q.Provider)
}

func TestQuoteEndpoint_MissingSymbol(t *testing.T) {
	upstream := fakeUpstream(t)
	svc, err := aggregate.New(buildProviders(testConfig(upstream.URL)))
	require.NoError(t, err)

	mux := http.NewServeMux()
	registerAPI(mux, svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
