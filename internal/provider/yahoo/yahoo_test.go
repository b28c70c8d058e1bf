package yahoo

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"findata/internal/provider"
)

var fetched = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const chartFixture = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "XYZ",
				"regularMarketPrice": 175.23,
				"chartPreviousClose": 172.73,
				"regularMarketTime": 1740830400
			},
			"timestamp": [1740744000, 1740830400],
			"indicators": {
				"quote": [{
					"open":   [171.0, 173.0],
					"high":   [173.5, 176.0],
					"low":    [170.2, 172.5],
					"close":  [172.73, 175.23],
					"volume": [900000, 1000000]
				}]
			}
		}],
		"error": null
	}
}`

func decodeFixture(t *testing.T) chartResult {
	t.Helper()
	var raw chartResponse
	if err := json.Unmarshal([]byte(chartFixture), &raw); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return raw.Chart.Result[0]
}

func TestNormalizeQuote_DerivedChange(t *testing.T) {
	q := normalizeQuote("XYZ", decodeFixture(t), "Yahoo", fetched)
	if q.Price != 175.23 {
		t.Fatalf("price: %v", q.Price)
	}
	if math.Abs(q.Change-2.5) > 1e-9 {
		t.Fatalf("change: %v", q.Change)
	}
	want := 2.5 / 172.73 * 100
	if math.Abs(q.ChangePercent-want) > 1e-9 {
		t.Fatalf("change percent: %v want %v", q.ChangePercent, want)
	}
	if q.Open != 173.0 || q.Volume != 1000000 {
		t.Fatalf("last bar fields: %+v", q)
	}
}

func TestNormalizeQuote_EmptyResultInvalid(t *testing.T) {
	q := normalizeQuote("XYZ", chartResult{}, "Yahoo", fetched)
	if q.Valid() {
		t.Fatalf("empty chart must normalize to an invalid quote: %+v", q)
	}
}

func TestNormalizeSeries(t *testing.T) {
	s := normalizeSeries("XYZ", provider.IntervalDaily, decodeFixture(t), "Yahoo", fetched)
	if len(s.Points) != 2 {
		t.Fatalf("points: %d", len(s.Points))
	}
	if s.Points[0].Close != 172.73 || s.Points[1].Close != 175.23 {
		t.Fatalf("closes: %+v", s.Points)
	}
	if !s.Points[0].Date.Before(s.Points[1].Date) {
		t.Fatalf("series must be oldest-first")
	}
}

func TestUnsupportedOperations(t *testing.T) {
	c := New()
	if _, err := c.Search(context.Background(), "apple"); !provider.IsUnsupported(err) {
		t.Fatalf("search: %v", err)
	}
	if _, err := c.Profile(context.Background(), "XYZ"); !provider.IsUnsupported(err) {
		t.Fatalf("profile: %v", err)
	}
	if _, err := c.Financials(context.Background(), "XYZ", provider.PeriodAnnual); !provider.IsUnsupported(err) {
		t.Fatalf("financials: %v", err)
	}
}
