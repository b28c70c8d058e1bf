package finnhub

import (
	"testing"
	"time"

	"findata/internal/provider"
	"findata/internal/record"
)

var fetched = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeQuote_UnknownSymbolIsInvalidNotError(t *testing.T) {
	q := normalizeQuote("NOPE", rawQuote{}, "Finnhub", fetched)
	if q.Valid() {
		t.Fatalf("all-zero quote must be invalid: %+v", q)
	}
	if !q.Timestamp.Equal(fetched) {
		t.Fatalf("zero epoch falls back to fetch time: %v", q.Timestamp)
	}
}

func TestNormalizeQuote_PercentPassesThrough(t *testing.T) {
	r := rawQuote{Current: 175.23, ChangePercent: 1.45, Timestamp: 1740830400}
	q := normalizeQuote("XYZ", r, "Finnhub", fetched)
	if q.ChangePercent != 1.45 {
		t.Fatalf("dp is already percent points: %v", q.ChangePercent)
	}
	if !q.Valid() {
		t.Fatalf("expected valid: %+v", q)
	}
}

func TestNormalizeProfile_MarketCapScaled(t *testing.T) {
	p := normalizeProfile("XYZ", rawProfile{Name: "XYZ Corp", MarketCapM: 2500}, "Finnhub", fetched)
	if p.MarketCap != 2.5e9 {
		t.Fatalf("market cap millions -> absolute: %v", p.MarketCap)
	}
}

func TestNormalizeCandles(t *testing.T) {
	r := rawCandle{
		Status: "ok",
		Time:   []int64{1740700800, 1740787200},
		Open:   []float64{10, 11},
		High:   []float64{12, 13},
		Low:    []float64{9, 10},
		Close:  []float64{11, 12},
		Volume: []float64{100, 200},
	}
	s := normalizeCandles("XYZ", provider.IntervalDaily, r, "Finnhub", fetched)
	if len(s.Points) != 2 {
		t.Fatalf("points: %d", len(s.Points))
	}
	if s.Points[0].Close != 11 || s.Points[1].Volume != 200 {
		t.Fatalf("points: %+v", s.Points)
	}
}

func TestNormalizeCandles_NoData(t *testing.T) {
	s := normalizeCandles("XYZ", provider.IntervalDaily, rawCandle{Status: "no_data"}, "Finnhub", fetched)
	if len(s.Points) != 0 {
		t.Fatalf("no_data must yield empty series: %+v", s)
	}
}

func TestNormalizeCandles_RaggedColumns(t *testing.T) {
	r := rawCandle{
		Status: "ok",
		Time:   []int64{1, 2, 3},
		Open:   []float64{1, 2},
		High:   []float64{1, 2},
		Low:    []float64{1, 2},
		Close:  []float64{1, 2},
		Volume: []float64{1, 2},
	}
	s := normalizeCandles("XYZ", provider.IntervalDaily, r, "Finnhub", fetched)
	if len(s.Points) != 2 {
		t.Fatalf("ragged columns truncate to shortest: %d", len(s.Points))
	}
}

func TestExpandTrend_CountsFeedConsensus(t *testing.T) {
	tr := rawTrend{Period: "2025-03-01", StrongBuy: 3, Buy: 5, Hold: 4, Sell: 1, StrongSell: 1}
	ratings := expandTrend("XYZ", tr, "Finnhub", fetched)
	if len(ratings) != 14 {
		t.Fatalf("expanded: %d", len(ratings))
	}
	c := record.BuildConsensus("XYZ", ratings)
	if c.Buy != 8 || c.Hold != 4 || c.Sell != 2 {
		t.Fatalf("consensus from trend: %+v", c)
	}
	if c.AverageTarget != 0 {
		t.Fatalf("no price targets expected: %+v", c)
	}
}
