package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/record"
)

// rawTrend is one /stock/recommendation element: monthly aggregated
// counts, newest first.
type rawTrend struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"` // "2025-03-01"
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// AnalystRatings expands the newest recommendation trend into individual
// canonical ratings. Finnhub publishes aggregated counts without firm
// names or price targets, so the expanded ratings carry the label and
// date only; consensus counts still come out right downstream.
func (c *Client) AnalystRatings(ctx context.Context, symbol string) ([]record.AnalystRating, error) {
	u := fmt.Sprintf("%s/stock/recommendation?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	var raw []rawTrend
	if err := c.http.GetJSON(ctx, c.name, "ratings", u, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []record.AnalystRating{}, nil
	}
	return expandTrend(symbol, raw[0], c.name, c.now().UTC()), nil
}

func expandTrend(symbol string, t rawTrend, name string, fetched time.Time) []record.AnalystRating {
	date, _ := time.Parse("2006-01-02", t.Period)
	out := make([]record.AnalystRating, 0, t.StrongBuy+t.Buy+t.Hold+t.Sell+t.StrongSell)
	emit := func(n int, label string) {
		for i := 0; i < n; i++ {
			out = append(out, record.AnalystRating{
				Symbol:    symbol,
				Rating:    label,
				Date:      date,
				Provider:  name,
				FetchedAt: fetched,
			})
		}
	}
	emit(t.StrongBuy, "Strong Buy")
	emit(t.Buy, "Buy")
	emit(t.Hold, "Hold")
	emit(t.Sell, "Sell")
	emit(t.StrongSell, "Strong Sell")
	return out
}
