package fmp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/record"
)

// rawGrade is one /v4/upgrades-downgrades element.
type rawGrade struct {
	Symbol          string  `json:"symbol"`
	PublishedDate   string  `json:"publishedDate"` // RFC3339
	NewGrade        string  `json:"newGrade"`
	GradingCompany  string  `json:"gradingCompany"`
	PriceWhenPosted float64 `json:"priceWhenPosted"`
	PriceTarget     float64 `json:"priceTarget"`
}

func (c *Client) AnalystRatings(ctx context.Context, symbol string) ([]record.AnalystRating, error) {
	u := fmt.Sprintf("%s/v4/upgrades-downgrades?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	var raw []rawGrade
	if err := c.http.GetJSON(ctx, c.name, "ratings", u, &raw); err != nil {
		return nil, err
	}
	return normalizeRatings(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeRatings(symbol string, raw []rawGrade, name string, fetched time.Time) []record.AnalystRating {
	out := make([]record.AnalystRating, 0, len(raw))
	for _, r := range raw {
		date, err := time.Parse(time.RFC3339, r.PublishedDate)
		if err != nil {
			date, _ = time.Parse("2006-01-02", r.PublishedDate)
		}
		out = append(out, record.AnalystRating{
			Symbol:      symbol,
			Firm:        r.GradingCompany,
			Rating:      r.NewGrade,
			PriceTarget: r.PriceTarget,
			Date:        date.UTC(),
			Provider:    name,
			FetchedAt:   fetched,
		})
	}
	return out
}
