package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/record"
)

// rawNews is one /company-news element.
type rawNews struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // epoch seconds
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

func (c *Client) CompanyNews(ctx context.Context, symbol string, limit int) ([]record.NewsArticle, error) {
	if limit <= 0 {
		limit = 20
	}
	to := c.now()
	from := to.AddDate(0, 0, -30)
	u := fmt.Sprintf("%s/company-news?symbol=%s&from=%s&to=%s",
		c.baseURL, url.QueryEscape(symbol), from.Format("2006-01-02"), to.Format("2006-01-02"))
	var raw []rawNews
	if err := c.http.GetJSON(ctx, c.name, "news", u, &raw); err != nil {
		return nil, err
	}
	return normalizeNews(symbol, raw, limit, c.name, c.now().UTC()), nil
}

func normalizeNews(symbol string, raw []rawNews, limit int, name string, fetched time.Time) []record.NewsArticle {
	if len(raw) > limit {
		raw = raw[:limit]
	}
	out := make([]record.NewsArticle, 0, len(raw))
	for _, r := range raw {
		out = append(out, record.NewsArticle{
			Symbol:      symbol,
			Title:       r.Headline,
			Summary:     r.Summary,
			URL:         r.URL,
			Source:      r.Source,
			ImageURL:    r.Image,
			PublishedAt: time.Unix(r.Datetime, 0).UTC(),
			Provider:    name,
			FetchedAt:   fetched,
		})
	}
	return out
}
