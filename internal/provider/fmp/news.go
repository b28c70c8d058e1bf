package fmp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/record"
)

// rawNews is one /v3/stock_news element.
type rawNews struct {
	Symbol        string `json:"symbol"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	URL           string `json:"url"`
	Site          string `json:"site"`
	Image         string `json:"image"`
	PublishedDate string `json:"publishedDate"` // "2025-03-01 14:30:00"
}

func (c *Client) CompanyNews(ctx context.Context, symbol string, limit int) ([]record.NewsArticle, error) {
	if limit <= 0 {
		limit = 20
	}
	u := fmt.Sprintf("%s/v3/stock_news?tickers=%s&limit=%d", c.baseURL, url.QueryEscape(symbol), limit)
	var raw []rawNews
	if err := c.http.GetJSON(ctx, c.name, "news", u, &raw); err != nil {
		return nil, err
	}
	return normalizeNews(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeNews(symbol string, raw []rawNews, name string, fetched time.Time) []record.NewsArticle {
	out := make([]record.NewsArticle, 0, len(raw))
	for _, r := range raw {
		published, _ := time.Parse("2006-01-02 15:04:05", r.PublishedDate)
		out = append(out, record.NewsArticle{
			Symbol:      symbol,
			Title:       r.Title,
			Summary:     r.Text,
			URL:         r.URL,
			Source:      r.Site,
			ImageURL:    r.Image,
			PublishedAt: published.UTC(),
			Provider:    name,
			FetchedAt:   fetched,
		})
	}
	return out
}
