package fmp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/record"
)

// rawEsg is one /v4 ESG data element.
type rawEsg struct {
	Symbol             string  `json:"symbol"`
	Date               string  `json:"date"`
	EnvironmentalScore float64 `json:"environmentalScore"`
	SocialScore        float64 `json:"socialScore"`
	GovernanceScore    float64 `json:"governanceScore"`
	ESGScore           float64 `json:"ESGScore"`
}

func (c *Client) EsgScore(ctx context.Context, symbol string) (record.EsgScore, error) {
	u := fmt.Sprintf("%s/v4/esg-environmental-social-governance-data?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	var raw []rawEsg
	if err := c.http.GetJSON(ctx, c.name, "esg", u, &raw); err != nil {
		return record.EsgScore{}, err
	}
	if len(raw) == 0 {
		return record.EsgScore{Symbol: symbol, Provider: c.name, FetchedAt: c.now().UTC()}, nil
	}
	return normalizeEsg(symbol, raw[0], c.name, c.now().UTC()), nil
}

func normalizeEsg(symbol string, r rawEsg, name string, fetched time.Time) record.EsgScore {
	date, _ := time.Parse("2006-01-02", r.Date)
	return record.EsgScore{
		Symbol:        symbol,
		Environmental: r.EnvironmentalScore,
		Social:        r.SocialScore,
		Governance:    r.GovernanceScore,
		Total:         r.ESGScore,
		Date:          date,
		Complete:      r.EnvironmentalScore > 0 && r.SocialScore > 0 && r.GovernanceScore > 0,
		Provider:      name,
		FetchedAt:     fetched,
	}
}
