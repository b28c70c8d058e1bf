package fmp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"findata/internal/record"
)

// rawInsider is one /v4/insider-trading element.
type rawInsider struct {
	Symbol               string  `json:"symbol"`
	ReportingName        string  `json:"reportingName"`
	TypeOfOwner          string  `json:"typeOfOwner"`
	TransactionType      string  `json:"transactionType"`
	SecuritiesTransacted float64 `json:"securitiesTransacted"`
	Price                float64 `json:"price"`
	TransactionDate      string  `json:"transactionDate"`
}

func (c *Client) InsiderTransactions(ctx context.Context, symbol string, limit int) ([]record.InsiderTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	u := fmt.Sprintf("%s/v4/insider-trading?symbol=%s&limit=%d", c.baseURL, url.QueryEscape(symbol), limit)
	var raw []rawInsider
	if err := c.http.GetJSON(ctx, c.name, "insider", u, &raw); err != nil {
		return nil, err
	}
	return normalizeInsiders(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeInsiders(symbol string, raw []rawInsider, name string, fetched time.Time) []record.InsiderTransaction {
	out := make([]record.InsiderTransaction, 0, len(raw))
	for _, r := range raw {
		date, _ := time.Parse("2006-01-02", r.TransactionDate)
		out = append(out, record.InsiderTransaction{
			Symbol:          symbol,
			InsiderName:     r.ReportingName,
			InsiderTitle:    r.TypeOfOwner,
			TransactionType: r.TransactionType,
			Shares:          r.SecuritiesTransacted,
			Price:           r.Price,
			Date:            date,
			Complete:        r.SecuritiesTransacted > 0 && r.Price > 0,
			Provider:        name,
			FetchedAt:       fetched,
		})
	}
	return out
}

// rawHolder is one /v3/institutional-holder element.
type rawHolder struct {
	Holder       string  `json:"holder"`
	Shares       float64 `json:"shares"`
	DateReported string  `json:"dateReported"`
	Change       float64 `json:"change"`
	Value        float64 `json:"value"`
}

func (c *Client) InstitutionalHolders(ctx context.Context, symbol string) ([]record.InstitutionalHolding, error) {
	u := fmt.Sprintf("%s/v3/institutional-holder/%s", c.baseURL, url.PathEscape(symbol))
	var raw []rawHolder
	if err := c.http.GetJSON(ctx, c.name, "institutional", u, &raw); err != nil {
		return nil, err
	}
	return normalizeHolders(symbol, raw, c.name, c.now().UTC()), nil
}

func normalizeHolders(symbol string, raw []rawHolder, name string, fetched time.Time) []record.InstitutionalHolding {
	out := make([]record.InstitutionalHolding, 0, len(raw))
	for _, r := range raw {
		date, _ := time.Parse("2006-01-02", r.DateReported)
		out = append(out, record.InstitutionalHolding{
			Symbol:      symbol,
			Institution: r.Holder,
			Shares:      r.Shares,
			Value:       r.Value,
			Change:      r.Change,
			ReportDate:  date,
			Complete:    r.Shares > 0 && r.Value > 0,
			Provider:    name,
			FetchedAt:   fetched,
		})
	}
	return out
}

// rawExecutive is one /v3/key-executives element.
type rawExecutive struct {
	Title    string  `json:"title"`
	Name     string  `json:"name"`
	Pay      float64 `json:"pay"`
	YearBorn int     `json:"yearBorn"`
}

func (c *Client) Executives(ctx context.Context, symbol string) ([]record.Executive, error) {
	u := fmt.Sprintf("%s/v3/key-executives/%s", c.baseURL, url.PathEscape(symbol))
	var raw []rawExecutive
	if err := c.http.GetJSON(ctx, c.name, "executives", u, &raw); err != nil {
		return nil, err
	}
	out := make([]record.Executive, 0, len(raw))
	fetched := c.now().UTC()
	for _, r := range raw {
		out = append(out, record.Executive{
			Symbol:    symbol,
			Name:      r.Name,
			Title:     r.Title,
			Pay:       r.Pay,
			YearBorn:  r.YearBorn,
			Provider:  c.name,
			FetchedAt: fetched,
		})
	}
	return out, nil
}
