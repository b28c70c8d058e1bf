package edgar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"findata/internal/provider"
)

// rawTickerEntry is one element of company_tickers.json, which is keyed
// by arbitrary numeric strings.
type rawTickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// cikForSymbol resolves a ticker to its ten-digit zero-padded CIK.
// The mapping file is refreshed at most weekly; concurrent refreshes
// coalesce, and a failed refresh falls back to the stale copy when one
// exists.
func (c *Client) cikForSymbol(ctx context.Context, symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	c.tickersMu.RLock()
	m, expires := c.tickers, c.tickersExpires
	c.tickersMu.RUnlock()

	if m == nil || c.now().After(expires) {
		_, err, _ := c.sf.Do("tickers", func() (any, error) {
			// Another caller may have refreshed while we waited.
			c.tickersMu.RLock()
			fresh := c.tickers != nil && c.now().Before(c.tickersExpires)
			c.tickersMu.RUnlock()
			if fresh {
				return nil, nil
			}

			fetched, ferr := c.fetchTickerMap(ctx)
			if ferr != nil {
				return nil, ferr
			}
			c.tickersMu.Lock()
			c.tickers = fetched
			c.tickersExpires = c.now().Add(tickerMapTTL)
			c.tickersMu.Unlock()
			return nil, nil
		})
		if err != nil {
			// Stale fallback: keep answering from the old map.
			c.tickersMu.RLock()
			stale := c.tickers
			c.tickersMu.RUnlock()
			if stale == nil {
				return "", err
			}
			m = stale
		} else {
			c.tickersMu.RLock()
			m = c.tickers
			c.tickersMu.RUnlock()
		}
	}

	cik, ok := m[sym]
	if !ok {
		return "", provider.Transient(c.name, "cik-lookup", fmt.Errorf("symbol %q not in ticker map", sym))
	}
	return cik, nil
}

func (c *Client) fetchTickerMap(ctx context.Context) (map[string]string, error) {
	u := c.archiveBase + "/files/company_tickers.json"
	var raw map[string]rawTickerEntry
	if err := c.http.GetJSON(ctx, c.name, "ticker-map", u, &raw); err != nil {
		return nil, err
	}
	m := make(map[string]string, len(raw))
	for _, e := range raw {
		if e.Ticker == "" {
			continue
		}
		m[strings.ToUpper(e.Ticker)] = fmt.Sprintf("%010d", e.CIK)
	}
	if len(m) == 0 {
		return nil, provider.Transient(c.name, "ticker-map", fmt.Errorf("empty mapping file"))
	}
	return m, nil
}

// forceTickerExpiry is a test hook.
func (c *Client) forceTickerExpiry(at time.Time) {
	c.tickersMu.Lock()
	c.tickersExpires = at
	c.tickersMu.Unlock()
}
