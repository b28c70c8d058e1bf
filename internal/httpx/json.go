package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"findata/internal/provider"
)

// GetJSON performs a GET, checks the status and decodes the body into out.
// Failures come back already classified for the fallback walk: transport
// and decode problems are transient, auth rejections are configuration.
func (c *Client) GetJSON(ctx context.Context, name, op, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return provider.Transient(name, op, fmt.Errorf("creating request: %w", err))
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return provider.Transient(name, op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return provider.StatusError(name, op, resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return provider.Transient(name, op, fmt.Errorf("decode: %w", err))
	}
	return nil
}
