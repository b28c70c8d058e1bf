package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"findata/internal/provider"
	"findata/internal/record"
)

// rawSubmissions is the column-oriented submissions response: index i
// across the recent arrays describes one filing.
type rawSubmissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Filings lists recent filings for a symbol, optionally filtered by form
// type ("10-K", "10-Q", ...). Empty formType keeps everything.
func (c *Client) Filings(ctx context.Context, symbol, formType string, limit int) ([]record.SecFiling, error) {
	if limit <= 0 {
		limit = 20
	}
	cik, err := c.cikForSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBase, cik)
	var raw rawSubmissions
	if err := c.http.GetJSON(ctx, c.name, "filings", u, &raw); err != nil {
		return nil, err
	}
	return c.normalizeFilings(symbol, cik, formType, limit, raw), nil
}

func (c *Client) normalizeFilings(symbol, cik, formType string, limit int, raw rawSubmissions) []record.SecFiling {
	rec := raw.Filings.Recent
	fetched := c.now().UTC()
	wantForm := strings.ToUpper(strings.TrimSpace(formType))

	out := make([]record.SecFiling, 0, limit)
	for i := range rec.AccessionNumber {
		if i >= len(rec.Form) || i >= len(rec.FilingDate) || i >= len(rec.PrimaryDocument) {
			break
		}
		form := strings.ToUpper(rec.Form[i])
		if wantForm != "" && form != wantForm {
			continue
		}
		filingDate, _ := time.Parse("2006-01-02", rec.FilingDate[i])
		var reportDate time.Time
		if i < len(rec.ReportDate) {
			reportDate, _ = time.Parse("2006-01-02", rec.ReportDate[i])
		}
		accession := rec.AccessionNumber[i]
		doc := rec.PrimaryDocument[i]
		out = append(out, record.SecFiling{
			Symbol:          symbol,
			CIK:             cik,
			FormType:        form,
			FilingDate:      filingDate,
			ReportDate:      reportDate,
			AccessionNumber: accession,
			PrimaryDocument: doc,
			DocumentURL:     c.documentURL(cik, accession, doc),
			Provider:        c.name,
			FetchedAt:       fetched,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// documentURL builds the archive URL for a primary document: the CIK is
// unpadded and the accession number loses its dashes in the path.
func (c *Client) documentURL(cik, accession, doc string) string {
	cikNum := cik
	if n, err := strconv.ParseInt(cik, 10, 64); err == nil {
		cikNum = strconv.FormatInt(n, 10)
	}
	acc := strings.ReplaceAll(accession, "-", "")
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", c.archiveBase, cikNum, acc, doc)
}

// FilingDocument downloads the raw primary document for a filing.
func (c *Client) FilingDocument(ctx context.Context, filing record.SecFiling) ([]byte, error) {
	if filing.DocumentURL == "" {
		return nil, provider.Transient(c.name, "document", fmt.Errorf("filing %s has no document URL", filing.AccessionNumber))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, filing.DocumentURL, http.NoBody)
	if err != nil {
		return nil, provider.Transient(c.name, "document", err)
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, provider.Transient(c.name, "document", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, provider.StatusError(c.name, "document", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.Transient(c.name, "document", err)
	}
	return body, nil
}
