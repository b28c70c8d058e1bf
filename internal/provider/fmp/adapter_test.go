package fmp

import (
	"encoding/json"
	"testing"
	"time"
)

var fetched = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeQuote_PercentVariants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `1.25`, 1.25},
		{"plain string", `"1.25"`, 1.25},
		{"percent suffix", `"1.25%"`, 1.25},
		{"parenthesized", `"(1.25%)"`, 1.25},
		{"negative", `"-0.8%"`, -0.8},
		{"garbage", `"n/a"`, 0},
		{"missing", ``, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := rawQuote{Symbol: "XYZ", Price: 10, ChangesPercentage: json.RawMessage(tc.raw)}
			q := normalizeQuote("XYZ", r, "FMP", fetched)
			if q.ChangePercent != tc.want {
				t.Fatalf("percent: got %v want %v", q.ChangePercent, tc.want)
			}
		})
	}
}

func TestNormalizeQuote_Fields(t *testing.T) {
	r := rawQuote{
		Symbol: "XYZ", Price: 175.23, Change: 2.5,
		ChangesPercentage: json.RawMessage(`1.45`),
		Volume:            1_000_000, Open: 173, DayHigh: 176, DayLow: 172.5,
		PreviousClose: 172.73, Timestamp: 1740830400,
	}
	q := normalizeQuote("XYZ", r, "FMP", fetched)
	if q.Price != 175.23 || q.Volume != 1_000_000 || q.PreviousClose != 172.73 {
		t.Fatalf("fields: %+v", q)
	}
	if q.Timestamp.IsZero() || q.Timestamp.Equal(fetched) {
		t.Fatalf("timestamp should come from payload: %v", q.Timestamp)
	}
	if q.Provider != "FMP" || !q.FetchedAt.Equal(fetched) {
		t.Fatalf("provenance: %+v", q)
	}
	if !q.Valid() {
		t.Fatalf("expected valid quote")
	}
}

func TestNormalizeFinancials_MarginsArePercentPoints(t *testing.T) {
	raw := []rawIncome{{
		Date: "2024-09-28", Period: "FY", CalendarYear: "2024",
		Revenue: 391_035_000_000, NetIncome: 93_736_000_000, EPS: 6.08,
		GrossProfitRatio: 0.4621, OperatingIncomeRatio: 0.3151, NetIncomeRatio: 0.2397,
	}}
	got := normalizeFinancials("XYZ", raw, "FMP", fetched)
	if len(got) != 1 {
		t.Fatalf("len: %d", len(got))
	}
	p := got[0]
	if p.Period != "annual" || p.FiscalYear != 2024 {
		t.Fatalf("period key: %+v", p)
	}
	if p.GrossMargin != 46.21 || p.NetMargin != 23.97 {
		t.Fatalf("margins must be percent points: %+v", p)
	}
}

func TestNormalizeFinancials_QuarterKey(t *testing.T) {
	raw := []rawIncome{{Date: "2024-12-28", Period: "Q1", CalendarYear: "2025", Revenue: 1}}
	got := normalizeFinancials("XYZ", raw, "FMP", fetched)
	if got[0].Period != "Q1" || got[0].FiscalYear != 2025 {
		t.Fatalf("quarter key: %+v", got[0])
	}
}

func TestNormalizeHistory_OldestFirst(t *testing.T) {
	var raw rawHistory
	err := json.Unmarshal([]byte(`{
		"symbol": "XYZ",
		"historical": [
			{"date": "2025-03-03", "open": 11, "high": 12, "low": 10, "close": 11.5, "volume": 300},
			{"date": "2025-02-28", "open": 10, "high": 11, "low": 9, "close": 10.5, "volume": 200}
		]
	}`), &raw)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	s := normalizeHistory("XYZ", raw, "FMP", fetched)
	if len(s.Points) != 2 {
		t.Fatalf("points: %d", len(s.Points))
	}
	if !s.Points[0].Date.Before(s.Points[1].Date) {
		t.Fatalf("series must be oldest-first: %+v", s.Points)
	}
}

func TestNormalizeProfile_EmployeesString(t *testing.T) {
	var raw []rawProfile
	err := json.Unmarshal([]byte(`[{
		"symbol": "XYZ", "companyName": "XYZ Corp", "sector": "Technology",
		"fullTimeEmployees": "164000", "mktCap": 3.4e12, "pe": 28.5
	}]`), &raw)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	p := normalizeProfile("XYZ", raw[0], "FMP", fetched)
	if p.Employees != 164000 || p.Name != "XYZ Corp" {
		t.Fatalf("profile: %+v", p)
	}
	if !p.Valid() {
		t.Fatalf("expected valid profile")
	}
}

func TestNormalizeRatings(t *testing.T) {
	raw := []rawGrade{
		{Symbol: "XYZ", PublishedDate: "2025-02-10T09:30:00.000Z", NewGrade: "Buy", GradingCompany: "Alpha Securities", PriceTarget: 210},
		{Symbol: "XYZ", PublishedDate: "2025-01-15", NewGrade: "Hold", GradingCompany: "Beta Research"},
	}
	got := normalizeRatings("XYZ", raw, "FMP", fetched)
	if len(got) != 2 {
		t.Fatalf("len: %d", len(got))
	}
	if got[0].Firm != "Alpha Securities" || got[0].PriceTarget != 210 {
		t.Fatalf("first: %+v", got[0])
	}
	if got[1].Date.IsZero() {
		t.Fatalf("date-only format must parse: %+v", got[1])
	}
}

func TestNormalizeInsiders_CompletenessFlag(t *testing.T) {
	raw := []rawInsider{
		{ReportingName: "DOE JANE", TransactionType: "S-Sale", SecuritiesTransacted: 1000, Price: 175.23, TransactionDate: "2025-02-01"},
		{ReportingName: "ROE RICHARD", TransactionType: "A-Award", SecuritiesTransacted: 500, TransactionDate: "2025-02-02"},
	}
	got := normalizeInsiders("XYZ", raw, "FMP", fetched)
	if !got[0].Complete {
		t.Fatalf("fully populated row must be complete: %+v", got[0])
	}
	if got[1].Complete {
		t.Fatalf("zero price is unknown, not free: %+v", got[1])
	}
}

func TestNormalizeEsg(t *testing.T) {
	r := rawEsg{Symbol: "XYZ", Date: "2025-01-31", EnvironmentalScore: 71.2, SocialScore: 65.4, GovernanceScore: 80.1, ESGScore: 72.2}
	e := normalizeEsg("XYZ", r, "FMP", fetched)
	if !e.Valid() || !e.Complete {
		t.Fatalf("esg: %+v", e)
	}
}
