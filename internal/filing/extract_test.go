package filing

import (
	"errors"
	"strings"
	"testing"
)

const syntheticFiling = "Item 1. Business\n\nWe make widgets.\n\n\n\nWe sell them worldwide.\n" +
	"Item 1A. Risk Factors\nWidgets may fail.\n" +
	"Item 1B. Unresolved Staff Comments\nNone.\n" +
	"Item 2. Properties\nA factory.\n" +
	"Item 7. Management's Discussion and Analysis\nRevenue grew.\n" +
	"Item 7A. Quantitative Disclosures\nRates.\n" +
	"Item 8. Financial Statements\nBalance sheet here.\n" +
	"Item 9. Changes in and Disagreements\nNone.\n"

func TestExtractSection_Business(t *testing.T) {
	got, err := ExtractSection(syntheticFiling, SectionBusiness)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "Business\n\nWe make widgets.\n\nWe sell them worldwide."
	if got != want {
		t.Fatalf("business section:\n got %q\nwant %q", got, want)
	}
}

func TestExtractSection_BoundariesExcludeMarkers(t *testing.T) {
	for _, tc := range []struct {
		name     string
		contains string
		excludes string
	}{
		{SectionRiskFactors, "Widgets may fail.", "Item 1B"},
		{SectionManagementDiscussion, "Revenue grew.", "Item 7A"},
		{SectionFinancialStatements, "Balance sheet here.", "Item 9"},
	} {
		got, err := ExtractSection(syntheticFiling, tc.name)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !strings.Contains(got, tc.contains) {
			t.Errorf("%s: missing %q in %q", tc.name, tc.contains, got)
		}
		if strings.Contains(got, tc.excludes) {
			t.Errorf("%s: end marker %q leaked into %q", tc.name, tc.excludes, got)
		}
	}
}

func TestExtractSection_CaseInsensitiveMarkers(t *testing.T) {
	text := "ITEM 1. BUSINESS\nshouting\nITEM 1A. RISK FACTORS\nstill shouting\n"
	got, err := ExtractSection(text, SectionBusiness)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "shouting") {
		t.Fatalf("got %q", got)
	}
}

func TestExtractSection_EarliestVariantWins(t *testing.T) {
	// Both a colon and a dot variant of the start marker appear; the
	// earlier occurrence must anchor the section.
	text := "Item 1: Business\nearly content\nItem 1. Business repeated\nlate content\nItem 1A. Risks\nx\n"
	got, err := ExtractSection(text, SectionBusiness)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.HasPrefix(got, "Business\nearly content") {
		t.Fatalf("expected section anchored at the earliest marker, got %q", got)
	}
}

func TestExtractSection_NotFound(t *testing.T) {
	_, err := ExtractSection("no markers at all", SectionRiskFactors)
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("want ErrSectionNotFound, got %v", err)
	}
}

func TestExtractSection_UnknownName(t *testing.T) {
	_, err := ExtractSection(syntheticFiling, "exhibits")
	if err == nil {
		t.Fatal("expected error for unknown section name")
	}
}

func TestExtractSection_GenericNextItemBoundary(t *testing.T) {
	// No listed end marker for financial statements, but a later
	// top-level item heading bounds the section.
	text := "Item 8. Financial Statements\nnumbers\nnumbers\n Item 10. Directors\nbios\n"
	got, err := ExtractSection(text, SectionFinancialStatements)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(got, "Directors") || strings.Contains(got, "bios") {
		t.Fatalf("generic boundary not honored: %q", got)
	}
	if !strings.Contains(got, "numbers") {
		t.Fatalf("content lost: %q", got)
	}
}

func TestExtractSection_WindowCapWithoutAnyBoundary(t *testing.T) {
	text := "Item 8. Financial Statements\n" + strings.Repeat("x", maxSectionWindow+5_000)
	got, err := ExtractSection(text, SectionFinancialStatements)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) > maxSectionWindow {
		t.Fatalf("section length %d exceeds window cap %d", len(got), maxSectionWindow)
	}
}

func TestExtractAll_SkipsMissing(t *testing.T) {
	text := "Item 1. Business\ncontent\nItem 1A. Risks\nrisky\nItem 2. Properties\nplant\n"
	sections := ExtractAll(text)
	if _, ok := sections[SectionBusiness]; !ok {
		t.Error("business section missing")
	}
	if _, ok := sections[SectionRiskFactors]; !ok {
		t.Error("risk section missing")
	}
	if _, ok := sections[SectionManagementDiscussion]; ok {
		t.Error("management discussion should be absent")
	}
}

func TestTidy_CollapsesAndTrims(t *testing.T) {
	got := tidy("  \na\n\n\n\n\nb\n ")
	if got != "a\n\nb" {
		t.Fatalf("got %q", got)
	}
}
