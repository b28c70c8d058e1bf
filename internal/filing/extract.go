// Package filing segments raw regulatory filing text into named sections
// and drives the download/extract/summarize/persist workflow around it.
// Extraction is purely positional: markers locate boundaries, content is
// never interpreted.
package filing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Section names as they appear in SecFiling.Sections.
const (
	SectionBusiness             = "business"
	SectionRiskFactors          = "risk_factors"
	SectionManagementDiscussion = "management_discussion"
	SectionFinancialStatements  = "financial_statements"
)

// ErrSectionNotFound reports that no start marker for the requested
// section occurs in the document. It is an expected outcome for older
// or abbreviated filings, never a guess.
var ErrSectionNotFound = errors.New("section not found")

// maxSectionWindow caps a section when no end marker exists in the
// remainder of the document.
const maxSectionWindow = 100_000

// nextItemPattern is the secondary end boundary: the next top-level
// numbered item heading at the start of a line.
var nextItemPattern = regexp.MustCompile(`(?i)\n\s*item\s+\d{1,2}[ab]?\s*[.:]`)

// collapseNewlines squeezes runs of three or more newlines down to two.
var collapseNewlines = regexp.MustCompile(`\n{3,}`)

// sectionRule pairs a section name with the heading variants that open
// and close it. Filings differ in phrasing and punctuation across eras,
// so each boundary carries several acceptable markers.
type sectionRule struct {
	name  string
	start []string
	end   []string
}

var sectionTable = []sectionRule{
	{
		name:  SectionBusiness,
		start: []string{"item 1.", "item 1:", "item 1 business", "item 1—business"},
		end:   []string{"item 1a.", "item 1a:", "item 1a risk factors", "item 1a—risk factors"},
	},
	{
		name:  SectionRiskFactors,
		start: []string{"item 1a.", "item 1a:", "item 1a risk factors", "item 1a—risk factors"},
		end:   []string{"item 1b.", "item 1b:", "item 2.", "item 2:"},
	},
	{
		name:  SectionManagementDiscussion,
		start: []string{"item 7.", "item 7:", "item 7 management", "item 7—management"},
		end:   []string{"item 7a.", "item 7a:", "item 8.", "item 8:"},
	},
	{
		name:  SectionFinancialStatements,
		start: []string{"item 8.", "item 8:", "item 8 financial statements", "item 8—financial statements"},
		end:   []string{"item 9.", "item 9:", "item 9a.", "item 9b."},
	},
}

// SectionNames lists the extractable sections in document order.
func SectionNames() []string {
	names := make([]string, len(sectionTable))
	for i, s := range sectionTable {
		names[i] = s.name
	}
	return names
}

func ruleFor(name string) (sectionRule, bool) {
	for _, s := range sectionTable {
		if s.name == name {
			return s, true
		}
	}
	return sectionRule{}, false
}

// earliest returns the position of the earliest occurrence of any marker
// in lower at or after from, and the length of the marker that matched.
// The earliest match wins across variants regardless of table order.
func earliest(lower string, from int, markers []string) (pos, length int) {
	pos = -1
	for _, m := range markers {
		i := strings.Index(lower[from:], m)
		if i < 0 {
			continue
		}
		i += from
		if pos < 0 || i < pos {
			pos, length = i, len(m)
		}
	}
	return pos, length
}

// ExtractSection cuts the named section out of text. The returned
// content excludes the boundary markers, has runs of three or more
// newlines collapsed to two, and is trimmed of surrounding whitespace.
func ExtractSection(text, name string) (string, error) {
	rule, ok := ruleFor(name)
	if !ok {
		return "", fmt.Errorf("unknown section %q", name)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lower := strings.ToLower(text)

	startPos, startLen := earliest(lower, 0, rule.start)
	if startPos < 0 {
		return "", fmt.Errorf("%s: %w", name, ErrSectionNotFound)
	}
	begin := startPos + startLen

	end := len(text)
	if endPos, _ := earliest(lower, begin, rule.end); endPos >= 0 {
		end = endPos
	} else {
		// No listed end marker: cap the window, but prefer the next
		// generic item heading when it comes earlier.
		if begin+maxSectionWindow < end {
			end = begin + maxSectionWindow
		}
		if loc := nextItemPattern.FindStringIndex(lower[begin:]); loc != nil && begin+loc[0] < end {
			end = begin + loc[0]
		}
	}

	return tidy(text[begin:end]), nil
}

// ExtractAll extracts every known section, skipping the ones whose start
// marker is absent. Unknown-section errors cannot occur here.
func ExtractAll(text string) map[string]string {
	sections := make(map[string]string, len(sectionTable))
	for _, s := range sectionTable {
		content, err := ExtractSection(text, s.name)
		if err != nil {
			continue
		}
		sections[s.name] = content
	}
	return sections
}

func tidy(s string) string {
	return strings.TrimSpace(collapseNewlines.ReplaceAllString(s, "\n\n"))
}
