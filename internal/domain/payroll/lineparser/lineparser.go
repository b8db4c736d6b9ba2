// Package lineparser turns raw payroll PDF text lines into structured line
// items. A line qualifies when it carries an 8-digit pay-component code, a
// free-text description and at least one trailing numeric token; everything
// else (totals, headers, page furniture) is silently ignored.
package lineparser

import (
	"regexp"
	"strings"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/numfmt"
)

var codePattern = regexp.MustCompile(`^\d{8}$`)

// LineItem is one parsed pay-component line. IndexRaw and ValueRaw keep the
// original token text, since hour-format columns normalize differently from
// currency columns and that decision belongs to the mapping rule, not here.
type LineItem struct {
	Code        string
	Description string
	IndexRaw    string // penultimate numeric token, "" when only one exists
	ValueRaw    string // last numeric token
	Raw         string
}

// Parse attempts to extract a LineItem from one raw text line. The boolean
// result is false for non-data lines; that is expected noise, not an error.
func Parse(line string) (LineItem, bool) {
	tokens := strings.Fields(line)

	codeIdx := -1
	for i, tok := range tokens {
		if codePattern.MatchString(tok) {
			codeIdx = i
			break
		}
	}
	if codeIdx < 0 {
		return LineItem{}, false
	}

	rest := tokens[codeIdx+1:]

	var descTokens []string
	for _, tok := range rest {
		if numfmt.IsNumericToken(tok) {
			break
		}
		descTokens = append(descTokens, tok)
	}

	var numeric []string
	for _, tok := range rest {
		if numfmt.IsNumericToken(tok) {
			numeric = append(numeric, tok)
		}
	}
	if len(numeric) == 0 {
		return LineItem{}, false
	}

	item := LineItem{
		Code:        tokens[codeIdx],
		Description: strings.Join(descTokens, " "),
		ValueRaw:    numeric[len(numeric)-1],
		Raw:         strings.TrimSpace(line),
	}
	if len(numeric) >= 2 {
		item.IndexRaw = numeric[len(numeric)-2]
	}
	return item, true
}

// ParsePage extracts every line item from one page of text, preserving
// encounter order. Resolution later depends on that order.
func ParsePage(text string) []LineItem {
	var items []LineItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if item, ok := Parse(line); ok {
			items = append(items, item)
		}
	}
	return items
}
