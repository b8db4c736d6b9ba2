// Package resolve turns the line items of one period into the authoritative
// per-column cell set. It decides, per destination column, between plain
// assignment, summing configured known-duplicate codes, and
// last-occurrence-wins for everything else, emitting attention records
// whenever an automated decision deserves human review.
package resolve

import (
	"fmt"
	"strings"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/classify"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/lineparser"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/mapping"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/numfmt"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/period"
	"github.com/danielchaves22/pdf-extractor/pkg/money"
)

// ResolvedCell is the single authoritative value for one (period, column)
// pair. Never mutated after creation; a later known-duplicate occurrence
// produces a replacement instance, not an update.
type ResolvedCell struct {
	Period             period.Key
	Column             string
	Value              numfmt.CellValue
	ContributingCodes  []string // PDF encounter order
	IsDuplicateSum     bool
	IsGenericAttention bool
}

// AttentionKind distinguishes the two automated decisions worth review.
type AttentionKind string

const (
	// KnownSum marks a configured duplicate-code pair that was added.
	KnownSum AttentionKind = "KNOWN_SUM"
	// GenericDuplicate marks distinct codes sharing one description
	// without being a configured pair; values are left untouched.
	GenericDuplicate AttentionKind = "GENERIC_DUPLICATE"
)

// AttentionRecord reports one automated decision. It is a side channel:
// records never drive control flow.
type AttentionRecord struct {
	Period period.Key
	Kind   AttentionKind
	Codes  []string
	Values map[string]numfmt.CellValue
	Detail string
}

// contribution is one line item's resolved value for its mapped column.
type contribution struct {
	order int
	item  lineparser.LineItem
	rule  mapping.Rule
	value numfmt.CellValue
}

// Period resolves all line items of one period on one sheet type. Items must
// be in PDF encounter order; the last-occurrence-wins tie-break depends on
// it. Returns the resolved cells, the attention records, and warnings for
// ambiguous tie-breaks.
func Period(key period.Key, sheet classify.SheetType, items []lineparser.LineItem, table *mapping.Table) ([]ResolvedCell, []AttentionRecord, []string) {
	contribs := collectContributions(sheet, items, table)
	contribs = applyCodeFallbacks(contribs)

	var (
		cells      []ResolvedCell
		attentions []AttentionRecord
		warnings   []string
	)

	genericCodes, genericRecords := detectGenericDuplicates(key, contribs, table)
	attentions = append(attentions, genericRecords...)

	for _, column := range columnsInOrder(contribs) {
		group := contribsForColumn(contribs, column)
		cell, att, warns := resolveColumn(key, column, group, table)
		if att != nil {
			attentions = append(attentions, *att)
		}
		warnings = append(warnings, warns...)

		for _, code := range cell.ContributingCodes {
			if genericCodes[code] {
				cell.IsGenericAttention = true
				break
			}
		}
		cells = append(cells, cell)
	}

	return cells, attentions, warnings
}

// collectContributions maps each line item through its rule, selecting the
// configured source field with the per-line field fallback when the chosen
// token is absent or zero. Items without a rule for this sheet type are
// skipped silently.
func collectContributions(sheet classify.SheetType, items []lineparser.LineItem, table *mapping.Table) []contribution {
	var contribs []contribution
	for i, item := range items {
		rule, ok := table.Lookup(item.Code, sheet)
		if !ok {
			continue
		}
		value, ok := fieldValue(item, rule)
		if !ok {
			continue
		}
		contribs = append(contribs, contribution{order: i, item: item, rule: rule, value: value})
	}
	return contribs
}

func fieldValue(item lineparser.LineItem, rule mapping.Rule) (numfmt.CellValue, bool) {
	primary, secondary := item.IndexRaw, item.ValueRaw
	if rule.Source == mapping.SourceValue {
		primary, secondary = item.ValueRaw, item.IndexRaw
	}

	value, ok := numfmt.Normalize(primary, rule.HourFormat)
	if ok && !value.IsZero() {
		return value, true
	}
	if rule.FieldFallback {
		if fallback, fbOK := numfmt.Normalize(secondary, rule.HourFormat); fbOK && !fallback.IsZero() {
			return fallback, true
		}
	}
	return value, ok
}

// applyCodeFallbacks enforces code-level fallbacks: a fallback code's
// contributions survive only when its primary code is absent or zero in the
// period; a non-zero primary discards them.
func applyCodeFallbacks(contribs []contribution) []contribution {
	primaryNonZero := map[string]bool{}
	for _, c := range contribs {
		if c.rule.FallbackFor == "" && !c.value.IsZero() {
			primaryNonZero[c.rule.Code] = true
		}
	}

	filtered := contribs[:0]
	for _, c := range contribs {
		if c.rule.FallbackFor != "" && primaryNonZero[c.rule.FallbackFor] {
			continue
		}
		if c.rule.FallbackFor == "" && c.value.IsZero() && hasFallbackFor(contribs, c.rule.Code) {
			// Zero primary yields to its fallback code.
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

func hasFallbackFor(contribs []contribution, primaryCode string) bool {
	for _, c := range contribs {
		if c.rule.FallbackFor == primaryCode && !c.value.IsZero() {
			return true
		}
	}
	return false
}

func columnsInOrder(contribs []contribution) []string {
	var columns []string
	seen := map[string]bool{}
	for _, c := range contribs {
		if !seen[c.rule.Column] {
			seen[c.rule.Column] = true
			columns = append(columns, c.rule.Column)
		}
	}
	return columns
}

func contribsForColumn(contribs []contribution, column string) []contribution {
	var group []contribution
	for _, c := range contribs {
		if c.rule.Column == column {
			group = append(group, c)
		}
	}
	return group
}

// resolveColumn produces the single cell for one column. With one
// contributor the value passes through. With several, a configured
// known-sum group is added; anything else falls back to
// last-occurrence-wins. A known-sum group plus extra codes takes the sum
// first and then last-occurrence-wins against the extras, with a warning.
func resolveColumn(key period.Key, column string, group []contribution, table *mapping.Table) (ResolvedCell, *AttentionRecord, []string) {
	cell := ResolvedCell{Period: key, Column: column}
	for _, c := range group {
		cell.ContributingCodes = append(cell.ContributingCodes, c.rule.Code)
	}

	if len(group) == 1 {
		cell.Value = group[0].value
		return cell, nil, nil
	}

	codes := distinctCodes(group)
	if len(codes) == 1 {
		// Same code repeated: overwrite, last occurrence wins.
		cell.Value = group[len(group)-1].value
		return cell, nil, nil
	}

	sumGroup, hasSum := table.KnownSumFor(column, codes)
	if !hasSum {
		cell.Value = group[len(group)-1].value
		return cell, nil, nil
	}

	var (
		sum       numfmt.CellValue
		sumOrder  int
		members   []contribution
		extras    []contribution
		hasMember bool
	)
	for _, c := range group {
		if sumGroup.Contains(c.rule.Code) {
			if !hasMember {
				sum = c.value
				hasMember = true
			} else {
				sum = sum.Add(c.value)
			}
			sumOrder = c.order
			members = append(members, c)
		} else {
			extras = append(extras, c)
		}
	}

	att := knownSumRecord(key, members, sum)
	cell.Value = sum
	cell.IsDuplicateSum = true

	var warnings []string
	if len(extras) > 0 {
		// Beyond the configured pair: the sum competes with the extra
		// codes under last-occurrence-wins.
		final := sum
		finalOrder := sumOrder
		isSum := true
		for _, c := range extras {
			if c.order > finalOrder {
				final = c.value
				finalOrder = c.order
				isSum = false
			}
		}
		cell.Value = final
		cell.IsDuplicateSum = isSum
		warnings = append(warnings, fmt.Sprintf(
			"period %s column %s: %d codes beyond known-sum group %s; kept %s by encounter order",
			key, column, len(extras), strings.Join(sumGroup.Codes, "+"), final))
	}

	return cell, &att, warnings
}

func knownSumRecord(key period.Key, members []contribution, sum numfmt.CellValue) AttentionRecord {
	record := AttentionRecord{
		Period: key,
		Kind:   KnownSum,
		Values: make(map[string]numfmt.CellValue, len(members)),
	}
	parts := make([]string, 0, len(members))
	for _, c := range members {
		record.Codes = append(record.Codes, c.rule.Code)
		record.Values[c.rule.Code] = c.value
		parts = append(parts, fmt.Sprintf("%s (%s)", c.rule.Code, displayValue(c.value)))
	}
	record.Detail = fmt.Sprintf("%s = %s", strings.Join(parts, " + "), displayValue(sum))
	return record
}

// detectGenericDuplicates finds distinct codes sharing an identical
// description that are not a configured known-sum pair. Detection is
// period-wide and purely observational: it never changes a numeric outcome.
func detectGenericDuplicates(key period.Key, contribs []contribution, table *mapping.Table) (map[string]bool, []AttentionRecord) {
	byDescription := map[string][]contribution{}
	var descriptions []string
	for _, c := range contribs {
		desc := strings.TrimSpace(c.item.Description)
		if desc == "" {
			continue
		}
		if _, seen := byDescription[desc]; !seen {
			descriptions = append(descriptions, desc)
		}
		byDescription[desc] = append(byDescription[desc], c)
	}

	flagged := map[string]bool{}
	var records []AttentionRecord
	for _, desc := range descriptions {
		group := byDescription[desc]
		codes := distinctCodes(group)
		if len(codes) < 2 {
			continue
		}
		if allKnownPairs(codes, table) {
			continue
		}

		record := AttentionRecord{
			Period: key,
			Kind:   GenericDuplicate,
			Codes:  codes,
			Values: make(map[string]numfmt.CellValue, len(group)),
		}
		for _, c := range group {
			record.Values[c.rule.Code] = c.value
			flagged[c.rule.Code] = true
		}
		record.Detail = fmt.Sprintf(
			"codes %s share description %q without a configured sum; values left as reported",
			strings.Join(codes, ", "), desc)
		records = append(records, record)
	}
	return flagged, records
}

func allKnownPairs(codes []string, table *mapping.Table) bool {
	for i := 0; i < len(codes); i++ {
		for j := i + 1; j < len(codes); j++ {
			if !table.IsKnownPair(codes[i], codes[j]) {
				return false
			}
		}
	}
	return true
}

func distinctCodes(group []contribution) []string {
	var codes []string
	seen := map[string]bool{}
	for _, c := range group {
		if !seen[c.rule.Code] {
			seen[c.rule.Code] = true
			codes = append(codes, c.rule.Code)
		}
	}
	return codes
}

func displayValue(v numfmt.CellValue) string {
	if v.IsHour {
		return v.String()
	}
	return money.DisplayBRL(v.Number)
}
