// Package mapping holds the static registry that ties PDF pay-component
// codes to destination spreadsheet columns. The registry is data, not code:
// adding a code is a table change, and the resolver stays independent of how
// many codes exist.
package mapping

import (
	"fmt"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/classify"
)

// SourceField selects which numeric token of a parsed line feeds the cell.
type SourceField string

const (
	// SourceIndex is the penultimate numeric token (rate/quantity).
	SourceIndex SourceField = "INDEX"
	// SourceValue is the last numeric token (monetary total).
	SourceValue SourceField = "VALUE"
)

// Destination column letters in the reference workbook.
const (
	ColumnRemuneration = "B"  // primary remuneration
	ColumnProduction   = "X"  // monthly production premium
	ColumnOvertime100  = "Y"  // overtime 100% index
	ColumnOvertime75   = "AA" // overtime 75% index
	ColumnDiffOvertime = "AC" // differential overtime 75% index
	ColumnNightShift   = "AE" // night-shift additional index
)

// Rule maps one (code, sheet type) pair to a destination column.
type Rule struct {
	Code        string
	Description string
	Column      string
	Source      SourceField
	Sheet       classify.SheetType
	HourFormat  bool
	// FieldFallback lets production-family codes try the other numeric
	// token when the configured one is absent or zero.
	FieldFallback bool
	// FallbackFor marks this rule as a code-level fallback: its value is
	// used only when the named primary code is absent or zero in the same
	// period. Distinct from FieldFallback, which switches tokens on one line.
	FallbackFor string
}

// Group is a configured known-sum pair: when two or more of its codes appear
// in the same period, their values are added instead of overwritten.
type Group struct {
	Column string
	Codes  []string
}

// Contains reports whether the group includes the code.
func (g Group) Contains(code string) bool {
	for _, c := range g.Codes {
		if c == code {
			return true
		}
	}
	return false
}

type ruleKey struct {
	code  string
	sheet classify.SheetType
}

// Table is the loaded mapping registry.
type Table struct {
	rules  map[ruleKey]Rule
	groups []Group
}

// Default returns the reference deployment's registry: production premium,
// overtime and night-shift indices on normal sheets, INSS contribution
// salary on both sheets with the gross-remuneration fallback on thirteenth
// sheets.
func Default() (*Table, error) {
	rules := []Rule{
		{Code: "01003601", Description: "PREMIO PROD. MENSAL", Column: ColumnProduction, Source: SourceIndex, Sheet: classify.Normal, FieldFallback: true},
		{Code: "01003602", Description: "PREMIO PROD. MENSAL", Column: ColumnProduction, Source: SourceIndex, Sheet: classify.Normal, FieldFallback: true},
		{Code: "01007301", Description: "HORAS EXT.100%-180", Column: ColumnOvertime100, Source: SourceIndex, Sheet: classify.Normal, HourFormat: true},
		{Code: "01007302", Description: "HORAS EXT.100%-220", Column: ColumnOvertime100, Source: SourceIndex, Sheet: classify.Normal, HourFormat: true},
		{Code: "01003501", Description: "HORAS EXT.75%-180", Column: ColumnOvertime75, Source: SourceIndex, Sheet: classify.Normal, HourFormat: true},
		{Code: "02007501", Description: "DIFER.PROV. HORAS EXTRAS 75%", Column: ColumnDiffOvertime, Source: SourceIndex, Sheet: classify.Normal, HourFormat: true},
		{Code: "01009001", Description: "ADIC.NOT.25%-180", Column: ColumnNightShift, Source: SourceIndex, Sheet: classify.Normal, HourFormat: true},
		{Code: "09090301", Description: "SALARIO CONTRIB INSS", Column: ColumnRemuneration, Source: SourceValue, Sheet: classify.Normal},
		{Code: "09090301", Description: "SALARIO CONTRIB INSS", Column: ColumnRemuneration, Source: SourceValue, Sheet: classify.Thirteenth},
		{Code: "09090101", Description: "REMUNERACAO BRUTA", Column: ColumnRemuneration, Source: SourceValue, Sheet: classify.Thirteenth, FallbackFor: "09090301"},
	}
	groups := []Group{
		{Column: ColumnProduction, Codes: []string{"01003601", "01003602"}},
		{Column: ColumnOvertime100, Codes: []string{"01007301", "01007302"}},
	}
	return New(rules, groups)
}

// New builds and validates a table. Malformed configuration is fatal: the
// engine refuses to start rather than misattribute values.
func New(rules []Rule, groups []Group) (*Table, error) {
	t := &Table{rules: make(map[ruleKey]Rule, len(rules)), groups: groups}

	for _, r := range rules {
		if r.Code == "" || r.Column == "" {
			return nil, fmt.Errorf("mapping rule missing code or column: %+v", r)
		}
		if r.Source != SourceIndex && r.Source != SourceValue {
			return nil, fmt.Errorf("mapping rule %s: invalid source field %q", r.Code, r.Source)
		}
		if !r.Sheet.Processed() {
			return nil, fmt.Errorf("mapping rule %s: sheet type %s is never processed", r.Code, r.Sheet)
		}
		key := ruleKey{code: r.Code, sheet: r.Sheet}
		if _, exists := t.rules[key]; exists {
			return nil, fmt.Errorf("duplicate mapping rule for code %s on %s sheets", r.Code, r.Sheet)
		}
		t.rules[key] = r
	}

	for _, r := range rules {
		if r.FallbackFor == "" {
			continue
		}
		primary, ok := t.rules[ruleKey{code: r.FallbackFor, sheet: r.Sheet}]
		if !ok {
			return nil, fmt.Errorf("rule %s falls back to unknown code %s", r.Code, r.FallbackFor)
		}
		if primary.Column != r.Column {
			return nil, fmt.Errorf("rule %s falls back to %s but targets a different column", r.Code, r.FallbackFor)
		}
	}

	for _, g := range groups {
		if len(g.Codes) < 2 {
			return nil, fmt.Errorf("known-sum group for column %s needs at least two codes", g.Column)
		}
		for _, code := range g.Codes {
			found := false
			for key, r := range t.rules {
				if key.code == code && r.Column == g.Column {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("known-sum group code %s has no rule targeting column %s", code, g.Column)
			}
		}
	}

	return t, nil
}

// Lookup returns the rule for a code on the given sheet type. A code
// configured for a different sheet type is never considered.
func (t *Table) Lookup(code string, sheet classify.SheetType) (Rule, bool) {
	r, ok := t.rules[ruleKey{code: code, sheet: sheet}]
	return r, ok
}

// KnownSumFor returns the known-sum group targeting the column, when the
// given codes include at least two distinct members of it.
func (t *Table) KnownSumFor(column string, codes []string) (Group, bool) {
	for _, g := range t.groups {
		if g.Column != column {
			continue
		}
		distinct := map[string]bool{}
		for _, code := range codes {
			if g.Contains(code) {
				distinct[code] = true
			}
		}
		if len(distinct) >= 2 {
			return g, true
		}
	}
	return Group{}, false
}

// IsKnownPair reports whether two codes belong to one known-sum group.
func (t *Table) IsKnownPair(a, b string) bool {
	for _, g := range t.groups {
		if g.Contains(a) && g.Contains(b) {
			return true
		}
	}
	return false
}
