// Package reconcile merges per-period resolved cells across all pages of one
// document and computes the destination writes. Writes are emitted only for
// destination cells that are currently empty: pre-existing values, formulas
// and formatting are never overwritten.
package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/classify"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/numfmt"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/period"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/resolve"
)

// PeriodLocator finds the destination row for a period inside the row band
// its sheet type targets.
type PeriodLocator interface {
	FindPeriodRow(key period.Key, band classify.RowBand) (int, bool)
}

// CellReader reads the current textual value of a destination cell.
type CellReader interface {
	CellValue(row int, column string) (string, error)
}

// Write is one pending cell assignment.
type Write struct {
	Row    int
	Column string
	Value  numfmt.CellValue
}

// PeriodResolution carries one period's resolved cells into reconciliation.
type PeriodResolution struct {
	Key   period.Key
	Sheet classify.SheetType
	Cells []resolve.ResolvedCell
}

// Outcome tallies what happened to one period.
type Outcome struct {
	Key     period.Key
	Sheet   classify.SheetType
	Row     int
	Written int
	Skipped int  // cells already filled
	Found   bool // destination row located
}

// Updated reports whether the period received at least one write.
func (o Outcome) Updated() bool {
	return o.Found && o.Written > 0
}

// Label renders "jan/23 (NORMAL)" for summaries.
func (o Outcome) Label() string {
	return fmt.Sprintf("%s (%s)", o.Key.SheetLabel(), o.Sheet)
}

// Periods computes the write-set for all resolutions of one document.
// Data-quality gaps (missing rows, pre-filled cells) become warnings;
// only collaborator I/O failures return an error.
func Periods(resolutions []PeriodResolution, locator PeriodLocator, cells CellReader) ([]Write, []Outcome, []string, error) {
	var (
		writes   []Write
		outcomes []Outcome
		warnings []string
	)

	for _, res := range resolutions {
		outcome := Outcome{Key: res.Key, Sheet: res.Sheet}

		row, found := locator.FindPeriodRow(res.Key, classify.Band(res.Sheet))
		if !found {
			warnings = append(warnings, fmt.Sprintf(
				"period %s not found in %s rows of the destination sheet", res.Key.SheetLabel(), res.Sheet))
			outcomes = append(outcomes, outcome)
			continue
		}
		outcome.Found = true
		outcome.Row = row

		for _, cell := range res.Cells {
			existing, err := cells.CellValue(row, cell.Column)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("reading destination cell %s%d: %w", cell.Column, row, err)
			}
			if !cellEmpty(existing) {
				outcome.Skipped++
				warnings = append(warnings, fmt.Sprintf(
					"period %s: cell %s%d already holds %q, left untouched", res.Key.SheetLabel(), cell.Column, row, existing))
				continue
			}
			writes = append(writes, Write{Row: row, Column: cell.Column, Value: cell.Value})
			outcome.Written++
		}

		outcomes = append(outcomes, outcome)
	}

	return writes, outcomes, warnings, nil
}

// cellEmpty treats empty strings and numeric zero as writable.
func cellEmpty(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == 0 {
		return true
	}
	return false
}
