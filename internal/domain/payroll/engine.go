// Package payroll implements the reconciliation engine: it classifies the
// pages of one payroll PDF, parses their line items, resolves duplicates per
// period and produces the spreadsheet write-set plus the attention report.
// The engine is pure computation over in-memory text; one call covers one
// whole document, and nothing is shared across documents.
package payroll

import (
	"fmt"
	"log/slog"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/classify"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/lineparser"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/mapping"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/period"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/reconcile"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/report"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/resolve"
)

// PageSource supplies the extracted plain text of each PDF page. The PDF
// reading itself lives outside the engine.
type PageSource interface {
	PageCount() int
	PageText(i int) (string, error)
}

// Result is the engine's complete output for one document: the pending
// writes and the side-channel report.
type Result struct {
	Writes []reconcile.Write
	Report report.Report
}

// Engine reconciles one document at a time. It is reentrant: the sheet type
// is a per-page value threaded through the calls, never process state.
type Engine struct {
	table  *mapping.Table
	logger *slog.Logger
}

// NewEngine builds an engine over a validated mapping table.
func NewEngine(table *mapping.Table, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{table: table, logger: logger}
}

type bucketKey struct {
	sheet classify.SheetType
	key   period.Key
}

// Process runs the full pipeline over one document. Per-page and per-line
// data problems degrade to skips and warnings; only collaborator I/O
// failures abort.
func (e *Engine) Process(pages PageSource, locator reconcile.PeriodLocator, cells reconcile.CellReader) (*Result, error) {
	result := &Result{}

	buckets := map[bucketKey][]lineparser.LineItem{}
	var order []bucketKey

	for i := 0; i < pages.PageCount(); i++ {
		text, err := pages.PageText(i)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}

		sheet := classify.Page(text)
		if !sheet.Processed() {
			e.logger.Debug("page skipped", "page", i+1, "sheet", string(sheet))
			continue
		}

		items := e.matchedItems(text, sheet)
		if len(items) == 0 {
			continue
		}

		key, ok := period.ParseReference(text)
		if !ok {
			result.Report.Warnings = append(result.Report.Warnings, fmt.Sprintf(
				"page %d: matched %d codes but no identifiable period", i+1, len(items)))
			continue
		}

		bk := bucketKey{sheet: sheet, key: key}
		if _, seen := buckets[bk]; !seen {
			order = append(order, bk)
		}
		buckets[bk] = append(buckets[bk], items...)
	}

	var resolutions []reconcile.PeriodResolution
	for _, bk := range order {
		resolved, attentions, warnings := resolve.Period(bk.key, bk.sheet, buckets[bk], e.table)
		result.Report.Attentions = append(result.Report.Attentions, attentions...)
		result.Report.Warnings = append(result.Report.Warnings, warnings...)
		if len(resolved) == 0 {
			continue
		}
		resolutions = append(resolutions, reconcile.PeriodResolution{
			Key:   bk.key,
			Sheet: bk.sheet,
			Cells: resolved,
		})
	}

	writes, outcomes, warnings, err := reconcile.Periods(resolutions, locator, cells)
	if err != nil {
		return nil, err
	}
	result.Writes = writes
	result.Report.Outcomes = outcomes
	result.Report.Warnings = append(result.Report.Warnings, warnings...)

	e.logger.Info("document reconciled",
		"periods", result.Report.PeriodsTotal(),
		"updated", result.Report.PeriodsUpdated(),
		"writes", len(writes),
		"attentions", len(result.Report.Attentions),
		"warnings", len(result.Report.Warnings))

	return result, nil
}

// matchedItems parses the page and keeps only items with a mapping rule for
// the page's sheet type. Unmapped lines are expected noise.
func (e *Engine) matchedItems(text string, sheet classify.SheetType) []lineparser.LineItem {
	var matched []lineparser.LineItem
	for _, item := range lineparser.ParsePage(text) {
		if _, ok := e.table.Lookup(item.Code, sheet); ok {
			matched = append(matched, item)
		}
	}
	return matched
}
