// Package report collects the side-channel output of one document run:
// attention records, warnings and the per-period success tally. The report
// never drives engine control flow; it exists for the operator.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/reconcile"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/resolve"
)

// Report is the consolidated outcome of processing one document.
type Report struct {
	Attentions []resolve.AttentionRecord
	Warnings   []string
	Outcomes   []reconcile.Outcome
}

// PeriodsTotal counts periods that produced resolved cells.
func (r *Report) PeriodsTotal() int {
	return len(r.Outcomes)
}

// PeriodsUpdated counts periods with at least one applied write.
func (r *Report) PeriodsUpdated() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Updated() {
			n++
		}
	}
	return n
}

// FailedPeriods lists labels of periods that produced no writes, with the
// reason appended.
func (r *Report) FailedPeriods() []string {
	var failed []string
	for _, o := range r.Outcomes {
		switch {
		case !o.Found:
			failed = append(failed, o.Label()+" - row not found")
		case o.Written == 0:
			failed = append(failed, o.Label()+" - cells already filled")
		}
	}
	return failed
}

// csvRow is the flat CSV shape of one report entry.
type csvRow struct {
	Kind   string `csv:"kind"`
	Period string `csv:"period"`
	Codes  string `csv:"codes"`
	Detail string `csv:"detail"`
}

// WriteCSV exports attentions and warnings as a semicolon-delimited CSV,
// attention records first, sorted by period.
func (r *Report) WriteCSV(w io.Writer) error {
	rows := make([]csvRow, 0, len(r.Attentions)+len(r.Warnings))

	attentions := make([]resolve.AttentionRecord, len(r.Attentions))
	copy(attentions, r.Attentions)
	sort.SliceStable(attentions, func(i, j int) bool {
		a, b := attentions[i].Period, attentions[j].Period
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	for _, att := range attentions {
		rows = append(rows, csvRow{
			Kind:   string(att.Kind),
			Period: att.Period.String(),
			Codes:  strings.Join(att.Codes, "+"),
			Detail: att.Detail,
		})
	}
	for _, warning := range r.Warnings {
		rows = append(rows, csvRow{Kind: "WARNING", Detail: warning})
	}

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = ';'
		return gocsv.NewSafeCSVWriter(writer)
	})
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing report CSV: %w", err)
	}
	return nil
}
