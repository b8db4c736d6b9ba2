// Package spreadsheet handles the destination workbook: locating period rows,
// reading cell state and applying the computed writes through excelize.
package spreadsheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/classify"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/period"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/reconcile"
)

// Workbook is an open destination workbook bound to one sheet. It satisfies
// the reconciler's row locator and cell reader.
type Workbook struct {
	file  *excelize.File
	sheet string
	path  string
}

// Open opens the workbook at path and validates that the named sheet exists.
func Open(path, sheetName string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("sheet %q not found in %s", sheetName, path)
	}
	return &Workbook{file: f, sheet: sheetName, path: path}, nil
}

// Close releases the workbook without saving.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheet returns the bound sheet name.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// FindPeriodRow scans column A inside the band for a cell matching the
// period. Raw values are read so serial dates match without depending on
// the cell's display format.
func (w *Workbook) FindPeriodRow(key period.Key, band classify.RowBand) (int, bool) {
	end := band.End
	if end == 0 {
		rows, err := w.file.GetRows(w.sheet)
		if err != nil {
			return 0, false
		}
		end = len(rows)
	}
	for row := band.Start; row <= end; row++ {
		cell, err := excelize.JoinCellName("A", row)
		if err != nil {
			return 0, false
		}
		value, err := w.file.GetCellValue(w.sheet, cell, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		if period.MatchCell(value, key) {
			return row, true
		}
	}
	return 0, false
}

// CellValue reads the raw stored value of one cell.
func (w *Workbook) CellValue(row int, column string) (string, error) {
	cell, err := excelize.JoinCellName(column, row)
	if err != nil {
		return "", fmt.Errorf("bad cell reference %s%d: %w", column, row, err)
	}
	value, err := w.file.GetCellValue(w.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", fmt.Errorf("reading cell %s: %w", cell, err)
	}
	return value, nil
}

// Apply sets every pending write on the bound sheet. Hour values land as
// text, everything else as numbers.
func (w *Workbook) Apply(writes []reconcile.Write) error {
	for _, wr := range writes {
		cell, err := excelize.JoinCellName(wr.Column, wr.Row)
		if err != nil {
			return fmt.Errorf("bad cell reference %s%d: %w", wr.Column, wr.Row, err)
		}
		if err := w.file.SetCellValue(w.sheet, cell, wr.Value.SheetValue()); err != nil {
			return fmt.Errorf("writing cell %s: %w", cell, err)
		}
	}
	return nil
}

// Save writes the workbook back to its original path.
func (w *Workbook) Save() error {
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}

// CopyTemplate copies the template workbook to destPath, creating the
// destination directory when needed. Macros and formatting survive because
// the file is copied byte for byte.
func CopyTemplate(templatePath, destPath string) error {
	if _, err := os.Stat(templatePath); err != nil {
		return fmt.Errorf("template %s: %w", templatePath, err)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	src, err := os.Open(templatePath)
	if err != nil {
		return fmt.Errorf("opening template: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying template to %s: %w", destPath, err)
	}
	return nil
}
