// Package service orchestrates a full extraction run: PDF discovery,
// template copying, engine execution and workbook persistence.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/mapping"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/pdfio"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/report"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/spreadsheet"
	"github.com/danielchaves22/pdf-extractor/pkg/config"
)

// DocumentResult is the outcome of processing one PDF.
type DocumentResult struct {
	JobID      uuid.UUID
	PDFPath    string
	PersonName string
	OutputPath string
	Writes     int
	Report     report.Report
	Err        error
}

// Service runs extractions against the configured working directory.
type Service struct {
	cfg    *config.Config
	table  *mapping.Table
	logger *slog.Logger
}

// New creates the extraction service.
func New(cfg *config.Config, table *mapping.Table, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, table: table, logger: logger}
}

// ListDocuments returns the payroll PDFs found in the working directory,
// sorted by name.
func (s *Service) ListDocuments() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.cfg.Work.Dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("listing PDFs in %s: %w", s.cfg.Work.Dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ResolveDocument turns a user-supplied name into a path inside the working
// directory, trying the name as given and with a .pdf extension appended.
func (s *Service) ResolveDocument(name string) (string, error) {
	if filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("PDF not found: %s", name)
		}
		return name, nil
	}

	candidate := filepath.Join(s.cfg.Work.Dir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		withExt := candidate + ".pdf"
		if _, err := os.Stat(withExt); err == nil {
			return withExt, nil
		}
	}
	return "", fmt.Errorf("PDF %q not found in working directory", name)
}

// ProcessDocument runs the full pipeline for one PDF: detect the employee
// name, copy the template into the output directory under that name, then
// reconcile the document into the copy.
func (s *Service) ProcessDocument(ctx context.Context, pdfPath string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &DocumentResult{
		JobID:   uuid.New(),
		PDFPath: pdfPath,
	}
	logger := s.logger.With("job_id", result.JobID, "pdf", filepath.Base(pdfPath))

	doc, err := pdfio.Open(pdfPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	baseName := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	if doc.PageCount() > 0 {
		firstPage, err := doc.PageText(0)
		if err == nil {
			if name, ok := pdfio.PersonName(firstPage); ok {
				result.PersonName = name
				baseName = pdfio.NormalizeFileName(name)
				logger.Info("employee name detected", "name", name)
			}
		}
	}
	if result.PersonName == "" {
		logger.Info("employee name not detected, using the PDF file name")
	}

	result.OutputPath = filepath.Join(s.cfg.Work.OutputPath(), baseName+".xlsm")
	if err := spreadsheet.CopyTemplate(s.cfg.Work.TemplatePath(), result.OutputPath); err != nil {
		return nil, err
	}

	wb, err := spreadsheet.Open(result.OutputPath, s.cfg.Process.SheetName)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	engine := payroll.NewEngine(s.table, logger)
	engineResult, err := engine.Process(doc, wb, wb)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", filepath.Base(pdfPath), err)
	}
	result.Report = engineResult.Report
	result.Writes = len(engineResult.Writes)

	if err := wb.Apply(engineResult.Writes); err != nil {
		return nil, err
	}
	if err := wb.Save(); err != nil {
		return nil, err
	}

	logger.Info("document processed",
		"output", filepath.Base(result.OutputPath),
		"writes", result.Writes,
		"attentions", len(result.Report.Attentions))

	return result, nil
}

// ProcessAll processes every PDF in the working directory with a bounded
// worker pool. Per-document failures land in the result's Err field; the
// run keeps going unless the context is cancelled.
func (s *Service) ProcessAll(ctx context.Context) ([]DocumentResult, error) {
	paths, err := s.ListDocuments()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	workerCount := s.cfg.Process.MaxWorkers
	if workerCount > len(paths) {
		workerCount = len(paths)
	}

	jobs := make(chan string)
	results := make(chan DocumentResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					return
				}
				res, err := s.ProcessDocument(ctx, path)
				if err != nil {
					res = &DocumentResult{PDFPath: path, Err: err}
					s.logger.Error("document failed", "pdf", filepath.Base(path), "error", err)
				}
				select {
				case results <- *res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []DocumentResult
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PDFPath < out[j].PDFPath })

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// WriteReport saves the attention report of one result as a CSV next to the
// generated workbook.
func (s *Service) WriteReport(result *DocumentResult) (string, error) {
	base := strings.TrimSuffix(result.OutputPath, filepath.Ext(result.OutputPath))
	path := base + " - RELATORIO.csv"

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report %s: %w", path, err)
	}
	defer f.Close()

	if err := result.Report.WriteCSV(f); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}
