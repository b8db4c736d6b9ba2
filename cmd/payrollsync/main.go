package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/mapping"
	"github.com/danielchaves22/pdf-extractor/internal/domain/payroll/service"
	"github.com/danielchaves22/pdf-extractor/pkg/config"
)

func main() {
	pdfName := flag.String("pdf", "", "Process a single PDF (name inside the working directory); empty processes all")
	workDir := flag.String("dir", "", "Working directory (overrides WORK_DIR)")
	sheetName := flag.String("sheet", "", "Destination sheet name (overrides SHEET_NAME)")
	workers := flag.Int("workers", 0, "Concurrent documents (overrides MAX_WORKERS)")
	writeReport := flag.Bool("report", false, "Write an attention report CSV next to each generated workbook")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *workDir != "" {
		os.Setenv("WORK_DIR", *workDir)
	}
	if *sheetName != "" {
		os.Setenv("SHEET_NAME", *sheetName)
	}
	if *workers > 0 {
		os.Setenv("MAX_WORKERS", fmt.Sprint(*workers))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration", "error", err)
		os.Exit(1)
	}

	table, err := mapping.Default()
	if err != nil {
		logger.Error("mapping table", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.New(cfg, table, logger)

	var results []service.DocumentResult
	if *pdfName != "" {
		path, err := svc.ResolveDocument(*pdfName)
		if err != nil {
			logger.Error("resolving PDF", "error", err)
			os.Exit(1)
		}
		res, err := svc.ProcessDocument(ctx, path)
		if err != nil {
			logger.Error("processing failed", "pdf", *pdfName, "error", err)
			os.Exit(1)
		}
		results = []service.DocumentResult{*res}
	} else {
		results, err = svc.ProcessAll(ctx)
		if err != nil {
			logger.Error("run aborted", "error", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			fmt.Println("No PDF files found in the working directory.")
			return
		}
	}

	failed := 0
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			failed++
			fmt.Printf("FAILED  %s: %v\n", filepath.Base(res.PDFPath), res.Err)
			continue
		}
		printSummary(res)
		if *writeReport {
			path, err := svc.WriteReport(res)
			if err != nil {
				logger.Warn("report not written", "pdf", filepath.Base(res.PDFPath), "error", err)
			} else {
				fmt.Printf("        report: %s\n", filepath.Base(path))
			}
		}
	}

	fmt.Printf("\n%d document(s), %d failed\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func printSummary(res *service.DocumentResult) {
	name := res.PersonName
	if name == "" {
		name = filepath.Base(res.PDFPath)
	}
	fmt.Printf("OK      %s -> %s\n", name, filepath.Base(res.OutputPath))
	fmt.Printf("        periods: %d found, %d updated, %d cell(s) written\n",
		res.Report.PeriodsTotal(), res.Report.PeriodsUpdated(), res.Writes)

	for _, label := range res.Report.FailedPeriods() {
		fmt.Printf("        not updated: %s\n", label)
	}
	for _, a := range res.Report.Attentions {
		fmt.Printf("        ATTENTION [%s] %s: %s\n", a.Kind, a.Period.SheetLabel(), a.Detail)
	}
	for _, w := range res.Report.Warnings {
		fmt.Printf("        warning: %s\n", w)
	}
}
