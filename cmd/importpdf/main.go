package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joseph-ayodele/purchase-tracker/internal/async"
	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"github.com/joseph-ayodele/purchase-tracker/internal/ingest"
	"github.com/joseph-ayodele/purchase-tracker/internal/pdftext"
	processor "github.com/joseph-ayodele/purchase-tracker/internal/pipeline"
)

type line struct {
	Path     string        `json:"path"`
	Draft    extract.Draft `json:"draft"`
	Warnings []string      `json:"warnings,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// importpdf runs the PDF import pipeline and prints one draft purchase
// request per document as a JSON line. Nothing is persisted.
func main() {
	var (
		file       = flag.String("file", "", "single PDF to import")
		dir        = flag.String("dir", "", "directory of PDFs to import")
		watch      = flag.Bool("watch", false, "keep watching -dir for new PDFs")
		workers    = flag.Int("workers", 4, "concurrent imports for -dir")
		skipHidden = flag.Bool("skip-hidden", true, "ignore dot files and directories")
	)
	flag.Parse()
	if *file == "" && flag.NArg() == 1 {
		*file = flag.Arg(0)
	}
	if (*file == "") == (*dir == "") {
		printError("Error: exactly one of --file or --dir is required\n")
		os.Exit(2)
	}
	if *watch && *dir == "" {
		printError("Error: --watch needs --dir\n")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pdf := pdftext.NewExtractor(pdftext.Config{
		Pdftotext:       cfg.PDF.Pdftotext,
		MaxBytes:        cfg.PDF.MaxBytes,
		Timeout:         cfg.PDF.Timeout,
		StrictPreflight: cfg.PDF.StrictPreflight,
	}, logger)
	importer := processor.NewImporter(logger, processor.NewTextStage(pdf, logger), extract.NewAssembler(logger), nil)

	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)
	failed := 0
	write := func(path string, out processor.Outcome) {
		l := line{
			Path:     path,
			Draft:    out.Result.Draft(),
			Warnings: out.Source.Warnings,
		}
		if out.Err != nil {
			l.Error = out.Err.Error()
		} else if err := extract.ValidateDraft(l.Draft); err != nil {
			logger.Warn("draft failed schema validation", "path", path, "error", err)
		}
		mu.Lock()
		defer mu.Unlock()
		if out.Err != nil {
			failed++
		}
		if err := enc.Encode(l); err != nil {
			logger.Error("encode draft", "path", path, "error", err)
		}
	}

	if *file != "" {
		fileCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		write(*file, importer.Import(fileCtx, *file))
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	queue := async.NewImportQueue(importer, logger,
		async.WithWorkers(*workers),
		async.WithProcessTimeout(2*time.Minute),
		async.WithResultFunc(func(j async.Job, out processor.Outcome) { write(j.Path, out) }),
	)

	start := time.Now()
	if *watch {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*dir},
			InitialScan: true,
			Debounce:    time.Second,
			SkipHidden:  *skipHidden,
		}, logger)
		if err != nil {
			logger.Error("start watcher", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("watching for PDFs", "dir", *dir)
		for events != nil || errs != nil {
			select {
			case p, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
					logger.Warn("enqueue", "path", p, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watcher", "error", err)
			}
		}
	} else {
		paths, stats, err := ingest.ScanDirectory(ctx, *dir, *skipHidden)
		if err != nil {
			logger.Error("scan directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("scan complete", "dir", *dir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
		for _, p := range paths {
			if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
				logger.Warn("enqueue", "path", p, "error", err)
				break
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	logger.Info("import finished", "failed", failed, "duration_ms", time.Since(start).Milliseconds())
	if failed > 0 {
		os.Exit(1)
	}
}
