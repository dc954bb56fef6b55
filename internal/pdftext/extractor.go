package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/purchase-tracker/constants"
	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"golang.org/x/sync/errgroup"
)

// Method names reported in TextExtractionResult.
const (
	MethodPlain  = "pdftotext"
	MethodLayout = "pdftotext-layout"
)

type Config struct {
	Pdftotext       string        // binary name or absolute path; if empty -> "pdftotext"
	MaxBytes        int64         // 0 = no limit
	Timeout         time.Duration // 0 = no per-document timeout
	StrictPreflight bool          // fail instead of warn when pdfcpu rejects the file
}

// Extractor renders the first page of a PDF twice: once as plain reading
// order text and once with the physical layout preserved.
type Extractor struct {
	cfg       Config
	runner    Runner
	pageCount func(path string) (int, error)
	logger    *slog.Logger
}

var _ extract.BytesExtractor = (*Extractor)(nil)

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, pageCount: pageCount, logger: logger}
}

// WithRunner swaps the command runner, mostly for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract validates path and returns both renderings of page one.
func (e *Extractor) Extract(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	start := time.Now()
	res := extract.TextExtractionResult{SourceType: constants.PDF, Method: MethodPlain + "+" + MethodLayout}

	ext := constants.NormalizeExt(filepath.Ext(path))
	if constants.MapExtToFormat(ext) != constants.PDF {
		e.logger.Error("pdftext.unsupported", "path", path, "ext", ext)
		return res, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return res, fmt.Errorf("stat %s: %w", path, err)
	}
	if e.cfg.MaxBytes > 0 && info.Size() > e.cfg.MaxBytes {
		e.logger.Error("pdftext.too_large", "path", path, "bytes", info.Size(), "max_bytes", e.cfg.MaxBytes)
		return res, fmt.Errorf("%w: %d bytes exceeds %d", common.ErrTooLarge, info.Size(), e.cfg.MaxBytes)
	}

	pages, err := e.pageCount(path)
	if err != nil {
		if e.cfg.StrictPreflight {
			e.logger.Error("pdftext.preflight.failed", "path", path, "error", err)
			return res, fmt.Errorf("%w: %v", common.ErrUnsupportedFormat, err)
		}
		e.logger.Warn("pdftext.preflight.failed", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
	}
	res.Pages = pages

	ctx, cancel := common.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	var plain, layout string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := e.render(gctx, path, false)
		plain = out
		return err
	})
	g.Go(func() error {
		out, err := e.render(gctx, path, true)
		layout = out
		return err
	})
	if err := g.Wait(); err != nil {
		res.Duration = time.Since(start)
		return res, err
	}

	res.Document = extract.RawDocumentText{Plain: plain, Layout: layout}
	res.Duration = time.Since(start)
	e.logger.Debug("pdftext.extract.ok",
		"path", path,
		"pages", res.Pages,
		"plain_chars", len(plain),
		"layout_chars", len(layout),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// ExtractBytes spools an uploaded document to a temp file and extracts it.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte) (extract.TextExtractionResult, error) {
	if e.cfg.MaxBytes > 0 && int64(len(data)) > e.cfg.MaxBytes {
		return extract.TextExtractionResult{SourceType: constants.PDF},
			fmt.Errorf("%w: %d bytes exceeds %d", common.ErrTooLarge, len(data), e.cfg.MaxBytes)
	}
	f, err := os.CreateTemp("", "purchase-*.pdf")
	if err != nil {
		return extract.TextExtractionResult{}, fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	defer func() {
		if err := os.Remove(name); err != nil {
			e.logger.Warn("pdftext.tempfile.remove_failed", "path", name, "error", err)
		}
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return extract.TextExtractionResult{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return extract.TextExtractionResult{}, fmt.Errorf("close temp file: %w", err)
	}
	return e.Extract(ctx, name)
}

func (e *Extractor) render(ctx context.Context, path string, layout bool) (string, error) {
	// pdftotext [-layout] -f 1 -l 1 -enc UTF-8 -eol unix <path> -
	args := []string{"-f", "1", "-l", "1", "-enc", "UTF-8", "-eol", "unix"}
	method := MethodPlain
	if layout {
		args = append([]string{"-layout"}, args...)
		method = MethodLayout
	}
	args = append(args, path, "-")

	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, args...)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg != "" {
			return "", fmt.Errorf("%s: %w: %s", method, err, msg)
		}
		return "", fmt.Errorf("%s: %w", method, err)
	}
	return Normalize(string(out)), nil
}
