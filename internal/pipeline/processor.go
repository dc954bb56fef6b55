package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
	"github.com/joseph-ayodele/purchase-tracker/internal/metrics"
)

// Outcome is what one import produced. Result is always usable; Err records
// why it came back empty when the document could not be read.
type Outcome struct {
	Result extract.Result
	Source extract.TextExtractionResult
	Err    error
}

// Importer coordinates text extraction then field assembly.
type Importer struct {
	Logger    *slog.Logger
	Text      *TextStage
	Assembler *extract.Assembler
	Metrics   *metrics.Metrics
}

func NewImporter(logger *slog.Logger, text *TextStage, asm *extract.Assembler, m *metrics.Metrics) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if asm == nil {
		asm = extract.NewAssembler(logger)
	}
	return &Importer{Logger: logger, Text: text, Assembler: asm, Metrics: m}
}

// Import reads a PDF from disk and assembles the purchase request draft.
// A failure to read the document degrades to an empty result.
func (p *Importer) Import(ctx context.Context, path string) Outcome {
	start := time.Now()
	src, err := p.Text.Run(ctx, path)
	return p.finish(ctx, start, src, err)
}

// ImportBytes is Import for an in-memory upload.
func (p *Importer) ImportBytes(ctx context.Context, data []byte) Outcome {
	start := time.Now()
	src, err := p.Text.RunBytes(ctx, data)
	return p.finish(ctx, start, src, err)
}

func (p *Importer) finish(ctx context.Context, start time.Time, src extract.TextExtractionResult, err error) Outcome {
	log := common.LoggerFromContext(ctx, p.Logger)
	if err != nil {
		log.Error("importer.text.failed", "err", err)
		p.Metrics.ObserveExtraction(metrics.OutcomeFailed, 0)
		return Outcome{Result: extract.Empty(), Source: src, Err: err}
	}

	res := p.Assembler.Assemble(src.Document)
	outcome := metrics.OutcomeItems
	if res.NoItems {
		outcome = metrics.OutcomeNoItems
	}
	p.Metrics.ObserveExtraction(outcome, len(res.Items))
	log.Info("importer.ok",
		"request_number", res.Header.RequestNumber,
		"items", len(res.Items),
		"no_items", res.NoItems,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Outcome{Result: res, Source: src}
}
