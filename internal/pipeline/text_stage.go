package processor

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/purchase-tracker/internal/common"
	"github.com/joseph-ayodele/purchase-tracker/internal/extract"
)

// TextStage turns an uploaded document into its plain and layout text.
type TextStage struct {
	TextExtractor extract.BytesExtractor
	Logger        *slog.Logger
}

func NewTextStage(tx extract.BytesExtractor, logger *slog.Logger) *TextStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextStage{TextExtractor: tx, Logger: logger}
}

// Run extracts a document already on disk.
func (s *TextStage) Run(ctx context.Context, path string) (extract.TextExtractionResult, error) {
	res, err := s.TextExtractor.Extract(ctx, path)
	if err != nil {
		return res, common.WrapError(err, "extract text")
	}
	s.log(ctx, res)
	return res, nil
}

// RunBytes extracts an in-memory upload.
func (s *TextStage) RunBytes(ctx context.Context, data []byte) (extract.TextExtractionResult, error) {
	res, err := s.TextExtractor.ExtractBytes(ctx, data)
	if err != nil {
		return res, common.WrapError(err, "extract text")
	}
	s.log(ctx, res)
	return res, nil
}

func (s *TextStage) log(ctx context.Context, res extract.TextExtractionResult) {
	log := common.LoggerFromContext(ctx, s.Logger)
	if len(res.Warnings) > 0 {
		log.Warn("pipeline.text.warnings", "warnings", res.Warnings)
	}
	log.Info("pipeline.text.ok",
		"method", res.Method,
		"pages", res.Pages,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
}
