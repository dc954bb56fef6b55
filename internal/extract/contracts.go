package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: document file -> text variants.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

// BytesExtractor accepts an uploaded document that is not on disk yet.
type BytesExtractor interface {
	TextExtractor
	ExtractBytes(ctx context.Context, data []byte) (TextExtractionResult, error)
}

// RawDocumentText holds the two renderings of a source page.
// Plain is reading-order text; Layout keeps approximate column spacing.
type RawDocumentText struct {
	Plain  string
	Layout string
}

type TextExtractionResult struct {
	Document   RawDocumentText
	Pages      int
	SourceType string // "PDF"
	Method     string // "pdftotext+pdftotext-layout"
	Duration   time.Duration
	Warnings   []string
}
