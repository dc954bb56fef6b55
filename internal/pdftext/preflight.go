package pdftext

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pageCount validates the file with pdfcpu and returns its page count.
func pageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count: %w", err)
	}
	if n < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return n, nil
}
