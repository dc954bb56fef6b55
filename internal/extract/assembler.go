package extract

import (
	"fmt"
	"log/slog"
	"strings"
)

// Assembler merges header, requester and item extraction into one Result.
type Assembler struct {
	logger *slog.Logger
}

func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble never fails: partial results are kept, and a panic in any
// sub-extraction degrades to Empty().
func (a *Assembler) Assemble(doc RawDocumentText) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("extract.assemble.panic", "err", fmt.Sprint(r))
			res = Empty()
		}
	}()

	res.Header = ExtractHeader(doc.Plain)
	res.Header.Requester = LocateRequester(doc.Layout)

	items, observations := ParseItems(doc.Plain)
	res.Items = items
	if len(observations) > 0 {
		res.Header.Observation = strings.Join(observations, "\n")
	}
	res.NoItems = len(res.Items) == 0

	a.logger.Debug("extract.assemble.ok",
		"request_number", res.Header.RequestNumber,
		"company", res.Header.CompanyCode,
		"has_date", res.Header.HasPurchaseDate(),
		"has_requester", res.Header.Requester != "",
		"items", len(res.Items),
	)
	return res
}

// Assemble runs the assembler with the default logger.
func Assemble(doc RawDocumentText) Result {
	return NewAssembler(nil).Assemble(doc)
}
