package extract

import (
	"regexp"
	"time"
)

var (
	reRequestNumber = regexp.MustCompile(`Solicitação de Compra:\s*(\d+)`)
	reRequestDate   = regexp.MustCompile(`Data:\s*(\d{2}/\d{2}/\d{4})`)
	reCompanyCode   = regexp.MustCompile(`Empresa:\s*(\d+)`)
)

const requestDateLayout = "02/01/2006"

// ExtractHeader pulls the anchored scalar fields out of the plain text.
// Each lookup is independent; a field that is missing or malformed is left empty.
func ExtractHeader(plain string) Header {
	var h Header
	h.RequestNumber = firstGroup(reRequestNumber, plain)
	h.CompanyCode = firstGroup(reCompanyCode, plain)
	if raw := firstGroup(reRequestDate, plain); raw != "" {
		// invalid calendar dates (31/13/2024, 30/02/2024) are dropped
		if d, err := time.Parse(requestDateLayout, raw); err == nil {
			h.PurchaseDate = d
		}
	}
	return h
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
