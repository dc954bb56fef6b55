package extract

import (
	"regexp"
	"strings"
)

const (
	DefaultQuantity = "1"
	DefaultUnit     = "UN"
)

var (
	// reQuantity is a whole decimal-comma numeral such as "20,0".
	reQuantity = regexp.MustCompile(`^\d+,\d+$`)
	// reNumeralShape matches tokens that start like a decimal-comma numeral ("1,5KG").
	reNumeralShape = regexp.MustCompile(`^\d+,\d+`)
)

// knownUnits is the unit-of-measure vocabulary printed on purchase requests.
// "UN GERAL" never survives whitespace tokenization; it is kept for completeness.
var knownUnits = map[string]struct{}{
	"UN":       {},
	"PC":       {},
	"CX":       {},
	"KG":       {},
	"M":        {},
	"L":        {},
	"LITRO":    {},
	"METRO":    {},
	"PAR":      {},
	"UN GERAL": {},
}

// IsUnitToken reports whether an uppercased token is read as a unit of measure.
func IsUnitToken(upper string) bool {
	if _, ok := knownUnits[upper]; ok {
		return true
	}
	return strings.Contains(upper, "UN")
}

// NormalizeUnit maps an uppercased unit token to its stored form.
// Applying it to its own output returns the same value.
func NormalizeUnit(upper string) string {
	switch {
	case strings.Contains(upper, "UN"):
		return "UN"
	case upper == "PC":
		return "PCT"
	default:
		return upper
	}
}

// tokenScan is the state threaded through the rule chain for one item row.
type tokenScan struct {
	quantity  string
	unit      string
	unitFound bool
	desc      []string
	done      bool
}

// tokenRule inspects one token and reports whether it consumed it.
// Rules run in order and the first one that consumes a token wins.
type tokenRule struct {
	name  string
	apply func(s *tokenScan, tok string) bool
}

var itemRules = []tokenRule{
	{name: "quantity", apply: quantityRule},
	{name: "unit", apply: unitRule},
	{name: "post-unit-noise", apply: postUnitNoiseRule},
	{name: "description", apply: descriptionRule},
}

// quantityRule takes the integer part of a decimal-comma numeral and ends the scan.
func quantityRule(s *tokenScan, tok string) bool {
	if !reQuantity.MatchString(tok) {
		return false
	}
	s.quantity = tok[:strings.IndexByte(tok, ',')]
	s.done = true
	return true
}

func unitRule(s *tokenScan, tok string) bool {
	upper := strings.ToUpper(tok)
	if !IsUnitToken(upper) {
		return false
	}
	s.unit = NormalizeUnit(upper)
	s.unitFound = true
	return true
}

// postUnitNoiseRule swallows anything between a unit and the quantity.
func postUnitNoiseRule(s *tokenScan, _ string) bool {
	return s.unitFound
}

func descriptionRule(s *tokenScan, tok string) bool {
	if reNumeralShape.MatchString(tok) {
		return false
	}
	s.desc = append(s.desc, tok)
	return true
}

// scanTokens runs the rule chain over the remainder of an item row.
func scanTokens(rest string, rules []tokenRule) (quantity, unit, description string) {
	s := &tokenScan{quantity: DefaultQuantity, unit: DefaultUnit}
	for _, tok := range strings.Fields(rest) {
		for _, r := range rules {
			if r.apply(s, tok) {
				break
			}
		}
		if s.done {
			break
		}
	}
	return s.quantity, s.unit, strings.TrimSpace(strings.Join(s.desc, " "))
}
