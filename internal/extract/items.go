package extract

import (
	"regexp"
	"strings"
)

const observationLabel = "Observação:"

// reItemRow matches a row-start marker (DD.DD.DDDD) at the beginning of a line.
// The marker may be the whole line.
var reItemRow = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})(?:\s+(.*))?$`)

// ParseItems scans the plain text for item rows in document order.
// The second return value is the observation log: one entry per item,
// "code description" with " - note" appended when the next line carries an observation.
func ParseItems(plain string) ([]LineItem, []string) {
	lines := splitLines(plain)
	var items []LineItem
	var observations []string

	for i, line := range lines {
		m := reItemRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code, rest := m[1], m[2]

		qty, unit, desc := scanTokens(rest, itemRules)
		item := LineItem{
			Code:        code,
			Description: desc,
			Quantity:    qty,
			Unit:        unit,
		}
		if i+1 < len(lines) {
			item.Note = observationNote(lines[i+1])
		}
		items = append(items, item)
		observations = append(observations, observationEntry(item))
	}
	return items, observations
}

// observationNote returns the text after the observation label, or "".
func observationNote(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, observationLabel) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, observationLabel))
}

func observationEntry(item LineItem) string {
	entry := strings.TrimSpace(item.Code + " " + item.Description)
	if item.Note != "" {
		entry += " - " + item.Note
	}
	return entry
}
