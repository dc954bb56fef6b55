package extract

import (
	"regexp"
	"strings"
)

const (
	requesterAnchor = "Requerente"
	// requesterLookahead is how many lines below the anchor are inspected.
	requesterLookahead = 3
)

// reColumnGap is the column separator of the layout rendering.
var reColumnGap = regexp.MustCompile(`\s{2,}`)

// LocateRequester finds the first line containing the requester anchor in the
// layout text and returns the first column of the first non-blank line below it.
// It returns "" when there is no anchor or nothing follows it.
func LocateRequester(layout string) string {
	lines := splitLines(layout)
	for i, line := range lines {
		if !strings.Contains(line, requesterAnchor) {
			continue
		}
		for offset := 1; offset <= requesterLookahead && i+offset < len(lines); offset++ {
			target := strings.TrimSpace(lines[i+offset])
			if target == "" {
				continue
			}
			return reColumnGap.Split(target, -1)[0]
		}
		// only the first anchor counts
		return ""
	}
	return ""
}

// splitLines splits on LF and drops a trailing CR from each line.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}
