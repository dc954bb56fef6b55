package pdftext

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var reCRLF = regexp.MustCompile(`\r\n?`)

// Normalize composes Unicode (NFC) so accented labels such as "Observação:"
// match regardless of how the PDF encoded them, unifies line endings, turns
// form feeds into line breaks and trims trailing blanks.
// Spacing inside a line is left untouched: the layout rendering relies on it.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
