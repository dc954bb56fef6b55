package constants

import "strings"

// PDF is the only format the purchase-request importer understands.
const PDF = "PDF"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns PDF for importable extensions and "" otherwise.
func MapExtToFormat(ext string) string {
	if NormalizeExt(ext) == "pdf" {
		return PDF
	}
	return ""
}

// IsImportable reports whether files with ext can go through the importer.
func IsImportable(ext string) bool {
	return MapExtToFormat(ext) != ""
}
