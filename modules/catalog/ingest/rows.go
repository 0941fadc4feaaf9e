package ingest

import "strings"

// RawRow is one pre-parsed input row. All fields are raw strings as they
// appeared in the source file; normalization happens later. Line is the
// 1-based source line (or sheet row) used in diagnostics.
type RawRow struct {
	Line                int
	Institution         string
	ProgramPart1        string
	ProgramPart2        string
	CoreSubjects        string
	RecommendedSubjects string
	Note                string
}

// IsBlank reports whether s is empty or whitespace-only. Used instead of
// truthiness checks so "missing" and "legitimately empty" read the same way
// everywhere.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
