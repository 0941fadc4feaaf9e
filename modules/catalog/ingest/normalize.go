package ingest

import "strings"

const (
	// "서울대" is shorthand for "서울대학교"; completing the suffix makes the
	// two spellings dedup to one institution.
	institutionFullSuffix  = "대학교"
	institutionShortSuffix = "대"
	institutionCompletion  = "학교"

	// College/division names come in as "공과" or "공과대학"; the suffixed
	// form is canonical.
	collegeSuffix = "대학"

	subjectDelimiter = ","
)

// NormalizeInstitution returns the canonical institution name. Names with no
// recognizable suffix pattern (e.g. "KAIST") pass through unchanged. The
// empty result means "no institution"; callers treat such rows as droppable.
func NormalizeInstitution(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}
	if strings.HasSuffix(name, institutionFullSuffix) {
		return name
	}
	if strings.HasSuffix(name, institutionShortSuffix) {
		return name + institutionCompletion
	}
	return name
}

// NormalizeProgram composes the canonical program name from up to two raw
// parts. With both parts present, part1 is a college name coerced to end
// with "대학" and joined to part2 by a single space. With only one part
// present, that part is used as-is.
func NormalizeProgram(part1, part2 string) string {
	p1 := strings.TrimSpace(part1)
	p2 := strings.TrimSpace(part2)
	if p1 == "" {
		return p2
	}
	if p2 == "" {
		return p1
	}
	if !strings.HasSuffix(p1, collegeSuffix) {
		p1 += collegeSuffix
	}
	return p1 + " " + p2
}

// SplitSubjects splits a comma-delimited subject list into trimmed canonical
// names, dropping blanks and preserving order. Duplicates survive here;
// dedup happens in the registry.
func SplitSubjects(raw string) []string {
	if IsBlank(raw) {
		return nil
	}
	parts := strings.Split(raw, subjectDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
