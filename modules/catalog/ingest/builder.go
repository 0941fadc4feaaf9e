package ingest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/association"
)

// SkipRestOfListOnUnresolved controls what happens when a subject in a
// row's core or recommended list has no registry ID: true abandons the rest
// of that list, false skips just the one subject. The upstream importer
// abandoned the rest of the list; parity is kept as the default.
const SkipRestOfListOnUnresolved = true

// IDMaps carries the completed canonical-name→ID maps for all three entity
// types. The builder only reads them; it never invents IDs.
type IDMaps struct {
	Institutions map[string]uuid.UUID
	Programs     map[string]uuid.UUID
	Subjects     map[string]uuid.UUID
}

// SkippedRow records a row that contributed zero associations, with the
// offending values.
type SkippedRow struct {
	Line        int    `json:"line"`
	Institution string `json:"institution"`
	Program     string `json:"program"`
	Reason      string `json:"reason"`
}

// SkippedSubject records one unresolvable subject name within a row.
type SkippedSubject struct {
	Line    int               `json:"line"`
	Subject string            `json:"subject"`
	Level   association.Level `json:"level"`
}

type BuildResult struct {
	Associations    []*association.Association
	SkippedRows     []SkippedRow
	SkippedSubjects []SkippedSubject
}

// BuildAssociations turns rows into association records using the completed
// ID maps. Rows whose institution or program normalizes to empty or has no
// ID are skipped whole; an unresolvable subject skips (at least) itself.
// Output order follows input order. Duplicate triples across rows are left
// in place; the upsert key resolves them.
func BuildAssociations(rows []RawRow, ids IDMaps) BuildResult {
	var res BuildResult

	for _, row := range rows {
		instName := NormalizeInstitution(row.Institution)
		progName := NormalizeProgram(row.ProgramPart1, row.ProgramPart2)

		if instName == "" || progName == "" {
			res.SkippedRows = append(res.SkippedRows, SkippedRow{
				Line:        row.Line,
				Institution: instName,
				Program:     progName,
				Reason:      "empty institution or program after normalization",
			})
			continue
		}

		instID, okInst := ids.Institutions[instName]
		progID, okProg := ids.Programs[progName]
		if !okInst || !okProg {
			res.SkippedRows = append(res.SkippedRows, SkippedRow{
				Line:        row.Line,
				Institution: instName,
				Program:     progName,
				Reason:      "unresolved institution or program ID",
			})
			continue
		}

		var note *string
		if trimmed := strings.TrimSpace(row.Note); trimmed != "" {
			note = &trimmed
		}

		res.buildList(row.Line, instID, progID, SplitSubjects(row.CoreSubjects), association.LevelCore, note, ids)
		res.buildList(row.Line, instID, progID, SplitSubjects(row.RecommendedSubjects), association.LevelRecommended, note, ids)
	}

	return res
}

func (r *BuildResult) buildList(line int, instID, progID uuid.UUID, subjects []string, level association.Level, note *string, ids IDMaps) {
	for _, name := range subjects {
		subID, ok := ids.Subjects[name]
		if !ok {
			r.SkippedSubjects = append(r.SkippedSubjects, SkippedSubject{
				Line:    line,
				Subject: name,
				Level:   level,
			})
			if SkipRestOfListOnUnresolved {
				return
			}
			continue
		}
		r.Associations = append(r.Associations, association.New(
			instID, progID, subID, level,
			association.WithNote(note),
		))
	}
}
