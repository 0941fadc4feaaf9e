package ingest

import "github.com/jinhak-io/jinhak/modules/catalog/domain/entities/entity"

// Registry collects the deduplicated canonical names of one ingestion batch,
// one set per entity type. Purely in-memory; a single pass over the rows.
type Registry struct {
	seen  map[entity.Type]map[string]bool
	names map[entity.Type][]string
}

func NewRegistry() *Registry {
	r := &Registry{
		seen:  make(map[entity.Type]map[string]bool, 3),
		names: make(map[entity.Type][]string, 3),
	}
	for _, t := range []entity.Type{entity.TypeInstitution, entity.TypeProgram, entity.TypeSubject} {
		r.seen[t] = make(map[string]bool)
	}
	return r
}

func (r *Registry) add(typ entity.Type, name string) {
	if name == "" || r.seen[typ][name] {
		return
	}
	r.seen[typ][name] = true
	r.names[typ] = append(r.names[typ], name)
}

// Collect normalizes every row's institution, program and subject fields and
// records the resulting canonical names.
func (r *Registry) Collect(rows []RawRow) {
	for _, row := range rows {
		r.add(entity.TypeInstitution, NormalizeInstitution(row.Institution))
		r.add(entity.TypeProgram, NormalizeProgram(row.ProgramPart1, row.ProgramPart2))
		for _, s := range SplitSubjects(row.CoreSubjects) {
			r.add(entity.TypeSubject, s)
		}
		for _, s := range SplitSubjects(row.RecommendedSubjects) {
			r.add(entity.TypeSubject, s)
		}
	}
}

// Names returns the collected canonical names for one type in first-seen
// order. The order only matters for reproducible chunking in tests.
func (r *Registry) Names(typ entity.Type) []string {
	return r.names[typ]
}

func (r *Registry) Count(typ entity.Type) int {
	return len(r.seen[typ])
}
