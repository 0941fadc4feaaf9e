package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/association"
	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/entity"
)

// fallbackProgramNames is the ordered chain of umbrella program names tried
// when a specific (institution, program) pair yields no notes.
var fallbackProgramNames = []string{"전계열", "전학과", "공통"}

const maxSuggestions = 3

// Resolution is the outcome of reconciling one curated (institution,
// program) pair against the ingested catalog. Empty Notes with no error is
// a valid, common outcome.
type Resolution struct {
	Notes           []string `json:"notes"`
	IsFallback      bool     `json:"is_fallback"`
	FallbackProgram string   `json:"fallback_program,omitempty"`

	// Suggestions lists the closest program names when nothing matched.
	// Diagnostic only; never used as a match.
	Suggestions []string `json:"suggestions,omitempty"`
}

// ResolverService reconciles hand-authored names against the ingested
// catalog. Curated and ingested names are produced independently and never
// agree exactly, so matching is whitespace- and case-insensitive, and
// program matching additionally accepts substring containment either way.
type ResolverService struct {
	entities     entity.Repository
	associations association.Repository
}

func NewResolverService(entities entity.Repository, associations association.Repository) *ResolverService {
	return &ResolverService{
		entities:     entities,
		associations: associations,
	}
}

// normalizeForMatch strips all whitespace and case-folds.
func normalizeForMatch(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// MatchInstitution finds the registry institution whose name equals the
// curated name after normalization. Returns nil without error when there is
// no match.
func (s *ResolverService) MatchInstitution(ctx context.Context, curatedName string) (*entity.Entity, error) {
	all, err := s.entities.GetAllByType(ctx, entity.TypeInstitution)
	if err != nil {
		return nil, err
	}
	target := normalizeForMatch(curatedName)
	if target == "" {
		return nil, nil
	}
	for _, e := range all {
		if normalizeForMatch(e.Name()) == target {
			return e, nil
		}
	}
	return nil, nil
}

// MatchProgram finds the first candidate equal to, containing, or contained
// in the curated name after normalization. Strict equality alone would
// silently hide valid matches because the two corpora apply different
// hierarchical naming.
func MatchProgram(curatedName string, candidates []*entity.Entity) *entity.Entity {
	target := normalizeForMatch(curatedName)
	if target == "" {
		return nil
	}
	for _, c := range candidates {
		name := normalizeForMatch(c.Name())
		if name == target || strings.Contains(name, target) || strings.Contains(target, name) {
			return c
		}
	}
	return nil
}

// ResolveWithFallback looks up the notes for the (institution, program)
// pair; when the direct lookup yields nothing it walks the umbrella program
// chain under the same institution and uses the first one with notes,
// flagging the result as a fallback.
func (s *ResolverService) ResolveWithFallback(ctx context.Context, institutionName, programName string) (*Resolution, error) {
	inst, err := s.MatchInstitution(ctx, institutionName)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return &Resolution{}, nil
	}

	candidates, err := s.programCandidates(ctx, inst)
	if err != nil {
		return nil, err
	}

	prog := MatchProgram(programName, candidates)
	if prog != nil {
		notes, err := s.notesForPair(ctx, inst.ID(), prog.ID())
		if err != nil {
			return nil, err
		}
		if len(notes) > 0 {
			return &Resolution{Notes: notes}, nil
		}
	}

	for _, fallbackName := range fallbackProgramNames {
		fb := findByExactName(candidates, fallbackName)
		if fb == nil {
			continue
		}
		notes, err := s.notesForPair(ctx, inst.ID(), fb.ID())
		if err != nil {
			return nil, err
		}
		if len(notes) > 0 {
			return &Resolution{
				Notes:           notes,
				IsFallback:      true,
				FallbackProgram: fb.Name(),
			}, nil
		}
	}

	res := &Resolution{}
	if prog == nil {
		res.Suggestions = rankSuggestions(programName, candidates)
	}
	return res, nil
}

// notesForPair collects the distinct non-blank notes attached to the pair's
// associations, sorted for stable output.
func (s *ResolverService) notesForPair(ctx context.Context, institutionID, programID uuid.UUID) ([]string, error) {
	associations, err := s.associations.GetForPair(ctx, institutionID, programID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(associations))
	notes := make([]string, 0, len(associations))
	for _, a := range associations {
		if a.Note() == nil {
			continue
		}
		note := strings.TrimSpace(*a.Note())
		if note == "" || seen[note] {
			continue
		}
		seen[note] = true
		notes = append(notes, note)
	}
	sort.Strings(notes)
	return notes, nil
}

// programCandidates returns the programs that actually have associations
// under the institution.
func (s *ResolverService) programCandidates(ctx context.Context, inst *entity.Entity) ([]*entity.Entity, error) {
	ids, err := s.associations.ProgramIDsForInstitution(ctx, inst.ID())
	if err != nil {
		return nil, err
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id.String()] = true
	}

	all, err := s.entities.GetAllByType(ctx, entity.TypeProgram)
	if err != nil {
		return nil, err
	}
	candidates := make([]*entity.Entity, 0, len(ids))
	for _, p := range all {
		if idSet[p.ID().String()] {
			candidates = append(candidates, p)
		}
	}
	return candidates, nil
}

func findByExactName(candidates []*entity.Entity, name string) *entity.Entity {
	for _, c := range candidates {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func rankSuggestions(curatedName string, candidates []*entity.Entity) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name()
	}
	ranks := fuzzy.RankFindNormalizedFold(curatedName, names)
	sort.Sort(ranks)
	out := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
