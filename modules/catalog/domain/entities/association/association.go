package association

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Level classifies how strongly a subject is required by a program.
type Level string

const (
	LevelCore        Level = "core"
	LevelRecommended Level = "recommended"
)

func (l Level) IsValid() bool {
	return l == LevelCore || l == LevelRecommended
}

// Association links one institution, one program and one subject. The ID
// triple is the natural key; level and note are overwritten on conflict.
type Association struct {
	institutionID uuid.UUID
	programID     uuid.UUID
	subjectID     uuid.UUID
	level         Level
	note          *string
	createdAt     time.Time
	updatedAt     time.Time
}

type Option func(*Association)

func WithNote(note *string) Option {
	return func(a *Association) {
		a.note = note
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(a *Association) {
		a.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(a *Association) {
		a.updatedAt = updatedAt
	}
}

func New(institutionID, programID, subjectID uuid.UUID, level Level, opts ...Option) *Association {
	a := &Association{
		institutionID: institutionID,
		programID:     programID,
		subjectID:     subjectID,
		level:         level,
		createdAt:     time.Now(),
		updatedAt:     time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Association) InstitutionID() uuid.UUID { return a.institutionID }
func (a *Association) ProgramID() uuid.UUID     { return a.programID }
func (a *Association) SubjectID() uuid.UUID     { return a.subjectID }
func (a *Association) Level() Level             { return a.level }
func (a *Association) Note() *string            { return a.note }
func (a *Association) CreatedAt() time.Time     { return a.createdAt }
func (a *Association) UpdatedAt() time.Time     { return a.updatedAt }

// Repository is the storage contract for associations. UpsertBatch writes
// one bounded batch keyed on (institution_id, program_id, subject_id),
// overwriting level and note on conflict, and reports how many rows were
// newly inserted (as opposed to updated).
type Repository interface {
	UpsertBatch(ctx context.Context, batch []*Association) (inserted int64, err error)
	ProgramIDsForInstitution(ctx context.Context, institutionID uuid.UUID) ([]uuid.UUID, error)
	GetForPair(ctx context.Context, institutionID, programID uuid.UUID) ([]*Association, error)
}
