package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type discriminates the three kinds of catalog entities. Together with the
// canonical name it forms the natural key an upsert is keyed on.
type Type string

const (
	TypeInstitution Type = "institution"
	TypeProgram     Type = "program"
	TypeSubject     Type = "subject"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeInstitution, TypeProgram, TypeSubject:
		return true
	}
	return false
}

type Entity struct {
	id        uuid.UUID
	typ       Type
	name      string
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Entity)

func WithID(id uuid.UUID) Option {
	return func(e *Entity) {
		e.id = id
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(e *Entity) {
		e.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(e *Entity) {
		e.updatedAt = updatedAt
	}
}

func New(typ Type, name string, opts ...Option) *Entity {
	e := &Entity{
		typ:       typ,
		name:      name,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Entity) ID() uuid.UUID        { return e.id }
func (e *Entity) Type() Type           { return e.typ }
func (e *Entity) Name() string         { return e.name }
func (e *Entity) CreatedAt() time.Time { return e.createdAt }
func (e *Entity) UpdatedAt() time.Time { return e.updatedAt }

// Repository is the storage contract for catalog entities. UpsertBatch is a
// single bounded write: it inserts every name that does not exist yet and
// returns the surrogate ID for every input name, existing or new. Callers
// are responsible for chunking larger name sets.
type Repository interface {
	UpsertBatch(ctx context.Context, typ Type, names []string) (map[string]uuid.UUID, error)
	GetAllByType(ctx context.Context, typ Type) ([]*Entity, error)
	GetByTypeAndName(ctx context.Context, typ Type, name string) (*Entity, error)
	CountByType(ctx context.Context, typ Type) (int64, error)
}
