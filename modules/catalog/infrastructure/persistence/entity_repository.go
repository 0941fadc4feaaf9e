package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/entity"
	"github.com/jinhak-io/jinhak/modules/catalog/infrastructure/persistence/models"
	"github.com/jinhak-io/jinhak/pkg/composables"
)

var (
	ErrEntityNotFound = fmt.Errorf("entity not found")
)

const (
	entityFindQuery = `SELECT id, type, name, created_at, updated_at FROM catalog_entities`

	// DO UPDATE instead of DO NOTHING so RETURNING also covers rows that
	// already existed; reruns yield the same IDs with no new rows.
	entityUpsertQuery = `
		INSERT INTO catalog_entities (type, name)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (type, name) DO UPDATE SET updated_at = now()
		RETURNING name, id
	`
)

type EntityRepository struct{}

func NewEntityRepository() entity.Repository {
	return &EntityRepository{}
}

// UpsertBatch inserts the given canonical names for one entity type in a
// single write, returning the ID for every input name. Duplicate input
// names collapse to one key.
func (r *EntityRepository) UpsertBatch(ctx context.Context, typ entity.Type, names []string) (map[string]uuid.UUID, error) {
	if !typ.IsValid() {
		return nil, errors.Errorf("invalid entity type: %q", typ)
	}
	if len(names) == 0 {
		return map[string]uuid.UUID{}, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, entityUpsertQuery, string(typ), names)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert entities")
	}
	defer rows.Close()

	ids := make(map[string]uuid.UUID, len(names))
	for rows.Next() {
		var name, idStr string
		if err := rows.Scan(&name, &idStr); err != nil {
			return nil, errors.Wrap(err, "failed to scan upserted entity")
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse entity id")
		}
		ids[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read upserted entities")
	}

	for _, name := range names {
		if _, ok := ids[name]; !ok {
			return nil, errors.Errorf("upsert returned no id for %q", name)
		}
	}
	return ids, nil
}

func (r *EntityRepository) GetAllByType(ctx context.Context, typ entity.Type) ([]*entity.Entity, error) {
	query := entityFindQuery + " WHERE type = $1 ORDER BY name"
	return r.queryEntities(ctx, query, string(typ))
}

func (r *EntityRepository) GetByTypeAndName(ctx context.Context, typ entity.Type, name string) (*entity.Entity, error) {
	query := entityFindQuery + " WHERE type = $1 AND name = $2"
	entities, err := r.queryEntities(ctx, query, string(typ), name)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrEntityNotFound
	}
	return entities[0], nil
}

func (r *EntityRepository) CountByType(ctx context.Context, typ entity.Type) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_entities WHERE type = $1`, string(typ)).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count entities")
	}
	return count, nil
}

func (r *EntityRepository) queryEntities(ctx context.Context, query string, args ...interface{}) ([]*entity.Entity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query entities")
	}
	defer rows.Close()

	entities := make([]*entity.Entity, 0)
	for rows.Next() {
		var dbRow models.Entity
		if err := rows.Scan(&dbRow.ID, &dbRow.Type, &dbRow.Name, &dbRow.CreatedAt, &dbRow.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan entity")
		}
		domainEntity, err := ToDomainEntity(&dbRow)
		if err != nil {
			return nil, err
		}
		entities = append(entities, domainEntity)
	}
	if err := rows.Err(); err != nil && err != pgx.ErrNoRows {
		return nil, err
	}
	return entities, nil
}
