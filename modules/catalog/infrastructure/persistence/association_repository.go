package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/association"
	"github.com/jinhak-io/jinhak/modules/catalog/infrastructure/persistence/models"
	"github.com/jinhak-io/jinhak/pkg/composables"
)

const (
	// xmax = 0 distinguishes freshly inserted rows from conflict-updated
	// ones, so reruns report zero inserts instead of duplicating.
	associationUpsertQuery = `
		INSERT INTO catalog_associations (institution_id, program_id, subject_id, level, note)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::uuid[], $4::text[], $5::text[])
		ON CONFLICT (institution_id, program_id, subject_id)
		DO UPDATE SET level = EXCLUDED.level, note = EXCLUDED.note, updated_at = now()
		RETURNING (xmax = 0) AS inserted
	`

	programIDsForInstitutionQuery = `
		SELECT DISTINCT program_id FROM catalog_associations WHERE institution_id = $1
	`

	associationsForPairQuery = `
		SELECT institution_id, program_id, subject_id, level, note, created_at, updated_at
		FROM catalog_associations
		WHERE institution_id = $1 AND program_id = $2
		ORDER BY subject_id
	`
)

type AssociationRepository struct{}

func NewAssociationRepository() association.Repository {
	return &AssociationRepository{}
}

type associationKey struct {
	institutionID uuid.UUID
	programID     uuid.UUID
	subjectID     uuid.UUID
}

// dedupeByTriple collapses duplicate natural keys within one batch, last
// occurrence winning — the same end state sequential upserts would leave.
// A single INSERT may not touch the same conflict target twice (Postgres
// rejects the whole statement), so duplicates must not reach it.
func dedupeByTriple(batch []*association.Association) []*association.Association {
	if len(batch) < 2 {
		return batch
	}
	index := make(map[associationKey]int, len(batch))
	out := make([]*association.Association, 0, len(batch))
	for _, a := range batch {
		key := associationKey{a.InstitutionID(), a.ProgramID(), a.SubjectID()}
		if i, ok := index[key]; ok {
			out[i] = a
			continue
		}
		index[key] = len(out)
		out = append(out, a)
	}
	return out
}

// UpsertBatch writes one batch of associations keyed on the ID triple.
// Conflicting rows get their level and note overwritten. Returns the number
// of rows that were newly inserted. The batch may carry duplicate triples
// (the builder does not dedup); they collapse to their last occurrence.
func (r *AssociationRepository) UpsertBatch(ctx context.Context, batch []*association.Association) (int64, error) {
	batch = dedupeByTriple(batch)
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	institutionIDs := make([]uuid.UUID, len(batch))
	programIDs := make([]uuid.UUID, len(batch))
	subjectIDs := make([]uuid.UUID, len(batch))
	levels := make([]string, len(batch))
	notes := make([]*string, len(batch))
	for i, a := range batch {
		institutionIDs[i] = a.InstitutionID()
		programIDs[i] = a.ProgramID()
		subjectIDs[i] = a.SubjectID()
		levels[i] = string(a.Level())
		notes[i] = a.Note()
	}

	rows, err := tx.Query(ctx, associationUpsertQuery, institutionIDs, programIDs, subjectIDs, levels, notes)
	if err != nil {
		return 0, errors.Wrap(err, "failed to upsert associations")
	}
	defer rows.Close()

	var inserted int64
	for rows.Next() {
		var isInsert bool
		if err := rows.Scan(&isInsert); err != nil {
			return 0, errors.Wrap(err, "failed to scan upsert result")
		}
		if isInsert {
			inserted++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, errors.Wrap(err, "failed to read upsert results")
	}
	return inserted, nil
}

func (r *AssociationRepository) ProgramIDsForInstitution(ctx context.Context, institutionID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, programIDsForInstitutionQuery, institutionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query program ids")
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, errors.Wrap(err, "failed to scan program id")
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse program id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AssociationRepository) GetForPair(ctx context.Context, institutionID, programID uuid.UUID) ([]*association.Association, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, associationsForPairQuery, institutionID, programID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query associations")
	}
	defer rows.Close()

	associations := make([]*association.Association, 0)
	for rows.Next() {
		var dbRow models.Association
		if err := rows.Scan(
			&dbRow.InstitutionID,
			&dbRow.ProgramID,
			&dbRow.SubjectID,
			&dbRow.Level,
			&dbRow.Note,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan association")
		}
		domainAssociation, err := ToDomainAssociation(&dbRow)
		if err != nil {
			return nil, err
		}
		associations = append(associations, domainAssociation)
	}
	return associations, rows.Err()
}
