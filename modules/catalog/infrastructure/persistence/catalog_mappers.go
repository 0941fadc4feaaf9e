package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/association"
	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/entity"
	"github.com/jinhak-io/jinhak/modules/catalog/infrastructure/persistence/models"
	"github.com/jinhak-io/jinhak/pkg/mapping"
)

func ToDomainEntity(dbRow *models.Entity) (*entity.Entity, error) {
	id, err := uuid.Parse(dbRow.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse entity id")
	}
	typ := entity.Type(dbRow.Type)
	if !typ.IsValid() {
		return nil, errors.Errorf("invalid entity type: %q", dbRow.Type)
	}
	return entity.New(
		typ,
		dbRow.Name,
		entity.WithID(id),
		entity.WithCreatedAt(dbRow.CreatedAt),
		entity.WithUpdatedAt(dbRow.UpdatedAt),
	), nil
}

func ToDomainAssociation(dbRow *models.Association) (*association.Association, error) {
	institutionID, err := uuid.Parse(dbRow.InstitutionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse institution id")
	}
	programID, err := uuid.Parse(dbRow.ProgramID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse program id")
	}
	subjectID, err := uuid.Parse(dbRow.SubjectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse subject id")
	}
	level := association.Level(dbRow.Level)
	if !level.IsValid() {
		return nil, errors.Errorf("invalid requirement level: %q", dbRow.Level)
	}
	return association.New(
		institutionID,
		programID,
		subjectID,
		level,
		association.WithNote(mapping.SQLNullStringToPointer(dbRow.Note)),
		association.WithCreatedAt(dbRow.CreatedAt),
		association.WithUpdatedAt(dbRow.UpdatedAt),
	), nil
}
