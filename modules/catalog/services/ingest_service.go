package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/association"
	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/entity"
	"github.com/jinhak-io/jinhak/modules/catalog/ingest"
	"github.com/jinhak-io/jinhak/pkg/configuration"
	"github.com/jinhak-io/jinhak/pkg/eventbus"
)

// EntityUpsertError is fatal to a run: associations cannot be built without
// a complete ID map for every entity type.
type EntityUpsertError struct {
	Type entity.Type
	Err  error
}

func (e *EntityUpsertError) Error() string {
	return fmt.Sprintf("entity upsert failed for type %q: %v", e.Type, e.Err)
}

func (e *EntityUpsertError) Unwrap() error {
	return e.Err
}

// IngestCompletedEvent is published after every completed run, including
// runs with partial association failures.
type IngestCompletedEvent struct {
	Summary ingest.RunSummary
}

// IngestService runs one ingestion: collect and dedup canonical names,
// upsert all three entity types (fail-fast), build associations from the
// completed ID maps, then upsert associations batch by batch (best-effort).
type IngestService struct {
	entities     entity.Repository
	associations association.Repository
	publisher    eventbus.EventBus
	log          *logrus.Logger
	opts         configuration.IngestOptions
}

func NewIngestService(
	entities entity.Repository,
	associations association.Repository,
	publisher eventbus.EventBus,
	log *logrus.Logger,
	opts configuration.IngestOptions,
) *IngestService {
	return &IngestService{
		entities:     entities,
		associations: associations,
		publisher:    publisher,
		log:          log,
		opts:         opts,
	}
}

// Run executes one ingestion over the given rows. A RunSummary is returned
// unless the entity stage fails, in which case the error identifies the
// entity type and no associations are attempted. Reruns over the same input
// are idempotent.
func (s *IngestService) Run(ctx context.Context, rows []ingest.RawRow) (*ingest.RunSummary, error) {
	registry := ingest.NewRegistry()
	registry.Collect(rows)

	summary := &ingest.RunSummary{
		TotalRows:        len(rows),
		InstitutionsSeen: registry.Count(entity.TypeInstitution),
		ProgramsSeen:     registry.Count(entity.TypeProgram),
		SubjectsSeen:     registry.Count(entity.TypeSubject),
	}

	s.log.WithFields(logrus.Fields{
		"rows":         summary.TotalRows,
		"institutions": summary.InstitutionsSeen,
		"programs":     summary.ProgramsSeen,
		"subjects":     summary.SubjectsSeen,
	}).Info("ingest: starting run")

	var idMaps ingest.IDMaps
	var err error
	if idMaps.Institutions, err = s.upsertEntities(ctx, entity.TypeInstitution, registry.Names(entity.TypeInstitution)); err != nil {
		return nil, err
	}
	if idMaps.Programs, err = s.upsertEntities(ctx, entity.TypeProgram, registry.Names(entity.TypeProgram)); err != nil {
		return nil, err
	}
	if idMaps.Subjects, err = s.upsertEntities(ctx, entity.TypeSubject, registry.Names(entity.TypeSubject)); err != nil {
		return nil, err
	}

	built := ingest.BuildAssociations(rows, idMaps)
	summary.SkippedRows = len(built.SkippedRows)
	summary.SkippedSubjects = len(built.SkippedSubjects)
	summary.SkippedRowDetails = built.SkippedRows
	summary.SkippedSubjectDetails = built.SkippedSubjects
	summary.ProcessedRows = summary.TotalRows - summary.SkippedRows

	for _, sr := range built.SkippedRows {
		s.log.WithFields(logrus.Fields{
			"line":        sr.Line,
			"institution": sr.Institution,
			"program":     sr.Program,
		}).Warnf("ingest: skipped row: %s", sr.Reason)
	}
	for _, ss := range built.SkippedSubjects {
		s.log.WithFields(logrus.Fields{
			"line":    ss.Line,
			"subject": ss.Subject,
			"level":   ss.Level,
		}).Warn("ingest: skipped subject, rest of list abandoned")
	}

	s.upsertAssociations(ctx, built.Associations, summary)

	s.publisher.Publish(&IngestCompletedEvent{Summary: *summary})
	return summary, nil
}

// upsertEntities chunks the names and merges the per-chunk ID maps. The
// first failing chunk fails the whole entity type.
func (s *IngestService) upsertEntities(ctx context.Context, typ entity.Type, names []string) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(names))
	for _, batch := range chunk(names, s.opts.EntityBatchSize) {
		m, err := s.entities.UpsertBatch(ctx, typ, batch)
		if err != nil {
			return nil, &EntityUpsertError{Type: typ, Err: err}
		}
		for name, id := range m {
			ids[name] = id
		}
	}
	return ids, nil
}

// upsertAssociations is best-effort: a failed batch is counted as errors
// and logged, subsequent batches still run.
func (s *IngestService) upsertAssociations(ctx context.Context, associations []*association.Association, summary *ingest.RunSummary) {
	for _, batch := range chunk(associations, s.opts.AssociationBatchSize) {
		inserted, err := s.associations.UpsertBatch(ctx, batch)
		if err != nil {
			summary.Errors += len(batch)
			s.log.WithError(err).Errorf("ingest: association batch of %d failed", len(batch))
			continue
		}
		summary.AssociationsInserted += inserted
	}
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
