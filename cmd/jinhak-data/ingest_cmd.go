package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/entity"
	"github.com/jinhak-io/jinhak/modules/catalog/infrastructure/persistence"
	"github.com/jinhak-io/jinhak/modules/catalog/ingest"
	"github.com/jinhak-io/jinhak/modules/catalog/services"
	"github.com/jinhak-io/jinhak/pkg/composables"
	"github.com/jinhak-io/jinhak/pkg/configuration"
	"github.com/jinhak-io/jinhak/pkg/eventbus"
)

type ingestOptions struct {
	input string
	sheet string
	apply bool
}

func newIngestCmd() *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest requirement rows from a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Input file, .csv or .xlsx (required)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet name for .xlsx input (default: first sheet)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runIngest(ctx context.Context, opts ingestOptions) error {
	if strings.TrimSpace(opts.input) == "" {
		return withCode(exitUsage, fmt.Errorf("--input is required"))
	}

	rows, err := parseRows(opts.input, opts.sheet)
	if err != nil {
		return withCode(exitValidation, fmt.Errorf("%s: %w", filepath.Base(opts.input), err))
	}

	conf := configuration.Use()
	log := conf.Logger()

	if !opts.apply {
		return printJSON(dryRunSummary(rows))
	}

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("connect: %w", err))
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	publisher := eventbus.NewEventPublisher(log)
	publisher.Subscribe(func(e *services.IngestCompletedEvent) {
		log.WithField("associations_inserted", e.Summary.AssociationsInserted).Info("ingest: run completed")
	})

	svc := services.NewIngestService(
		persistence.NewEntityRepository(),
		persistence.NewAssociationRepository(),
		publisher,
		log,
		conf.Ingest,
	)

	summary, err := svc.Run(ctx, rows)
	if err != nil {
		return withCode(exitDB, err)
	}
	return printJSON(summary)
}

// dryRunSummary reports what a run would see without touching the store.
func dryRunSummary(rows []ingest.RawRow) map[string]any {
	registry := ingest.NewRegistry()
	registry.Collect(rows)
	return map[string]any{
		"mode":              "dry_run",
		"total_rows":        len(rows),
		"institutions_seen": registry.Count(entity.TypeInstitution),
		"programs_seen":     registry.Count(entity.TypeProgram),
		"subjects_seen":     registry.Count(entity.TypeSubject),
	}
}

func parseRows(path, sheet string) ([]ingest.RawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseRowsCSV(path)
	case ".xlsx":
		return parseRowsXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", filepath.Ext(path))
	}
}

func parseRowsCSV(path string) ([]ingest.RawRow, error) {
	c, err := openCatalogCSV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	var rows []ingest.RawRow
	for {
		row, ok, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return rows, nil
}

func parseRowsXLSX(path, sheet string) ([]ingest.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	idx, err := catalogHeaderIndex(records[0])
	if err != nil {
		return nil, err
	}

	var rows []ingest.RawRow
	for i, rec := range records[1:] {
		if len(rec) == 0 {
			continue
		}
		rows = append(rows, rowFromRecord(i+2, rec, idx))
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows found")
	}
	return rows, nil
}

func rowFromRecord(line int, rec []string, idx map[string]int) ingest.RawRow {
	get := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	return ingest.RawRow{
		Line:                line,
		Institution:         get("institution"),
		ProgramPart1:        get("program_part1"),
		ProgramPart2:        get("program_part2"),
		CoreSubjects:        get("core_subjects"),
		RecommendedSubjects: get("recommended_subjects"),
		Note:                get("note"),
	}
}
