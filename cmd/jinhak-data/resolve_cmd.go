package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jinhak-io/jinhak/modules/catalog/infrastructure/persistence"
	"github.com/jinhak-io/jinhak/modules/catalog/services"
	"github.com/jinhak-io/jinhak/pkg/composables"
	"github.com/jinhak-io/jinhak/pkg/configuration"
)

// curatedEntry is one hand-authored knowledge base entry to reconcile
// against the ingested catalog.
type curatedEntry struct {
	Institution string `json:"institution"`
	Program     string `json:"program"`
}

type resolveResult struct {
	curatedEntry
	Matched bool `json:"matched"`
	services.Resolution
}

func newResolveCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve curated knowledge base entries against the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), input)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "JSON file with curated entries (required)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runResolve(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return withCode(exitUsage, fmt.Errorf("--input is required"))
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return withCode(exitValidation, err)
	}
	var entries []curatedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return withCode(exitValidation, fmt.Errorf("parse curated entries: %w", err))
	}

	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("connect: %w", err))
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	svc := services.NewResolverService(
		persistence.NewEntityRepository(),
		persistence.NewAssociationRepository(),
	)

	// one transaction for the whole batch, so every entry resolves against
	// the same catalog snapshot even while an ingest is running
	results := make([]resolveResult, 0, len(entries))
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		for _, entry := range entries {
			res, err := svc.ResolveWithFallback(txCtx, entry.Institution, entry.Program)
			if err != nil {
				return err
			}
			results = append(results, resolveResult{
				curatedEntry: entry,
				Matched:      len(res.Notes) > 0,
				Resolution:   *res,
			})
		}
		return nil
	})
	if err != nil {
		return withCode(exitDB, err)
	}
	return printJSON(results)
}
