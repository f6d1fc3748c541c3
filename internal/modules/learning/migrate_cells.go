package learning

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/modules/learning/content"
	"github.com/cognigen/cognigen-backend/internal/platform/dbctx"
)

const (
	DefaultMigrateBatchSize   = 100
	DefaultMigrateConcurrency = 4
)

type MigrateCellsInput struct {
	DryRun      bool
	BatchSize   int
	Concurrency int
}

type MigrateCellsReport struct {
	Scanned    int           `json:"scanned"`
	Changed    int           `json:"changed"`
	Submodules int           `json:"submodules"`
	Failed     int           `json:"failed"`
	DryRun     bool          `json:"dryRun"`
	Duration   time.Duration `json:"duration"`
}

// MigrateAllToCells walks every stored path and persists the ones that still
// hold legacy submodules. A failed save is counted and the walk continues.
func (u Usecases) MigrateAllToCells(ctx context.Context, in MigrateCellsInput) (MigrateCellsReport, error) {
	if in.BatchSize <= 0 {
		in.BatchSize = DefaultMigrateBatchSize
	}
	if in.Concurrency <= 0 {
		in.Concurrency = DefaultMigrateConcurrency
	}
	start := u.deps.Now()
	report := MigrateCellsReport{DryRun: in.DryRun}
	var mu sync.Mutex

	err := u.deps.Paths.FindInBatches(dbctx.Context{Ctx: ctx}, in.BatchSize, func(rows []*types.LearningPath) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(in.Concurrency)

		for _, row := range rows {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				n := content.MigratePath(row)

				mu.Lock()
				report.Scanned++
				mu.Unlock()
				if n == 0 {
					return nil
				}

				if in.DryRun {
					u.deps.Log.Info("would migrate learning path", "path_id", row.ID.String(), "submodules", n)
					u.deps.Metrics.ObserveMigration("dry_run", n)
					mu.Lock()
					report.Changed++
					report.Submodules += n
					mu.Unlock()
					return nil
				}

				if err := u.deps.Paths.Save(dbctx.Context{Ctx: gctx}, row); err != nil {
					u.deps.Log.Error("learning path migration save failed", "path_id", row.ID.String(), "error", err.Error())
					u.deps.Metrics.ObserveMigration("failed", n)
					mu.Lock()
					report.Failed++
					mu.Unlock()
					return nil
				}
				u.deps.Metrics.ObserveMigration("migrated", n)
				mu.Lock()
				report.Changed++
				report.Submodules += n
				mu.Unlock()
				return nil
			})
		}
		return g.Wait()
	})
	report.Duration = u.deps.Now().Sub(start)
	if err != nil {
		return report, err
	}

	u.deps.Log.Info("cell migration finished",
		"scanned", report.Scanned,
		"changed", report.Changed,
		"submodules", report.Submodules,
		"failed", report.Failed,
		"dry_run", report.DryRun,
		"duration", report.Duration.String(),
	)
	return report, nil
}
