package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cognigen/cognigen-backend/internal/app"
	learningmod "github.com/cognigen/cognigen-backend/internal/modules/learning"
)

var (
	dryRun      bool
	batchSize   int
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:   "migrate_cells",
	Short: "Convert legacy submodule content to cells",
	Long: `Walk every stored learning path and rewrite submodules that still carry
the legacy content object into the cell format.

Examples:
  migrate_cells --dry-run
  migrate_cells --batch-size 200 --concurrency 8`,
	SilenceUsage: true,
	RunE:         runMigrate,
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without saving")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", learningmod.DefaultMigrateBatchSize, "paths loaded per batch")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", learningmod.DefaultMigrateConcurrency, "paths saved in parallel")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	application, err := app.New()
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := application.Services.Learning.MigrateAllToCells(ctx, learningmod.MigrateCellsInput{
		DryRun:      dryRun,
		BatchSize:   batchSize,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	prefix := ""
	if report.DryRun {
		prefix = "[dry-run] "
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%sscanned=%d changed=%d submodules=%d failed=%d duration=%s\n",
		prefix, report.Scanned, report.Changed, report.Submodules, report.Failed, report.Duration)
	if report.Failed > 0 {
		return fmt.Errorf("%d paths failed to save", report.Failed)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
