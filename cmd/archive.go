package cmd

import (
	"context"
	"fmt"
	"io"

	"patrician/core/collection"
	"patrician/core/config"
	"patrician/core/logger"
	"patrician/core/storage"
	"patrician/feature/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// archiveCmd is the parent command for run archive operations.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived runs in object storage",
}

// archiveListCmd lists archived run ids.
var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, _, _, err := openArchive()
		if err != nil {
			return err
		}
		return listRuns(cmd.Context(), cmd.OutOrStdout(), archive)
	},
}

// archiveRestoreCmd writes a run's pre-merge snapshot back to the collection file.
var archiveRestoreCmd = &cobra.Command{
	Use:   "restore <run-id>",
	Short: "Restore the collection as it was before a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, cfg, l, err := openArchive()
		if err != nil {
			return err
		}
		defer l.Sync()
		return restoreRun(cmd.Context(), l, archive, args[0], cfg.Collection.File)
	},
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveRestoreCmd)
	RootCmd.AddCommand(archiveCmd)
}

func openArchive() (*audit.Archive, *config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Storage.Enabled {
		return nil, nil, nil, fmt.Errorf("run archive is disabled (set STORAGE_ENABLED=true)")
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return audit.NewArchive(client, cfg.Storage.Bucket, cfg.Storage.Region, l), cfg, l, nil
}

func listRuns(ctx context.Context, w io.Writer, archive *audit.Archive) error {
	ids, err := archive.Runs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

func restoreRun(ctx context.Context, l *zap.Logger, archive *audit.Archive, runID, path string) error {
	coll, err := archive.Snapshot(ctx, runID)
	if err != nil {
		return err
	}
	if err := collection.WriteFile(path, coll); err != nil {
		return err
	}
	l.Info("Collection restored", zap.String("run_id", runID), zap.String("file", path), zap.Int("items", len(coll)))
	return nil
}
