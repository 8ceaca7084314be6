package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"patrician/core/config"
	"patrician/core/database"
	"patrician/feature/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recent update runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent update runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.Database.Enabled {
			return fmt.Errorf("run history is disabled (set DATABASE_ENABLED=true)")
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		store := history.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		runs, err := store.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}

		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	RootCmd.AddCommand(historyCmd)
}

func printRuns(w io.Writer, runs []history.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tRUN\tSOURCES\tNEW\tUPDATES\tACCEPTED\tFLAGS")
	for _, r := range runs {
		var flags []string
		if r.DryRun {
			flags = append(flags, "dry-run")
		}
		if r.Archived {
			flags = append(flags, "archived")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d/%d\t%s\n",
			r.StartedAt.Format("2006-01-02 15:04"),
			r.RunID,
			strings.Join(r.SourceList(), ","),
			r.NewItems,
			r.FieldUpdates,
			r.AcceptedNewItems,
			r.AcceptedFieldUpdates,
			strings.Join(flags, ","),
		)
	}
	tw.Flush()
}
