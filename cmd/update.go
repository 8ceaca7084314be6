package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"patrician/core/collection"
	"patrician/core/config"
	"patrician/core/database"
	"patrician/core/logger"
	"patrician/core/reconcile"
	"patrician/core/storage"
	"patrician/feature/audit"
	"patrician/feature/history"
	"patrician/feature/selection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the update command
	yesUpdate    bool
	dryRunUpdate bool
	noAudit      bool
)

// updateCmd reconciles the collection against its sources.
var updateCmd = &cobra.Command{
	Use:   "update [source...]",
	Short: "Propose and merge changes from the configured sources",
	Long: `Update matches every enabled source against the local collection,
writes the proposed changes to the audit file, asks which ones to accept
and merges them into the collection.

Examples:
  # All enabled sources, interactive selection
  patrician update

  # Only the scrobble source, accept everything
  patrician update lastfm --yes

  # Inspect the audit file without touching the collection
  patrician update --dry-run --yes`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&yesUpdate, "yes", false, "Accept every proposed change (non-interactive)")
	updateCmd.Flags().BoolVar(&dryRunUpdate, "dry-run", false, "Do not write the collection")
	updateCmd.Flags().BoolVar(&noAudit, "no-audit", false, "Do not write the audit file")

	RootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	u := &updater{
		cfg:      cfg,
		logger:   l,
		registry: buildRegistry(cfg, l),
		dryRun:   dryRunUpdate,
		audit:    !noAudit,
		selector: func(*reconcile.Index) selection.Selector { return selection.AcceptAll{} },
	}
	if !yesUpdate {
		u.selector = func(index *reconcile.Index) selection.Selector {
			return selection.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), func(item collection.Item) []reconcile.NearMatch {
				return index.Similar(item, reconcile.DefaultSimilarity, 3)
			})
		}
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		u.archive = audit.NewArchive(client, cfg.Storage.Bucket, cfg.Storage.Region, l)
	}

	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		u.history = history.NewStore(db)
		if err := u.history.Migrate(ctx); err != nil {
			return err
		}
	}

	_, err = u.run(ctx, sourceNames(args, cfg.Sources.Enabled))
	return err
}

// updater runs one update: plan, audit, select, merge and record.
type updater struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *reconcile.Registry
	selector func(index *reconcile.Index) selection.Selector
	archive  *audit.Archive
	history  *history.Store
	dryRun   bool
	audit    bool
}

// updateResult is what a run proposed, accepted and wrote.
type updateResult struct {
	Plan      *reconcile.Plan
	Selection *selection.Selection
	Merged    collection.Collection
	Written   bool
}

func (u *updater) run(ctx context.Context, names []reconcile.Source) (*updateResult, error) {
	started := time.Now()

	format, err := audit.ParseFormat(u.cfg.Collection.AuditFormat)
	if err != nil {
		return nil, err
	}

	// Unknown sources fail before any file is read
	adapters, err := u.registry.Resolve(names)
	if err != nil {
		return nil, err
	}

	coll, err := u.loadCollection()
	if err != nil {
		return nil, err
	}
	snapshot := coll.Clone()
	index := reconcile.NewIndex(coll)

	u.logger.Info("Planning update", zap.Int("items", index.Len()), zap.Int("sources", len(adapters)))
	plan, err := reconcile.NewAggregator(u.logger, adapters...).Run(ctx, index)
	if err != nil {
		return nil, err
	}
	printPlanReport(u.logger, plan, index)

	if u.audit {
		if err := audit.WriteFile(u.cfg.Collection.AuditFile, plan, format); err != nil {
			return nil, err
		}
		u.logger.Info("Proposed changes written", zap.String("file", u.cfg.Collection.AuditFile))
	}

	archived := false
	if u.archive != nil {
		if err := u.archive.Store(ctx, plan, format, snapshot); err != nil {
			u.logger.Warn("Failed to archive run", zap.String("run_id", plan.RunID), zap.Error(err))
		} else {
			archived = true
		}
	}

	sel, err := u.selector(index).Select(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to select changes: %w", err)
	}
	u.logger.Info("Changes selected",
		zap.Int("new_items", len(sel.NewItems)),
		zap.Int("field_updates", sel.FieldUpdateCount()),
	)

	result := &updateResult{
		Plan:      plan,
		Selection: sel,
		Merged:    reconcile.Apply(coll, sel.NewItems, sel.Updates),
	}

	// Backfilled source IDs are kept even when nothing else was accepted
	switch {
	case u.dryRun:
		u.logger.Info("Dry-run mode: collection not written.")
	case sel.Empty() && plan.Summary.Backfills == 0:
		u.logger.Info("No changes to write.")
	default:
		target := u.cfg.Collection.Target()
		if err := collection.WriteFile(target, result.Merged); err != nil {
			return nil, err
		}
		result.Written = true
		u.logger.Info("Collection written", zap.String("file", target), zap.Int("items", len(result.Merged)))
	}

	if u.history != nil {
		run := history.NewRun(plan, started)
		run.FinishedAt = time.Now()
		run.AcceptedNewItems = len(sel.NewItems)
		run.AcceptedFieldUpdates = sel.FieldUpdateCount()
		run.DryRun = u.dryRun
		run.Archived = archived
		if err := u.history.Record(ctx, run); err != nil {
			u.logger.Warn("Failed to record run history", zap.Error(err))
		}
	}

	return result, nil
}

// loadCollection reads the collection file. A missing file is an empty
// collection.
func (u *updater) loadCollection() (collection.Collection, error) {
	coll, err := collection.ReadFile(u.cfg.Collection.File)
	if errors.Is(err, fs.ErrNotExist) {
		u.logger.Warn("Collection file not found, starting empty", zap.String("file", u.cfg.Collection.File))
		return collection.Collection{}, nil
	}
	return coll, err
}

// printPlanReport logs the plan summary, a sample of new items and any
// near duplicates among them.
func printPlanReport(l *zap.Logger, plan *reconcile.Plan, index *reconcile.Index) {
	s := plan.Summary
	l.Info("Update report",
		zap.String("run_id", plan.RunID),
		zap.Int("new_items", s.NewItems),
		zap.Int("updated_items", s.UpdatedItems),
		zap.Int("field_updates", s.FieldUpdates),
		zap.Int("backfills", s.Backfills),
		zap.Int("skipped", s.Skipped),
	)

	for _, sp := range plan.Sources {
		const maxShow = 5
		for i, item := range sp.NewItems {
			if i == maxShow {
				l.Info("Additional new items not shown", zap.String("source", string(sp.Source)), zap.Int("count", len(sp.NewItems)-maxShow))
				break
			}
			l.Info("New item", zap.String("source", string(sp.Source)), zap.Stringer("item", &item))
		}
		for _, item := range sp.NewItems {
			for _, near := range index.Similar(item, reconcile.DefaultSimilarity, 1) {
				l.Warn("Possible duplicate",
					zap.String("source", string(sp.Source)),
					zap.Stringer("item", &item),
					zap.Stringer("existing", near.Item),
					zap.Float64("score", near.Score),
				)
			}
		}
	}
}
