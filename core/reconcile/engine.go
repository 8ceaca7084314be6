package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Aggregator runs adapters sequentially over one shared Index.
// Later adapters observe the source IDs backfilled by earlier ones.
type Aggregator struct {
	adapters []Adapter
	logger   *zap.Logger
}

// NewAggregator returns an aggregator running adapters in the given order.
func NewAggregator(logger *zap.Logger, adapters ...Adapter) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{adapters: adapters, logger: logger}
}

// Run executes every adapter and collects the results into a Plan.
// The first adapter error aborts the run; no partial plan is returned.
func (a *Aggregator) Run(ctx context.Context, index *Index) (*Plan, error) {
	plan := &Plan{
		RunID:   uuid.NewString(),
		Sources: make([]SourcePlan, 0, len(a.adapters)),
	}

	for _, adapter := range a.adapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		a.logger.Info("Running source", zap.String("source", string(adapter.Name())))

		updates, err := adapter.Run(ctx, index)
		if err != nil {
			return nil, fmt.Errorf("source %s failed: %w", adapter.Name(), err)
		}

		a.logger.Info("Source completed",
			zap.String("source", string(adapter.Name())),
			zap.Int("new_items", len(updates.NewItems)),
			zap.Int("updated_items", len(updates.UpdatedItems)),
			zap.Int("skipped", updates.Skipped),
			zap.Duration("duration", time.Since(start)),
		)

		plan.Sources = append(plan.Sources, SourcePlan{Source: adapter.Name(), ItemUpdates: *updates})
	}

	plan.Summary = summarize(plan.Sources)
	return plan, nil
}

func summarize(sources []SourcePlan) PlanSummary {
	var s PlanSummary
	for i := range sources {
		u := &sources[i].ItemUpdates
		s.UpdatedItems += len(u.UpdatedItems)
		s.FieldUpdates += u.FieldUpdateCount()
		s.Backfills += u.BackfillCount()
		s.Skipped += u.Skipped
	}
	s.NewItems = len(mergeNewItems(sources))
	return s
}
