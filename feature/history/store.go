package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"patrician/core/reconcile"

	"gorm.io/gorm"
)

// Run is one completed update run.
type Run struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	RunID      string    `gorm:"column:run_id;size:36;uniqueIndex"`
	StartedAt  time.Time `gorm:"column:started_at;index"`
	FinishedAt time.Time `gorm:"column:finished_at"`
	Sources    string    `gorm:"column:sources;size:255"`

	NewItems     int `gorm:"column:new_items"`
	UpdatedItems int `gorm:"column:updated_items"`
	FieldUpdates int `gorm:"column:field_updates"`
	Backfills    int `gorm:"column:backfills"`
	Skipped      int `gorm:"column:skipped"`

	AcceptedNewItems     int `gorm:"column:accepted_new_items"`
	AcceptedFieldUpdates int `gorm:"column:accepted_field_updates"`

	DryRun   bool `gorm:"column:dry_run"`
	Archived bool `gorm:"column:archived"`
}

// TableName overrides the default table name.
func (Run) TableName() string {
	return "runs"
}

// SourceList splits the stored source names.
func (r Run) SourceList() []string {
	if r.Sources == "" {
		return nil
	}
	return strings.Split(r.Sources, ",")
}

// NewRun fills the proposal counts of a run from plan.
func NewRun(plan *reconcile.Plan, startedAt time.Time) *Run {
	names := make([]string, 0, len(plan.Sources))
	for _, sp := range plan.Sources {
		names = append(names, string(sp.Source))
	}
	return &Run{
		RunID:        plan.RunID,
		StartedAt:    startedAt,
		Sources:      strings.Join(names, ","),
		NewItems:     plan.Summary.NewItems,
		UpdatedItems: plan.Summary.UpdatedItems,
		FieldUpdates: plan.Summary.FieldUpdates,
		Backfills:    plan.Summary.Backfills,
		Skipped:      plan.Summary.Skipped,
	}
}

// Store persists runs through GORM.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the runs table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate run history: %w", err)
	}
	return nil
}

// Record inserts a run.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	if err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to load run history: %w", err)
	}
	return runs, nil
}
