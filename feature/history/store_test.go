package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"patrician/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func samplePlan(runID string) *reconcile.Plan {
	return &reconcile.Plan{
		RunID: runID,
		Sources: []reconcile.SourcePlan{
			{Source: "rym"},
			{Source: "lastfm"},
		},
		Summary: reconcile.PlanSummary{NewItems: 3, UpdatedItems: 5, FieldUpdates: 7, Backfills: 2, Skipped: 1},
	}
}

func TestNewRun(t *testing.T) {
	started := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	run := NewRun(samplePlan("run-1"), started)

	assert.Equal(t, "run-1", run.RunID)
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, []string{"rym", "lastfm"}, run.SourceList())
	assert.Equal(t, 3, run.NewItems)
	assert.Equal(t, 5, run.UpdatedItems)
	assert.Equal(t, 7, run.FieldUpdates)
	assert.Equal(t, 2, run.Backfills)
	assert.Equal(t, 1, run.Skipped)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t, "history_roundtrip"))
	require.NoError(t, store.Migrate(ctx))

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		run := NewRun(samplePlan(id), base.Add(time.Duration(i)*time.Hour))
		run.FinishedAt = run.StartedAt.Add(time.Minute)
		run.AcceptedNewItems = i
		run.DryRun = i == 1
		require.NoError(t, store.Record(ctx, run))
		assert.NotZero(t, run.ID)
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].RunID)
	assert.Equal(t, "second", runs[1].RunID)
	assert.True(t, runs[1].DryRun)
	assert.Equal(t, 2, runs[0].AcceptedNewItems)
}

func TestStore_DuplicateRunID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t, "history_duplicate"))
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.Record(ctx, NewRun(samplePlan("same"), time.Now())))
	err := store.Record(ctx, NewRun(samplePlan("same"), time.Now()))

	assert.ErrorContains(t, err, "failed to record run same")
}

func TestStore_RecentQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `runs` ORDER BY started_at DESC LIMIT").
		WillReturnError(errors.New("connection lost"))

	_, err := NewStore(db).Recent(context.Background(), 10)

	assert.ErrorContains(t, err, "connection lost")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	started := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "run_id", "started_at", "sources", "new_items", "dry_run"}).
		AddRow(4, "run-4", started, "rym", 2, false)
	mock.ExpectQuery("SELECT \\* FROM `runs` ORDER BY started_at DESC LIMIT").WillReturnRows(rows)

	runs, err := NewStore(db).Recent(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-4", runs[0].RunID)
	assert.Equal(t, []string{"rym"}, runs[0].SourceList())
	assert.Equal(t, 2, runs[0].NewItems)
	assert.NoError(t, mock.ExpectationsWereMet())
}
