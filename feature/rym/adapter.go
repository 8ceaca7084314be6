package rym

import (
	"context"

	"patrician/core/collection"
	"patrician/core/reconcile"

	"go.uber.org/zap"
)

// Name is the source name of the catalog export.
const Name reconcile.Source = "rym"

// Rules describes how export records map onto collection items.
var Rules = reconcile.Rules{
	Source:  Name,
	IDField: collection.FieldRYMID,
	IDKind:  reconcile.KindRYMID,
	Fields:  []collection.Field{collection.FieldReleaseDate, collection.FieldRating},
	Unset:   map[collection.Field][]string{collection.FieldRating: {"0"}},
}

// Adapter implements reconcile.Adapter for the catalog export.
type Adapter struct {
	cfg    Config
	logger *zap.Logger
}

// NewAdapter creates a new catalog export adapter.
func NewAdapter(cfg Config, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{cfg: cfg, logger: logger.With(zap.String("source", string(Name)))}
}

// Name returns the unique name of this adapter.
func (a *Adapter) Name() reconcile.Source {
	return Name
}

// Run reads the export file and matches every record in file order.
func (a *Adapter) Run(ctx context.Context, index *reconcile.Index) (*reconcile.ItemUpdates, error) {
	records, err := ReadExportFile(a.cfg.File)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Export loaded", zap.String("file", a.cfg.File), zap.Int("records", len(records)))

	return a.Process(ctx, index, records)
}

// Process matches already-parsed records against index.
func (a *Adapter) Process(ctx context.Context, index *reconcile.Index, records []Record) (*reconcile.ItemUpdates, error) {
	batch := reconcile.NewBatch(index, Rules)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch batch.Add(Candidate(rec)) {
		case reconcile.OutcomeSkipped:
			a.logger.Debug("Skipping record without artist or title", zap.String("album_id", rec.AlbumID))
		case reconcile.OutcomeRepeated:
			a.logger.Debug("Skipping repeated record", zap.String("album_id", rec.AlbumID))
		}
	}
	return batch.Result(), nil
}

// Candidate converts an export record to a match candidate.
func Candidate(rec Record) reconcile.Candidate {
	return reconcile.Candidate{
		Artist: rec.Artist(),
		Title:  rec.Title,
		ID:     rec.AlbumID,
		Values: map[collection.Field]string{
			collection.FieldReleaseDate: rec.ReleaseDate,
			collection.FieldRating:      rec.Rating,
		},
	}
}
