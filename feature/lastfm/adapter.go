package lastfm

import (
	"context"

	"patrician/core/collection"
	"patrician/core/reconcile"

	"go.uber.org/zap"
)

// Name is the source name of the scrobble service.
const Name reconcile.Source = "lastfm"

// Rules describes how top albums map onto collection items.
var Rules = reconcile.Rules{
	Source:  Name,
	IDField: collection.FieldMBID,
	IDKind:  reconcile.KindMBID,
	Fields:  []collection.Field{collection.FieldPlays},
}

// AlbumSource fetches pages of a user's top albums.
type AlbumSource interface {
	TopAlbums(ctx context.Context, user string, page, limit int) (*TopAlbumsPage, error)
}

// Adapter implements reconcile.Adapter for Last.fm.
type Adapter struct {
	cfg    Config
	albums AlbumSource
	filter *Filter
	logger *zap.Logger
}

// NewAdapter creates a new Last.fm adapter reading from albums.
func NewAdapter(cfg Config, albums AlbumSource, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &Adapter{
		cfg:    cfg,
		albums: albums,
		filter: NewFilter(),
		logger: logger.With(zap.String("source", string(Name))),
	}
}

// Name returns the unique name of this adapter.
func (a *Adapter) Name() reconcile.Source {
	return Name
}

// BelowThreshold reports whether album ends pagination: once a page contains
// such an album, no further pages are requested.
func (a *Adapter) BelowThreshold(album Album) bool {
	return album.Plays() < a.cfg.PlaysThreshold
}

// Run pages through the user's top albums until the play count threshold,
// the last page, or an empty page is reached. The page containing the first
// album below the threshold is processed completely.
func (a *Adapter) Run(ctx context.Context, index *reconcile.Index) (*reconcile.ItemUpdates, error) {
	batch := reconcile.NewBatch(index, Rules)

	for page := 1; ; page++ {
		p, err := a.albums.TopAlbums(ctx, a.cfg.Username, page, a.cfg.PageSize)
		if err != nil {
			return nil, err
		}
		if len(p.Albums) == 0 {
			break
		}

		done := false
		for _, album := range p.Albums {
			switch batch.Add(a.Candidate(album)) {
			case reconcile.OutcomeSkipped:
				a.logger.Debug("Skipping album without artist or title", zap.String("mbid", album.MBID))
			case reconcile.OutcomeRepeated:
				// pages are ordered by play count, so the first entry holds the higher count
				a.logger.Debug("Album already seen under another name", zap.String("artist", album.Artist), zap.String("album", album.Name))
			}
			if a.BelowThreshold(album) {
				done = true
			}
		}

		a.logger.Debug("Page processed",
			zap.Int("page", page),
			zap.Int("total_pages", p.TotalPages),
			zap.Int("albums", len(p.Albums)),
		)

		if done || (p.TotalPages > 0 && page >= p.TotalPages) {
			break
		}
	}

	return batch.Result(), nil
}

// Candidate converts an album to a match candidate with a filtered title.
func (a *Adapter) Candidate(album Album) reconcile.Candidate {
	return reconcile.Candidate{
		Artist: album.Artist,
		Title:  a.filter.Album(album.Name),
		ID:     album.MBID,
		Values: map[collection.Field]string{
			collection.FieldPlays: album.Playcount,
		},
	}
}
