package lastfm

import (
	"context"
	"errors"
	"testing"

	"patrician/core/collection"
	"patrician/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockAlbumSource implements AlbumSource for testing.
type mockAlbumSource struct {
	mock.Mock
}

func (m *mockAlbumSource) TopAlbums(ctx context.Context, user string, page, limit int) (*TopAlbumsPage, error) {
	args := m.Called(ctx, user, page, limit)
	if p := args.Get(0); p != nil {
		return p.(*TopAlbumsPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func albumPage(page, totalPages int, albums ...Album) *TopAlbumsPage {
	return &TopAlbumsPage{Albums: albums, Page: page, TotalPages: totalPages}
}

func TestAdapter_StopsAfterPageBelowThreshold(t *testing.T) {
	source := new(mockAlbumSource)
	source.On("TopAlbums", mock.Anything, "listener", 1, 1).
		Return(albumPage(1, 10, Album{Artist: "A", Name: "One", Playcount: "150"}), nil).Once()
	source.On("TopAlbums", mock.Anything, "listener", 2, 1).
		Return(albumPage(2, 10, Album{Artist: "B", Name: "Two", Playcount: "120"}), nil).Once()
	source.On("TopAlbums", mock.Anything, "listener", 3, 1).
		Return(albumPage(3, 10, Album{Artist: "C", Name: "Three", Playcount: "80"}), nil).Once()

	adapter := NewAdapter(Config{Username: "listener", PlaysThreshold: 100, PageSize: 1}, source, nil)

	updates, err := adapter.Run(context.Background(), reconcile.NewIndex(collection.Collection{}))
	require.NoError(t, err)

	source.AssertExpectations(t)
	source.AssertNumberOfCalls(t, "TopAlbums", 3)
	require.Len(t, updates.NewItems, 3)
	assert.Equal(t, collection.Item{Artist: "C", Title: "Three", Plays: "80"}, updates.NewItems[2])
}

func TestAdapter_ProcessesWholeThresholdPage(t *testing.T) {
	source := new(mockAlbumSource)
	source.On("TopAlbums", mock.Anything, "listener", 1, 50).Return(albumPage(1, 3,
		Album{Artist: "A", Name: "One", Playcount: "101"},
		Album{Artist: "B", Name: "Two", Playcount: "99"},
		Album{Artist: "C", Name: "Three", Playcount: "98"},
	), nil).Once()

	adapter := NewAdapter(Config{Username: "listener", PlaysThreshold: 100}, source, nil)

	updates, err := adapter.Run(context.Background(), reconcile.NewIndex(nil))
	require.NoError(t, err)

	assert.Len(t, updates.NewItems, 3)
	source.AssertNumberOfCalls(t, "TopAlbums", 1)
}

func TestAdapter_StopsAtLastOrEmptyPage(t *testing.T) {
	t.Run("TotalPages", func(t *testing.T) {
		source := new(mockAlbumSource)
		source.On("TopAlbums", mock.Anything, "listener", 1, 50).
			Return(albumPage(1, 1, Album{Artist: "A", Name: "One", Playcount: "500"}), nil).Once()

		adapter := NewAdapter(Config{Username: "listener", PlaysThreshold: 100}, source, nil)
		_, err := adapter.Run(context.Background(), reconcile.NewIndex(nil))

		require.NoError(t, err)
		source.AssertNumberOfCalls(t, "TopAlbums", 1)
	})

	t.Run("EmptyPage", func(t *testing.T) {
		source := new(mockAlbumSource)
		source.On("TopAlbums", mock.Anything, "listener", 1, 50).Return(albumPage(1, 0), nil).Once()

		adapter := NewAdapter(Config{Username: "listener", PlaysThreshold: 100}, source, nil)
		updates, err := adapter.Run(context.Background(), reconcile.NewIndex(nil))

		require.NoError(t, err)
		assert.Empty(t, updates.NewItems)
		assert.Empty(t, updates.UpdatedItems)
	})
}

func TestAdapter_MatchesAndBackfills(t *testing.T) {
	coll := collection.Collection{
		{Artist: "Boards of Canada", Title: "Geogaddi", Plays: "300"},
		{Artist: "Aphex Twin", Title: "Drukqs", MBID: "mb-drukqs", Plays: "97"},
	}
	source := new(mockAlbumSource)
	source.On("TopAlbums", mock.Anything, "listener", 1, 50).Return(albumPage(1, 1,
		Album{Artist: "boards of canada", Name: "Geogaddi [Explicit]", MBID: "mb-geogaddi", Playcount: "312"},
		Album{Artist: "Aphex Twin", Name: "drukQs (2xLP)", MBID: "mb-drukqs", Playcount: "97"},
		Album{Artist: "", Name: "Untagged", Playcount: "150"},
	), nil).Once()

	adapter := NewAdapter(Config{Username: "listener", PlaysThreshold: 10}, source, nil)
	updates, err := adapter.Run(context.Background(), reconcile.NewIndex(coll))
	require.NoError(t, err)

	require.Len(t, updates.UpdatedItems, 2)
	assert.Equal(t, 1, updates.Skipped)
	assert.Empty(t, updates.NewItems)

	geogaddi := updates.UpdatedItems[0]
	assert.Equal(t, reconcile.KindArtistTitle, geogaddi.MatchingIdentifier)
	assert.Equal(t, []reconcile.FieldUpdate{{Field: collection.FieldPlays, OldValue: "300", NewValue: "312"}}, geogaddi.Updates)
	assert.Equal(t, "mb-geogaddi", coll[0].MBID)

	drukqs := updates.UpdatedItems[1]
	assert.Equal(t, reconcile.KindMBID, drukqs.MatchingIdentifier)
	assert.Empty(t, drukqs.Updates)
	assert.Equal(t, Name, drukqs.Source)
}

func TestAdapter_SourceError(t *testing.T) {
	source := new(mockAlbumSource)
	source.On("TopAlbums", mock.Anything, "listener", 1, 50).Return(nil, errors.New("timeout")).Once()

	adapter := NewAdapter(Config{Username: "listener", PlaysThreshold: 100}, source, nil)
	updates, err := adapter.Run(context.Background(), reconcile.NewIndex(nil))

	assert.Nil(t, updates)
	assert.EqualError(t, err, "timeout")
}

func TestAdapter_BelowThreshold(t *testing.T) {
	adapter := NewAdapter(Config{PlaysThreshold: 100}, nil, nil)

	assert.False(t, adapter.BelowThreshold(Album{Playcount: "100"}))
	assert.True(t, adapter.BelowThreshold(Album{Playcount: "99"}))
	assert.True(t, adapter.BelowThreshold(Album{Playcount: ""}))
}

func TestFilter_Album(t *testing.T) {
	f := NewFilter()

	tests := []struct{ in, want string }{
		{"Geogaddi [Explicit]", "Geogaddi"},
		{"Music Has the Right to Children (Remastered)", "Music Has the Right to Children"},
		{"Selected Ambient Works 85-92 (2008 Remaster)", "Selected Ambient Works 85-92"},
		{"Tri Repetae (Deluxe Edition)", "Tri Repetae"},
		{"Bookends [+Digital Booklet]", "Bookends"},
		{"Drukqs (2xLP)", "Drukqs (2xLP)"},
		{"  Amber  ", "Amber"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Album(tt.in), tt.in)
	}
}

func TestAdapter_FilteredDuplicatesKeepHighestCount(t *testing.T) {
	coll := collection.Collection{{Artist: "Burial", Title: "Untrue", Plays: "300"}}
	source := new(mockAlbumSource)
	source.On("TopAlbums", mock.Anything, "listener", 1, 50).Return(albumPage(1, 1,
		Album{Artist: "Burial", Name: "Untrue", Playcount: "410"},
		Album{Artist: "Burial", Name: "Untrue (Deluxe Edition)", Playcount: "35"},
		Album{Artist: "Burial", Name: "Kindred", Playcount: "30"},
		Album{Artist: "Burial", Name: "Kindred (Remastered)", Playcount: "12"},
	), nil).Once()

	adapter := NewAdapter(Config{Username: "listener", PlaysThreshold: 10}, source, nil)
	updates, err := adapter.Run(context.Background(), reconcile.NewIndex(coll))
	require.NoError(t, err)

	require.Len(t, updates.UpdatedItems, 1)
	assert.Equal(t, []reconcile.FieldUpdate{{Field: collection.FieldPlays, OldValue: "300", NewValue: "410"}}, updates.UpdatedItems[0].Updates)
	assert.Equal(t, []collection.Item{{Artist: "Burial", Title: "Kindred", Plays: "30"}}, updates.NewItems)
}
