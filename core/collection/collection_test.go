package collection_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"patrician/core/collection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_GetSet(t *testing.T) {
	item := &collection.Item{Artist: "Boards of Canada", Title: "Geogaddi"}

	item.Set(collection.FieldRating, "9")
	item.Set(collection.FieldMBID, "abc")

	assert.Equal(t, "9", item.Rating)
	assert.Equal(t, "abc", item.Get(collection.FieldMBID))
	assert.Equal(t, "Boards of Canada", item.Get(collection.FieldArtist))
	assert.Equal(t, "", item.Get(collection.FieldPlays))
	assert.Equal(t, "Boards of Canada - Geogaddi", item.String())
}

func TestItem_UnknownFieldPanics(t *testing.T) {
	item := &collection.Item{Artist: "A", Title: "B"}

	assert.Panics(t, func() { item.Get("Genre") })
	assert.Panics(t, func() { item.Set("Genre", "idm") })
	assert.False(t, collection.Field("Genre").IsValid())
	assert.True(t, collection.FieldReleaseDate.IsValid())
}

func TestCollection_Sort(t *testing.T) {
	coll := collection.Collection{
		{Artist: "boards of canada", Title: "Music Has the Right to Children"},
		{Artist: "Aphex Twin", Title: "Selected Ambient Works 85-92"},
		{Artist: "Boards of Canada", Title: "Geogaddi"},
		{Artist: "aphex twin", Title: "drukqs"},
	}

	coll.Sort()

	var got []string
	for _, it := range coll {
		got = append(got, it.String())
	}
	assert.Equal(t, []string{
		"aphex twin - drukqs",
		"Aphex Twin - Selected Ambient Works 85-92",
		"Boards of Canada - Geogaddi",
		"boards of canada - Music Has the Right to Children",
	}, got)
}

func TestCollection_Contains(t *testing.T) {
	a := &collection.Item{Artist: "A", Title: "T"}
	copyOfA := *a
	coll := collection.Collection{a}

	assert.True(t, coll.Contains(a))
	assert.False(t, coll.Contains(&copyOfA), "Contains compares identity, not value")
}

func TestCollection_Clone(t *testing.T) {
	coll := collection.Collection{{Artist: "A", Title: "T", Plays: "1"}}

	clone := coll.Clone()
	clone[0].Plays = "2"

	assert.Equal(t, "1", coll[0].Plays)
	assert.NotSame(t, coll[0], clone[0])
}

func TestRead(t *testing.T) {
	t.Run("HeaderMatchedColumns", func(t *testing.T) {
		input := "Title,Artist,Plays,Unknown\n" +
			"Geogaddi,Boards of Canada,120,x\n" +
			"\"Drukqs\",Aphex Twin,,y\n"

		coll, err := collection.Read(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, coll, 2)

		assert.Equal(t, collection.Item{Artist: "Boards of Canada", Title: "Geogaddi", Plays: "120"}, *coll[0])
		assert.Equal(t, collection.Item{Artist: "Aphex Twin", Title: "Drukqs"}, *coll[1])
	})

	t.Run("Empty", func(t *testing.T) {
		coll, err := collection.Read(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, coll)
	})

	t.Run("MissingTitleColumn", func(t *testing.T) {
		_, err := collection.Read(strings.NewReader("Artist,Plays\nA,1\n"))
		assert.ErrorIs(t, err, collection.ErrMissingColumn)
	})

	t.Run("EmptyArtistRow", func(t *testing.T) {
		_, err := collection.Read(strings.NewReader("Artist,Title\n,Untitled\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "artist and title are required")
	})

	t.Run("ByteOrderMark", func(t *testing.T) {
		coll, err := collection.Read(strings.NewReader("\ufeffArtist,Title\nA,B\n"))
		require.NoError(t, err)
		require.Len(t, coll, 1)
		assert.Equal(t, "A", coll[0].Artist)
	})
}

func TestWrite(t *testing.T) {
	coll := collection.Collection{
		{Artist: "Boards of Canada", Title: "Geogaddi", RYMID: "123", ReleaseDate: "2002", Rating: "9"},
		{Artist: "Aphex Twin", Title: "Drukqs, Part 1", Plays: "42"},
	}

	var buf bytes.Buffer
	require.NoError(t, collection.Write(&buf, coll))

	assert.Equal(t,
		"Artist,Title,RYMID,MBID,ReleaseDate,Rating,Plays\n"+
			"Aphex Twin,\"Drukqs, Part 1\",,,,,42\n"+
			"Boards of Canada,Geogaddi,123,,2002,9,\n",
		buf.String())
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums.csv")
	coll := collection.Collection{
		{Artist: "Boards of Canada", Title: "Geogaddi", MBID: "mb-1"},
		{Artist: "Autechre", Title: "Tri Repetae"},
	}

	require.NoError(t, collection.WriteFile(path, coll))

	read, err := collection.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, read, 2)
	assert.Equal(t, "Autechre", read[0].Artist)
	assert.Equal(t, "mb-1", read[1].MBID)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")
}

func TestReadFile_Missing(t *testing.T) {
	_, err := collection.ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
