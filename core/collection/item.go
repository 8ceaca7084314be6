package collection

import (
	"fmt"
	"sort"
	"strings"
)

// Field names a column of the collection file.
type Field string

const (
	FieldArtist      Field = "Artist"
	FieldTitle       Field = "Title"
	FieldRYMID       Field = "RYMID"
	FieldMBID        Field = "MBID"
	FieldReleaseDate Field = "ReleaseDate"
	FieldRating      Field = "Rating"
	FieldPlays       Field = "Plays"
)

// Fields lists every known column in file order.
var Fields = []Field{
	FieldArtist,
	FieldTitle,
	FieldRYMID,
	FieldMBID,
	FieldReleaseDate,
	FieldRating,
	FieldPlays,
}

// IsValid reports whether f is one of the known columns.
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Item is one album in the collection.
// Artist and Title are always set; every other field is empty when absent.
type Item struct {
	Artist      string `json:"Artist" yaml:"Artist"`
	Title       string `json:"Title" yaml:"Title"`
	RYMID       string `json:"RYMID,omitempty" yaml:"RYMID,omitempty"`
	MBID        string `json:"MBID,omitempty" yaml:"MBID,omitempty"`
	ReleaseDate string `json:"ReleaseDate,omitempty" yaml:"ReleaseDate,omitempty"`
	Rating      string `json:"Rating,omitempty" yaml:"Rating,omitempty"`
	Plays       string `json:"Plays,omitempty" yaml:"Plays,omitempty"`
}

// Get returns the value of the named field.
// It panics on an unknown field name.
func (i *Item) Get(f Field) string {
	return *i.ref(f)
}

// Set assigns the named field.
// It panics on an unknown field name.
func (i *Item) Set(f Field, value string) {
	*i.ref(f) = value
}

func (i *Item) ref(f Field) *string {
	switch f {
	case FieldArtist:
		return &i.Artist
	case FieldTitle:
		return &i.Title
	case FieldRYMID:
		return &i.RYMID
	case FieldMBID:
		return &i.MBID
	case FieldReleaseDate:
		return &i.ReleaseDate
	case FieldRating:
		return &i.Rating
	case FieldPlays:
		return &i.Plays
	default:
		panic(fmt.Sprintf("collection: unknown field %q", f))
	}
}

// String renders the item as "Artist - Title".
func (i *Item) String() string {
	return i.Artist + " - " + i.Title
}

// Collection is the ordered set of items read from storage.
// Items are held by pointer so that updates can reference them in place.
type Collection []*Item

// Contains reports whether the exact item (by identity, not value) is in c.
func (c Collection) Contains(item *Item) bool {
	for _, it := range c {
		if it == item {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, it := range c {
		copied := *it
		out[i] = &copied
	}
	return out
}

// Sort orders c by artist and then title, both compared case-insensitively.
// Items that compare equal keep their relative order.
func (c Collection) Sort() {
	sort.SliceStable(c, func(a, b int) bool {
		return Less(c[a], c[b])
	})
}

// Less is the persistence order: artist, then title, ignoring case.
func Less(a, b *Item) bool {
	aa, ba := strings.ToLower(a.Artist), strings.ToLower(b.Artist)
	if aa != ba {
		return aa < ba
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}
