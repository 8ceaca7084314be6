package reconcile

import (
	"sort"

	"patrician/core/collection"

	"golang.org/x/text/cases"
)

// Index is an arena over the collection: the ordered items plus position
// indices by natural key and by each source ID field.
// Lookups return the earliest position, which keeps results identical to a
// linear scan in collection order.
type Index struct {
	items collection.Collection
	fold  cases.Caser

	byKey map[string][]int
	byID  map[collection.Field]map[string][]int
}

// NewIndex builds an index over coll. The index references the items; it
// does not copy them.
func NewIndex(coll collection.Collection) *Index {
	x := &Index{
		items: coll,
		fold:  cases.Fold(),
		byKey: make(map[string][]int, len(coll)),
		byID:  make(map[collection.Field]map[string][]int),
	}
	for pos, item := range coll {
		key := x.naturalKey(item.Artist, item.Title)
		x.byKey[key] = append(x.byKey[key], pos)
	}
	return x
}

// Items returns the indexed collection.
func (x *Index) Items() collection.Collection {
	return x.items
}

// Len returns the number of indexed items.
func (x *Index) Len() int {
	return len(x.items)
}

// naturalKey folds case so that "Boards of Canada" and "BOARDS OF CANADA" collide.
func (x *Index) naturalKey(artist, title string) string {
	return x.fold.String(artist) + "\x00" + x.fold.String(title)
}

// idIndex returns the position index for field, building it on first use.
func (x *Index) idIndex(field collection.Field) map[string][]int {
	if idx, ok := x.byID[field]; ok {
		return idx
	}
	idx := make(map[string][]int)
	for pos, item := range x.items {
		if v := item.Get(field); v != "" {
			idx[v] = append(idx[v], pos)
		}
	}
	x.byID[field] = idx
	return idx
}

// Match is the outcome of a successful identity lookup.
type Match struct {
	// Item is the matched collection item.
	Item *collection.Item

	// Position is the item's index in the collection.
	Position int

	// Kind is the identifier kind that produced the match.
	Kind Kind

	// Backfill is set on artist-title matches when the candidate carries a
	// source ID the item does not have yet. Apply it with Index.Backfill.
	Backfill *FieldUpdate
}

// Match looks up the item representing the same album as c.
//
// For each item in collection order, the natural key is tried first and the
// source ID second; the first item satisfying either wins. A candidate without
// an artist never matches.
func (x *Index) Match(c Candidate, r Rules) (Match, bool) {
	if c.Artist == "" {
		return Match{}, false
	}

	keyPos, idPos := -1, -1
	if c.Title != "" {
		if positions := x.byKey[x.naturalKey(c.Artist, c.Title)]; len(positions) > 0 {
			keyPos = positions[0]
		}
	}
	if c.ID != "" && r.IDField != "" {
		if positions := x.idIndex(r.IDField)[c.ID]; len(positions) > 0 {
			idPos = positions[0]
		}
	}

	switch {
	case keyPos >= 0 && (idPos < 0 || keyPos <= idPos):
		item := x.items[keyPos]
		m := Match{Item: item, Position: keyPos, Kind: KindArtistTitle}
		if c.ID != "" && r.IDField != "" && item.Get(r.IDField) != c.ID {
			m.Backfill = &FieldUpdate{
				Field:    r.IDField,
				OldValue: item.Get(r.IDField),
				NewValue: c.ID,
			}
		}
		return m, true
	case idPos >= 0:
		return Match{Item: x.items[idPos], Position: idPos, Kind: r.IDKind}, true
	default:
		return Match{}, false
	}
}

// Backfill writes m.Backfill onto the matched item and re-indexes it so later
// lookups, including those of adapters that run afterwards, find it by the new ID.
// It is a no-op when the match carries no backfill.
func (x *Index) Backfill(m Match) {
	if m.Backfill == nil {
		return
	}
	field := m.Backfill.Field
	idx := x.idIndex(field)

	if old := m.Item.Get(field); old != "" {
		idx[old] = removePosition(idx[old], m.Position)
		if len(idx[old]) == 0 {
			delete(idx, old)
		}
	}
	m.Item.Set(field, m.Backfill.NewValue)
	idx[m.Backfill.NewValue] = insertPosition(idx[m.Backfill.NewValue], m.Position)
}

func insertPosition(positions []int, pos int) []int {
	i := sort.SearchInts(positions, pos)
	if i < len(positions) && positions[i] == pos {
		return positions
	}
	positions = append(positions, 0)
	copy(positions[i+1:], positions[i:])
	positions[i] = pos
	return positions
}

func removePosition(positions []int, pos int) []int {
	i := sort.SearchInts(positions, pos)
	if i < len(positions) && positions[i] == pos {
		return append(positions[:i], positions[i+1:]...)
	}
	return positions
}
