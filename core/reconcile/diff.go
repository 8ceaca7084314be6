package reconcile

import "patrician/core/collection"

// Identifiers returns every identifier derivable from c: the natural key as
// "Artist - Title", plus the source ID when present.
func Identifiers(c Candidate, r Rules) []Identifier {
	ids := []Identifier{{IDType: KindArtistTitle, Value: c.Artist + " - " + c.Title}}
	if c.ID != "" && r.IDKind != "" {
		ids = append(ids, Identifier{IDType: r.IDKind, Value: c.ID})
	}
	return ids
}

// Diff compares the source-supplied fields of c against the matched item.
// Unset source values never produce an update. The update carries an empty
// Updates list when nothing differs.
func Diff(c Candidate, m Match, r Rules) SingleItemUpdate {
	update := SingleItemUpdate{
		MatchingIdentifier: m.Kind,
		Identifiers:        Identifiers(c, r),
		Source:             r.Source,
		Item:               m.Item,
		Updates:            []FieldUpdate{},
		Backfill:           m.Backfill,
	}

	for _, field := range r.Fields {
		value := c.Values[field]
		if r.IsUnset(field, value) {
			continue
		}
		if current := m.Item.Get(field); current != value {
			update.Updates = append(update.Updates, FieldUpdate{
				Field:    field,
				OldValue: current,
				NewValue: value,
			})
		}
	}

	return update
}

// NewItem builds a collection item from an unmatched candidate. Only set
// values are copied; the source ID is stored in the rules' ID field.
func NewItem(c Candidate, r Rules) collection.Item {
	item := collection.Item{Artist: c.Artist, Title: c.Title}
	if c.ID != "" && r.IDField != "" {
		item.Set(r.IDField, c.ID)
	}
	for _, field := range r.Fields {
		if value := c.Values[field]; !r.IsUnset(field, value) {
			item.Set(field, value)
		}
	}
	return item
}
