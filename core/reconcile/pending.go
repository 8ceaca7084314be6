package reconcile

import (
	"patrician/core/collection"

	"golang.org/x/text/cases"
)

// idFields are the item fields that identify an album on their own.
var idFields = []collection.Field{collection.FieldRYMID, collection.FieldMBID}

// pending tracks proposed new items so that a later proposal of the same
// album folds into the first one instead of being appended again. Two
// proposals are the same album when their folded artist and title are equal
// or when they share a non-empty source ID.
type pending struct {
	fold  cases.Caser
	byKey map[string]int
	byID  map[collection.Field]map[string]int
}

func newPending() *pending {
	return &pending{
		fold:  cases.Fold(),
		byKey: make(map[string]int),
		byID:  make(map[collection.Field]map[string]int),
	}
}

func (p *pending) key(item *collection.Item) string {
	return p.fold.String(item.Artist) + "\x00" + p.fold.String(item.Title)
}

// find returns the position of an earlier proposal of item.
func (p *pending) find(item *collection.Item) (int, bool) {
	if pos, ok := p.byKey[p.key(item)]; ok {
		return pos, true
	}
	for _, field := range idFields {
		if v := item.Get(field); v != "" {
			if pos, ok := p.byID[field][v]; ok {
				return pos, true
			}
		}
	}
	return 0, false
}

// remember records item as the proposal at pos. Keys already taken keep
// their first position.
func (p *pending) remember(item *collection.Item, pos int) {
	if _, ok := p.byKey[p.key(item)]; !ok {
		p.byKey[p.key(item)] = pos
	}
	for _, field := range idFields {
		v := item.Get(field)
		if v == "" {
			continue
		}
		if p.byID[field] == nil {
			p.byID[field] = make(map[string]int)
		}
		if _, ok := p.byID[field][v]; !ok {
			p.byID[field][v] = pos
		}
	}
}

// add appends item to items unless it repeats an earlier proposal, in which
// case the earlier proposal only gains the fields it is missing.
func (p *pending) add(items []collection.Item, item collection.Item) ([]collection.Item, bool) {
	if pos, ok := p.find(&item); ok {
		fillEmpty(&items[pos], item)
		p.remember(&items[pos], pos)
		return items, false
	}
	items = append(items, item)
	p.remember(&items[len(items)-1], len(items)-1)
	return items, true
}

// fillEmpty copies the fields of src that dst has no value for.
func fillEmpty(dst *collection.Item, src collection.Item) {
	for _, field := range collection.Fields {
		if dst.Get(field) == "" {
			if v := src.Get(field); v != "" {
				dst.Set(field, v)
			}
		}
	}
}

// mergeNewItems concatenates the new items of every source in order, folding
// repeats of the same album into the first proposal.
func mergeNewItems(sources []SourcePlan) []collection.Item {
	p := newPending()
	var items []collection.Item
	for _, sp := range sources {
		for _, item := range sp.NewItems {
			items, _ = p.add(items, item)
		}
	}
	return items
}
