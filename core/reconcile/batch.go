package reconcile

import "patrician/core/collection"

// Outcome reports what Batch.Add did with a candidate.
type Outcome int

const (
	// OutcomeSkipped means the candidate lacked an artist or title.
	OutcomeSkipped Outcome = iota
	// OutcomeNew means no item matched and a new item was proposed.
	OutcomeNew
	// OutcomeUpdated means an item matched and a SingleItemUpdate was recorded.
	OutcomeUpdated
	// OutcomeRepeated means the candidate named an album the batch had already
	// proposed or updated. Only missing fields of a proposed new item are taken
	// from it.
	OutcomeRepeated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeUpdated:
		return "updated"
	case OutcomeRepeated:
		return "repeated"
	default:
		return "skipped"
	}
}

// Batch accumulates the ItemUpdates of one adapter run against an Index.
// Candidates must be added in source order; the first candidate for an album
// wins.
type Batch struct {
	index   *Index
	rules   Rules
	updates ItemUpdates

	proposed *pending
	updated  map[*collection.Item]struct{}
}

// NewBatch starts a batch for rules over index.
func NewBatch(index *Index, rules Rules) *Batch {
	return &Batch{
		index:    index,
		rules:    rules,
		proposed: newPending(),
		updated:  make(map[*collection.Item]struct{}),
		updates: ItemUpdates{
			NewItems:     []collection.Item{},
			UpdatedItems: []SingleItemUpdate{},
		},
	}
}

// Add matches c and records either a new item or an update.
// A matched candidate whose source ID the item lacks has that ID written onto
// the item immediately.
func (b *Batch) Add(c Candidate) Outcome {
	if c.Artist == "" || c.Title == "" {
		b.updates.Skipped++
		return OutcomeSkipped
	}

	m, ok := b.index.Match(c, b.rules)
	if !ok {
		var added bool
		b.updates.NewItems, added = b.proposed.add(b.updates.NewItems, NewItem(c, b.rules))
		if !added {
			return OutcomeRepeated
		}
		return OutcomeNew
	}

	if _, seen := b.updated[m.Item]; seen {
		return OutcomeRepeated
	}
	b.updated[m.Item] = struct{}{}

	b.index.Backfill(m)
	b.updates.UpdatedItems = append(b.updates.UpdatedItems, Diff(c, m, b.rules))
	return OutcomeUpdated
}

// Result returns the accumulated updates.
func (b *Batch) Result() *ItemUpdates {
	return &b.updates
}
