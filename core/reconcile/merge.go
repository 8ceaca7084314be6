package reconcile

import (
	"fmt"

	"patrician/core/collection"
)

// Apply merges a selection into coll and returns the resulting collection.
//
// Field updates are written onto the referenced items in order, so a later
// update to the same field wins. New items are appended as copies. The result
// is unsorted; collection.Write sorts on output.
//
// Apply panics if an update references an item that is not in coll: the
// updates were computed against a different collection.
func Apply(coll collection.Collection, newItems []collection.Item, updates []SingleItemUpdate) collection.Collection {
	members := make(map[*collection.Item]struct{}, len(coll))
	for _, item := range coll {
		members[item] = struct{}{}
	}

	for _, su := range updates {
		if _, ok := members[su.Item]; !ok {
			panic(fmt.Sprintf("reconcile: update for %s references an item outside the collection", su.Item))
		}
		for _, fu := range su.Updates {
			su.Item.Set(fu.Field, fu.NewValue)
		}
	}

	merged := make(collection.Collection, 0, len(coll)+len(newItems))
	merged = append(merged, coll...)
	for i := range newItems {
		item := newItems[i]
		merged = append(merged, &item)
	}
	return merged
}
