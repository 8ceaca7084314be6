package reconcile

import (
	"sort"

	"patrician/core/collection"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// DefaultSimilarity is the Jaro-Winkler score above which a new item is
// reported as a possible duplicate.
const DefaultSimilarity = 0.9

// NearMatch is an existing item resembling a proposed new item.
type NearMatch struct {
	Item  *collection.Item
	Score float64
}

// Similar returns existing items whose folded "artist title" resembles the
// candidate item's with a score of at least threshold, best first, at most limit.
// It only produces hints; matching never uses it.
func (x *Index) Similar(item collection.Item, threshold float64, limit int) []NearMatch {
	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false

	target := item.Artist + " " + item.Title
	var found []NearMatch
	for _, existing := range x.items {
		score := strutil.Similarity(target, existing.Artist+" "+existing.Title, jw)
		if score >= threshold {
			found = append(found, NearMatch{Item: existing, Score: score})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Score > found[j].Score
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found
}
