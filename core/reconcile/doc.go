// Package reconcile merges album records from external sources into a
// collection.
//
// A run has four stages:
//
//  1. Matching: an Index over the collection resolves each source record to
//     at most one item, by artist and title (case-insensitive) or by the
//     source's own ID. Artist-title matches backfill the source ID onto the
//     item so that later runs can match by ID even after a rename.
//
//  2. Diffing: Diff compares the source-supplied fields against the matched
//     item; unmatched records become new items via NewItem.
//
//  3. Aggregation: an Aggregator runs each enabled Adapter in turn over the
//     same Index and collects the results into a Plan.
//
//  4. Merging: Apply writes a selected subset of the plan into the collection.
//
// # Usage Example
//
//	index := reconcile.NewIndex(coll)
//	adapters, err := registry.Resolve([]reconcile.Source{"rym", "lastfm"})
//	plan, err := reconcile.NewAggregator(logger, adapters...).Run(ctx, index)
//
//	combined := plan.Combined()
//	merged := reconcile.Apply(coll, combined.NewItems, combined.UpdatedItems)
//	err = collection.WriteFile(path, merged)
//
// # Writing Adapters
//
// An adapter converts each record to a Candidate, describes its fields with
// Rules and hands candidates to a Batch in source order:
//
//	batch := reconcile.NewBatch(index, rules)
//	for _, rec := range records {
//	    batch.Add(toCandidate(rec))
//	}
//	return batch.Result(), nil
package reconcile
