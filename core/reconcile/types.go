package reconcile

import "patrician/core/collection"

// Source names an external source of album records (e.g., "rym", "lastfm").
type Source string

// Kind is the type of identifier that links a source record to an item.
type Kind string

const (
	// KindArtistTitle is the natural key: artist and title compared case-insensitively.
	KindArtistTitle Kind = "artist-title"
	// KindRYMID is the numeric album ID of the cataloguing site.
	KindRYMID Kind = "rym-id"
	// KindMBID is the MusicBrainz fingerprint ID reported by the scrobbling service.
	KindMBID Kind = "mbid"
)

// Identifier is a tagged identifier value derived from a source record.
type Identifier struct {
	IDType Kind   `json:"idType" yaml:"idType"`
	Value  string `json:"value" yaml:"value"`
}

// FieldUpdate describes one changed field on a matched item.
// OldValue is empty when the item had no value for the field.
type FieldUpdate struct {
	Field    collection.Field `json:"field" yaml:"field"`
	OldValue string           `json:"oldValue,omitempty" yaml:"oldValue,omitempty"`
	NewValue string           `json:"newValue" yaml:"newValue"`
}

// SingleItemUpdate is the result of matching one source record to one item.
type SingleItemUpdate struct {
	// MatchingIdentifier is the kind of identifier that produced the match.
	MatchingIdentifier Kind `json:"matchingIdentifier" yaml:"matchingIdentifier"`

	// Identifiers lists every identifier derivable from the source record,
	// regardless of which one matched.
	Identifiers []Identifier `json:"identifiers" yaml:"identifiers"`

	// Source is the source that produced the record.
	Source Source `json:"source" yaml:"source"`

	// Item references the matched item inside the collection.
	Item *collection.Item `json:"item" yaml:"item"`

	// Updates are the field changes to apply, in source field order.
	Updates []FieldUpdate `json:"updates" yaml:"updates"`

	// Backfill records the source ID written onto the item when it matched
	// by artist and title. It has already been applied when the update is built.
	Backfill *FieldUpdate `json:"backfill,omitempty" yaml:"backfill,omitempty"`
}

// ItemUpdates is the proposed change set of one run, in encounter order.
type ItemUpdates struct {
	NewItems     []collection.Item  `json:"newItems" yaml:"newItems"`
	UpdatedItems []SingleItemUpdate `json:"updatedItems" yaml:"updatedItems"`

	// Skipped counts records that could not be represented (no artist or title).
	Skipped int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// FieldUpdateCount returns the number of field updates across all updated items.
func (u *ItemUpdates) FieldUpdateCount() int {
	n := 0
	for _, su := range u.UpdatedItems {
		n += len(su.Updates)
	}
	return n
}

// BackfillCount returns the number of updates that backfilled a source ID.
func (u *ItemUpdates) BackfillCount() int {
	n := 0
	for _, su := range u.UpdatedItems {
		if su.Backfill != nil {
			n++
		}
	}
	return n
}

// Candidate is a source record normalized to the collection's item shape.
// Adapters build one per record before matching.
type Candidate struct {
	// Artist and Title form the natural key. An empty Artist makes the record unmatchable.
	Artist string
	Title  string

	// ID is the source-specific identifier (may be empty).
	ID string

	// Values holds the source-supplied values for the fields listed in Rules.Fields.
	Values map[collection.Field]string
}

// Rules define how a source maps onto the collection.
type Rules struct {
	// Source is recorded on every update produced with these rules.
	Source Source

	// IDField is the item field holding this source's identifier.
	IDField collection.Field

	// IDKind is the identifier kind reported for IDField matches.
	IDKind Kind

	// Fields are the item fields the source can supply, in diff order.
	Fields []collection.Field

	// Unset lists per-field sentinel values meaning "no value" (e.g., rating "0").
	// The empty string is always unset.
	Unset map[collection.Field][]string
}

// IsUnset reports whether value must not overwrite field.
func (r Rules) IsUnset(field collection.Field, value string) bool {
	if value == "" {
		return true
	}
	for _, sentinel := range r.Unset[field] {
		if value == sentinel {
			return true
		}
	}
	return false
}

// SourcePlan is the result of one adapter.
type SourcePlan struct {
	Source      Source `json:"source" yaml:"source"`
	ItemUpdates `yaml:",inline"`
}

// Plan is the aggregated result of running every enabled adapter.
type Plan struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Sources holds per-adapter results in execution order.
	Sources []SourcePlan `json:"sources" yaml:"sources"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary" yaml:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// NewItems counts distinct proposed new items across sources.
	NewItems int `json:"new_items" yaml:"new_items"`

	// UpdatedItems counts matched items.
	UpdatedItems int `json:"updated_items" yaml:"updated_items"`

	// FieldUpdates counts individual field changes across matched items.
	FieldUpdates int `json:"field_updates" yaml:"field_updates"`

	// Backfills counts source IDs written during matching.
	Backfills int `json:"backfills" yaml:"backfills"`

	// Skipped counts records without artist or title.
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Combined concatenates every source's results in execution order. A new
// item proposed by several sources appears once, at its first position,
// completed with the fields only later sources supplied.
func (p *Plan) Combined() ItemUpdates {
	combined := ItemUpdates{NewItems: mergeNewItems(p.Sources)}
	for _, sp := range p.Sources {
		combined.UpdatedItems = append(combined.UpdatedItems, sp.UpdatedItems...)
		combined.Skipped += sp.Skipped
	}
	return combined
}

// BySource returns the results keyed by source name.
func (p *Plan) BySource() map[Source]ItemUpdates {
	out := make(map[Source]ItemUpdates, len(p.Sources))
	for _, sp := range p.Sources {
		out[sp.Source] = sp.ItemUpdates
	}
	return out
}
