// Package audit persists what a run proposed.
//
// Dump writes the plan grouped by source, in the shape
//
//	{"rym": {"newItems": [...], "updatedItems": [...]}, "lastfm": {...}}
//
// as JSON or YAML. Archive uploads the dump and a snapshot of the collection as
// it was before merging to object storage under runs/<run-id>/, so that any run
// can be inspected or undone later.
package audit
