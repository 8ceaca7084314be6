// Package history records completed reconciliation runs in a SQL database.
//
// Each update run stores one Run row with what was proposed and what was
// accepted, so that the history command can show how the collection evolved.
package history
