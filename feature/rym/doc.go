// Package rym implements the catalog export source.
//
// The export is a CSV file with one row per rated or owned album. The columns
// used are:
//
//	RYM Album, First Name, Last Name, Title, Release_Date, Rating
//
// The artist is "First Name Last Name", or the last name alone when the first
// name is empty. A rating of 0 means unrated and never overwrites a value in
// the collection. Matching items receive the album ID in their RYMID column.
package rym
