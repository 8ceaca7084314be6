// Package collection holds the album collection model and its CSV storage format.
//
// A collection is an ordered list of items, one album per row. The file uses a
// header row naming the columns Artist, Title, RYMID, MBID, ReleaseDate, Rating
// and Plays. Absent optional fields are written as empty strings.
//
// # Usage
//
//	coll, err := collection.ReadFile("albums.csv")
//	if err != nil {
//	    return err
//	}
//	// ... reconcile ...
//	err = collection.WriteFile("albums.csv", coll)
//
// WriteFile sorts by artist and then title (case-insensitive) and replaces the
// target atomically, so a failed run never leaves a partial file behind.
package collection
