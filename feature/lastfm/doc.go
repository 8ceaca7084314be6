// Package lastfm implements the scrobble source.
//
// The adapter pages through user.gettopalbums, which returns albums in
// descending play count order, and stops after the first page that contains an
// album played fewer than Config.PlaysThreshold times. Album names are cleaned
// by a Filter before matching so that store suffixes such as "[Explicit]" or
// "(Deluxe Edition)" do not defeat the artist-title comparison. Matching items
// receive the album's MusicBrainz ID in their MBID column.
//
// # Usage
//
//	client, err := lastfm.NewClient(cfg, logger)
//	adapter := lastfm.NewAdapter(cfg, client, logger)
//	updates, err := adapter.Run(ctx, index)
package lastfm
