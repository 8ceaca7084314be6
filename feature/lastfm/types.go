package lastfm

import (
	"fmt"

	"patrician/core/utils"
)

// Last.fm API response types.

// topAlbumsResponse is the top-level response from user.gettopalbums.
type topAlbumsResponse struct {
	TopAlbums struct {
		Album []wireAlbum `json:"album"`
		Attr  struct {
			Page       any `json:"page"`
			PerPage    any `json:"perPage"`
			TotalPages any `json:"totalPages"`
			Total      any `json:"total"`
		} `json:"@attr"`
	} `json:"topalbums"`
}

type wireAlbum struct {
	Name      string `json:"name"`
	MBID      string `json:"mbid"`
	Playcount any    `json:"playcount"`
	Artist    struct {
		Name string `json:"name"`
		MBID string `json:"mbid"`
	} `json:"artist"`
}

// errorResponse is the payload returned for failed calls.
type errorResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// Album is one entry of a user's top albums.
type Album struct {
	Artist    string
	Name      string
	MBID      string
	Playcount string
}

// Plays returns the play count as an integer; unparsable counts are 0.
func (a Album) Plays() int {
	return utils.ToInt(a.Playcount)
}

// TopAlbumsPage is one page of user.gettopalbums.
type TopAlbumsPage struct {
	Albums     []Album
	Page       int
	TotalPages int
}

func (r *topAlbumsResponse) page() *TopAlbumsPage {
	p := &TopAlbumsPage{
		Albums:     make([]Album, 0, len(r.TopAlbums.Album)),
		Page:       utils.ToInt(r.TopAlbums.Attr.Page),
		TotalPages: utils.ToInt(r.TopAlbums.Attr.TotalPages),
	}
	for _, w := range r.TopAlbums.Album {
		p.Albums = append(p.Albums, Album{
			Artist:    w.Artist.Name,
			Name:      w.Name,
			MBID:      w.MBID,
			Playcount: utils.ToString(w.Playcount),
		})
	}
	return p
}

// APIError is an error payload returned by the API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm: api error %d (status %d): %s", e.Code, e.StatusCode, e.Message)
}

// Error codes that mean the credentials are unusable.
const (
	codeAuthFailed    = 4
	codeInvalidAPIKey = 10
	codeSuspendedKey  = 26
)
