package models

import "time"

// PlaylistEntry is one raw row returned by the mood playlist service.
type PlaylistEntry struct {
	Song            string `json:"song"`
	Artist          string `json:"artiste"`
	Album           string `json:"album"`
	Genre           string `json:"genre"`
	Cover           string `json:"cover"`
	PublicationDate string `json:"date_publication"`
}

// Track is an enriched playlist entry. SpotifyURI and PreviewURL stay nil
// when the catalog lookup found no match; a miss is not an error.
type Track struct {
	Artist          string  `json:"artiste"`
	Album           string  `json:"album"`
	Song            string  `json:"song"`
	Genre           string  `json:"genre"`
	Cover           string  `json:"cover"`
	PublicationDate string  `json:"date_publication"`
	SpotifyURI      *string `json:"spotify_uri"`
	PreviewURL      *string `json:"preview_url"`
}

// Playlist groups the tracks generated for one capture event. Archive files
// store only the track array; emotion and creation time ride along in memory
// and in the latest-playlist cache.
type Playlist struct {
	Emotion   string    `json:"emotion"`
	CreatedAt time.Time `json:"created_at"`
	Tracks    []Track   `json:"tracks"`
}
