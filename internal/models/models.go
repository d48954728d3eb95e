package models

import (
	"fmt"

	"github.com/desertthunder/runlist/internal/shared"
)

// Artist is a catalog artist discovered for the requested genre.
type Artist struct {
	ID     string
	Name   string
	Genres []string
}

// Album is a catalog release belonging to exactly one artist.
type Album struct {
	ID       string
	ArtistID string
	Title    string
}

// Track is a catalog track belonging to exactly one album.
//
// Tempo is in beats per minute; a zero tempo means the catalog had no
// audio features for the track and no fallback provider could resolve it.
type Track struct {
	ID       string
	AlbumID  string
	Name     string
	Tempo    float64
	Duration int // seconds
}

// Playlist is a playlist reference on the user's account.
type Playlist struct {
	ID         string
	Name       string
	TrackCount int
}

// TrackRef identifies a track on an existing playlist; Name is carried for
// the best-effort name-based exclusion check.
type TrackRef struct {
	ID   string
	Name string
}

// FilterCriteria is the immutable per-run filter configuration.
//
// A track is retained when its tempo falls inside [Floor, Ceiling], or,
// when Doubled is set, inside [2*Floor, 2*Ceiling]. Both bounds are
// inclusive and the doubled range is evaluated independently of the
// primary one.
type FilterCriteria struct {
	Genre            string
	Artist           string
	Floor            float64
	Ceiling          float64
	Doubled          bool
	ExcludePlaylists []string
	MaxPerPlaylist   int // 0 = unlimited, i.e. a single playlist
	MaxTotal         int // 0 = unlimited
}

// Matches reports whether a tempo satisfies the criteria's ranges.
func (c FilterCriteria) Matches(tempo float64) bool {
	if tempo >= c.Floor && tempo <= c.Ceiling {
		return true
	}
	if c.Doubled && tempo >= 2*c.Floor && tempo <= 2*c.Ceiling {
		return true
	}
	return false
}

// Validate checks value ranges; the CLI layer validates before a run starts.
func (c FilterCriteria) Validate() error {
	if c.Genre == "" {
		return fmt.Errorf("%w: genre", shared.ErrMissingArgument)
	}
	if c.Floor < 0 || c.Ceiling < 0 {
		return fmt.Errorf("%w: tempo bounds must be non-negative", shared.ErrInvalidInput)
	}
	if c.Ceiling < c.Floor {
		return fmt.Errorf("%w: tempo ceiling %v is below floor %v", shared.ErrInvalidInput, c.Ceiling, c.Floor)
	}
	if c.MaxPerPlaylist < 0 || c.MaxTotal < 0 {
		return fmt.Errorf("%w: playlist size limits must be non-negative", shared.ErrInvalidInput)
	}
	return nil
}
