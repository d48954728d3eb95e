// package catalog defines the Catalog interface for the music catalog service
// and its Spotify implementation.
package catalog

import (
	"context"

	"github.com/desertthunder/runlist/internal/models"
)

// Catalog defines the operations the pipeline needs from the music catalog
// service: artist discovery, release enumeration, tempo lookup, and playlist
// creation on the user's account.
//
// Pagination, token refresh, and transport-level retry are the
// implementation's concern; callers see complete result sets.
type Catalog interface {
	// CurrentUser returns the authenticated user's ID and display name.
	CurrentUser(ctx context.Context) (id, displayName string, err error)

	// SearchArtists returns artists matching the genre, optionally narrowed
	// by an artist name. Bounded by the catalog's maximum result size.
	SearchArtists(ctx context.Context, genre, narrowing string) ([]models.Artist, error)

	// ListAlbums returns the albums and singles of an artist.
	ListAlbums(ctx context.Context, artistID string) ([]models.Album, error)

	// ListTracks returns the tracks of an album with tempo populated where
	// available.
	ListTracks(ctx context.Context, albumID string) ([]models.Track, error)

	// UserPlaylists returns the playlists on the user's account.
	UserPlaylists(ctx context.Context) ([]models.Playlist, error)

	// PlaylistTrackRefs returns identity and name of every track on a playlist.
	PlaylistTrackRefs(ctx context.Context, playlistID string) ([]models.TrackRef, error)

	// CreatePlaylist creates a private playlist and returns its ID.
	CreatePlaylist(ctx context.Context, name, description string) (string, error)

	// AddTracks appends tracks to a playlist in order.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}
