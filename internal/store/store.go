package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
)

// Store holds the artists, albums, and tracks collected for the current run
// plus the track membership of excluded playlists.
//
// It is exclusively owned by one run and usually backed by an in-memory
// SQLite database; nothing survives the process.
type Store struct {
	db *sql.DB
}

// New wraps an open database that already has the scratch schema applied.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open creates a scratch database at the given path ([shared.ScratchPath]
// for a normal run) and applies the schema.
func Open(path string) (*Store, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare scratch schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database; for an in-memory database this
// discards all run state.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertArtist records an artist, ignoring duplicates by identity.
func (s *Store) UpsertArtist(artist models.Artist) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO artists (id, name, genres) VALUES (?, ?, ?)",
		artist.ID, artist.Name, strings.Join(artist.Genres, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist %s: %w", artist.ID, err)
	}
	return nil
}

// UpsertAlbum records an album, ignoring duplicates by identity.
func (s *Store) UpsertAlbum(album models.Album) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO albums (id, artist_id, title) VALUES (?, ?, ?)",
		album.ID, album.ArtistID, album.Title,
	)
	if err != nil {
		return fmt.Errorf("failed to insert album %s: %w", album.ID, err)
	}
	return nil
}

// CountArtists returns the number of collected artists.
func (s *Store) CountArtists() (int, error) {
	return s.count("SELECT COUNT(*) FROM artists")
}

// CountTracks returns the number of collected tracks.
func (s *Store) CountTracks() (int, error) {
	return s.count("SELECT COUNT(*) FROM tracks")
}

func (s *Store) count(query string) (int, error) {
	var n int
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}
