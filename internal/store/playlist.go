package store

import (
	"fmt"

	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
)

// RecordExcludedPlaylist marks a playlist as an exclusion source and stores
// the identity and normalized name of each of its tracks.
func (s *Store) RecordExcludedPlaylist(playlist models.Playlist, refs []models.TrackRef) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO playlists (id, name, excluded) VALUES (?, ?, 1)",
		playlist.ID, playlist.Name,
	); err != nil {
		return fmt.Errorf("failed to insert playlist %s: %w", playlist.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO playlist_tracks (playlist_id, track_id, track_name, normalized_name)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range refs {
		if _, err := stmt.Exec(playlist.ID, ref.ID, ref.Name, shared.NormalizeTrackName(ref.Name)); err != nil {
			return fmt.Errorf("failed to insert playlist track %s: %w", ref.ID, err)
		}
	}

	return tx.Commit()
}

// CountExcludedTracks returns the number of tracks recorded across all
// excluded playlists.
func (s *Store) CountExcludedTracks() (int, error) {
	return s.count(`
		SELECT COUNT(*)
		FROM playlist_tracks pt
		JOIN playlists p ON p.id = pt.playlist_id
		WHERE p.excluded = 1
	`)
}
