package store

import (
	"fmt"

	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
)

// InsertTrack records a collected track. Re-inserting the same identity is
// a no-op, preserving the original discovery order.
func (s *Store) InsertTrack(track models.Track) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO tracks (id, album_id, name, normalized_name, tempo, duration)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		track.ID,
		track.AlbumID,
		track.Name,
		shared.NormalizeTrackName(track.Name),
		track.Tempo,
		track.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track %s: %w", track.ID, err)
	}
	return nil
}

// TracksInRange returns collected tracks whose tempo falls inside the
// criteria's primary range or, when the doubled flag is set, the doubled
// range, excluding any track whose identity or normalized name appears on
// an excluded playlist. Results come back in discovery order.
//
// Duplicate identities cannot occur (identity is unique on insert);
// duplicate normalized names can, and are the filter engine's concern.
func (s *Store) TracksInRange(criteria models.FilterCriteria) ([]models.Track, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.album_id, t.name, t.tempo, t.duration
		FROM tracks t
		WHERE (
			(t.tempo >= ? AND t.tempo <= ?)
			OR (? AND t.tempo >= ? AND t.tempo <= ?)
		)
		AND NOT EXISTS (
			SELECT 1
			FROM playlist_tracks pt
			JOIN playlists p ON p.id = pt.playlist_id
			WHERE p.excluded = 1
			  AND (pt.track_id = t.id OR pt.normalized_name = t.normalized_name)
		)
		ORDER BY t.seq ASC
	`,
		criteria.Floor, criteria.Ceiling,
		criteria.Doubled, 2*criteria.Floor, 2*criteria.Ceiling,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.ID, &t.AlbumID, &t.Name, &t.Tempo, &t.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}
