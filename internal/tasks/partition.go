package tasks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/runlist/internal/catalog"
	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
)

// Partition truncates the filtered sequence to the configured total and
// splits the remainder into consecutive batches. A zero MaxTotal keeps
// every track; a zero MaxPerPlaylist yields a single batch.
func Partition(tracks []models.Track, criteria models.FilterCriteria) [][]models.Track {
	if criteria.MaxTotal > 0 && len(tracks) > criteria.MaxTotal {
		tracks = tracks[:criteria.MaxTotal]
	}

	if len(tracks) == 0 {
		return nil
	}

	size := criteria.MaxPerPlaylist
	if size <= 0 {
		return [][]models.Track{tracks}
	}

	batches := make([][]models.Track, 0, (len(tracks)+size-1)/size)
	for start := 0; start < len(tracks); start += size {
		end := start + size
		if end > len(tracks) {
			end = len(tracks)
		}
		batches = append(batches, tracks[start:end])
	}

	return batches
}

// PlaylistName builds the generated playlist name for a batch: genre, tempo
// range, run date, and a 1-based part suffix when the run produced more
// than one batch.
func PlaylistName(criteria models.FilterCriteria, date time.Time, part, total int) string {
	name := fmt.Sprintf("%s @%s-%s BPM dd. %s",
		criteria.Genre,
		formatTempo(criteria.Floor),
		formatTempo(criteria.Ceiling),
		date.Format("2006-01-02"),
	)

	if total > 1 {
		name += fmt.Sprintf(" part %02d", part)
	}

	return name
}

func formatTempo(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BatchResult records the outcome of publishing a single batch.
type BatchResult struct {
	Name       string `json:"name"`
	PlaylistID string `json:"playlist_id,omitempty"`
	TrackCount int    `json:"track_count"`
	Err        error  `json:"-"`
	Error      string `json:"error,omitempty"`
}

// Publisher writes batches of filtered tracks to the catalog as new
// playlists.
type Publisher struct {
	catalog catalog.Catalog
	logger  *log.Logger
}

// NewPublisher creates a Publisher over the given catalog.
func NewPublisher(c catalog.Catalog, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Publisher{catalog: c, logger: logger}
}

// Publish creates one playlist per batch and adds its tracks in order.
// Each batch stands alone: a creation or track-addition failure is
// recorded in that batch's result and earlier playlists stay on the
// account. The returned slice always has one entry per batch.
func (p *Publisher) Publish(ctx context.Context, batches [][]models.Track, criteria models.FilterCriteria, updates chan<- ProgressUpdate) []BatchResult {
	now := time.Now()
	description := fmt.Sprintf(
		"Generated playlist with %s tracks in tempo between %s and %s beats per minute.",
		criteria.Genre, formatTempo(criteria.Floor), formatTempo(criteria.Ceiling),
	)
	results := make([]BatchResult, 0, len(batches))

	for i, batch := range batches {
		name := PlaylistName(criteria, now, i+1, len(batches))
		result := BatchResult{Name: name, TrackCount: len(batch)}

		sendProgress(updates, createPlaylistUpdate(i+1, len(batches), name))

		id, err := p.catalog.CreatePlaylist(ctx, name, description)
		if err != nil {
			p.logger.Error("playlist creation failed", "name", name, "error", err)

			result.Err = err
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.PlaylistID = id

		ids := make([]string, len(batch))
		for j, track := range batch {
			ids[j] = track.ID
		}

		sendProgress(updates, addTracksUpdate(i+1, len(batches), len(ids), name))

		if err := p.catalog.AddTracks(ctx, id, ids); err != nil {
			p.logger.Error("adding tracks failed", "name", name, "error", err)

			result.Err = err
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		p.logger.Info("playlist published", "name", name, "tracks", len(batch))

		results = append(results, result)
	}

	return results
}
