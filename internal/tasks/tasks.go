package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/runlist/internal/catalog"
	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
	"github.com/desertthunder/runlist/internal/store"
)

// BuildEngine runs the full pipeline for one invocation: load exclusions,
// collect the genre's catalog into the scratch store, filter, partition,
// and publish.
type BuildEngine struct {
	catalog catalog.Catalog
	store   *store.Store
	decide  DecideFunc
	logger  *log.Logger

	// DryRun stops the pipeline after filtering; nothing is written to the
	// user's account.
	DryRun bool
}

// BuildResult is the outcome of a full pipeline run.
type BuildResult struct {
	Stats     CollectStats   `json:"stats"`
	Excluded  int            `json:"excluded_tracks"`
	Retained  []models.Track `json:"retained"`
	Playlists []BatchResult  `json:"playlists,omitempty"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Cancelled bool           `json:"cancelled,omitempty"`
}

// NewBuildEngine creates a BuildEngine. A nil decide callback accepts every
// artist; a nil logger falls back to the package default.
func NewBuildEngine(ctl catalog.Catalog, st *store.Store, decide DecideFunc, logger *log.Logger) *BuildEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BuildEngine{catalog: ctl, store: st, decide: decide, logger: logger}
}

// Run executes the pipeline and reports progress on the updates channel
// (which may be nil). The criteria must already be validated.
//
// Configuration and authorization errors abort the run before any playlist
// is created. Once publishing starts, per-batch failures are recorded in
// the result rather than returned; earlier batches stay on the account.
func (e *BuildEngine) Run(ctx context.Context, criteria models.FilterCriteria, updates chan<- ProgressUpdate) (*BuildResult, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	e.logger = shared.WithLogger(e.logger, "genre", criteria.Genre)
	result := &BuildResult{DryRun: e.DryRun}

	excluded, err := e.loadExclusions(ctx, criteria, updates)
	if err != nil {
		return nil, err
	}
	result.Excluded = excluded

	collector := NewCollector(e.catalog, e.store, e.decide, e.logger)
	stats, err := collector.Collect(ctx, criteria, updates)
	if stats != nil {
		result.Stats = *stats
		result.Cancelled = stats.Cancelled
	}
	if err != nil {
		return result, err
	}
	if result.Cancelled {
		e.logger.Info("run cancelled at artist confirmation")
		return result, nil
	}

	retained, err := NewFilterEngine(e.store).Apply(criteria)
	if err != nil {
		return result, err
	}
	result.Retained = retained
	sendProgress(updates, filterUpdate(len(retained)))
	e.logger.Info("filtering complete",
		"collected", stats.TracksCollected, "retained", len(retained))

	if e.DryRun {
		return result, nil
	}
	if len(retained) == 0 {
		e.logger.Warn("no tracks matched; nothing to publish")
		return result, nil
	}

	batches := Partition(retained, criteria)
	result.Playlists = NewPublisher(e.catalog, e.logger).Publish(ctx, batches, criteria, updates)

	return result, nil
}

// loadExclusions resolves each configured exclusion to a playlist on the
// user's account and records its track identities and normalized names in
// the store. Exclusions match by playlist ID or by exact name.
func (e *BuildEngine) loadExclusions(ctx context.Context, criteria models.FilterCriteria, updates chan<- ProgressUpdate) (int, error) {
	if len(criteria.ExcludePlaylists) == 0 {
		return 0, nil
	}

	playlists, err := e.catalog.UserPlaylists(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing user playlists: %w", err)
	}

	byKey := make(map[string]models.Playlist, len(playlists)*2)
	for _, p := range playlists {
		byKey[p.ID] = p
		byKey[p.Name] = p
	}

	for i, key := range criteria.ExcludePlaylists {
		playlist, ok := byKey[key]
		if !ok {
			return 0, fmt.Errorf("%w: excluded playlist %q not on account",
				shared.ErrPlaylistNotFound, key)
		}

		sendProgress(updates, loadExclusionsUpdate(i+1, len(criteria.ExcludePlaylists), playlist.Name))

		refs, err := e.catalog.PlaylistTrackRefs(ctx, playlist.ID)
		if err != nil {
			return 0, fmt.Errorf("loading tracks of excluded playlist %q: %w", playlist.Name, err)
		}
		if err := e.store.RecordExcludedPlaylist(playlist, refs); err != nil {
			return 0, err
		}
	}

	return e.store.CountExcludedTracks()
}

// Failed reports whether any published batch failed.
func (r *BuildResult) Failed() bool {
	for _, batch := range r.Playlists {
		if batch.Err != nil {
			return true
		}
	}
	return false
}

// Err flattens per-batch failures into a single error, or nil when every
// batch succeeded.
func (r *BuildResult) Err() error {
	var errs []error
	for _, batch := range r.Playlists {
		if batch.Err != nil {
			errs = append(errs, fmt.Errorf("playlist %q: %w", batch.Name, batch.Err))
		}
	}
	return errors.Join(errs...)
}
