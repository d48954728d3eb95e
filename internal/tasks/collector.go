package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/runlist/internal/catalog"
	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/store"
)

// Decision is the outcome of the per-artist confirmation callback.
type Decision int

const (
	DecideYes    Decision = iota // process this artist
	DecideNo                     // skip this artist
	DecideAll                    // process this and every remaining artist
	DecideCancel                 // stop processing artists entirely
)

// DecideFunc is invoked once per discovered artist before its releases are
// fetched. The default accepts every artist; interactive mode substitutes a
// prompt.
type DecideFunc func(artist models.Artist) (Decision, error)

// AcceptAll is the non-interactive [DecideFunc].
func AcceptAll(models.Artist) (Decision, error) {
	return DecideYes, nil
}

// Collector walks artists → albums → tracks and populates the scratch
// store. Requests are issued one at a time; there is no parallel fan-out.
type Collector struct {
	catalog catalog.Catalog
	store   *store.Store
	decide  DecideFunc
	logger  *log.Logger
}

// CollectStats summarizes a collection pass.
type CollectStats struct {
	ArtistsFound     int
	ArtistsProcessed int
	ArtistsSkipped   int
	AlbumsProcessed  int
	TracksCollected  int
	Cancelled        bool
}

// NewCollector creates a Collector. A nil decide callback means every
// artist is processed.
func NewCollector(ctl catalog.Catalog, st *store.Store, decide DecideFunc, logger *log.Logger) *Collector {
	if decide == nil {
		decide = AcceptAll
	}
	return &Collector{catalog: ctl, store: st, decide: decide, logger: logger}
}

// Collect discovers artists for the criteria's genre and walks their albums
// and tracks into the store.
//
// A failed artist search fails the run. An artist or album that errors or
// yields nothing is skipped with a warning carrying its context; collection
// continues with the next unit.
func (c *Collector) Collect(ctx context.Context, criteria models.FilterCriteria, progress chan<- ProgressUpdate) (*CollectStats, error) {
	sendProgress(progress, searchArtistsUpdate(criteria.Genre))

	artists, err := c.catalog.SearchArtists(ctx, criteria.Genre, criteria.Artist)
	if err != nil {
		return nil, fmt.Errorf("artist search for genre %q: %w", criteria.Genre, err)
	}

	stats := &CollectStats{ArtistsFound: len(artists)}
	acceptRest := false

	for i, artist := range artists {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if !acceptRest {
			decision, err := c.decide(artist)
			if err != nil {
				return stats, fmt.Errorf("confirmation for artist %q: %w", artist.Name, err)
			}
			switch decision {
			case DecideNo:
				stats.ArtistsSkipped++
				continue
			case DecideCancel:
				stats.Cancelled = true
				return stats, nil
			case DecideAll:
				acceptRest = true
			}
		}

		sendProgress(progress, collectArtistUpdate(i+1, len(artists), artist.Name))
		if err := c.collectArtist(ctx, artist, stats, progress); err != nil {
			return stats, err
		}
		stats.ArtistsProcessed++
	}

	return stats, nil
}

// collectArtist records one artist and walks its albums. Album-level
// failures are skipped, not fatal.
func (c *Collector) collectArtist(ctx context.Context, artist models.Artist, stats *CollectStats, progress chan<- ProgressUpdate) error {
	if err := c.store.UpsertArtist(artist); err != nil {
		return err
	}

	albums, err := c.catalog.ListAlbums(ctx, artist.ID)
	if err != nil {
		c.logger.Warn("skipping artist: album listing failed", "artist", artist.Name, "err", err)
		return nil
	}
	if len(albums) == 0 {
		c.logger.Debug("artist has no releases", "artist", artist.Name)
		return nil
	}

	for i, album := range albums {
		if err := ctx.Err(); err != nil {
			return err
		}
		sendProgress(progress, collectAlbumUpdate(i+1, len(albums), album.Title))

		if err := c.store.UpsertAlbum(album); err != nil {
			return err
		}

		tracks, err := c.catalog.ListTracks(ctx, album.ID)
		if err != nil {
			c.logger.Warn("skipping album: track listing failed",
				"artist", artist.Name, "album", album.Title, "err", err)
			continue
		}

		for _, track := range tracks {
			if err := c.store.InsertTrack(track); err != nil {
				return err
			}
			stats.TracksCollected++
		}
		stats.AlbumsProcessed++
	}

	return nil
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
