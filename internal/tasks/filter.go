package tasks

import (
	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
	"github.com/desertthunder/runlist/internal/store"
)

// FilterEngine selects the tracks that survive the tempo range, exclusion
// membership, and duplicate checks.
type FilterEngine struct {
	store *store.Store
}

// NewFilterEngine creates a FilterEngine over a populated store.
func NewFilterEngine(st *store.Store) *FilterEngine {
	return &FilterEngine{store: st}
}

// Apply returns the filtered, deduplicated track sequence in discovery
// order.
//
// The store answers the tempo-range and exclusion-membership query; this
// method removes duplicates among the survivors. First occurrence wins for
// both identity and normalized-name collisions, which makes the result
// deterministic for a given collection order. The name check is best
// effort: normalization collapses case, punctuation, and whitespace, and
// nothing more.
func (e *FilterEngine) Apply(criteria models.FilterCriteria) ([]models.Track, error) {
	candidates, err := e.store.TracksInRange(criteria)
	if err != nil {
		return nil, err
	}

	seenID := make(map[string]struct{}, len(candidates))
	seenName := make(map[string]struct{}, len(candidates))

	retained := make([]models.Track, 0, len(candidates))
	for _, track := range candidates {
		if _, ok := seenID[track.ID]; ok {
			continue
		}
		name := shared.NormalizeTrackName(track.Name)
		if _, ok := seenName[name]; ok {
			continue
		}
		seenID[track.ID] = struct{}{}
		seenName[name] = struct{}{}
		retained = append(retained, track)
	}

	return retained, nil
}
