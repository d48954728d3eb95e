package tasks

import (
	"testing"

	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
	"github.com/desertthunder/runlist/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(shared.ScratchPath)
	if err != nil {
		t.Fatalf("failed to open scratch store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func mustInsert(t *testing.T, s *store.Store, tracks ...models.Track) {
	t.Helper()
	for _, track := range tracks {
		if err := s.InsertTrack(track); err != nil {
			t.Fatalf("failed to insert track %s: %v", track.ID, err)
		}
	}
}

func TestFilterEngine(t *testing.T) {
	criteria := models.FilterCriteria{Genre: "post-rock", Floor: 88, Ceiling: 92, Doubled: true}

	t.Run("retains primary and doubled ranges, rejects between", func(t *testing.T) {
		s := setupTestStore(t)
		mustInsert(t, s,
			models.Track{ID: "a", AlbumID: "al", Name: "Ninety", Tempo: 90},
			models.Track{ID: "b", AlbumID: "al", Name: "One Eighty", Tempo: 180},
			models.Track{ID: "c", AlbumID: "al", Name: "Ninety Five", Tempo: 95},
		)

		retained, err := NewFilterEngine(s).Apply(criteria)
		if err != nil {
			t.Fatalf("filter failed: %v", err)
		}

		if len(retained) != 2 {
			t.Fatalf("expected 2 retained tracks, got %d", len(retained))
		}
		if retained[0].ID != "a" || retained[1].ID != "b" {
			t.Errorf("unexpected retained set: %v", retained)
		}
	})

	t.Run("first occurrence wins on normalized name collisions", func(t *testing.T) {
		s := setupTestStore(t)
		mustInsert(t, s,
			models.Track{ID: "original", AlbumID: "al", Name: "Great Track", Tempo: 90},
			models.Track{ID: "reissue", AlbumID: "al2", Name: "Great Track!", Tempo: 90},
			models.Track{ID: "other", AlbumID: "al2", Name: "Different Track", Tempo: 90},
		)

		retained, err := NewFilterEngine(s).Apply(criteria)
		if err != nil {
			t.Fatalf("filter failed: %v", err)
		}

		if len(retained) != 2 {
			t.Fatalf("expected 2 retained tracks, got %d", len(retained))
		}
		if retained[0].ID != "original" {
			t.Errorf("expected the first occurrence to win, got %s", retained[0].ID)
		}

		names := make(map[string]bool)
		for _, track := range retained {
			key := shared.NormalizeTrackName(track.Name)
			if names[key] {
				t.Errorf("duplicate normalized name retained: %q", track.Name)
			}
			names[key] = true
		}
	})

	t.Run("empty store yields empty selection", func(t *testing.T) {
		s := setupTestStore(t)

		retained, err := NewFilterEngine(s).Apply(criteria)
		if err != nil {
			t.Fatalf("filter failed: %v", err)
		}
		if len(retained) != 0 {
			t.Errorf("expected no tracks, got %d", len(retained))
		}
	})
}
