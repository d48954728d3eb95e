package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/runlist/internal/models"
)

func TestBuildEngine(t *testing.T) {
	criteria := models.FilterCriteria{
		Genre: "post-rock", Floor: 88, Ceiling: 92, Doubled: true, MaxPerPlaylist: 2,
	}

	t.Run("full run publishes the filtered selection", func(t *testing.T) {
		s := setupTestStore(t)
		catalog := scriptedCatalog()
		engine := NewBuildEngine(catalog, s, nil, nil)

		updates := make(chan ProgressUpdate, 100)
		result, err := engine.Run(context.Background(), criteria, updates)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		// two artists x one album x one in-range track each
		if len(result.Retained) != 2 {
			t.Fatalf("expected 2 retained tracks, got %d", len(result.Retained))
		}
		if len(result.Playlists) != 1 {
			t.Fatalf("expected 1 playlist, got %d", len(result.Playlists))
		}
		if result.Failed() {
			t.Errorf("unexpected batch failure: %v", result.Err())
		}
		if len(catalog.Created) != 1 {
			t.Errorf("expected 1 playlist created, got %d", len(catalog.Created))
		}
	})

	t.Run("dry run creates nothing", func(t *testing.T) {
		s := setupTestStore(t)
		catalog := scriptedCatalog()
		engine := NewBuildEngine(catalog, s, nil, nil)
		engine.DryRun = true

		result, err := engine.Run(context.Background(), criteria, nil)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if len(result.Retained) == 0 {
			t.Error("dry run should still filter")
		}
		if len(result.Playlists) != 0 {
			t.Errorf("dry run created playlists: %v", result.Playlists)
		}
		if len(catalog.Created) != 0 {
			t.Errorf("dry run touched the account: %v", catalog.Created)
		}
	})

	t.Run("exclusions are loaded before collection", func(t *testing.T) {
		s := setupTestStore(t)
		catalog := scriptedCatalog()
		catalog.UserPlaylistsFunc = func(ctx context.Context) ([]models.Playlist, error) {
			return []models.Playlist{{ID: "pl-1", Name: "Already Saved", TrackCount: 1}}, nil
		}
		catalog.PlaylistTrackRefsFunc = func(ctx context.Context, playlistID string) ([]models.TrackRef, error) {
			// matches one collected track by identity
			return []models.TrackRef{{ID: "artist-1-album-t1", Name: "whatever"}}, nil
		}

		withExclusion := criteria
		withExclusion.ExcludePlaylists = []string{"Already Saved"}

		engine := NewBuildEngine(catalog, s, nil, nil)
		engine.DryRun = true

		result, err := engine.Run(context.Background(), withExclusion, nil)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.Excluded != 1 {
			t.Errorf("expected 1 excluded track, got %d", result.Excluded)
		}
		for _, track := range result.Retained {
			if track.ID == "artist-1-album-t1" {
				t.Error("excluded track was retained")
			}
		}
	})

	t.Run("unknown exclusion fails before any collection", func(t *testing.T) {
		s := setupTestStore(t)
		catalog := scriptedCatalog()
		searched := false
		inner := catalog.SearchArtistsFunc
		catalog.SearchArtistsFunc = func(ctx context.Context, genre, narrowing string) ([]models.Artist, error) {
			searched = true
			return inner(ctx, genre, narrowing)
		}

		withExclusion := criteria
		withExclusion.ExcludePlaylists = []string{"No Such Playlist"}

		engine := NewBuildEngine(catalog, s, nil, nil)
		if _, err := engine.Run(context.Background(), withExclusion, nil); err == nil {
			t.Fatal("expected an error for the unknown playlist")
		}
		if searched {
			t.Error("collection should not start when exclusions fail to resolve")
		}
	})

	t.Run("invalid criteria fail fast", func(t *testing.T) {
		s := setupTestStore(t)
		engine := NewBuildEngine(scriptedCatalog(), s, nil, nil)

		bad := criteria
		bad.Genre = ""

		if _, err := engine.Run(context.Background(), bad, nil); err == nil {
			t.Fatal("expected a validation error")
		}
	})

	t.Run("cancelled run returns without filtering", func(t *testing.T) {
		s := setupTestStore(t)
		decide := func(models.Artist) (Decision, error) { return DecideCancel, nil }
		engine := NewBuildEngine(scriptedCatalog(), s, decide, nil)

		result, err := engine.Run(context.Background(), criteria, nil)
		if err != nil {
			t.Fatalf("cancel should not be an error: %v", err)
		}
		if !result.Cancelled {
			t.Error("expected the result to record cancellation")
		}
		if len(result.Playlists) != 0 {
			t.Error("cancelled run should not publish")
		}
	})

	t.Run("per-batch failures surface through Err", func(t *testing.T) {
		s := setupTestStore(t)
		catalog := scriptedCatalog()
		catalog.CreatePlaylistFunc = func(ctx context.Context, name, description string) (string, error) {
			return "", errors.New("service error")
		}
		engine := NewBuildEngine(catalog, s, nil, nil)

		result, err := engine.Run(context.Background(), criteria, nil)
		if err != nil {
			t.Fatalf("publishing failures should be recorded, not returned: %v", err)
		}
		if !result.Failed() {
			t.Fatal("expected the result to record the failure")
		}
		if result.Err() == nil {
			t.Error("expected a flattened error")
		}
	})
}

func TestSendProgress(t *testing.T) {
	t.Run("nil channel is a no-op", func(t *testing.T) {
		sendProgress(nil, searchArtistsUpdate("post-rock"))
	})

	t.Run("full channel does not block", func(t *testing.T) {
		ch := make(chan ProgressUpdate, 1)
		sendProgress(ch, searchArtistsUpdate("post-rock"))
		sendProgress(ch, searchArtistsUpdate("post-rock")) // dropped, not blocked

		if len(ch) != 1 {
			t.Errorf("expected 1 buffered update, got %d", len(ch))
		}
	})
}
