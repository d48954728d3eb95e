// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/runlist/internal/models"
)

// MockCatalog is a configurable test double for [catalog.Catalog]. Zero
// value methods succeed with empty results; set the function fields to
// script behavior.
type MockCatalog struct {
	SearchArtistsFunc     func(ctx context.Context, genre, narrowing string) ([]models.Artist, error)
	ListAlbumsFunc        func(ctx context.Context, artistID string) ([]models.Album, error)
	ListTracksFunc        func(ctx context.Context, albumID string) ([]models.Track, error)
	UserPlaylistsFunc     func(ctx context.Context) ([]models.Playlist, error)
	PlaylistTrackRefsFunc func(ctx context.Context, playlistID string) ([]models.TrackRef, error)
	CreatePlaylistFunc    func(ctx context.Context, name, description string) (string, error)
	AddTracksFunc         func(ctx context.Context, playlistID string, trackIDs []string) error

	// Created and Added record playlist writes when the default
	// implementations are used.
	Created []string
	Added   map[string][]string
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (string, string, error) {
	return "mock-user", "Mock User", nil
}

func (m *MockCatalog) SearchArtists(ctx context.Context, genre, narrowing string) ([]models.Artist, error) {
	if m.SearchArtistsFunc != nil {
		return m.SearchArtistsFunc(ctx, genre, narrowing)
	}
	return []models.Artist{}, nil
}

func (m *MockCatalog) ListAlbums(ctx context.Context, artistID string) ([]models.Album, error) {
	if m.ListAlbumsFunc != nil {
		return m.ListAlbumsFunc(ctx, artistID)
	}
	return []models.Album{}, nil
}

func (m *MockCatalog) ListTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	if m.ListTracksFunc != nil {
		return m.ListTracksFunc(ctx, albumID)
	}
	return []models.Track{}, nil
}

func (m *MockCatalog) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx)
	}
	return []models.Playlist{}, nil
}

func (m *MockCatalog) PlaylistTrackRefs(ctx context.Context, playlistID string) ([]models.TrackRef, error) {
	if m.PlaylistTrackRefsFunc != nil {
		return m.PlaylistTrackRefsFunc(ctx, playlistID)
	}
	return []models.TrackRef{}, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description)
	}
	m.Created = append(m.Created, name)
	return "mock-playlist-" + name, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, trackIDs)
	}
	if m.Added == nil {
		m.Added = make(map[string][]string)
	}
	m.Added[playlistID] = append(m.Added[playlistID], trackIDs...)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
