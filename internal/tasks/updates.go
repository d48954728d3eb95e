package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	LoadExclusions Phase = iota
	SearchArtists
	CollectArtist
	CollectAlbum
	Filter
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case LoadExclusions:
		return "load_exclusions"
	case SearchArtists:
		return "search_artists"
	case CollectArtist:
		return "collect_artist"
	case CollectAlbum:
		return "collect_album"
	case Filter:
		return "filter"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func loadExclusionsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadExclusions,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading tracks of excluded playlist %q...", name),
	}
}

func searchArtistsUpdate(genre string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchArtists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Searching artists for genre %q...", genre),
	}
}

func collectArtistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CollectArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing artist %s...", name),
	}
}

func collectAlbumUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CollectAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching tracks of %q...", title),
	}
}

func filterUpdate(retained int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Filter,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d tracks match the filter criteria", retained),
		Data:    retained,
	}
}

func createPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func addTracksUpdate(step, total, count int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %d tracks to %q...", count, name),
	}
}
