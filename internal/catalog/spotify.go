package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"
)

const (
	searchPageSize = 50
	// audio features can be requested for at most 100 tracks per call
	audioFeatureChunk = 100
	// tracks added to a playlist at most 100 per call
	addTracksChunk = 100
	// pages of track-search results scanned when deriving artists from
	// track credits (50 tracks per page)
	maxTrackSearchPages = 20
)

// fallbackMarkets are tried in order when the primary market yields no
// artists for the genre query.
var fallbackMarkets = []string{"US", "GB", "DE", "FR", "NL"}

// SpotifyCatalog implements [Catalog] against the Spotify Web API via
// github.com/zmb3/spotify/v2. The client library handles pagination
// cursors, token refresh, and 429 backoff (spotify.WithRetry); the adapter
// adds a client-side rate limiter and maps library types to the domain
// model.
type SpotifyCatalog struct {
	client  *spotify.Client
	limiter *rate.Limiter
	tempo   TempoProvider
	market  string
	logger  *log.Logger
}

// Option configures a [SpotifyCatalog].
type Option func(*SpotifyCatalog)

// WithMarket sets the primary market for catalog searches.
func WithMarket(market string) Option {
	return func(c *SpotifyCatalog) {
		if market != "" {
			c.market = market
		}
	}
}

// WithTempoProvider sets a fallback tempo source for tracks the catalog has
// no audio features for.
func WithTempoProvider(p TempoProvider) Option {
	return func(c *SpotifyCatalog) { c.tempo = p }
}

// WithRateLimit overrides the default request rate (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *SpotifyCatalog) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithCatalogLogger sets the logger used for skip/fallback warnings.
func WithCatalogLogger(l *log.Logger) Option {
	return func(c *SpotifyCatalog) { c.logger = l }
}

// NewSpotifyCatalog wraps an authenticated [spotify.Client].
func NewSpotifyCatalog(client *spotify.Client, opts ...Option) *SpotifyCatalog {
	c := &SpotifyCatalog{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		market:  "US",
		logger:  shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SpotifyCatalog) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// CurrentUser returns the authenticated user's ID and display name.
func (c *SpotifyCatalog) CurrentUser(ctx context.Context) (string, string, error) {
	if err := c.wait(ctx); err != nil {
		return "", "", err
	}
	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: current user: %v", shared.ErrAPIRequest, err)
	}
	return user.ID, user.DisplayName, nil
}

// SearchArtists discovers artists for a genre, optionally narrowed by an
// artist name.
//
// The artist search runs against the primary market first and falls back to
// a short list of large markets, since genre tags are market-sensitive. If
// no market yields artists, artists are derived from the credits of a track
// search for the same query.
func (c *SpotifyCatalog) SearchArtists(ctx context.Context, genre, narrowing string) ([]models.Artist, error) {
	query := buildArtistQuery(genre, narrowing)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	seen := make(map[string]models.Artist)
	var order []string

	for _, market := range marketChain(c.market) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		result, err := c.client.Search(ctx, query, spotify.SearchTypeArtist,
			spotify.Limit(searchPageSize), spotify.Market(market))
		if err != nil {
			c.logger.Warn("artist search failed", "market", market, "err", err)
			continue
		}
		if result.Artists == nil || len(result.Artists.Artists) == 0 {
			c.logger.Debug("no artists in market", "market", market, "query", query)
			continue
		}
		for _, fa := range result.Artists.Artists {
			id := string(fa.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = models.Artist{ID: id, Name: fa.Name, Genres: fa.Genres}
			order = append(order, id)
		}
		// stop at the first market with hits
		break
	}

	if len(order) == 0 {
		if err := c.deriveArtistsFromTracks(ctx, query, seen, &order); err != nil {
			return nil, err
		}
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("%w: genre %q", shared.ErrNoArtists, genre)
	}

	artists := make([]models.Artist, 0, len(order))
	for _, id := range order {
		artists = append(artists, seen[id])
	}
	return artists, nil
}

// deriveArtistsFromTracks searches tracks for the query in the primary
// market and collects the credited artists. Used when artist genre tags are
// too sparse for a direct artist search.
func (c *SpotifyCatalog) deriveArtistsFromTracks(ctx context.Context, query string, seen map[string]models.Artist, order *[]string) error {
	for page := 0; page < maxTrackSearchPages; page++ {
		if err := c.wait(ctx); err != nil {
			return err
		}
		result, err := c.client.Search(ctx, query, spotify.SearchTypeTrack,
			spotify.Limit(searchPageSize), spotify.Offset(page*searchPageSize), spotify.Market(c.market))
		if err != nil {
			return fmt.Errorf("%w: track search: %v", shared.ErrAPIRequest, err)
		}
		if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
			return nil
		}
		for _, t := range result.Tracks.Tracks {
			for _, sa := range t.Artists {
				id := string(sa.ID)
				if id == "" {
					continue
				}
				if _, ok := seen[id]; ok {
					continue
				}
				name := sa.Name
				if name == "" {
					name = "(unknown)"
				}
				seen[id] = models.Artist{ID: id, Name: name}
				*order = append(*order, id)
			}
		}
	}
	return nil
}

// ListAlbums returns the albums and singles of an artist, all pages.
func (c *SpotifyCatalog) ListAlbums(ctx context.Context, artistID string) ([]models.Album, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	page, err := c.client.GetArtistAlbums(ctx, spotify.ID(artistID),
		[]spotify.AlbumType{spotify.AlbumTypeAlbum, spotify.AlbumTypeSingle},
		spotify.Limit(searchPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: albums of artist %s: %v", shared.ErrAPIRequest, artistID, err)
	}

	var albums []models.Album
	for {
		for _, sa := range page.Albums {
			albums = append(albums, models.Album{
				ID:       string(sa.ID),
				ArtistID: artistID,
				Title:    sa.Name,
			})
		}
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		err = c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: albums of artist %s: %v", shared.ErrAPIRequest, artistID, err)
		}
	}
	return albums, nil
}

// ListTracks returns the tracks of an album with tempo populated from the
// catalog's audio features, one features request per album. Tracks without
// features fall through to the configured [TempoProvider], when present.
func (c *SpotifyCatalog) ListTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	page, err := c.client.GetAlbumTracks(ctx, spotify.ID(albumID), spotify.Limit(searchPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: tracks of album %s: %v", shared.ErrAPIRequest, albumID, err)
	}

	var simple []spotify.SimpleTrack
	for {
		simple = append(simple, page.Tracks...)
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		err = c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: tracks of album %s: %v", shared.ErrAPIRequest, albumID, err)
		}
	}

	tempos, err := c.tempoByID(ctx, simple)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(simple))
	for _, st := range simple {
		tempo := tempos[string(st.ID)]
		if tempo == 0 && c.tempo != nil {
			tempo = c.fallbackTempo(ctx, st)
		}
		tracks = append(tracks, models.Track{
			ID:       string(st.ID),
			AlbumID:  albumID,
			Name:     st.Name,
			Tempo:    tempo,
			Duration: int(st.TimeDuration().Seconds()),
		})
	}
	return tracks, nil
}

// tempoByID fetches audio features for the given tracks in chunks and
// returns a tempo map keyed by track ID.
func (c *SpotifyCatalog) tempoByID(ctx context.Context, tracks []spotify.SimpleTrack) (map[string]float64, error) {
	tempos := make(map[string]float64, len(tracks))
	for start := 0; start < len(tracks); start += audioFeatureChunk {
		end := min(start+audioFeatureChunk, len(tracks))
		ids := make([]spotify.ID, 0, end-start)
		for _, st := range tracks[start:end] {
			ids = append(ids, st.ID)
		}
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		features, err := c.client.GetAudioFeatures(ctx, ids...)
		if err != nil {
			// The audio-features endpoint is unavailable to newer API
			// clients; the fallback provider covers this case.
			c.logger.Warn("audio features unavailable", "err", err)
			return tempos, nil
		}
		for _, f := range features {
			if f == nil {
				continue
			}
			tempos[string(f.ID)] = float64(f.Tempo)
		}
	}
	return tempos, nil
}

// fallbackTempo resolves a track's tempo via the configured provider,
// returning 0 when the provider has no answer.
func (c *SpotifyCatalog) fallbackTempo(ctx context.Context, st spotify.SimpleTrack) float64 {
	artist := ""
	if len(st.Artists) > 0 {
		artist = st.Artists[0].Name
	}
	tempo, err := c.tempo.Tempo(ctx, artist, st.Name)
	if err != nil {
		c.logger.Debug("fallback tempo lookup failed", "track", st.Name, "err", err)
		return 0
	}
	return tempo
}

// UserPlaylists returns all playlists on the user's account.
func (c *SpotifyCatalog) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	page, err := c.client.CurrentUsersPlaylists(ctx, spotify.Limit(searchPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: user playlists: %v", shared.ErrAPIRequest, err)
	}

	var playlists []models.Playlist
	for {
		for _, sp := range page.Playlists {
			playlists = append(playlists, models.Playlist{
				ID:         string(sp.ID),
				Name:       sp.Name,
				TrackCount: int(sp.Tracks.Total),
			})
		}
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		err = c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: user playlists: %v", shared.ErrAPIRequest, err)
		}
	}
	return playlists, nil
}

// PlaylistTrackRefs returns identity and name of every track on a playlist.
func (c *SpotifyCatalog) PlaylistTrackRefs(ctx context.Context, playlistID string) ([]models.TrackRef, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	page, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(searchPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: items of playlist %s: %v", shared.ErrPlaylistNotFound, playlistID, err)
	}

	var refs []models.TrackRef
	for {
		for _, item := range page.Items {
			// episodes and local files have no catalog track
			if item.Track.Track == nil {
				continue
			}
			refs = append(refs, models.TrackRef{
				ID:   string(item.Track.Track.ID),
				Name: item.Track.Track.Name,
			})
		}
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		err = c.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: items of playlist %s: %v", shared.ErrAPIRequest, playlistID, err)
		}
	}
	return refs, nil
}

// CreatePlaylist creates a private, non-collaborative playlist and returns its ID.
func (c *SpotifyCatalog) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	userID, _, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	playlist, err := c.client.CreatePlaylistForUser(ctx, userID, name, description, false, false)
	if err != nil {
		return "", fmt.Errorf("%w: create playlist %q: %v", shared.ErrAPIRequest, name, err)
	}
	return string(playlist.ID), nil
}

// AddTracks appends tracks to a playlist in order, chunked to the API's
// 100-track request limit.
func (c *SpotifyCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	for start := 0; start < len(ids); start += addTracksChunk {
		end := min(start+addTracksChunk, len(ids))
		if err := c.wait(ctx); err != nil {
			return err
		}
		if _, err := c.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids[start:end]...); err != nil {
			return fmt.Errorf("%w: add tracks %d-%d to playlist %s: %v",
				shared.ErrAPIRequest, start+1, end, playlistID, err)
		}
	}
	return nil
}

// buildArtistQuery builds a field-filtered search query from the genre and
// the optional artist narrowing term.
func buildArtistQuery(genre, narrowing string) string {
	var parts []string
	if g := strings.TrimSpace(genre); g != "" {
		parts = append(parts, fmt.Sprintf("genre:%q", g))
	}
	if a := strings.TrimSpace(narrowing); a != "" {
		parts = append(parts, fmt.Sprintf("artist:%q", a))
	}
	return strings.Join(parts, " ")
}

// marketChain returns the primary market followed by the fallbacks, without
// duplicates.
func marketChain(primary string) []string {
	chain := []string{primary}
	for _, m := range fallbackMarkets {
		if m != primary {
			chain = append(chain, m)
		}
	}
	return chain
}
