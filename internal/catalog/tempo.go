package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/runlist/internal/shared"
)

// TempoProvider resolves a track's tempo (beats per minute) from a source
// other than the catalog's audio features.
//
// The catalog's audio-features endpoint is unavailable to applications
// registered after late 2024, so a run can be configured with an external
// BPM lookup instead.
type TempoProvider interface {
	Tempo(ctx context.Context, artist, title string) (float64, error)
}

const defaultGetSongBPMURL = "https://api.getsongbpm.com"

// GetSongBPM looks up tempo by artist and title against the GetSongBPM API.
type GetSongBPM struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGetSongBPM creates a GetSongBPM provider. The base URL defaults to the
// public API; the HTTP client defaults to [http.DefaultClient].
func NewGetSongBPM(apiKey, baseURL string, client *http.Client) *GetSongBPM {
	if baseURL == "" {
		baseURL = defaultGetSongBPMURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GetSongBPM{apiKey: apiKey, baseURL: baseURL, httpClient: client}
}

type getSongBPMResponse struct {
	Search []struct {
		Tempo string `json:"tempo"`
	} `json:"search"`
}

// Tempo queries the API for a song lookup and returns the first result's
// tempo. Returns [shared.ErrNoTempo] when the API has no match.
func (g *GetSongBPM) Tempo(ctx context.Context, artist, title string) (float64, error) {
	if g.apiKey == "" {
		return 0, fmt.Errorf("%w: missing API key", shared.ErrNoTempo)
	}

	query := url.Values{}
	query.Set("api_key", g.apiKey)
	query.Set("type", "song")
	query.Set("lookup", artist+" "+title)

	reqURL := fmt.Sprintf("%s/search/?%s", g.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return 0, fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var parsed getSongBPMResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	for _, song := range parsed.Search {
		tempo, err := strconv.ParseFloat(song.Tempo, 64)
		if err != nil || tempo <= 0 {
			continue
		}
		return tempo, nil
	}
	return 0, fmt.Errorf("%w: %s - %s", shared.ErrNoTempo, artist, title)
}

// TempoChain tries each provider in order and returns the first answer.
type TempoChain []TempoProvider

// Tempo returns the first provider's result, or [shared.ErrNoTempo] when
// every provider comes up empty.
func (c TempoChain) Tempo(ctx context.Context, artist, title string) (float64, error) {
	for _, p := range c {
		tempo, err := p.Tempo(ctx, artist, title)
		if err == nil && tempo > 0 {
			return tempo, nil
		}
	}
	return 0, fmt.Errorf("%w: %s - %s", shared.ErrNoTempo, artist, title)
}
