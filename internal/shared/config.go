package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify     SpotifyConfig     `toml:"spotify"`
	Scanner     ScannerConfig     `toml:"scanner"`
	Filtering   FilteringConfig   `toml:"filtering"`
	Tempo       TempoConfig       `toml:"tempo"`
	Application ApplicationConfig `toml:"application"`
}

// SpotifyConfig contains Spotify API credentials and stored OAuth tokens.
type SpotifyConfig struct {
	ClientID     string    `toml:"client_id"`
	ClientSecret string    `toml:"client_secret"`
	RedirectURI  string    `toml:"redirect_uri"`
	AccessToken  string    `toml:"access_token,omitempty"`
	RefreshToken string    `toml:"refresh_token,omitempty"`
	TokenExpiry  time.Time `toml:"token_expiry,omitempty"`
}

// ScannerConfig controls artist discovery.
type ScannerConfig struct {
	Genre       string `toml:"genre"`
	Artist      string `toml:"artist"`
	Market      string `toml:"market"`
	Interactive bool   `toml:"interactive"`
}

// FilteringConfig controls tempo filtering and playlist partitioning.
type FilteringConfig struct {
	BPMFloor             float64  `toml:"bpm_floor"`
	BPMCeiling           float64  `toml:"bpm_ceiling"`
	AllowDoubledBPM      bool     `toml:"allow_doubled_bpm"`
	ExcludePlaylists     []string `toml:"exclude_playlists"`
	MaxTracksPerPlaylist int      `toml:"max_tracks_per_playlist"`
	MaxTracksToSave      int      `toml:"max_tracks_to_save"`
}

// TempoConfig configures the fallback tempo lookup used when the catalog
// has no audio features for a track.
type TempoConfig struct {
	GetSongBPMKey string `toml:"getsongbpm_api_key"`
	BaseURL       string `toml:"base_url"`
}

// ApplicationConfig contains application-wide settings.
type ApplicationConfig struct {
	Debug bool `toml:"debug"`
}

// Token converts the stored credentials to an [oauth2.Token].
// Returns nil when no token has been saved yet.
func (s *SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" && s.RefreshToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       s.TokenExpiry,
		TokenType:    "Bearer",
	}
}

// Update stores the fields of an [oauth2.Token] on the config.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidInput)
	}
	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.TokenExpiry = token.Expiry
	return nil
}

// Validate checks every user-provided setting and fails fast with a
// descriptive message before any catalog call is made.
func (c *Config) Validate() error {
	if c.Scanner.Genre == "" {
		return fmt.Errorf("%w: scanner.genre cannot be left blank", ErrInvalidConfig)
	}
	if c.Filtering.BPMFloor < 0 {
		return fmt.Errorf("%w: filtering.bpm_floor must be non-negative (is %v)", ErrInvalidConfig, c.Filtering.BPMFloor)
	}
	if c.Filtering.BPMCeiling < 0 {
		return fmt.Errorf("%w: filtering.bpm_ceiling must be non-negative (is %v)", ErrInvalidConfig, c.Filtering.BPMCeiling)
	}
	if c.Filtering.BPMCeiling < c.Filtering.BPMFloor {
		return fmt.Errorf("%w: filtering.bpm_ceiling (%v) cannot be lower than filtering.bpm_floor (%v)",
			ErrInvalidConfig, c.Filtering.BPMCeiling, c.Filtering.BPMFloor)
	}
	if c.Filtering.MaxTracksPerPlaylist < 0 {
		return fmt.Errorf("%w: filtering.max_tracks_per_playlist must be non-negative (is %d)",
			ErrInvalidConfig, c.Filtering.MaxTracksPerPlaylist)
	}
	if c.Filtering.MaxTracksToSave < 0 {
		return fmt.Errorf("%w: filtering.max_tracks_to_save must be non-negative (is %d)",
			ErrInvalidConfig, c.Filtering.MaxTracksToSave)
	}
	if len(c.Spotify.ClientID) <= 5 {
		return fmt.Errorf("%w: spotify.client_id %q is missing or too short", ErrInvalidConfig, c.Spotify.ClientID)
	}
	if len(c.Spotify.ClientSecret) <= 5 {
		return fmt.Errorf("%w: spotify.client_secret is missing or too short", ErrInvalidConfig)
	}
	if len(c.Spotify.RedirectURI) <= 8 {
		return fmt.Errorf("%w: spotify.redirect_uri %q is missing or too short", ErrInvalidConfig, c.Spotify.RedirectURI)
	}
	if m := c.Scanner.Market; m != "" && len(m) != 2 {
		return fmt.Errorf("%w: scanner.market must be a two-letter country code (is %q)", ErrInvalidConfig, m)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// SaveConfig writes the configuration back to disk as TOML.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
