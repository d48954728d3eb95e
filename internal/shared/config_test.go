package shared

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	config := DefaultConfig()
	config.Spotify.ClientID = "client-id-value"
	config.Spotify.ClientSecret = "client-secret-value"
	config.Spotify.RedirectURI = "http://localhost:3000/callback"
	config.Scanner.Genre = "post-rock"
	config.Filtering.BPMFloor = 88
	config.Filtering.BPMCeiling = 92
	return config
}

func TestConfigValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{
			"blank genre",
			func(c *Config) { c.Scanner.Genre = "" },
			"scanner.genre",
		},
		{
			"negative floor",
			func(c *Config) { c.Filtering.BPMFloor = -1 },
			"bpm_floor",
		},
		{
			"ceiling below floor",
			func(c *Config) { c.Filtering.BPMFloor = 100; c.Filtering.BPMCeiling = 90 },
			"bpm_ceiling",
		},
		{
			"negative per-playlist maximum",
			func(c *Config) { c.Filtering.MaxTracksPerPlaylist = -1 },
			"max_tracks_per_playlist",
		},
		{
			"negative total maximum",
			func(c *Config) { c.Filtering.MaxTracksToSave = -5 },
			"max_tracks_to_save",
		},
		{
			"short client id",
			func(c *Config) { c.Spotify.ClientID = "abc" },
			"client_id",
		},
		{
			"short client secret",
			func(c *Config) { c.Spotify.ClientSecret = "" },
			"client_secret",
		},
		{
			"short redirect uri",
			func(c *Config) { c.Spotify.RedirectURI = "http://" },
			"redirect_uri",
		},
		{
			"bad market code",
			func(c *Config) { c.Scanner.Market = "USA" },
			"market",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := config.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q should mention %q", err, tt.message)
			}
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	original := validConfig()
	original.Filtering.ExcludePlaylists = []string{"Already Saved", "Archive"}
	original.Application.Debug = true

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Scanner.Genre != original.Scanner.Genre {
		t.Errorf("genre mismatch: %q vs %q", loaded.Scanner.Genre, original.Scanner.Genre)
	}
	if len(loaded.Filtering.ExcludePlaylists) != 2 {
		t.Errorf("exclusions lost: %v", loaded.Filtering.ExcludePlaylists)
	}
	if !loaded.Application.Debug {
		t.Error("debug flag lost")
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("writes the embedded template", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("template should parse: %v", err)
		}
		if config.Scanner.Market == "" {
			t.Error("template should carry a default market")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected an error on the second create")
		}
	})
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
