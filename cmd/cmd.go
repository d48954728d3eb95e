// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand creates the configuration file from the embedded template.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a configuration file to fill in",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistsCommand lists the playlists on the user's account.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List playlists on the authenticated account",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Playlists,
	}
}

// buildCommand runs the playlist-building pipeline.
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build tempo-bounded playlists from a genre search",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "genre",
				Aliases: []string{"g"},
				Usage:   "Genre search term (overrides config)",
			},
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist name to narrow the genre search",
			},
			&cli.FloatFlag{
				Name:  "floor",
				Usage: "Tempo floor in BPM (overrides config)",
				Value: -1,
			},
			&cli.FloatFlag{
				Name:  "ceiling",
				Usage: "Tempo ceiling in BPM (overrides config)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "doubled",
				Usage: "Also retain tracks at double the tempo range",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"x"},
				Usage:   "Playlist name or ID whose tracks are excluded (repeatable)",
			},
			&cli.IntFlag{
				Name:  "max-per-playlist",
				Usage: "Maximum tracks per playlist, 0 = unlimited",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "max-total",
				Usage: "Maximum tracks to save overall, 0 = unlimited",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Confirm each artist before collecting its releases",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Stop after filtering; create no playlists",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the filtered selection to a file (implies --dry-run)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format for --output: csv, md, or txt",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the run summary as JSON",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: r.Build,
	}
}
