package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Playlists lists the playlists on the authenticated account.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	ctl, err := r.ensureCatalog(ctx)
	if err != nil {
		return err
	}

	playlists, err := ctl.UserPlaylists(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("fetched playlists", "count", len(playlists))

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Playlists: %d\n\n", len(playlists))
	for i, playlist := range playlists {
		r.writePlain("%d. %s (%d tracks)\n", i+1, playlist.Name, playlist.TrackCount)
		r.writePlain("   ID: %s\n", playlist.ID)
	}

	return nil
}
