package main

import (
	"context"

	"github.com/desertthunder/runlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a configuration file from the embedded template.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Configuration file created at %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in spotify.client_id and spotify.client_secret from your Spotify app\n")
	r.writePlain("2. Run 'runlist auth login' to authorize the application\n")
	r.writePlain("3. Set scanner.genre and filtering bounds, then run 'runlist build'\n")

	return nil
}
