package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/runlist/internal/formatter"
	"github.com/desertthunder/runlist/internal/models"
	"github.com/desertthunder/runlist/internal/shared"
	"github.com/desertthunder/runlist/internal/store"
	"github.com/desertthunder/runlist/internal/tasks"
	"github.com/desertthunder/runlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// Build runs the full pipeline: collect the genre's catalog, filter by
// tempo, partition, and publish playlists to the account.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	r.applyBuildFlags(cmd)

	if err := r.config.Validate(); err != nil {
		return err
	}

	criteria := r.criteria()
	outputFile := cmd.String("output")
	dryRun := cmd.Bool("dry-run") || outputFile != ""
	interactive := cmd.Bool("interactive") || r.config.Scanner.Interactive

	ctl, err := r.ensureCatalog(ctx)
	if err != nil {
		return err
	}

	scratch, err := store.Open(shared.ScratchPath)
	if err != nil {
		return err
	}
	defer scratch.Close()

	var decide tasks.DecideFunc
	if interactive {
		decide = ui.ArtistDecider()
	}

	engine := tasks.NewBuildEngine(ctl, scratch, decide, r.logger)
	engine.DryRun = dryRun

	r.logger.Info("starting build",
		"genre", criteria.Genre, "floor", criteria.Floor, "ceiling", criteria.Ceiling,
		"doubled", criteria.Doubled, "dry_run", dryRun)

	r.writePlain("Building playlists for genre %q (%v-%v BPM)...\n\n",
		criteria.Genre, criteria.Floor, criteria.Ceiling)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadExclusions:
				r.writePlain("🚫 %s\n", update.Message)
			case tasks.SearchArtists:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.CollectArtist:
				r.writePlain("🎤 [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.CollectAlbum:
				r.writePlain("   💿 %s\n", update.Message)
			case tasks.Filter:
				r.writePlain("\n🎚  %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.AddTracks:
				r.writePlain("   ➕ %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, criteria, progressCh)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	if result.Cancelled {
		r.writePlainln("Run cancelled.")
		return nil
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(result, true); err != nil {
			return err
		}
		return result.Err()
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("Build Complete\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Artists processed: %d/%d (skipped %d)\n",
		result.Stats.ArtistsProcessed, result.Stats.ArtistsFound, result.Stats.ArtistsSkipped)
	r.writePlain("Tracks collected: %d\n", result.Stats.TracksCollected)
	if result.Excluded > 0 {
		r.writePlain("Tracks on excluded playlists: %d\n", result.Excluded)
	}
	r.writePlain("Tracks retained: %d\n", len(result.Retained))

	if dryRun {
		return r.writeDryRun(cmd, criteria, result, outputFile)
	}

	for _, batch := range result.Playlists {
		if batch.Err != nil {
			r.writePlain("✗ %s: %s\n", batch.Name, batch.Error)
			continue
		}
		r.writePlain("✓ %s (%d tracks)\n", batch.Name, batch.TrackCount)
	}

	return result.Err()
}

// writeDryRun prints or exports the filtered selection without touching the
// account.
func (r *Runner) writeDryRun(cmd *cli.Command, criteria models.FilterCriteria, result *tasks.BuildResult, outputFile string) error {
	if outputFile == "" {
		r.writePlain("\nDry run; no playlists created.\n\n")
		for i, track := range result.Retained {
			r.writePlain("%d. %s (%.1f BPM) [%s]\n",
				i+1, track.Name, track.Tempo, shared.FormatDuration(track.Duration))
		}
		return nil
	}

	// an explicit --format wins; otherwise the file extension decides
	var format formatter.Format
	if f := cmd.String("format"); f != "" {
		parsed, err := formatter.ParseFormat(f)
		if err != nil {
			return err
		}
		format = parsed
	}

	if err := formatter.WriteExport(outputFile, format, criteria, result.Retained); err != nil {
		return err
	}

	r.writePlain("\n✓ Selection exported to %s (%d tracks)\n", outputFile, len(result.Retained))
	return nil
}

// applyBuildFlags overlays command-line flags onto the loaded configuration.
func (r *Runner) applyBuildFlags(cmd *cli.Command) {
	if genre := cmd.String("genre"); genre != "" {
		r.config.Scanner.Genre = genre
	}
	if artist := cmd.String("artist"); artist != "" {
		r.config.Scanner.Artist = artist
	}
	if floor := cmd.Float("floor"); floor >= 0 {
		r.config.Filtering.BPMFloor = floor
	}
	if ceiling := cmd.Float("ceiling"); ceiling >= 0 {
		r.config.Filtering.BPMCeiling = ceiling
	}
	if cmd.IsSet("doubled") {
		r.config.Filtering.AllowDoubledBPM = cmd.Bool("doubled")
	}
	if exclude := cmd.StringSlice("exclude"); len(exclude) > 0 {
		r.config.Filtering.ExcludePlaylists = exclude
	}
	if max := cmd.Int("max-per-playlist"); max >= 0 {
		r.config.Filtering.MaxTracksPerPlaylist = int(max)
	}
	if max := cmd.Int("max-total"); max >= 0 {
		r.config.Filtering.MaxTracksToSave = int(max)
	}
	if cmd.Bool("debug") {
		r.config.Application.Debug = true
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
}

// criteria derives the immutable per-run filter criteria from the
// configuration.
func (r *Runner) criteria() models.FilterCriteria {
	return models.FilterCriteria{
		Genre:            r.config.Scanner.Genre,
		Artist:           r.config.Scanner.Artist,
		Floor:            r.config.Filtering.BPMFloor,
		Ceiling:          r.config.Filtering.BPMCeiling,
		Doubled:          r.config.Filtering.AllowDoubledBPM,
		ExcludePlaylists: r.config.Filtering.ExcludePlaylists,
		MaxPerPlaylist:   r.config.Filtering.MaxTracksPerPlaylist,
		MaxTotal:         r.config.Filtering.MaxTracksToSave,
	}
}
