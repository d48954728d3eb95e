package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/runlist/internal/catalog"
	"github.com/desertthunder/runlist/internal/server"
	"github.com/desertthunder/runlist/internal/shared"
	"github.com/urfave/cli/v3"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    catalog.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    catalog.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, buildCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig loads the config file named by the command's --config flag,
// replacing the runner's config for this invocation.
func (r *Runner) reloadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}

	r.config = config
	r.configPath = path

	if config.Application.Debug {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	return nil
}

// the zmb3 authenticator performs the code exchange for the callback handler
var _ server.TokenExchanger = (*spotifyauth.Authenticator)(nil)

// authenticator builds the OAuth2 authenticator from the configured
// credentials.
func (r *Runner) authenticator() *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithClientID(r.config.Spotify.ClientID),
		spotifyauth.WithClientSecret(r.config.Spotify.ClientSecret),
		spotifyauth.WithRedirectURL(r.config.Spotify.RedirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadPrivate,
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistModifyPrivate,
		),
	)
}

// ensureCatalog returns the catalog adapter, constructing one from the
// stored token on first use.
func (r *Runner) ensureCatalog(ctx context.Context) (catalog.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	token := r.config.Spotify.Token()
	if token == nil {
		return nil, fmt.Errorf("%w: run 'runlist auth login' first", shared.ErrNotAuthenticated)
	}
	if !token.Valid() && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: run 'runlist auth login' again", shared.ErrTokenExpired)
	}

	client := spotify.New(r.authenticator().Client(ctx, token), spotify.WithRetry(true))

	opts := []catalog.Option{
		catalog.WithMarket(r.config.Scanner.Market),
		catalog.WithCatalogLogger(r.logger),
	}
	if chain := r.tempoProviders(); len(chain) > 0 {
		opts = append(opts, catalog.WithTempoProvider(chain))
	}

	r.catalog = catalog.NewSpotifyCatalog(client, opts...)
	return r.catalog, nil
}

// tempoProviders assembles the fallback tempo lookup chain from the
// [tempo] config section. Empty when no provider is configured.
func (r *Runner) tempoProviders() catalog.TempoChain {
	var chain catalog.TempoChain
	if key := r.config.Tempo.GetSongBPMKey; key != "" {
		chain = append(chain, catalog.NewGetSongBPM(key, r.config.Tempo.BaseURL, r.httpClient))
	}
	return chain
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
