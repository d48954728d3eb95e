package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/runlist/internal/server"
	"github.com/desertthunder/runlist/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin executes the OAuth2 authorization flow and stores the resulting
// token in the configuration file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	token, err := r.doOAuth(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.config.Spotify.Update(token); err != nil {
		return err
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return err
	}

	r.logger.Info("token stored", "path", r.configPath, "expiry", token.Expiry)

	r.writePlain("✓ Authorization successful\n")
	r.writePlain("Token saved to %s (expires %s)\n", r.configPath, token.Expiry.Format(time.RFC3339))

	return nil
}

// AuthStatus reports the stored token's state and verifies it against the
// catalog when still valid.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	token := r.config.Spotify.Token()
	if token == nil {
		r.writePlain("✗ Not authenticated. Run 'runlist auth login'.\n")
		return nil
	}

	if !token.Expiry.IsZero() && token.Expiry.Before(time.Now()) && token.RefreshToken == "" {
		r.writePlain("✗ Token expired at %s and no refresh token is stored.\n",
			token.Expiry.Format(time.RFC3339))
		return nil
	}

	ctl, err := r.ensureCatalog(ctx)
	if err != nil {
		return err
	}

	id, displayName, err := ctl.CurrentUser(ctx)
	if err != nil {
		r.writePlain("✗ Stored token rejected by the catalog: %v\n", err)
		return nil
	}

	r.writePlain("✓ Authenticated as %s (%s)\n", displayName, id)
	if !token.Expiry.IsZero() {
		r.writePlain("Token expires %s\n", token.Expiry.Format(time.RFC3339))
	}

	return nil
}

// doOAuth runs the authorization-code flow with a local HTTP callback server.
func (r *Runner) doOAuth(ctx context.Context) (*oauth2.Token, error) {
	redirect, err := url.Parse(r.config.Spotify.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	auth := r.authenticator()
	state := shared.GenerateID()

	oauthHandler := server.NewOAuthHandler(auth, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    redirect.Host,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting OAuth callback server", "addr", redirect.Host)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := auth.AuthURL(state)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
