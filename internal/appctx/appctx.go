// Package appctx wires the client's dependencies into one explicitly passed
// application context: config, logger, history store, API client and
// progression engine, plus the signed-in profile lifecycle.
package appctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/gymtrack/internal/api"
	"github.com/claude/gymtrack/internal/config"
	"github.com/claude/gymtrack/internal/history"
	"github.com/claude/gymtrack/internal/models"
	"github.com/claude/gymtrack/internal/progression"
)

// App holds everything a screen needs. Screens receive it as a parameter;
// there is no ambient global state.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	Store  *history.Store
	API    *api.Client
	Engine *progression.Engine

	profile *models.Profile
}

// New opens the history store and builds the API client and progression
// engine. Call Close when done.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := history.Open(cfg.Data.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return &App{
		Config: cfg,
		Log:    log,
		Store:  store,
		API:    api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), store, log),
		Engine: progression.New(store),
	}, nil
}

// Init loads the session: when a persisted token exists, the profile is
// fetched. A rejected token is already cleared by the API client; Init then
// reports signed-out rather than failing.
func (a *App) Init(ctx context.Context) error {
	if _, ok := a.Store.Token(); !ok {
		return nil
	}
	profile, err := a.API.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			a.Log.Info("stored token rejected, sign-in required")
			return nil
		}
		return fmt.Errorf("loading profile: %w", err)
	}
	a.profile = &profile
	return nil
}

// Profile returns the signed-in member's profile, if loaded.
func (a *App) Profile() (models.Profile, bool) {
	if a.profile == nil {
		return models.Profile{}, false
	}
	return *a.profile, true
}

// SignedIn reports whether a bearer token is present.
func (a *App) SignedIn() bool {
	_, ok := a.Store.Token()
	return ok
}

// SignIn authenticates, persists the token and loads the profile.
func (a *App) SignIn(ctx context.Context, email, password string) (models.Member, error) {
	member, err := a.API.Login(ctx, email, password)
	if err != nil {
		return models.Member{}, err
	}
	profile, err := a.API.Profile(ctx)
	if err != nil {
		// Signed in but the profile fetch failed; screens can retry.
		a.Log.Warn("profile fetch after login failed", "error", err)
		return member, nil
	}
	a.profile = &profile
	return member, nil
}

// SignOut clears the token and in-memory profile. The remote logout inside
// the API client is best-effort.
func (a *App) SignOut(ctx context.Context) error {
	a.profile = nil
	return a.API.Logout(ctx)
}

// Close releases the history store.
func (a *App) Close() error {
	return a.Store.Close()
}
