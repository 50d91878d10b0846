package app

import (
	"context"
	"fmt"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/config"
	"github.com/five82/coursedeck/internal/logging"
	"github.com/five82/coursedeck/internal/nav"
	"github.com/five82/coursedeck/internal/prefs"
	"github.com/five82/coursedeck/internal/session"
	"github.com/five82/coursedeck/internal/storage"
	"github.com/five82/coursedeck/internal/ui"
)

// Options configure the coursedeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/coursedeck/prefs.toml
	Open       string // page path to start on; empty reopens the last page
}

// Run boots the coursedeck TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logCloser, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	backend, err := storage.Open(cfg.SessionBackend, cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("close session storage")
		}
	}()

	client, err := api.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := session.New(backend, client, log)
	notifier := ui.NewNotifier()

	transport := api.NewAuthTransport(nil, store, notifier.SessionExpired, log)
	client.Use(transport.Middleware())

	unsubscribe := store.Subscribe(func(st session.State) {
		if st.Authenticated {
			transport.Rearm()
		}
		notifier.SessionChanged()
	})
	defer unsubscribe()

	// Start background expiry checks
	StartExpiryWatcher(ctx, store, transport, defaultExpiryInterval, log)

	userPrefs := prefs.Load(opts.PrefsPath)
	start, err := startRoute(opts.Open, userPrefs.LastPage)
	if err != nil {
		return err
	}

	log.Info().
		Str("api", client.BaseURL()).
		Str("session_backend", cfg.SessionBackend).
		Str("start", start.Path()).
		Bool("signed_in", store.IsAuthenticated()).
		Msg("starting coursedeck")

	uiOpts := ui.Options{
		Context:   ctx,
		Session:   store,
		Courses:   client,
		Lessons:   client,
		Users:     client,
		Notifier:  notifier,
		Start:     start,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    log,
	}
	return ui.Run(uiOpts)
}

// startRoute picks the first page: the requested one, else the one open at
// the last exit, else home. A stale remembered path is ignored.
func startRoute(open, last string) (nav.Route, error) {
	if open != "" {
		r, err := nav.Parse(open)
		if err != nil {
			return nav.Route{}, fmt.Errorf("open %q: %w", open, err)
		}
		return r, nil
	}
	if last != "" {
		if r, err := nav.Parse(last); err == nil {
			return r, nil
		}
	}
	return nav.To(nav.Home), nil
}
