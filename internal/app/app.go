package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lightpanel/lightpanel/internal/backend"
	"github.com/lightpanel/lightpanel/internal/config"
	"github.com/lightpanel/lightpanel/internal/logging"
	"github.com/lightpanel/lightpanel/internal/prefs"
	"github.com/lightpanel/lightpanel/internal/state"
	"github.com/lightpanel/lightpanel/internal/ui"
)

// Options configure the lightpanel application. Non-zero fields override
// the config file.
type Options struct {
	ConfigPath string
	BaseURL    string
	PrefsDir   string
	PollEvery  time.Duration
}

// Env holds the wired components for one run.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Ring   *logging.Ring
	Client *backend.Client
	Prefs  *prefs.Store
	Nav    *state.NavStore

	closeLog func() error
}

// Bootstrap loads configuration, opens the log file and preference storage,
// loads the stored preferences and builds the backend client and stores.
// No network request is made.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.PrefsDir != "" {
		cfg.PrefsDir = opts.PrefsDir
	}
	if opts.PollEvery > 0 {
		cfg.StatsInterval = opts.PollEvery
	}

	logger, ring, closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	storage, err := prefs.NewFileStorage(cfg.PrefsDir)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init prefs storage: %w", err)
	}
	store := prefs.NewStore(storage, logger)
	store.Load()

	client, err := backend.NewClient(cfg.BaseURL)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init backend client: %w", err)
	}

	nav := state.NewNavStore(client, store, state.Options{
		StatsInterval: cfg.StatsInterval,
		Logger:        logger,
	})

	logger.Info("lightpanel starting",
		"base_url", client.BaseURL(),
		"prefs_dir", storage.Dir(),
		"stats_interval", cfg.StatsInterval,
	)

	return &Env{
		Config:   cfg,
		Logger:   logger,
		Ring:     ring,
		Client:   client,
		Prefs:    store,
		Nav:      nav,
		closeLog: closeLog,
	}, nil
}

// Initialize performs the startup fetches: the catalogs, then the server
// preference defaults (only once a nav config arrived), then the network
// probe. Failures degrade to defaults and are logged.
func (e *Env) Initialize(ctx context.Context) {
	e.Nav.LoadAllData(ctx)

	if _, ok := e.Nav.NavConfig(); ok {
		if fields := e.Nav.FetchServerConfig(ctx); fields != nil {
			e.Prefs.ApplyServerConfig(fields)
		}
	}

	e.Nav.FetchNetworkType(ctx)
}

// Close stops polling and closes the log file.
func (e *Env) Close() error {
	e.Nav.StopAllPolling()
	if e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// Run boots the lightpanel TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Initialize(ctx)

	return ui.Run(ui.Options{
		Context: ctx,
		Prefs:   env.Prefs,
		Nav:     env.Nav,
		Ring:    env.Ring,
	})
}

// Reset restores the default preferences and writes them to storage.
func Reset(opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Prefs.ResetConfig()
	env.Logger.Info("preferences reset to defaults")
	return nil
}
