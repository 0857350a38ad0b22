package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"

	"github.com/spf13/cobra"

	"github.com/vango-dev/notes/internal/config"
	"github.com/vango-dev/notes/internal/errors"
	"github.com/vango-dev/notes/internal/logging"
	"github.com/vango-dev/notes/internal/view"
	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/notes"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/render"
	"github.com/vango-dev/notes/pkg/scheduler"
	"github.com/vango-dev/notes/pkg/telemetry"
)

// globals holds the persistent flags and what PersistentPreRunE builds
// from them.
type globals struct {
	configPath string
	apiURL     string
	token      string
	logLevel   string
	logJSON    bool
	noCache    bool
	cacheDir   string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func (g *globals) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&g.configPath, "config", "c", "", "Config file (default notes.yaml or notes.json in the working directory)")
	f.StringVar(&g.apiURL, "api-url", "", "Notes API base URL")
	f.StringVar(&g.token, "token", "", "Bearer token for the notes API")
	f.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.BoolVar(&g.logJSON, "log-json", false, "Write logs as JSON")
	f.BoolVar(&g.noCache, "no-cache", false, "Disable the offline note cache")
	f.StringVar(&g.cacheDir, "cache-dir", "", "Offline cache directory")
	f.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
}

// load reads the configuration, applies environment and flag overrides,
// validates it and builds the logger.
func (g *globals) load(cmd *cobra.Command) error {
	if g.noColor {
		errors.DisableColors()
	}

	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	if g.apiURL != "" {
		cfg.API.BaseURL = g.apiURL
	}
	if g.token != "" {
		cfg.API.Token = g.token
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logJSON {
		cfg.Log.Format = "json"
	}
	if g.noCache {
		cfg.Cache.Enabled = false
	}
	if g.cacheDir != "" {
		cfg.Cache.Dir = g.cacheDir
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	g.cfg = cfg
	g.logger = logging.New(logging.Config{
		Level:   cfg.LogLevel(),
		JSON:    cfg.Log.Format == "json",
		Output:  cmd.ErrOrStderr(),
		Service: "notes",
	})
	return nil
}

// client builds the API client from the configuration.
func (g *globals) client() *notes.Client {
	return notes.NewClient(g.cfg.API.BaseURL,
		notes.WithTimeout(g.cfg.API.Timeout.Std()),
		notes.WithToken(g.cfg.API.Token),
		notes.WithRateLimit(g.cfg.API.RateLimit, g.cfg.API.Burst),
		notes.WithLogger(g.logger),
		notes.WithMetrics(telemetry.Default()),
	)
}

// app is the notes UI wired to a data source: reactive state, a document
// with a mount root, the render scheduler and the binder that feeds fetch
// results back into the state.
type app struct {
	state  *reactive.Store
	doc    *dom.Document
	sched  *scheduler.Scheduler
	binder *notes.Binder
	cache  *notes.Cache
}

// newApp builds the UI. Callers must call close when done.
func (g *globals) newApp(ctx context.Context) (*app, error) {
	var src notes.Source = g.client()

	a := &app{}
	if g.cfg.Cache.Enabled {
		cache, err := notes.OpenCache(src, notes.CacheConfig{
			Dir:     g.cfg.Cache.Dir,
			Logger:  g.logger,
			Metrics: telemetry.Default(),
		})
		if err != nil {
			return nil, errors.New("N040").WithDetail(g.cfg.Cache.Dir).Wrap(err)
		}
		a.cache = cache
		src = cache
	}

	opts := []reactive.Option{
		reactive.WithLogger(g.logger),
		reactive.WithMetrics(telemetry.Default()),
		reactive.WithMaxDepth(g.cfg.Reactive.MaxDepth),
	}
	if g.cfg.Reactive.ResetDependencies {
		opts = append(opts, reactive.WithDependencyReset())
	}
	rt := reactive.NewRuntime(opts...)

	a.state = rt.Wrap(map[string]any{
		notes.KeyRoute:        view.RouteList,
		notes.KeyNotes:        []any{},
		notes.KeyNotesLoading: false,
	})
	a.doc = dom.NewDocument()
	root := a.doc.CreateRoot(g.cfg.Mount.ID)

	open := func(id int64) {
		a.binder.LoadNote(ctx, id)
		a.state.Set(notes.KeyRoute, view.RouteNote)
	}

	a.sched = scheduler.New(root, scheduler.View(view.Index(a.state, g.cfg.Mount.Title, open)),
		scheduler.WithRuntime(rt),
		scheduler.WithRenderer(render.New(a.doc, render.WithLogger(g.logger))),
		scheduler.WithLogger(g.logger),
		scheduler.WithMetrics(telemetry.Default()),
	)
	a.binder = notes.NewBinder(src, a.state, a.sched, notes.WithBinderLogger(g.logger))
	return a, nil
}

func (a *app) close() {
	a.sched.Stop()
	if a.cache != nil {
		a.cache.Close()
	}
}

// apiError maps a data source error onto a CLI error code.
func apiError(err error) *errors.Error {
	if ve, ok := notes.IsValidation(err); ok {
		return errors.New("N023").WithFields(ve.Fields).Wrap(err)
	}
	var netErr net.Error
	switch {
	case stderrors.Is(err, notes.ErrUnauthorized):
		return errors.New("N020").Wrap(err)
	case stderrors.Is(err, notes.ErrNotFound):
		return errors.New("N024").Wrap(err)
	case stderrors.Is(err, notes.ErrNotCached):
		return errors.New("N041").Wrap(err)
	case stderrors.As(err, &netErr):
		return errors.New("N022").Wrap(err)
	default:
		return errors.FromError(err, "N021")
	}
}
