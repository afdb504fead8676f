// Package app is the composition root. It wires the scoring engine to its
// scorecard source, revision store, file watcher, metrics and HTTP server,
// and owns the reload path shared by the API and the watcher.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/corey/riskcard/internal/adapters/bbolt"
	fsw "github.com/corey/riskcard/internal/adapters/fsnotify"
	"github.com/corey/riskcard/internal/adapters/metrics"
	"github.com/corey/riskcard/internal/adapters/web"
	"github.com/corey/riskcard/internal/adapters/yamlsource"
	"github.com/corey/riskcard/internal/domain/engine"
	"github.com/corey/riskcard/internal/domain/record"
	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/corey/riskcard/internal/ports"
	"github.com/corey/riskcard/scorecards"
)

// Reload triggers, used as the metrics trigger label.
const (
	TriggerStartup = "startup"
	TriggerAPI     = "api"
	TriggerWatch   = "watch"
)

// App is the running service.
type App struct {
	Settings Settings
	Paths    *Paths
	Engine   *engine.Engine
	Source   ports.DefinitionSource
	Store    ports.RevisionStore
	Watcher  ports.Watcher // nil when watching is off or the source is not a file
	Metrics  *metrics.Recorder
	Server   *web.Server

	log      *slog.Logger
	validate []scorecard.Option
	mu       sync.Mutex // serializes source reads and revision writes
}

// Config holds initialization parameters for the App.
type Config struct {
	Settings Settings
	Logger   *slog.Logger           // default: slog.Default()
	Source   ports.DefinitionSource // default: derived from Settings.Scorecard
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config) (*App, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	paths := NewPaths(cfg.Settings.DataDir)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := bbolt.NewStore(paths.DB, bbolt.WithKeep(cfg.Settings.Keep))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	src := cfg.Source
	watchable := false
	if src == nil {
		if cfg.Settings.Scorecard == "" {
			src = yamlsource.NewBytes("embedded:"+scorecards.DefaultName, scorecards.Default)
		} else {
			src = yamlsource.NewFile(cfg.Settings.Scorecard)
			watchable = true
		}
	}

	validate := []scorecard.Option{scorecard.WithSchema(record.Schema())}
	a := &App{
		Settings: cfg.Settings,
		Paths:    paths,
		Engine:   engine.New(engine.WithValidation(validate...)),
		Source:   src,
		Store:    store,
		Metrics:  metrics.New(),
		log:      log,
		validate: validate,
	}

	if cfg.Settings.Watch && watchable {
		w, err := fsw.NewWatcher(fsw.WithDebounce(cfg.Settings.Debounce), fsw.WithLogger(log))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		a.Watcher = w
	}

	a.Server = web.NewServer(a, web.WithLogger(log), web.WithMetrics(a.Metrics.Handler()))
	return a, nil
}

// Start loads the initial scorecard, then starts the HTTP server and the
// file watcher. A scorecard that fails to load is not fatal: the last
// stored revision is published instead, and with none the service runs
// unconfigured until a reload succeeds.
func (a *App) Start() error {
	if _, err := a.reload(TriggerStartup); err != nil {
		a.restoreLatest(err)
	}

	if err := a.Server.Start(a.Settings.Addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	a.log.Info("listening", "addr", a.Server.Addr(), "scorecard", a.Source.Location())

	// Watcher failure is non-fatal; reload stays available over HTTP.
	if a.Watcher != nil {
		if err := a.Watcher.Watch(a.Source.Location(), a.onConfigChanged); err != nil {
			a.log.Warn("scorecard watcher unavailable", "path", a.Source.Location(), "err", err)
		}
	}
	return nil
}

// Stop shuts down the watcher, the HTTP server and the store.
func (a *App) Stop() error {
	var errs []error
	if a.Watcher != nil {
		if err := a.Watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop watcher: %w", err))
		}
	}
	if err := a.Server.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop server: %w", err))
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

// Score evaluates a change request against the active scorecard.
func (a *App) Score(_ context.Context, req *record.ChangeRequest) (*engine.Result, error) {
	start := time.Now()
	res, err := a.Engine.Evaluate(req.Record())
	if err != nil {
		var ee *engine.EvaluationError
		if errors.As(err, &ee) {
			a.Metrics.ObserveEvaluationError(string(ee.Kind))
		}
		return nil, err
	}
	a.Metrics.ObserveEvaluation(res.Band, time.Since(start))
	return res, nil
}

// Status reports the engine state.
func (a *App) Status() engine.Status {
	return a.Engine.Status()
}

// Scorecard returns the active scorecard.
func (a *App) Scorecard() (*scorecard.Config, bool) {
	return a.Engine.Active()
}

// Reload re-reads the scorecard source and publishes it. On failure the
// previous scorecard stays active; *scorecard.ConfigError reports an
// invalid definition, any other error an unreadable source.
func (a *App) Reload(_ context.Context) (*scorecard.Config, error) {
	return a.reload(TriggerAPI)
}

// History lists published revisions, newest first.
func (a *App) History(limit int) ([]*ports.Revision, error) {
	return a.Store.ListRevisions(limit)
}

func (a *App) reload(trigger string) (*scorecard.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	loc := a.Source.Location()
	doc, err := a.Source.Load()
	if err != nil {
		a.reloadFailed(trigger, loc, err)
		return nil, err
	}
	cfg, err := a.Engine.Reload(doc.Definition)
	if err != nil {
		a.reloadFailed(trigger, loc, err)
		return nil, err
	}

	a.Metrics.ObserveReload(trigger, metrics.OutcomeSuccess)
	a.Metrics.SetVersion(cfg.Version())
	a.log.Info("scorecard loaded",
		"trigger", trigger,
		"source", loc,
		"version", cfg.Version(),
		"features", len(cfg.Features()),
		"digest", shortDigest(doc.Digest),
	)

	// The scorecard is live at this point; a failed write only costs history.
	rev, err := a.Store.SaveRevision(&ports.Revision{
		Version:    cfg.Version(),
		ScoreName:  cfg.ScoreName(),
		Digest:     doc.Digest,
		Source:     loc,
		Definition: cfg.Definition(),
	})
	if err != nil {
		a.log.Warn("save revision failed", "version", cfg.Version(), "err", err)
	} else {
		a.log.Debug("revision saved", "seq", rev.Seq, "id", rev.ID)
	}
	return cfg, nil
}

func (a *App) reloadFailed(trigger, loc string, err error) {
	outcome := metrics.OutcomeReadFail
	var ce *scorecard.ConfigError
	if errors.As(err, &ce) {
		outcome = metrics.OutcomeInvalid
	}
	a.Metrics.ObserveReload(trigger, outcome)

	attrs := []any{"trigger", trigger, "source", loc, "err", err}
	if active, ok := a.Engine.Active(); ok {
		attrs = append(attrs, "active_version", active.Version())
	}
	a.log.Warn("scorecard reload failed", attrs...)
}

// restoreLatest publishes the newest stored revision after the initial
// load failed with cause.
func (a *App) restoreLatest(cause error) {
	rev, err := a.Store.LatestRevision()
	if err != nil {
		a.log.Error("read latest revision", "err", err)
		return
	}
	if rev == nil {
		a.log.Warn("no scorecard active, serving unconfigured", "cause", cause)
		return
	}
	cfg, err := scorecard.Validate(rev.Definition, a.validate...)
	if err != nil {
		a.log.Error("stored revision no longer validates", "seq", rev.Seq, "err", err)
		return
	}
	if err := a.Engine.Publish(cfg); err != nil {
		a.log.Error("publish stored revision", "seq", rev.Seq, "err", err)
		return
	}
	a.Metrics.SetVersion(cfg.Version())
	a.log.Warn("serving last known good scorecard",
		"seq", rev.Seq,
		"version", cfg.Version(),
		"published_at", rev.PublishedAt,
	)
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
