// Package engine scores change-request records against the active
// scorecard. The active scorecard is swapped atomically: an evaluation
// sees either the configuration before a reload or the one after it,
// never a mix.
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/corey/riskcard/internal/domain/scorecard"
)

// State is the lifecycle state of an Engine.
type State int

const (
	Unconfigured State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "unconfigured"
}

// Status is a point-in-time summary of the engine.
type Status struct {
	State     State
	Version   int
	ScoreName string
	Features  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithValidation applies scorecard validation options to every reload.
func WithValidation(opts ...scorecard.Option) Option {
	return func(e *Engine) { e.validate = append(e.validate, opts...) }
}

// Engine holds the active scorecard.
type Engine struct {
	active   atomic.Pointer[scorecard.Config]
	mu       sync.Mutex // serializes reloads
	validate []scorecard.Option
}

// New returns an unconfigured engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate scores rec against the active scorecard. It returns
// ErrNotReady before the first successful reload.
func (e *Engine) Evaluate(rec Record) (*Result, error) {
	return Evaluate(e.active.Load(), rec)
}

// Reload validates def and, only if it is valid, makes it the active
// scorecard and returns it. On error the previous scorecard stays active.
func (e *Engine) Reload(def *scorecard.Definition) (*scorecard.Config, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := scorecard.Validate(def, e.validate...)
	if err != nil {
		return nil, err
	}
	e.active.Store(cfg)
	return cfg, nil
}

// Publish activates an already validated scorecard.
func (e *Engine) Publish(cfg *scorecard.Config) error {
	if cfg == nil {
		return errors.New("engine: publish nil scorecard")
	}
	e.mu.Lock()
	e.active.Store(cfg)
	e.mu.Unlock()
	return nil
}

// Active returns the current scorecard snapshot.
func (e *Engine) Active() (*scorecard.Config, bool) {
	cfg := e.active.Load()
	return cfg, cfg != nil
}

// Status reports the engine state from a single snapshot.
func (e *Engine) Status() Status {
	cfg := e.active.Load()
	if cfg == nil {
		return Status{State: Unconfigured}
	}
	return Status{
		State:     Active,
		Version:   cfg.Version(),
		ScoreName: cfg.ScoreName(),
		Features:  len(cfg.FeatureNames()),
	}
}
