package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/corey/riskcard/internal/adapters/yamlsource"
	"github.com/corey/riskcard/internal/domain/engine"
	"github.com/corey/riskcard/internal/domain/record"
	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/corey/riskcard/internal/ports"
)

const (
	maxBodyBytes   = 1 << 20
	serverTimeout  = 10 * time.Second
	maxHeaderBytes = 1 << 16
	defaultHistory = 20
)

// Service is what the HTTP handlers need from the application.
// Thread safety is the implementor's responsibility.
type Service interface {
	Score(ctx context.Context, req *record.ChangeRequest) (*engine.Result, error)
	Status() engine.Status
	Scorecard() (*scorecard.Config, bool)
	Reload(ctx context.Context) (*scorecard.Config, error)
	History(limit int) ([]*ports.Revision, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// Server serves the scoring API over HTTP.
type Server struct {
	svc      Service
	log      *slog.Logger
	metrics  http.Handler
	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	stopOnce sync.Once
}

// NewServer creates an HTTP server for svc.
func NewServer(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		log:     slog.Default(),
		started: time.Now(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed API wrapped in request id and logging
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathScore, s.handleScore)
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)
	mux.HandleFunc("GET "+PathScorecard, s.handleScorecard)
	mux.HandleFunc("POST "+PathReload, s.handleReload)
	mux.HandleFunc("GET "+PathHistory, s.handleHistory)
	if s.metrics != nil {
		mux.Handle("GET "+PathMetrics, s.metrics)
	}
	return requestIDMiddleware(loggingMiddleware(s.log)(mux))
}

// Start begins listening on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: serverTimeout,
		ReadTimeout:       serverTimeout,
		WriteTimeout:      serverTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = s.httpSrv.Shutdown(ctx)
		}
	})
	return err
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the base URL of the API.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	req, err := record.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResult{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				Kind:  KindTooLarge,
			})
			return
		}
		var de *record.DecodeError
		if errors.As(err, &de) {
			writeJSON(w, http.StatusBadRequest, ErrorResult{Error: de.Error(), Kind: KindInvalidRequest, Feature: de.Field})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResult{Error: err.Error(), Kind: KindInvalidRequest})
		return
	}

	res, err := s.svc.Score(r.Context(), req)
	if err != nil {
		var ee *engine.EvaluationError
		if errors.As(err, &ee) {
			status := http.StatusBadRequest
			if !ee.ClientError() {
				status = http.StatusServiceUnavailable
			}
			writeJSON(w, status, ErrorResult{Error: ee.Error(), Kind: string(ee.Kind), Feature: ee.Feature, Value: ee.Value})
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.svc.Status()
	writeJSON(w, http.StatusOK, HealthResult{
		Status:    st.State.String(),
		Version:   st.Version,
		ScoreName: st.ScoreName,
		Features:  st.Features,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleScorecard(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.svc.Scorecard()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResult{Error: engine.ErrNotReady.Error(), Kind: string(engine.NotReady)})
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, cfg.Definition())
	case "yaml":
		data, err := yamlsource.Encode(cfg.Definition())
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResult{Error: fmt.Sprintf("unknown format %q", format), Kind: KindInvalidRequest})
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.Reload(r.Context())
	if err != nil {
		var ce *scorecard.ConfigError
		if errors.As(err, &ce) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResult{
				Error:   ce.Error(),
				Kind:    KindInvalidConfig,
				Feature: ce.Feature,
				Band:    ce.Band,
				Bin:     ce.Bin,
			})
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResult{
		Status:   "reloaded",
		Version:  cfg.Version(),
		Features: cfg.FeatureNames(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistory
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResult{Error: fmt.Sprintf("invalid limit %q", v), Kind: KindInvalidRequest})
			return
		}
		limit = n
	}

	revs, err := s.svc.History(limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if revs == nil {
		revs = []*ports.Revision{}
	}
	writeJSON(w, http.StatusOK, HistoryResult{Revisions: revs, Count: len(revs)})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResult{Error: err.Error(), Kind: KindInternal})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
