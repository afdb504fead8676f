// Package web serves the scoring API over HTTP and provides a client for
// it. Request and response bodies are JSON.
package web

import (
	"github.com/corey/riskcard/internal/ports"
)

// Routes.
const (
	PathScore     = "/score-change"
	PathHealth    = "/health"
	PathScorecard = "/scorecard"
	PathReload    = "/reload-config"
	PathHistory   = "/history"
	PathMetrics   = "/metrics"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Error kinds that are not engine.ErrorKind values.
const (
	KindInvalidRequest = "invalid_request"
	KindTooLarge       = "request_too_large"
	KindInvalidConfig  = "invalid_config"
	KindInternal       = "internal"
)

// HealthResult is the body of GET /health.
type HealthResult struct {
	Status    string `json:"status"`
	Version   int    `json:"version"`
	ScoreName string `json:"score_name"`
	Features  int    `json:"features"`
	Uptime    string `json:"uptime"`
}

// ReloadResult is the body of a successful POST /reload-config.
type ReloadResult struct {
	Status   string   `json:"status"`
	Version  int      `json:"version"`
	Features []string `json:"features"`
}

// HistoryResult is the body of GET /history.
type HistoryResult struct {
	Revisions []*ports.Revision `json:"revisions"`
	Count     int               `json:"count"`
}

// ErrorResult is the body of every non-2xx response. Feature, Value,
// Band and Bin identify what was at fault when that is known.
type ErrorResult struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Feature string `json:"feature,omitempty"`
	Value   string `json:"value,omitempty"`
	Band    string `json:"band,omitempty"`
	Bin     string `json:"bin,omitempty"`
}
