// Package api declares HTTP contracts and route registration helpers for
// the churn scoring service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/retainiq/churn/internal/domain/scoring"
)

// ModelInfo is the metadata served for the loaded artifact.
type ModelInfo struct {
	ID        string    `json:"id"`
	TrainedAt time.Time `json:"trained_at"`
	Columns   []string  `json:"columns"`
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// ScoreRecord computes the churn probability for one feature record.
	ScoreRecord(ctx context.Context, rec scoring.Record) (float64, error)

	// ModelInfo describes the loaded model artifact.
	ModelInfo() ModelInfo

	// GetStats exposes service counters.
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	scoreHandler  *ScoreHandler
	modelHandler  *ModelHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxBatchRecords int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		scoreHandler:  NewScoreHandler(deps, maxBatchRecords),
		modelHandler:  NewModelHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/model", MetricsMiddleware(s.modelHandler.HandleModel, "model"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
