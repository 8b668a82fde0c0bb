package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/retainiq/churn/internal/domain/scoring"
	"github.com/retainiq/churn/pkg/metrics"
)

// probField and errField are the fields appended to echoed records.
const (
	probField = "churn_prob"
	errField  = "error"
)

// ScoreHandler handles scoring requests.
type ScoreHandler struct {
	deps            Dependencies
	maxBatchRecords int
}

// NewScoreHandler creates a new scoring handler.
func NewScoreHandler(deps Dependencies, maxBatchRecords int) *ScoreHandler {
	return &ScoreHandler{deps: deps, maxBatchRecords: maxBatchRecords}
}

// HandleScore handles POST /score requests carrying either one JSON object
// or a JSON array of objects. Each record is echoed back with churn_prob
// added; inside an array, a record failing validation gets an error field
// and its siblings still score.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if isJSONArray(raw) {
		h.scoreBatch(w, r, op, raw)
		return
	}
	h.scoreSingle(w, r, op, raw)
}

func (h *ScoreHandler) scoreSingle(w http.ResponseWriter, r *http.Request, op string, raw json.RawMessage) {
	var rec scoring.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	prob, err := h.deps.ScoreRecord(r.Context(), rec)
	switch {
	case err == nil:
		rec[probField] = prob
		writeJSON(w, http.StatusOK, rec)
	case isValidationError(err):
		metrics.RecordValidationError()
		writeError(w, http.StatusBadRequest, "validation_error", err)
	default:
		metrics.RecordScoringError()
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

func (h *ScoreHandler) scoreBatch(w http.ResponseWriter, r *http.Request, op string, raw json.RawMessage) {
	var recs []scoring.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(recs) > h.maxBatchRecords {
		writeError(w, http.StatusBadRequest, "too_many_records", NewKind(op, ErrTooLarge))
		return
	}

	// Per-record isolation: a malformed record is marked in place and the
	// rest of the batch still scores.
	out := make([]scoring.Record, len(recs))
	for i, rec := range recs {
		if rec == nil {
			rec = scoring.Record{}
		}
		prob, err := h.deps.ScoreRecord(r.Context(), rec)
		switch {
		case err == nil:
			rec[probField] = prob
		case isValidationError(err):
			metrics.RecordValidationError()
			rec[errField] = err.Error()
		default:
			metrics.RecordScoringError()
			writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
			return
		}
		out[i] = rec
	}
	writeJSON(w, http.StatusOK, out)
}

func isValidationError(err error) bool {
	return errors.Is(err, scoring.ErrMissingFields) || errors.Is(err, scoring.ErrBadFieldType)
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
