// Package scoring computes churn probabilities for feature records.
//
// Every probability in the system comes through Scorer.Score: the HTTP
// handlers score one record at a time and the batch job scores table rows,
// both against the same loaded model. Keeping a single path is what makes
// online and batch output identical for identical inputs.
package scoring

import (
	"context"
	"fmt"

	"github.com/retainiq/churn/internal/domain/classifier"
)

// Record is one scoring input: the required feature fields plus whatever
// extra fields the caller supplied. Extra fields are preserved, never read.
type Record = map[string]any

// Result pairs a record's probability with its position in the request.
type Result struct {
	Index int
	Prob  float64
	Err   error
}

// Scorer computes a churn probability from a feature record.
type Scorer interface {
	// Score validates the record against the model's feature schema and
	// returns the positive-class probability.
	Score(ctx context.Context, rec Record) (float64, error)

	// Columns exposes the feature schema the loaded model expects.
	Columns() []string
}

// ModelScorer implements Scorer over a fitted classifier. The model is
// immutable after construction, so a single ModelScorer is safe for
// arbitrary concurrent use.
type ModelScorer struct {
	model *classifier.Model
}

// New creates a ModelScorer owning the given fitted model.
func New(model *classifier.Model) (*ModelScorer, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	return &ModelScorer{model: model}, nil
}

// Columns returns the model's feature schema in input order.
func (s *ModelScorer) Columns() []string {
	return s.model.Columns
}

// ModelID returns the loaded artifact's identifier.
func (s *ModelScorer) ModelID() string {
	return s.model.ID
}

// Score validates rec and computes its churn probability. A record missing
// required fields fails with a MissingFieldsError naming all of them;
// callers scoring batches isolate that failure per record.
func (s *ModelScorer) Score(ctx context.Context, rec Record) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("score canceled: %w", err)
	}

	row := make([]float64, len(s.model.Columns))
	var missing []string
	for j, col := range s.model.Columns {
		raw, ok := rec[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		v, err := asFloat(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrBadFieldType, col)
		}
		row[j] = v
	}
	if len(missing) > 0 {
		return 0, &MissingFieldsError{Fields: missing}
	}

	return s.model.PredictProba(row)
}

// asFloat accepts the numeric shapes JSON decoding and table parsing
// produce.
func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
