// Package batch applies a loaded model across an entire feature table.
//
// Scoring goes through the same scoring.Scorer the HTTP service uses, so a
// batch row and an online request with the same feature values always get
// the same probability. Rows fan out over a worker pool; the aggregation is
// per-row independent, so parallel and sequential runs produce identical
// output.
package batch

import (
	"context"
	"fmt"

	"github.com/retainiq/churn/internal/adapters/pool"
	"github.com/retainiq/churn/internal/domain/model"
	"github.com/retainiq/churn/internal/domain/scoring"
)

// ProbColumn is the column appended to the scored table.
const ProbColumn = "churn_prob"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWorkers bounds the scoring fan-out.
func WithWorkers(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.pool = pool.New(pool.WithWorkers(n))
		}
	}
}

// Scorer scores whole tables through a shared scoring path.
type Scorer struct {
	scorer scoring.Scorer
	pool   *pool.Pool
}

// New creates a batch Scorer over an online scorer.
func New(s scoring.Scorer, opts ...Option) *Scorer {
	b := &Scorer{scorer: s, pool: pool.New()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ScoreTable returns a copy of tbl with the churn_prob column appended. The
// input table must carry every feature column the model expects; missing
// numeric cells read as 0, matching the trainer.
func (b *Scorer) ScoreTable(ctx context.Context, tbl *model.Table) (*model.Table, error) {
	columns := b.scorer.Columns()
	var missing []string
	colIdx := make([]int, len(columns))
	for j, name := range columns {
		colIdx[j] = tbl.ColumnIndex(name)
		if colIdx[j] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &scoring.MissingFieldsError{Fields: missing}
	}

	probs := make([]string, len(tbl.Rows))
	err := b.pool.Run(ctx, len(tbl.Rows), func(ctx context.Context, i int) error {
		rec := make(scoring.Record, len(columns))
		row := tbl.FeatureRow(i, colIdx)
		for j, name := range columns {
			rec[name] = row[j]
		}
		p, err := b.scorer.Score(ctx, rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		probs[i] = model.FormatFloat(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tbl.WithColumn(ProbColumn, probs), nil
}
