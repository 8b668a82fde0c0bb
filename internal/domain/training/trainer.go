// Package training fits the churn classifier on a feature table and
// evaluates it on a held-out partition.
package training

import (
	"context"
	"fmt"

	"github.com/retainiq/churn/internal/domain/classifier"
	"github.com/retainiq/churn/internal/domain/model"
)

const (
	defaultSeed         = 42
	defaultTestFraction = 0.2
	labelColumn         = "churn_label"
	threshold           = 0.5
)

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithSeed sets the seed driving the stratified split.
func WithSeed(seed int64) Option {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// WithTestFraction sets the held-out share of rows.
func WithTestFraction(fraction float64) Option {
	return func(t *Trainer) {
		if fraction > 0 && fraction < 1 {
			t.testFraction = fraction
		}
	}
}

// Trainer produces a fitted model plus evaluation artifacts from a feature
// table. Identical inputs and seed yield an identical split, identical
// metrics, and an identical importance ranking.
type Trainer struct {
	seed         int64
	testFraction float64
}

// New creates a Trainer with configuration options.
func New(opts ...Option) *Trainer {
	t := &Trainer{
		seed:         defaultSeed,
		testFraction: defaultTestFraction,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Result bundles everything a training run emits.
type Result struct {
	Model       *classifier.Model
	Metrics     Metrics
	Importances []classifier.Importance
}

// Train validates the table schema, splits the rows, fits the classifier
// with minority-class up-weighting, and evaluates on the test partition.
func (t *Trainer) Train(ctx context.Context, tbl *model.Table) (*Result, error) {
	required := append(model.FeatureColumns(), labelColumn)
	var missing []string
	for _, col := range required {
		if !tbl.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}
	if len(tbl.Rows) == 0 {
		return nil, ErrNoRows
	}

	featureCols := make([]int, 0, len(model.FeatureColumns()))
	for _, name := range model.FeatureColumns() {
		featureCols = append(featureCols, tbl.ColumnIndex(name))
	}
	labelCol := tbl.ColumnIndex(labelColumn)

	// Missing numeric cells read as 0 via Table.Float, matching the
	// builder's fill policy.
	x := make([][]float64, len(tbl.Rows))
	y := make([]int, len(tbl.Rows))
	for i := range tbl.Rows {
		x[i] = tbl.FeatureRow(i, featureCols)
		if tbl.Float(i, labelCol) != 0 {
			y[i] = 1
		}
	}

	trainIdx, testIdx := stratifiedSplit(y, t.testFraction, t.seed)

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		trainX[i] = x[idx]
		trainY[i] = y[idx]
	}

	fitted, err := classifier.Fit(ctx, model.FeatureColumns(), trainX, trainY)
	if err != nil {
		return nil, fmt.Errorf("fit failed: %w", err)
	}

	testY := make([]int, len(testIdx))
	probs := make([]float64, len(testIdx))
	preds := make([]int, len(testIdx))
	for i, idx := range testIdx {
		testY[i] = y[idx]
		p, err := fitted.PredictProba(x[idx])
		if err != nil {
			return nil, fmt.Errorf("evaluate failed: %w", err)
		}
		probs[i] = p
		if p >= threshold {
			preds[i] = 1
		}
	}

	auc, err := rocAUC(testY, probs)
	if err != nil {
		return nil, err
	}

	return &Result{
		Model: fitted,
		Metrics: Metrics{
			AUC:    auc,
			Report: classificationReport(testY, preds),
		},
		Importances: fitted.Importances(),
	}, nil
}
