// Package classifier implements the fitted model behind churn scoring: a
// class-weighted logistic regression over standardized inputs.
//
// The fit is fully deterministic: weights start at zero and gradient descent
// runs a fixed number of epochs over the rows in input order, so identical
// inputs always produce an identical model. Probabilities and per-feature
// importances are exposed; everything else is internal.
package classifier

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Training hyperparameters. Fixed rather than configurable: the scoring
// contract cares about determinism and probability output, not tuning.
const (
	epochs       = 400
	learningRate = 0.1
	minStdDev    = 1e-9
)

// Model is a fitted churn classifier plus its feature schema.
type Model struct {
	ID        string    `json:"id"`
	TrainedAt time.Time `json:"trained_at"`
	Columns   []string  `json:"columns"`

	// Standardization statistics, one per column.
	Means   []float64 `json:"means"`
	Stddevs []float64 `json:"stddevs"`

	// Fitted parameters over standardized inputs.
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Fit trains a model on X (rows of feature values in column order) and
// binary labels y, up-weighting the minority class so the fit is balanced.
func Fit(ctx context.Context, columns []string, x [][]float64, y []int) (*Model, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, len(x), len(y))
	}
	for i, row := range x {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, i, len(row), len(columns))
		}
	}

	m := &Model{
		ID:        uuid.NewString(),
		TrainedAt: time.Now().UTC(),
		Columns:   append([]string(nil), columns...),
		Weights:   make([]float64, len(columns)),
	}
	m.Means, m.Stddevs = standardStats(x)

	// Balanced class weights: n / (2 * n_class). A single-class training
	// set degenerates to uniform weights and a constant-probability model.
	var positives int
	for _, label := range y {
		if label == 1 {
			positives++
		}
	}
	negatives := len(y) - positives
	weightPos, weightNeg := 1.0, 1.0
	if positives > 0 && negatives > 0 {
		weightPos = float64(len(y)) / (2 * float64(positives))
		weightNeg = float64(len(y)) / (2 * float64(negatives))
	}

	scaled := make([][]float64, len(x))
	for i, row := range x {
		scaled[i] = m.scale(row)
	}

	n := float64(len(x))
	gradW := make([]float64, len(columns))
	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fit canceled: %w", err)
		}
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0
		for i, row := range scaled {
			p := sigmoid(dot(m.Weights, row) + m.Intercept)
			sampleWeight := weightNeg
			target := 0.0
			if y[i] == 1 {
				sampleWeight = weightPos
				target = 1.0
			}
			residual := sampleWeight * (p - target)
			for j, v := range row {
				gradW[j] += residual * v
			}
			gradB += residual
		}
		for j := range m.Weights {
			m.Weights[j] -= learningRate * gradW[j] / n
		}
		m.Intercept -= learningRate * gradB / n
	}

	return m, nil
}

// PredictProba returns the positive-class probability for one feature row in
// column order. Safe for concurrent use: the model is never mutated after
// Fit.
func (m *Model) PredictProba(row []float64) (float64, error) {
	if len(row) != len(m.Columns) {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrShapeMismatch, len(row), len(m.Columns))
	}
	return sigmoid(dot(m.Weights, m.scale(row)) + m.Intercept), nil
}

// Importance is a feature's share of the model's total weight mass.
type Importance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Importances returns per-feature importances normalized to sum to one,
// sorted descending with ties broken by column order.
func (m *Model) Importances() []Importance {
	raw := make([]float64, len(m.Columns))
	var total float64
	for j, w := range m.Weights {
		raw[j] = math.Abs(w)
		total += raw[j]
	}

	out := make([]Importance, len(m.Columns))
	for j, col := range m.Columns {
		v := 0.0
		if total > 0 {
			v = raw[j] / total
		}
		out[j] = Importance{Feature: col, Importance: v}
	}
	// Stable insertion sort keeps the column-order tie break.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Importance > out[j-1].Importance; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (m *Model) scale(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for j, v := range row {
		scaled[j] = (v - m.Means[j]) / m.Stddevs[j]
	}
	return scaled
}

func standardStats(x [][]float64) (means, stddevs []float64) {
	cols := len(x[0])
	means = make([]float64, cols)
	stddevs = make([]float64, cols)
	n := float64(len(x))

	for _, row := range x {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}
	for _, row := range x {
		for j, v := range row {
			d := v - means[j]
			stddevs[j] += d * d
		}
	}
	for j := range stddevs {
		stddevs[j] = math.Sqrt(stddevs[j] / n)
		if stddevs[j] < minStdDev {
			// Constant column; keep the scale finite.
			stddevs[j] = 1
		}
	}
	return means, stddevs
}

func dot(a, b []float64) float64 {
	var s float64
	for i, v := range a {
		s += v * b[i]
	}
	return s
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
