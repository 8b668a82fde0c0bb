package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/retainiq/churn/internal/domain/classifier"
	"github.com/retainiq/churn/internal/domain/model"
	"github.com/retainiq/churn/internal/domain/training"
)

const artifactPermission = 0o644

// SaveModel writes the fitted classifier as its JSON artifact.
func SaveModel(path string, m *classifier.Model) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, artifactPermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadModel reads and validates a model artifact.
func LoadModel(path string) (*classifier.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return classifier.Unmarshal(data)
}

// WriteMetrics persists the evaluation document of a training run.
func WriteMetrics(path string, m training.Metrics) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	if err := os.WriteFile(path, data, artifactPermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteImportances persists the importance ranking as a two-column table,
// already sorted descending by the trainer.
func WriteImportances(path string, imps []classifier.Importance) error {
	tbl := &model.Table{Columns: []string{"feature", "importance"}, Rows: make([][]string, 0, len(imps))}
	for _, imp := range imps {
		tbl.Rows = append(tbl.Rows, []string{imp.Feature, model.FormatFloat(imp.Importance)})
	}
	return WriteTable(path, tbl)
}
