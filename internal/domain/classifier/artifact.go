package classifier

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes the model as its JSON artifact form.
func (m *Model) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
	}
	return data, nil
}

// Unmarshal decodes a JSON artifact and validates its shape so a truncated
// or hand-edited file fails at load time, not at scoring time.
func Unmarshal(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArtifact, err)
	}
	cols := len(m.Columns)
	if cols == 0 {
		return nil, fmt.Errorf("%w: no feature columns", ErrBadArtifact)
	}
	if len(m.Means) != cols || len(m.Stddevs) != cols || len(m.Weights) != cols {
		return nil, fmt.Errorf("%w: parameter lengths disagree with %d columns", ErrBadArtifact, cols)
	}
	for j, s := range m.Stddevs {
		if s <= 0 {
			return nil, fmt.Errorf("%w: non-positive stddev for column %s", ErrBadArtifact, m.Columns[j])
		}
	}
	return &m, nil
}
