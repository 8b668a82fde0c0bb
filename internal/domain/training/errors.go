package training

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for training errors.
var (
	ErrMissingColumns = errors.New("missing feature columns")
	ErrNoRows         = errors.New("feature table has no rows")
	ErrSingleClass    = errors.New("test partition contains a single class; AUC undefined")
)

// MissingColumnsError reports every absent required column, not just the
// first one found.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing feature columns: %s", strings.Join(e.Missing, ", "))
}

// Is makes the typed error match the package sentinel via errors.Is.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}
