package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for scoring errors.
var (
	ErrMissingFields = errors.New("record missing required feature fields")
	ErrBadFieldType  = errors.New("feature field is not numeric")
	ErrNoModel       = errors.New("no model loaded")
)

// MissingFieldsError reports every required field a record failed to supply.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("record missing required feature fields: %s", strings.Join(e.Fields, ", "))
}

// Is makes the typed error match the package sentinel via errors.Is.
func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}
