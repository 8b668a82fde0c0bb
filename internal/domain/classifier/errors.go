package classifier

import "errors"

// Sentinel kinds for classifier errors.
var (
	ErrEmptyTrainingSet = errors.New("empty training set")
	ErrShapeMismatch    = errors.New("feature shape mismatch")
	ErrBadArtifact      = errors.New("bad model artifact")
)
