// Package repository persists the raw tables, the feature table, and the
// training artifacts as flat files under the data directory.
package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	// ErrNotFound means a required input file does not exist.
	ErrNotFound = errors.New("input file not found")

	// ErrBadHeader means a table file is missing required columns.
	ErrBadHeader = errors.New("table header missing required columns")

	// ErrBadRow means a table cell could not be parsed.
	ErrBadRow = errors.New("malformed table row")
)
