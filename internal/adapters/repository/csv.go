package repository

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/retainiq/churn/internal/domain/model"
)

// ReadTable reads a header-row CSV file into a generic table.
func ReadTable(path string) (*model.Table, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row width is validated against the header below

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadRow, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrBadHeader, path)
	}

	tbl := &model.Table{Columns: records[0], Rows: records[1:]}
	for i, row := range tbl.Rows {
		if len(row) != len(tbl.Columns) {
			return nil, fmt.Errorf("%w: %s: row %d has %d cells, want %d",
				ErrBadRow, path, i+2, len(row), len(tbl.Columns))
		}
	}
	return tbl, nil
}

// WriteTable writes a generic table as a header-row CSV file, replacing any
// previous content.
func WriteTable(path string, tbl *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range tbl.Rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// openInput opens a required input file, mapping a missing file onto the
// package sentinel so jobs can print a remediation message.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// columnIndexes resolves required column names against a header, reporting
// every missing column at once.
func columnIndexes(path string, header []string, required []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	var missing []string
	out := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadHeader, path, missing)
	}
	return out, nil
}
