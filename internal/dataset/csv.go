package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a population table from path. Files ending in .xlsx are read
// with LoadExcel, everything else as CSV.
func Load(path string, opts *Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadExcel(path, opts)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := LoadCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// LoadCSV reads a population table from r.
func LoadCSV(r io.Reader, opts *Options) (*Table, error) {
	opts = withDefaults(opts, LayoutLong)

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if opts.Layout == LayoutWide {
		return fromWideRows(rows)
	}
	return fromLongRows(rows, opts.YearColumn)
}

func withDefaults(opts *Options, layout Layout) *Options {
	out := DefaultOptions()
	out.Layout = layout
	if opts == nil {
		return out
	}
	if opts.Layout != "" {
		out.Layout = opts.Layout
	}
	if opts.YearColumn != "" {
		out.YearColumn = opts.YearColumn
	}
	if opts.Delimiter != 0 {
		out.Delimiter = opts.Delimiter
	}
	out.Sheet = opts.Sheet
	return out
}
