package dataset

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads a population table from an Excel workbook. Workbooks are
// read as wide tables (one row per species) unless opts says otherwise.
func LoadExcel(path string, opts *Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return tableFromWorkbook(f, opts)
}

// LoadExcelReader is LoadExcel for an in-memory workbook.
func LoadExcelReader(r io.Reader, opts *Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return tableFromWorkbook(f, opts)
}

func tableFromWorkbook(f *excelize.File, opts *Options) (*Table, error) {
	opts = withDefaults(opts, LayoutWide)

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	if opts.Layout == LayoutLong {
		return fromLongRows(rows, opts.YearColumn)
	}
	return fromWideRows(rows)
}
