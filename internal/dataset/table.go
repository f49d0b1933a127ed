// Package dataset loads yearly population tables and species metadata.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"speciestrend/internal/trend"
)

// Layout describes how a population table is oriented.
type Layout string

const (
	// LayoutLong has one row per year and one column per species.
	LayoutLong Layout = "long"
	// LayoutWide has one row per species and one column per year.
	LayoutWide Layout = "wide"
)

// ErrNoData is returned when a table has no usable rows.
var ErrNoData = errors.New("no population data found")

// Options controls table loading.
type Options struct {
	Layout     Layout // default: LayoutLong for CSV, LayoutWide for Excel
	YearColumn string // header of the year column in long tables (default "Año")
	Sheet      string // Excel sheet (default: first sheet)
	Delimiter  rune   // CSV field delimiter (default ',')
}

// DefaultOptions returns the options used when nil is passed to a loader.
func DefaultOptions() *Options {
	return &Options{
		Layout:     LayoutLong,
		YearColumn: "Año",
		Delimiter:  ',',
	}
}

// Table is a set of named population series.
type Table struct {
	Series []trend.TimeSeries
	index  map[string]int
}

// NewTable builds a table from series, keeping their order.
func NewTable(series ...trend.TimeSeries) *Table {
	t := &Table{Series: series, index: make(map[string]int, len(series))}
	for i, s := range series {
		t.index[s.Name] = i
	}
	return t
}

// Names returns species names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Series))
	for i, s := range t.Series {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the series for name.
func (t *Table) Lookup(name string) (trend.TimeSeries, bool) {
	i, ok := t.index[name]
	if !ok {
		return trend.TimeSeries{}, false
	}
	return t.Series[i], true
}

// Len returns the number of species.
func (t *Table) Len() int {
	return len(t.Series)
}

// fromLongRows parses rows whose header holds the year column followed by one
// column per species.
func fromLongRows(rows [][]string, yearColumn string) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	header := rows[0]
	yearIdx := -1
	for i, h := range header {
		if cleanCell(h) == yearColumn {
			yearIdx = i
			break
		}
	}
	if yearIdx == -1 {
		return nil, fmt.Errorf("year column %q not found", yearColumn)
	}

	var names []string
	var cols []int
	for i, h := range header {
		if i == yearIdx || cleanCell(h) == "" {
			continue
		}
		names = append(names, cleanCell(h))
		cols = append(cols, i)
	}
	points := make([][]trend.Point, len(names))

	parsed := 0
	for _, record := range rows[1:] {
		if yearIdx >= len(record) {
			continue
		}
		year, ok := parseYear(record[yearIdx])
		if !ok {
			continue
		}
		parsed++
		for j, col := range cols {
			var cell string
			if col < len(record) {
				cell = record[col]
			}
			points[j] = append(points[j], parsePoint(year, cell))
		}
	}

	series := make([]trend.TimeSeries, len(names))
	for j, name := range names {
		series[j] = trend.NewSeries(name, points[j]...)
	}
	if len(series) == 0 || parsed == 0 {
		return nil, ErrNoData
	}
	return NewTable(series...), nil
}

// fromWideRows parses rows whose first column is the species name and whose
// remaining header cells are years. Non-numeric header cells are skipped.
func fromWideRows(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, ErrNoData
	}

	header := rows[0]
	years := make(map[int]int)
	for i := 1; i < len(header); i++ {
		if year, ok := parseYear(header[i]); ok {
			years[i] = year
		}
	}
	if len(years) == 0 {
		return nil, errors.New("no year columns in header")
	}

	var series []trend.TimeSeries
	for _, record := range rows[1:] {
		if len(record) == 0 {
			continue
		}
		name := cleanCell(record[0])
		if name == "" {
			continue
		}
		points := make([]trend.Point, 0, len(years))
		for i := 1; i < len(header); i++ {
			year, ok := years[i]
			if !ok {
				continue
			}
			var cell string
			if i < len(record) {
				cell = record[i]
			}
			points = append(points, parsePoint(year, cell))
		}
		series = append(series, trend.NewSeries(name, points...))
	}

	if len(series) == 0 {
		return nil, ErrNoData
	}
	return NewTable(series...), nil
}

// cleanCell trims quotes, whitespace and the byte order mark that Excel
// writes at the start of UTF-8 CSV exports.
func cleanCell(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\ufeff")
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func parseYear(s string) (int, bool) {
	s = cleanCell(s)
	if year, err := strconv.Atoi(s); err == nil {
		return year, true
	}
	// Spreadsheets often store years as floats ("1990.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// parsePoint turns a table cell into a point; anything that is not a finite
// number is a gap.
func parsePoint(year int, cell string) trend.Point {
	s := cleanCell(cell)
	switch s {
	case "", "NA", "NaN", "nan", "null", "-":
		return trend.Missing(year)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return trend.Missing(year)
	}
	return trend.Observed(year, v)
}
