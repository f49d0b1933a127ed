package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"speciestrend/internal/trend"
)

const (
	summarySheet = "Summary"
	yearlySheet  = "Yearly_Data"
	legendSheet  = "Outcomes"
)

var outcomeLegend = []struct {
	Outcome     trend.Outcome
	Description string
}{
	{trend.OK, "Extinction year derived from the fitted trend"},
	{trend.InsufficientData, "Fewer than 2 valid population values"},
	{trend.DegenerateYears, "All valid values fall in a single year"},
	{trend.FlatTrend, "Trend is flat and never reaches zero"},
	{trend.NonPositiveResult, "Trend reaches zero at a non-positive year"},
}

// WriteWorkbook writes the summary, yearly data and outcome legend sheets to path.
func WriteWorkbook(path string, models []SpeciesModel, referenceYear int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Species", "Scientific Name", "Status", "Outcome",
		"Extinction Year", "Raw Crossing", fmt.Sprintf("Years From %d", referenceYear),
		"Risk Level", "Slope (per year)", "Intercept", "Valid Points",
		"First Year", "Last Year", "Peak Year", "Peak Population",
		"Latest Population", "Avg Annual Change", "Volatility (%)"}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, header)
		f.SetColWidth(summarySheet, columnName(i+1), columnName(i+1), 18)
	}

	for i, m := range models {
		row := i + 2
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), m.Species)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), m.Info.ScientificName)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), m.Info.Status)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), m.Estimate.Outcome.String())
		if m.Estimate.Computable() {
			f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), m.Estimate.Year)
			f.SetCellValue(summarySheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%.2f", m.Estimate.Raw))
			f.SetCellValue(summarySheet, fmt.Sprintf("G%d", row), m.YearsRemaining)
		}
		f.SetCellValue(summarySheet, fmt.Sprintf("H%d", row), m.RiskLevel)
		if fit := m.Estimate.Fit; fit != nil {
			f.SetCellValue(summarySheet, fmt.Sprintf("I%d", row), fit.Slope)
			f.SetCellValue(summarySheet, fmt.Sprintf("J%d", row), fit.Intercept)
		}
		f.SetCellValue(summarySheet, fmt.Sprintf("K%d", row), m.ValidPoints)
		if m.ValidPoints > 0 {
			f.SetCellValue(summarySheet, fmt.Sprintf("L%d", row), m.FirstYear)
			f.SetCellValue(summarySheet, fmt.Sprintf("M%d", row), m.LastYear)
			f.SetCellValue(summarySheet, fmt.Sprintf("N%d", row), m.PeakYear)
			f.SetCellValue(summarySheet, fmt.Sprintf("O%d", row), m.PeakPopulation)
			f.SetCellValue(summarySheet, fmt.Sprintf("P%d", row), m.LatestPopulation)
		}
		f.SetCellValue(summarySheet, fmt.Sprintf("Q%d", row), fmt.Sprintf("%.2f", m.AverageChange))
		f.SetCellValue(summarySheet, fmt.Sprintf("R%d", row), fmt.Sprintf("%.2f", m.Volatility))
	}

	if _, err := f.NewSheet(yearlySheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	writeYearlySheet(f, models)

	if _, err := f.NewSheet(legendSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetCellValue(legendSheet, "A1", "Outcome")
	f.SetCellValue(legendSheet, "B1", "Meaning")
	f.SetColWidth(legendSheet, "A", "A", 22)
	f.SetColWidth(legendSheet, "B", "B", 50)
	for i, l := range outcomeLegend {
		row := i + 2
		f.SetCellValue(legendSheet, fmt.Sprintf("A%d", row), l.Outcome.String())
		f.SetCellValue(legendSheet, fmt.Sprintf("B%d", row), l.Description)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeYearlySheet lays out one row per year and one column per species.
// Missing observations are left blank.
func writeYearlySheet(f *excelize.File, models []SpeciesModel) {
	yearSet := make(map[int]struct{})
	for _, m := range models {
		for year := range m.YearlyData {
			yearSet[year] = struct{}{}
		}
	}
	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)

	f.SetCellValue(yearlySheet, "A1", "Year")
	for j, m := range models {
		cell, _ := excelize.CoordinatesToCellName(j+2, 1)
		f.SetCellValue(yearlySheet, cell, m.Species)
	}

	for i, year := range years {
		row := i + 2
		f.SetCellValue(yearlySheet, fmt.Sprintf("A%d", row), year)
		for j, m := range models {
			if pop, ok := m.YearlyData[year]; ok {
				cell, _ := excelize.CoordinatesToCellName(j+2, row)
				f.SetCellValue(yearlySheet, cell, pop)
			}
		}
	}
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
