package report

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"speciestrend/internal/dataset"
	"speciestrend/internal/trend"
)

// Risk levels assigned to a species.
const (
	RiskExtinctTrend = "EXTINCT_TREND"
	RiskCritical     = "CRITICAL"
	RiskHigh         = "HIGH"
	RiskModerate     = "MODERATE"
	RiskStable       = "STABLE"
	RiskUnknown      = "UNKNOWN"
)

// SpeciesModel is the analysed state of one species.
type SpeciesModel struct {
	Species  string
	Info     dataset.SpeciesInfo
	Estimate trend.Estimate

	// YearsRemaining is Estimate.Year minus the reference year. Only
	// meaningful when Estimate is computable.
	YearsRemaining int
	RiskLevel      string

	ValidPoints         int
	FirstYear, LastYear int
	PeakYear            int
	PeakPopulation      float64
	LatestPopulation    float64
	AverageChange       float64 // mean population change per year
	Volatility          float64 // std dev of year-on-year % change
	YearlyData          map[int]float64
}

// Analyzer builds species models.
type Analyzer struct {
	ReferenceYear   int
	CriticalHorizon int
	Workers         int
	Catalog         *dataset.Catalog
}

// Analyze estimates every series in table. Results keep table order.
func (a *Analyzer) Analyze(table *dataset.Table) []SpeciesModel {
	models := make([]SpeciesModel, table.Len())

	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, series := range table.Series {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, series trend.TimeSeries) {
			defer wg.Done()
			defer func() { <-sem }()
			models[i] = a.buildModel(series)
		}(i, series)
	}
	wg.Wait()

	return models
}

func (a *Analyzer) buildModel(series trend.TimeSeries) SpeciesModel {
	info, _ := a.Catalog.Lookup(series.Name)

	model := SpeciesModel{
		Species:    series.Name,
		Info:       info,
		Estimate:   trend.FitAndEstimate(series),
		YearlyData: make(map[int]float64),
	}

	valid := series.ValidSubset()
	model.ValidPoints = len(valid)
	for _, p := range valid {
		model.YearlyData[p.Year] = p.Population
	}
	if len(valid) > 0 {
		model.FirstYear = valid[0].Year
		model.LastYear = valid[len(valid)-1].Year
		model.LatestPopulation = valid[len(valid)-1].Population
		model.PeakYear, model.PeakPopulation = findPeak(valid)
	}

	model.AverageChange = averageAnnualChange(valid)
	model.Volatility = volatility(yearlyChangeRates(valid))

	if model.Estimate.Computable() {
		model.YearsRemaining = model.Estimate.Year - a.ReferenceYear
	}
	model.RiskLevel = assessRiskLevel(model.Estimate, model.YearsRemaining, a.CriticalHorizon)

	return model
}

// assessRiskLevel maps an estimate to a risk level. A flat or rising line is
// STABLE regardless of where it crosses zero; a fit that overflowed is UNKNOWN.
func assessRiskLevel(est trend.Estimate, yearsRemaining, horizon int) string {
	if fit := est.Fit; fit != nil && !math.IsNaN(fit.Slope) && !math.IsInf(fit.Slope, 0) &&
		(est.Outcome == trend.FlatTrend || fit.Slope > 0) {
		return RiskStable
	}
	if !est.Computable() {
		return RiskUnknown
	}
	switch {
	case yearsRemaining <= 0:
		return RiskExtinctTrend
	case yearsRemaining <= horizon:
		return RiskCritical
	case yearsRemaining <= 2*horizon:
		return RiskHigh
	}
	return RiskModerate
}

func findPeak(valid []trend.Point) (int, float64) {
	peakYear := valid[0].Year
	peakPop := valid[0].Population

	for _, p := range valid[1:] {
		if p.Population > peakPop {
			peakPop = p.Population
			peakYear = p.Year
		}
	}

	return peakYear, peakPop
}

// averageAnnualChange is the mean change per elapsed year between the first
// and last observation.
func averageAnnualChange(valid []trend.Point) float64 {
	if len(valid) < 2 {
		return 0
	}
	first, last := valid[0], valid[len(valid)-1]
	span := last.Year - first.Year
	if span == 0 {
		return 0
	}
	return (last.Population - first.Population) / float64(span)
}

func yearlyChangeRates(valid []trend.Point) []float64 {
	var rates []float64

	for i := 1; i < len(valid); i++ {
		prev, cur := valid[i-1], valid[i]
		if prev.Population > 0 && cur.Year != prev.Year {
			rate := ((cur.Population - prev.Population) / prev.Population) * 100
			rates = append(rates, rate)
		}
	}

	return rates
}

// volatility is the population standard deviation of the year-on-year
// percentage changes; zero with fewer than two changes.
func volatility(rates []float64) float64 {
	if len(rates) < 2 {
		return 0
	}
	return stat.PopStdDev(rates, nil)
}

func formatNumber(num float64) string {
	abs := math.Abs(num)
	if abs >= 1000000 {
		return fmt.Sprintf("%.2fM", num/1000000)
	} else if abs >= 1000 {
		return fmt.Sprintf("%.1fK", num/1000)
	}
	return fmt.Sprintf("%.0f", num)
}

func formatYear(m SpeciesModel) string {
	if !m.Estimate.Computable() {
		return m.Estimate.Outcome.String()
	}
	return fmt.Sprintf("%d", m.Estimate.Year)
}

// summarize counts models per risk level.
func summarize(models []SpeciesModel) map[string]int {
	counts := make(map[string]int)
	for _, m := range models {
		counts[m.RiskLevel]++
	}
	return counts
}
