package trend

import (
	"errors"
	"fmt"
	"math"
)

// Outcome classifies the result of an extinction estimate. Every value other
// than OK means no extinction year could be derived.
type Outcome int

const (
	OK Outcome = iota
	InsufficientData
	DegenerateYears
	FlatTrend
	NonPositiveResult
)

// MinPoints is the smallest valid subset a line is fitted to.
const MinPoints = 2

const maxYear = 1 << 53

var (
	ErrInsufficientData  = errors.New("fewer than 2 population values")
	ErrDegenerateYears   = errors.New("all population values share one year")
	ErrFlatTrend         = errors.New("trend is flat and never reaches zero")
	ErrNonPositiveResult = errors.New("trend reaches zero at a non-positive year")
	ErrNotComputable     = errors.New("extinction year not computable")
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case InsufficientData:
		return "INSUFFICIENT_DATA"
	case DegenerateYears:
		return "DEGENERATE_YEARS"
	case FlatTrend:
		return "FLAT_TREND"
	case NonPositiveResult:
		return "NON_POSITIVE_RESULT"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Err returns the sentinel error for o, or nil for OK.
func (o Outcome) Err() error {
	switch o {
	case OK:
		return nil
	case InsufficientData:
		return ErrInsufficientData
	case DegenerateYears:
		return ErrDegenerateYears
	case FlatTrend:
		return ErrFlatTrend
	case NonPositiveResult:
		return ErrNonPositiveResult
	}
	return ErrNotComputable
}

// Fit is an ordinary least-squares line over the valid subset of a series.
type Fit struct {
	Slope     float64
	Intercept float64
	Points    []Point
}

// Predict returns the fitted population at year.
func (f Fit) Predict(year float64) float64 {
	return f.Slope*year + f.Intercept
}

// Fitted returns the fitted population for every year in the valid subset.
func (f Fit) Fitted() []Point {
	out := make([]Point, len(f.Points))
	for i, p := range f.Points {
		out[i] = Observed(p.Year, f.Predict(float64(p.Year)))
	}
	return out
}

// RSS is the residual sum of squares of the fit over its points.
func (f Fit) RSS() float64 {
	rss := 0.0
	for _, p := range f.Points {
		r := p.Population - f.Predict(float64(p.Year))
		rss += r * r
	}
	return rss
}

// ZeroCrossing returns the unrounded year at which the line reaches zero.
// It is ±Inf or NaN for a flat line.
func (f Fit) ZeroCrossing() float64 {
	return -f.Intercept / f.Slope
}

// Estimate is the result of FitAndEstimate. Fit is nil when no line could be
// fitted (InsufficientData, DegenerateYears).
type Estimate struct {
	Species string
	Outcome Outcome
	Year    int
	Raw     float64
	Fit     *Fit
}

// Computable reports whether Year holds an extinction year.
func (e Estimate) Computable() bool {
	return e.Outcome == OK
}

// Err returns nil for a computable estimate and the outcome's sentinel error
// otherwise.
func (e Estimate) Err() error {
	return e.Outcome.Err()
}

func (e Estimate) String() string {
	if e.Computable() {
		return fmt.Sprintf("%s: extinction year %d", e.Species, e.Year)
	}
	return fmt.Sprintf("%s: %s", e.Species, e.Outcome)
}

// FitLine fits an OLS line to points. Points with a missing population are
// ignored. The outcome is InsufficientData or DegenerateYears when no line
// exists, OK otherwise.
func FitLine(points []Point) (Fit, Outcome) {
	valid := make([]Point, 0, len(points))
	for _, p := range points {
		if p.valid() {
			valid = append(valid, p)
		}
	}
	sortPoints(valid)

	if len(valid) < MinPoints {
		return Fit{Points: valid}, InsufficientData
	}

	meanYear, meanPop := means(valid)

	num, den := 0.0, 0.0
	for _, p := range valid {
		dx := float64(p.Year) - meanYear
		num += dx * (p.Population - meanPop)
		den += dx * dx
	}
	if den == 0 {
		return Fit{Points: valid}, DegenerateYears
	}

	slope := num / den
	return Fit{
		Slope:     slope,
		Intercept: meanPop - slope*meanYear,
		Points:    valid,
	}, OK
}

// FitAndEstimate fits a trend to series and derives the year at which the
// trend reaches zero population.
func FitAndEstimate(series TimeSeries) Estimate {
	fit, outcome := FitLine(series.Points)
	if outcome != OK {
		return Estimate{Species: series.Name, Outcome: outcome}
	}
	return extinctionYear(series.Name, fit)
}

// extinctionYear applies the flat-trend and positive-year rules to a fit.
func extinctionYear(species string, fit Fit) Estimate {
	est := Estimate{Species: species, Fit: &fit}
	// Sums that overflow leave no representable crossing.
	if !finite(fit.Slope) || !finite(fit.Intercept) || fit.Slope == 0 {
		est.Outcome = FlatTrend
		return est
	}

	est.Raw = fit.ZeroCrossing()
	rounded := math.Round(est.Raw)
	if math.IsNaN(rounded) {
		est.Outcome = FlatTrend
		return est
	}
	if rounded <= 0 {
		est.Outcome = NonPositiveResult
		return est
	}
	// A slope so close to zero that the crossing overflows is flat in practice.
	if math.IsInf(rounded, 1) || rounded >= maxYear {
		est.Outcome = FlatTrend
		return est
	}

	est.Year = int(rounded)
	est.Outcome = OK
	return est
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func means(points []Point) (meanYear, meanPop float64) {
	sumYear, sumPop := 0.0, 0.0
	for _, p := range points {
		sumYear += float64(p.Year)
		sumPop += p.Population
	}
	n := float64(len(points))
	return sumYear / n, sumPop / n
}
