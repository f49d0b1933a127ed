package trend

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestFitAndEstimate_KnownCase(t *testing.T) {
	series := NewSeries("known",
		Observed(1990, 100),
		Observed(2000, 50),
		Observed(2010, 0),
	)

	est := FitAndEstimate(series)
	if est.Outcome != OK {
		t.Fatalf("expected OK, got %s", est.Outcome)
	}
	if est.Fit.Slope != -5 {
		t.Errorf("expected slope -5, got %v", est.Fit.Slope)
	}
	// -5*2010 + b = 0
	if est.Fit.Intercept != 10050 {
		t.Errorf("expected intercept 10050, got %v", est.Fit.Intercept)
	}
	if est.Year != 2010 {
		t.Errorf("expected extinction year 2010, got %d", est.Year)
	}
	if est.Raw != 2010 {
		t.Errorf("expected raw crossing exactly 2010, got %v", est.Raw)
	}
	if est.Err() != nil {
		t.Errorf("unexpected error: %v", est.Err())
	}
}

func TestFitAndEstimate_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		points  []Point
		outcome Outcome
		err     error
		hasFit  bool
	}{
		{
			name:    "single present value",
			points:  []Point{Observed(2000, 50), Missing(2001), Missing(2002)},
			outcome: InsufficientData,
			err:     ErrInsufficientData,
		},
		{
			name:    "empty",
			points:  nil,
			outcome: InsufficientData,
			err:     ErrInsufficientData,
		},
		{
			name:    "NaN counts as missing",
			points:  []Point{Observed(2000, 50), Observed(2001, math.NaN())},
			outcome: InsufficientData,
			err:     ErrInsufficientData,
		},
		{
			name:    "same year twice",
			points:  []Point{Observed(2000, 10), Observed(2000, 20)},
			outcome: DegenerateYears,
			err:     ErrDegenerateYears,
		},
		{
			name:    "flat",
			points:  []Point{Observed(2000, 10), Observed(2001, 10), Observed(2002, 10)},
			outcome: FlatTrend,
			err:     ErrFlatTrend,
			hasFit:  true,
		},
		{
			name:    "crosses at year zero",
			points:  []Point{Observed(1, 10), Observed(2, 20)},
			outcome: NonPositiveResult,
			err:     ErrNonPositiveResult,
			hasFit:  true,
		},
		{
			name:    "crosses before year zero",
			points:  []Point{Observed(10, 100), Observed(20, 110)},
			outcome: NonPositiveResult,
			err:     ErrNonPositiveResult,
			hasFit:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := FitAndEstimate(NewSeries(tt.name, tt.points...))
			if est.Outcome != tt.outcome {
				t.Fatalf("expected %s, got %s", tt.outcome, est.Outcome)
			}
			if est.Computable() {
				t.Error("estimate should not be computable")
			}
			if !errors.Is(est.Err(), tt.err) {
				t.Errorf("expected error %v, got %v", tt.err, est.Err())
			}
			if (est.Fit != nil) != tt.hasFit {
				t.Errorf("expected fit present=%v, got %v", tt.hasFit, est.Fit != nil)
			}
			if est.Year != 0 {
				t.Errorf("expected no year, got %d", est.Year)
			}
		})
	}
}

func TestFitAndEstimate_IncreasingTrendCrossesInThePast(t *testing.T) {
	est := FitAndEstimate(NewSeries("growing", Observed(2000, 10), Observed(2010, 20)))
	if est.Outcome != OK {
		t.Fatalf("expected OK, got %s", est.Outcome)
	}
	if est.Year != 1990 {
		t.Errorf("expected 1990, got %d", est.Year)
	}
	if est.Fit.Slope <= 0 {
		t.Errorf("expected positive slope, got %v", est.Fit.Slope)
	}
}

func TestFitAndEstimate_RoundsToNearest(t *testing.T) {
	est := FitAndEstimate(NewSeries("rounding", Observed(2000, 10), Observed(2002, 5.75)))
	if est.Outcome != OK {
		t.Fatalf("expected OK, got %s", est.Outcome)
	}
	if math.Abs(est.Raw-2004.70588235) > 1e-6 {
		t.Errorf("expected raw crossing ~2004.706, got %v", est.Raw)
	}
	if est.Year != 2005 {
		t.Errorf("expected 2005, got %d", est.Year)
	}
}

func TestFitAndEstimate_OverflowingSums(t *testing.T) {
	series := FromMap("huge", map[int]float64{2000: 1.5e308, 2001: 1.5e308, 2002: 0})

	est := FitAndEstimate(series)
	if est.Outcome != FlatTrend {
		t.Fatalf("expected FlatTrend for an overflowing fit, got %s (year %d, raw %v)", est.Outcome, est.Year, est.Raw)
	}
	if est.Computable() || est.Year != 0 {
		t.Errorf("overflowing fit must not yield a year, got %d", est.Year)
	}
	if !errors.Is(est.Err(), ErrFlatTrend) {
		t.Errorf("expected ErrFlatTrend, got %v", est.Err())
	}

	again := FitAndEstimate(series)
	if again.Outcome != est.Outcome || again.Year != est.Year {
		t.Errorf("repeat estimate differs: %+v vs %+v", again, est)
	}
}

func TestFitAndEstimate_CrossingBeyondRepresentableYears(t *testing.T) {
	est := FitAndEstimate(FromMap("tiny", map[int]float64{2000: 1, 2001: 1 - 1e-16}))
	if est.Outcome != FlatTrend {
		t.Fatalf("expected FlatTrend, got %s (raw %v)", est.Outcome, est.Raw)
	}
	if est.Fit == nil || est.Fit.Slope >= 0 {
		t.Errorf("expected a fitted, very slightly declining line, got %+v", est.Fit)
	}
	if est.Raw < maxYear {
		t.Errorf("expected crossing beyond %v, got %v", float64(maxYear), est.Raw)
	}
}

func TestFitAndEstimate_IgnoresMissing(t *testing.T) {
	withGaps := NewSeries("gaps",
		Observed(1990, 100),
		Missing(1995),
		Observed(2000, 50),
		Observed(2005, math.Inf(1)),
		Observed(2010, 0),
	)
	est := FitAndEstimate(withGaps)
	if est.Year != 2010 {
		t.Fatalf("expected 2010, got %d (%s)", est.Year, est.Outcome)
	}
	if len(est.Fit.Points) != 3 {
		t.Errorf("expected 3 points in the valid subset, got %d", len(est.Fit.Points))
	}
}

var referenceDatasets = []struct {
	name   string
	yearly map[int]float64
}{
	{"vaquita", map[int]float64{2001: 340, 2003: 310, 2004: 295, 2008: 240, 2011: 190}},
	{"pangolin", map[int]float64{1980: 12000, 1985: 11500, 1991: 9000, 1999: 8700, 2005: 5000, 2012: 4100, 2020: 900, 2021: math.NaN()}},
	{"kakapo", map[int]float64{2010: 52.5, 2012: 49.1, 2013: 47.8, 2015: 40.2, 2019: 33.3, 2021: 30.0}},
}

func TestFitLine_MatchesReferenceOLS(t *testing.T) {
	for _, ds := range referenceDatasets {
		t.Run(ds.name, func(t *testing.T) {
			series := FromMap(ds.name, ds.yearly)
			fit, outcome := FitLine(series.Points)
			if outcome != OK {
				t.Fatalf("expected OK, got %s", outcome)
			}

			valid := series.ValidSubset()
			xs := make([]float64, len(valid))
			ys := make([]float64, len(valid))
			for i, p := range valid {
				xs[i] = float64(p.Year)
				ys[i] = p.Population
			}
			alpha, beta := stat.LinearRegression(xs, ys, nil, false)

			if relDiff(fit.Slope, beta) > 1e-8 {
				t.Errorf("slope %v differs from reference %v", fit.Slope, beta)
			}
			if relDiff(fit.Intercept, alpha) > 1e-8 {
				t.Errorf("intercept %v differs from reference %v", fit.Intercept, alpha)
			}

			for i, p := range fit.Fitted() {
				want := fit.Slope*float64(p.Year) + fit.Intercept
				if math.Abs(p.Population-want) > 1e-9*math.Max(1, math.Abs(want)) {
					t.Errorf("fitted[%d] = %v, want %v", i, p.Population, want)
				}
			}
		})
	}
}

func TestFitLine_MinimisesResiduals(t *testing.T) {
	for _, ds := range referenceDatasets {
		t.Run(ds.name, func(t *testing.T) {
			fit, outcome := FitLine(FromMap(ds.name, ds.yearly).Points)
			if outcome != OK {
				t.Fatalf("expected OK, got %s", outcome)
			}
			best := fit.RSS()

			perturbed := []Fit{
				{Slope: fit.Slope + 1e-3, Intercept: fit.Intercept, Points: fit.Points},
				{Slope: fit.Slope - 1e-3, Intercept: fit.Intercept, Points: fit.Points},
				{Slope: fit.Slope, Intercept: fit.Intercept + 0.5, Points: fit.Points},
				{Slope: fit.Slope, Intercept: fit.Intercept - 0.5, Points: fit.Points},
			}
			for i, f := range perturbed {
				if f.RSS() < best {
					t.Errorf("perturbation %d lowered RSS: %v < %v", i, f.RSS(), best)
				}
			}
		})
	}
}

func TestFitAndEstimate_Idempotent(t *testing.T) {
	series := FromMap("pangolin", referenceDatasets[1].yearly)
	a := FitAndEstimate(series)
	b := FitAndEstimate(series)

	if a.Outcome != b.Outcome || a.Year != b.Year || a.Raw != b.Raw {
		t.Fatalf("estimates differ: %+v vs %+v", a, b)
	}
	if a.Fit.Slope != b.Fit.Slope || a.Fit.Intercept != b.Fit.Intercept {
		t.Errorf("fits differ: %v/%v vs %v/%v", a.Fit.Slope, a.Fit.Intercept, b.Fit.Slope, b.Fit.Intercept)
	}
}

func TestFitAndEstimate_OrderIndependent(t *testing.T) {
	base := []Point{
		Observed(1980, 12000), Observed(1985, 11500), Missing(1988),
		Observed(1991, 9000), Observed(1999, 8700), Observed(2005, 5000),
		Observed(2012, 4100), Observed(2020, 900),
	}
	want := FitAndEstimate(NewSeries("base", base...))

	permutations := [][]int{
		{7, 6, 5, 4, 3, 2, 1, 0},
		{3, 0, 7, 1, 5, 2, 6, 4},
		{1, 3, 5, 7, 0, 2, 4, 6},
	}
	for _, perm := range permutations {
		shuffled := make([]Point, len(base))
		for i, j := range perm {
			shuffled[i] = base[j]
		}
		got := FitAndEstimate(NewSeries("shuffled", shuffled...))
		if got.Fit.Slope != want.Fit.Slope || got.Fit.Intercept != want.Fit.Intercept {
			t.Errorf("permutation %v: slope/intercept %v/%v, want %v/%v",
				perm, got.Fit.Slope, got.Fit.Intercept, want.Fit.Slope, want.Fit.Intercept)
		}
		if got.Year != want.Year {
			t.Errorf("permutation %v: year %d, want %d", perm, got.Year, want.Year)
		}
	}
}

func TestFitAndEstimate_DoesNotMutateInput(t *testing.T) {
	points := []Point{Observed(2010, 0), Observed(1990, 100), Observed(2000, 50)}
	series := TimeSeries{Name: "input", Points: points}
	FitAndEstimate(series)

	if points[0].Year != 2010 || points[1].Year != 1990 || points[2].Year != 2000 {
		t.Errorf("input order changed: %+v", points)
	}
}

func TestOutcomeString(t *testing.T) {
	if FlatTrend.String() != "FLAT_TREND" {
		t.Errorf("unexpected string %q", FlatTrend.String())
	}
	if Outcome(42).String() != "Outcome(42)" {
		t.Errorf("unexpected string %q", Outcome(42).String())
	}
}

func relDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
