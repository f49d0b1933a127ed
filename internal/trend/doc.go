// Package trend estimates the year a species' population trend reaches zero.
//
// A TimeSeries holds yearly population counts for one species; years may be
// irregular and values may be missing. FitAndEstimate fits an ordinary
// least-squares line to the present values and solves for the zero crossing:
//
//	series := trend.NewSeries("Panthera onca",
//	    trend.Observed(1990, 100),
//	    trend.Missing(1995),
//	    trend.Observed(2000, 50),
//	    trend.Observed(2010, 0),
//	)
//	est := trend.FitAndEstimate(series)
//	if est.Computable() {
//	    fmt.Println(est.Year) // 2010
//	}
//
// # Outcomes
//
// Degenerate inputs are ordinary results, not errors:
//
//   - InsufficientData: fewer than two present values
//   - DegenerateYears: every present value shares one year
//   - FlatTrend: the fitted slope is exactly zero
//   - NonPositiveResult: the line reaches zero at year 0 or earlier
//
// # Pooled slope
//
// FitPooled fits one slope across several series and EstimateWithSlope reuses
// it for a species with few observations of its own.
//
// # Charts
//
// RenderTrend and RenderEstimate draw the observations and the fitted line
// as PNG bytes using gonum/plot.
package trend
