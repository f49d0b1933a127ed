package trend

// PooledMinPoints is the number of valid points a series needs, exclusive,
// to contribute to a pooled fit.
const PooledMinPoints = 2

// FitPooled fits a single line over the points of every series with more than
// PooledMinPoints valid values. The slope describes a typical decline across
// species that are already extinct or close to it.
func FitPooled(series ...TimeSeries) (Fit, Outcome) {
	var pooled []Point
	for _, s := range series {
		valid := s.ValidSubset()
		if len(valid) <= PooledMinPoints {
			continue
		}
		pooled = append(pooled, valid...)
	}
	return FitLine(pooled)
}

// EstimateWithSlope estimates the extinction year of series using a fixed
// slope, typically one from FitPooled. The intercept is anchored to the
// series' own mean year and population.
func EstimateWithSlope(series TimeSeries, slope float64) Estimate {
	valid := series.ValidSubset()
	if len(valid) < MinPoints {
		return Estimate{Species: series.Name, Outcome: InsufficientData}
	}

	meanYear, meanPop := means(valid)
	fit := Fit{
		Slope:     slope,
		Intercept: meanPop - slope*meanYear,
		Points:    valid,
	}
	return extinctionYear(series.Name, fit)
}
