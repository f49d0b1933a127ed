package trend

import (
	"math"
	"sort"
)

// Point is one yearly population observation. A point with Present == false
// is a gap in the record.
type Point struct {
	Year       int
	Population float64
	Present    bool
}

// Observed returns a point with a recorded population.
func Observed(year int, population float64) Point {
	return Point{Year: year, Population: population, Present: true}
}

// Missing returns a gap at year.
func Missing(year int) Point {
	return Point{Year: year}
}

// valid reports whether the point can take part in a fit.
func (p Point) valid() bool {
	return p.Present && !math.IsNaN(p.Population) && !math.IsInf(p.Population, 0)
}

// TimeSeries holds the population history of a single species.
type TimeSeries struct {
	Name   string
	Points []Point
}

// NewSeries creates a series from points in the order given.
func NewSeries(name string, points ...Point) TimeSeries {
	ps := make([]Point, len(points))
	copy(ps, points)
	return TimeSeries{Name: name, Points: ps}
}

// FromMap builds a series from a year -> population map, ordered by year.
// NaN values are kept as gaps.
func FromMap(name string, yearly map[int]float64) TimeSeries {
	years := make([]int, 0, len(yearly))
	for year := range yearly {
		years = append(years, year)
	}
	sort.Ints(years)

	points := make([]Point, 0, len(years))
	for _, year := range years {
		v := yearly[year]
		if math.IsNaN(v) {
			points = append(points, Missing(year))
			continue
		}
		points = append(points, Observed(year, v))
	}
	return TimeSeries{Name: name, Points: points}
}

// Len returns the number of points, gaps included.
func (s TimeSeries) Len() int {
	return len(s.Points)
}

// Years returns the distinct years of the series in ascending order.
func (s TimeSeries) Years() []int {
	seen := make(map[int]bool, len(s.Points))
	years := make([]int, 0, len(s.Points))
	for _, p := range s.Points {
		if !seen[p.Year] {
			seen[p.Year] = true
			years = append(years, p.Year)
		}
	}
	sort.Ints(years)
	return years
}

// ValidSubset returns a copy of the points with a usable population, sorted
// by year and then population.
func (s TimeSeries) ValidSubset() []Point {
	valid := make([]Point, 0, len(s.Points))
	for _, p := range s.Points {
		if p.valid() {
			valid = append(valid, p)
		}
	}
	sortPoints(valid)
	return valid
}

// Usable reports whether the series has at least one present value.
func (s TimeSeries) Usable() bool {
	for _, p := range s.Points {
		if p.valid() {
			return true
		}
	}
	return false
}

func sortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Population < points[j].Population
	})
}
