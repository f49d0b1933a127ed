package report

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"speciestrend/internal/trend"
)

// ErrNothingToPlot is returned when no species has a computable estimate.
var ErrNothingToPlot = errors.New("no computable estimates to plot")

var riskColors = map[string]color.RGBA{
	RiskExtinctTrend: {R: 90, G: 90, B: 90, A: 255},
	RiskCritical:     {R: 200, G: 30, B: 30, A: 255},
	RiskHigh:         {R: 240, G: 130, B: 30, A: 255},
	RiskModerate:     {R: 70, G: 130, B: 180, A: 255},
}

// WriteTrendCharts renders one PNG per computable species into dir and
// returns the written paths. Species whose chart fails are logged and skipped.
func WriteTrendCharts(dir string, models []SpeciesModel) []string {
	var written []string
	used := make(map[string]bool)
	for _, m := range models {
		if !m.Estimate.Computable() {
			continue
		}
		png, err := trend.RenderEstimate(m.Estimate)
		if err != nil {
			log.Printf("[WARN] chart for %s: %v", m.Species, err)
			continue
		}
		path := filepath.Join(dir, uniqueName(chartFileName(m.Species), used))
		if err := os.WriteFile(path, png, 0o644); err != nil {
			log.Printf("[WARN] write chart for %s: %v", m.Species, err)
			continue
		}
		written = append(written, path)
	}
	return written
}

// WriteYearsRemainingChart draws a bar per computable species, sorted by
// years remaining, coloured by risk level.
func WriteYearsRemainingChart(path string, models []SpeciesModel, referenceYear int) error {
	var computable []SpeciesModel
	for _, m := range models {
		if m.Estimate.Computable() && m.RiskLevel != RiskStable {
			computable = append(computable, m)
		}
	}
	if len(computable) == 0 {
		return ErrNothingToPlot
	}
	sort.SliceStable(computable, func(i, j int) bool {
		return computable[i].YearsRemaining < computable[j].YearsRemaining
	})

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Years to projected extinction (from %d)", referenceYear)
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Species"
	p.Y.Label.Text = "Years"

	labels := make([]string, len(computable))
	minVal, maxVal := 0.0, 0.0
	for i, m := range computable {
		labels[i] = m.Species
		v := float64(m.YearsRemaining)
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)

		// One bar chart per bar so each can carry its risk colour.
		values := make(plotter.Values, len(computable))
		values[i] = v
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = riskColors[m.RiskLevel]
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
	}

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	span := maxVal - minVal
	if span == 0 {
		span = 1
	}
	p.Y.Min = minVal - span*0.1
	p.Y.Max = maxVal + span*0.15

	for i, m := range computable {
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: float64(i), Y: float64(m.YearsRemaining) + span*0.02}},
			Labels: []string{fmt.Sprintf("%d", m.Estimate.Year)},
		})
		if err == nil {
			p.Add(label)
		}
	}
	p.Add(plotter.NewGrid())

	width := vg.Length(math.Max(8, float64(len(computable))*0.6)) * vg.Inch
	if err := p.Save(width, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// chartFileName turns a species name into a PNG file name. Letters and digits
// of any script are kept; spaces, dashes and underscores become underscores.
func chartFileName(species string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(species) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	name := b.String()
	if strings.Trim(name, "_") == "" {
		name = "species"
	}
	return "trend_" + name + ".png"
}

// uniqueName returns name, or name with a numeric suffix when it was already
// handed out, and marks the result as used.
func uniqueName(name string, used map[string]bool) string {
	base := strings.TrimSuffix(name, ".png")
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d.png", base, n)
	}
	used[candidate] = true
	return candidate
}
