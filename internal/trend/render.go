package trend

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart size used by RenderTrend.
var (
	ChartWidth  = 8 * vg.Inch
	ChartHeight = 4 * vg.Inch
)

var (
	observedColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	trendColor    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// RenderTrend draws the valid subset of series as a scatter with the fitted
// line over the same years and returns the chart as PNG bytes.
func RenderTrend(series TimeSeries, fit Fit) ([]byte, error) {
	p, err := trendPlot(series.Name, series.ValidSubset(), fit)
	if err != nil {
		return nil, err
	}
	return encodePNG(p)
}

// RenderEstimate renders the chart for a computable estimate. Estimates
// without an extinction year produce ErrNotComputable and no chart.
func RenderEstimate(est Estimate) ([]byte, error) {
	if !est.Computable() || est.Fit == nil {
		return nil, fmt.Errorf("render %s: %w", est.Species, ErrNotComputable)
	}
	p, err := trendPlot(est.Species, est.Fit.Points, *est.Fit)
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("%s (extinction ~%d)", est.Species, est.Year)
	return encodePNG(p)
}

func trendPlot(name string, valid []Point, fit Fit) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Estimated population"

	observed := make(plotter.XYs, len(valid))
	for i, pt := range valid {
		observed[i].X = float64(pt.Year)
		observed[i].Y = pt.Population
	}

	scatter, err := plotter.NewScatter(observed)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	scatter.GlyphStyle.Color = observedColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	fitted := fit.Fitted()
	predicted := make(plotter.XYs, len(fitted))
	for i, pt := range fitted {
		predicted[i].X = float64(pt.Year)
		predicted[i].Y = pt.Population
	}

	line, err := plotter.NewLine(predicted)
	if err != nil {
		return nil, fmt.Errorf("trend line: %w", err)
	}
	line.Color = trendColor
	line.Width = vg.Points(1.5)
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(plotter.NewGrid(), scatter, line)
	p.Legend.Add(name, scatter)
	p.Legend.Add("Trend", line)
	p.Legend.Top = true

	return p, nil
}

func encodePNG(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
