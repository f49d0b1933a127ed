package occurrence

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoLocatedRecords is returned by RenderMarkers when no record has
// coordinates.
var ErrNoLocatedRecords = errors.New("no located occurrence records")

// RenderMarkers plots located records on a longitude/latitude grid and
// returns the chart as PNG bytes.
func RenderMarkers(title string, records []Record) ([]byte, error) {
	located := Located(records)
	if len(located) == 0 {
		return nil, ErrNoLocatedRecords
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -90, 90

	points := make(plotter.XYs, len(located))
	labels := make([]string, len(located))
	for i, r := range located {
		points[i].X = *r.Longitude
		points[i].Y = *r.Latitude
		labels[i] = r.Country
	}

	markers, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("markers: %w", err)
	}
	markers.GlyphStyle.Color = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	markers.GlyphStyle.Radius = vg.Points(3)
	markers.GlyphStyle.Shape = draw.PyramidGlyph{}

	countryLabels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    points,
		Labels: labels,
	})
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}

	p.Add(plotter.NewGrid(), markers, countryLabels)

	w, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
