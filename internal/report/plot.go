package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	pageWidth  = 11.69 * vg.Inch
	pageHeight = 8.27 * vg.Inch
	pagePad    = 0.3 * vg.Inch

	maxLabelRunes = 60
)

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// newPlot draws chart as a bar plot. Horizontal charts list the first bar
// at the top. Category tick labels are sized by the axis, so long labels
// widen the margin they need.
func newPlot(chart Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(11)
	p.X.Tick.Label.Font.Size = vg.Points(8)
	p.Y.Tick.Label.Font.Size = vg.Points(8)

	if len(chart.Bars) == 0 {
		p.Title.Text += " (no data)"
		return p, nil
	}

	bars := chart.Bars
	if chart.Orientation == Horizontal {
		bars = reversed(bars)
	}

	labels := make([]string, len(bars))
	values := make(plotter.Values, len(bars))
	for i, b := range bars {
		labels[i] = truncate(b.Label, maxLabelRunes)
		values[i] = b.Value
	}

	bc, err := plotter.NewBarChart(values, barWidth(chart))
	if err != nil {
		return nil, fmt.Errorf("bar chart %q: %w", chart.Title, err)
	}
	bc.Color = barColor
	bc.LineStyle.Width = 0
	bc.Horizontal = chart.Orientation == Horizontal
	p.Add(bc)

	if bc.Horizontal {
		p.NominalY(labels...)
		p.X.Label.Text = chart.Series
		p.X.Min = 0
	} else {
		p.NominalX(labels...)
		p.Y.Label.Text = chart.Series
		p.Y.Min = 0
		if longestLabel(bars) > 3 {
			p.X.Tick.Label.Rotation = math.Pi / 2
			p.X.Tick.Label.XAlign = text.XRight
			p.X.Tick.Label.YAlign = text.YCenter
		}
	}

	if chart.Legend {
		p.Legend.Add(chart.Series, bc)
		p.Legend.Top = true
	}

	return p, nil
}

// drawPage draws p onto c inside the page padding.
func drawPage(p *plot.Plot, c vg.CanvasSizer) {
	dc := draw.New(c)
	p.Draw(draw.Crop(dc, pagePad, -pagePad, pagePad, -pagePad))
}

func barWidth(chart Chart) vg.Length {
	span := pageWidth * 0.8
	if chart.Orientation == Horizontal {
		span = pageHeight * 0.7
	}
	w := span / vg.Length(len(chart.Bars)) * 0.6
	return min(w, vg.Points(40))
}

func reversed(bars []Bar) []Bar {
	out := make([]Bar, len(bars))
	for i, b := range bars {
		out[len(bars)-1-i] = b
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
