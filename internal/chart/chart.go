// Package chart renders monthly series as PNG line charts.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 5 * vg.Inch
	DefaultDPI    = 200
)

// Palette holds the line colors used in order.
var Palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255}, // blue
	{R: 255, G: 127, B: 14, A: 255}, // orange
	{R: 44, G: 160, B: 44, A: 255},  // green
	{R: 214, G: 39, B: 40, A: 255},  // red
}

// Line is one plotted series. NaN values break the line.
type Line struct {
	Label  string
	Values []float64
	Color  color.RGBA // Zero value picks from Palette
}

// Chart is a line chart over a shared month axis.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length // Zero means DefaultWidth
	Height vg.Length // Zero means DefaultHeight
	DPI    int       // Zero means DefaultDPI
	Dates  []time.Time
	Lines  []Line
}

// Plot builds the gonum plot for the chart.
func (c *Chart) Plot() (*plot.Plot, error) {
	for _, l := range c.Lines {
		if len(l.Values) != len(c.Dates) {
			return nil, fmt.Errorf("line %q has %d values for %d dates", l.Label, len(l.Values), len(c.Dates))
		}
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	if len(c.Dates) > 0 {
		p.X.Min = float64(c.Dates[0].Unix())
		p.X.Max = float64(c.Dates[len(c.Dates)-1].Unix())
	}

	for i, l := range c.Lines {
		col := l.Color
		if col == (color.RGBA{}) {
			col = Palette[i%len(Palette)]
		}
		style := draw.LineStyle{Color: col, Width: vg.Points(1.2)}

		for _, seg := range Segments(c.Dates, l.Values) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, fmt.Errorf("line %q: %w", l.Label, err)
			}
			line.LineStyle = style
			p.Add(line)

			if len(seg) == 1 {
				dot, err := plotter.NewScatter(seg)
				if err != nil {
					return nil, fmt.Errorf("line %q: %w", l.Label, err)
				}
				dot.GlyphStyle.Color = col
				dot.GlyphStyle.Radius = vg.Points(1)
				p.Add(dot)
			}
		}

		if l.Label != "" {
			p.Legend.Add(l.Label, &plotter.Line{LineStyle: style})
		}
	}

	return p, nil
}

// Segments splits a series into runs of finite values. Each run becomes
// its own polyline so missing months show as gaps. X is Unix seconds.
func Segments(dates []time.Time, values []float64) []plotter.XYs {
	var (
		segs []plotter.XYs
		cur  plotter.XYs
	)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(dates[i].Unix()), Y: v})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// Encode renders the chart and writes it as PNG.
func (c *Chart) Encode(w io.Writer) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}

	width, height, dpi := c.Width, c.Height, c.DPI
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if dpi == 0 {
		dpi = DefaultDPI
	}

	canvas := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(canvas))

	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(w); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}

// WriteFile renders the chart to a PNG file.
func (c *Chart) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
