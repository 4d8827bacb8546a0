/*
Copyright © 2026 the ncplot authors.
This file is part of ncplot.

ncplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncplot.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package render draws gridded fields as PNG images: two-dimensional
// fields as heat maps with a colour bar, one-dimensional fields as line
// plots and higher-dimensional fields as histograms.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncplot/colormap"
	"github.com/spatialmodel/ncplot/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default figure settings: 8x6 inches at 100 dots per inch.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	DefaultDPI    = 100
)

const (
	colorBarWidth = 1.2 * vg.Inch
	histBins      = 10
)

// Renderer draws arrays to image files.
type Renderer struct {
	Width, Height vg.Length
	DPI           int

	// Colors is the number of distinct colours used in heat maps.
	Colors int

	Log logrus.FieldLogger
}

// New returns a Renderer with the default figure settings.
func New() *Renderer {
	return &Renderer{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		DPI:    DefaultDPI,
		Colors: 256,
		Log:    logrus.StandardLogger(),
	}
}

// Render draws arr using the given palette and title and saves the result
// as a PNG image at path. Exactly one Figure is used, and it is released
// before Render returns whether or not drawing succeeded. A panic inside
// the plotting library is returned as an error.
func (r *Renderer) Render(arr *dataset.Array, cmap colormap.Name, title, path string) (err error) {
	fig := NewFigure(r.Width, r.Height, r.DPI)
	defer fig.Close()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render: plotting %s: %v", arr.Name, p)
		}
	}()

	dc, err := fig.Canvas()
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return fmt.Errorf("render: %s has no data", arr.Name)
	}
	switch rank := arr.Rank(); {
	case rank == 0:
		return fmt.Errorf("render: %s is a scalar and can't be plotted", arr.Name)
	case rank == 1:
		err = r.line(dc, arr, cmap, title)
	case rank == 2:
		err = r.heatMap(dc, arr, cmap, title)
	default:
		err = r.histogram(dc, arr, cmap, title)
	}
	if err != nil {
		return err
	}
	if err := fig.SavePNG(path); err != nil {
		return err
	}
	r.logger().WithFields(logrus.Fields{
		"variable": arr.Name,
		"palette":  cmap.String(),
		"path":     path,
	}).Debug("render: saved figure")
	return nil
}

func (r *Renderer) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

// heatMap draws a two-dimensional array with its outer dimension on the
// vertical axis, next to a colour bar.
func (r *Renderer) heatMap(dc draw.Canvas, arr *dataset.Array, cmap colormap.Name, title string) error {
	pal, err := cmap.Palette(r.Colors)
	if err != nil {
		return err
	}
	min, max := valueRange(arr.Elements)
	g := newGrid(arr, min, max)

	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = arr.Dims[1]
	p.Y.Label.Text = arr.Dims[0]
	h := plotter.NewHeatMap(g, pal)
	h.Min, h.Max = min, max
	p.Add(h)

	cb, err := colorBar(cmap, min, max, label(arr), r.Colors)
	if err != nil {
		return err
	}
	width := dc.Max.X - dc.Min.X
	p.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
	cb.Draw(draw.Crop(dc, width-colorBarWidth, 0, 0.4*vg.Inch, -0.4*vg.Inch))
	return nil
}

// colorBar returns a plot of the palette spanning [min, max].
func colorBar(cmap colormap.Name, min, max float64, label string, colors int) (*plot.Plot, error) {
	cm, err := cmap.ColorMap()
	if err != nil {
		return nil, err
	}
	cm.SetMax(max)
	cm.SetMin(min)
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.HideX()
	p.Y.Label.Text = label
	p.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: colors})
	return p, nil
}

// line draws a one-dimensional array against its coordinate.
func (r *Renderer) line(dc draw.Canvas, arr *dataset.Array, cmap colormap.Name, title string) error {
	xs := axis(arr.Coords[0], len(arr.Elements))
	n := 0
	for _, v := range arr.Elements {
		if finite(v) {
			n++
		}
	}
	if n == 0 {
		return fmt.Errorf("render: %s has no valid values", arr.Name)
	}
	c, err := cmap.Mid()
	if err != nil {
		return err
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = arr.Dims[0]
	p.Y.Label.Text = label(arr)
	xy := make(plotter.XYs, 0, n)
	for i, v := range arr.Elements {
		if finite(v) {
			xy = append(xy, plotter.XYs{{X: xs[i], Y: v}}...)
		}
	}
	l, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = vg.Points(1.5)
	p.Add(l, plotter.NewGrid())
	p.Draw(dc)
	return nil
}

// histogram draws the distribution of all valid values of an array with
// more than two dimensions.
func (r *Renderer) histogram(dc draw.Canvas, arr *dataset.Array, cmap colormap.Name, title string) error {
	vals := finiteValues(arr.Elements)
	if len(vals) == 0 {
		return fmt.Errorf("render: %s has no valid values", arr.Name)
	}
	c, err := cmap.Mid()
	if err != nil {
		return err
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = label(arr)
	p.Y.Label.Text = "count"
	h, err := plotter.NewHist(plotter.Values(vals), histBins)
	if err != nil {
		return err
	}
	h.FillColor = c
	h.LineStyle.Color = color.Black
	p.Add(h)
	p.Draw(dc)
	return nil
}

// label returns an axis label for the values of arr built from its
// long_name (or WRF-style description) and units attributes.
func label(arr *dataset.Array) string {
	name := arr.Attribute("long_name")
	if name == "" {
		name = arr.Attribute("description")
	}
	if name == "" {
		name = arr.Name
	}
	if u := arr.Attribute("units"); u != "" {
		return fmt.Sprintf("%s [%s]", name, u)
	}
	return name
}

// valueRange returns the range of the finite values, widened to a unit
// interval when all values are equal. If there are no finite values the
// range is [0, 1].
func valueRange(vals []float64) (min, max float64) {
	f := finiteValues(vals)
	if len(f) == 0 {
		return 0, 1
	}
	min, max = floats.Min(f), floats.Max(f)
	if min == max {
		min, max = min-0.5, max+0.5
	}
	return min, max
}

func finiteValues(vals []float64) []float64 {
	o := make([]float64, 0, len(vals))
	for _, v := range vals {
		if finite(v) {
			o = append(o, v)
		}
	}
	return o
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// grid adapts a two-dimensional array to plotter.GridXYZ. Columns follow
// the inner dimension and rows the outer one. Missing values are reported
// as -Inf so the heat map leaves them blank. A dimension of length one is
// presented as two cells of unit width around its coordinate.
type grid struct {
	z          []float64
	cols, rows int
	x, y       []float64
	min, max   float64
}

func newGrid(arr *dataset.Array, min, max float64) grid {
	return grid{
		z:    arr.Elements,
		rows: arr.Shape[0],
		cols: arr.Shape[1],
		y:    axis(arr.Coords[0], arr.Shape[0]),
		x:    axis(arr.Coords[1], arr.Shape[1]),
		min:  min,
		max:  max,
	}
}

func (g grid) Dims() (c, r int) { return padded(g.cols), padded(g.rows) }

func (g grid) Z(c, r int) float64 {
	if g.cols == 1 {
		c = 0
	}
	if g.rows == 1 {
		r = 0
	}
	v := g.z[r*g.cols+c]
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

func (g grid) X(c int) float64 { return coord(g.x, c) }
func (g grid) Y(r int) float64 { return coord(g.y, r) }
func (g grid) Min() float64 { return g.min }
func (g grid) Max() float64 { return g.max }

func padded(n int) int {
	if n == 1 {
		return 2
	}
	return n
}

func coord(x []float64, i int) float64 {
	if len(x) == 1 {
		return x[0] - 0.5 + float64(i)
	}
	return x[i]
}

// axis returns c if it is a usable cell-centre coordinate for a dimension
// of length n: finite and strictly monotonic. Otherwise it returns the
// indices 0..n-1.
func axis(c []float64, n int) []float64 {
	if len(c) == n && monotonic(c) {
		return c
	}
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	return idx
}

func monotonic(c []float64) bool {
	for _, v := range c {
		if !finite(v) {
			return false
		}
	}
	inc, dec := true, true
	for i := 1; i < len(c); i++ {
		inc = inc && c[i] > c[i-1]
		dec = dec && c[i] < c[i-1]
	}
	return inc || dec
}
