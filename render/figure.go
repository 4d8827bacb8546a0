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

package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrClosed is returned when a Figure is used after it has been closed.
var ErrClosed = errors.New("render: figure is closed")

// Figure is an in-memory raster image that plots are drawn onto.
// Each Figure must be closed when it is no longer needed.
type Figure struct {
	c *vgimg.Canvas
}

// NewFigure creates a figure of the given size and resolution.
func NewFigure(width, height vg.Length, dpi int) *Figure {
	return &Figure{c: vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))}
}

// Canvas returns the drawing area of the whole figure.
func (f *Figure) Canvas() (draw.Canvas, error) {
	if f.c == nil {
		return draw.Canvas{}, ErrClosed
	}
	return draw.New(f.c), nil
}

// SavePNG encodes the figure as a PNG image at path. The image is
// written to a temporary file in the same directory and renamed into
// place, so path either holds a complete image or is left untouched.
func (f *Figure) SavePNG(path string) error {
	if f.c == nil {
		return ErrClosed
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ncplot-*.png")
	if err != nil {
		return fmt.Errorf("render: %v", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: f.c}).WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("render: encoding %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("render: %v", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("render: %v", err)
	}
	return nil
}

// Close releases the image held by the figure. It is safe to call
// Close more than once.
func (f *Figure) Close() {
	f.c = nil
}

// Closed reports whether Close has been called.
func (f *Figure) Closed() bool { return f.c == nil }
