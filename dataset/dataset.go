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

// Package dataset reads gridded variables out of NetCDF classic files and
// exposes them as dense arrays with their dimension and attribute metadata.
package dataset

import (
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/cdf"
)

// Dataset is an open NetCDF file.
type Dataset struct {
	// Path is the location the dataset was opened from.
	Path string

	f       *os.File
	ff      *cdf.File
	numRecs int
}

// Open opens the NetCDF file at path and checks that its header is
// consistent. The returned Dataset must be closed by the caller.
func Open(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %v", err)
	}
	ff, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dataset: reading netcdf header of %s: %v", path, err)
	}
	if errs := ff.Header.Check(); len(errs) != 0 {
		f.Close()
		return nil, fmt.Errorf("dataset: invalid netcdf header in %s: %v", path, errs[0])
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dataset: %v", err)
	}
	return &Dataset{
		Path:    path,
		f:       f,
		ff:      ff,
		numRecs: int(ff.Header.NumRecs(fi.Size())),
	}, nil
}

// Close closes the underlying file.
func (d *Dataset) Close() error {
	return d.f.Close()
}

// NumRecords returns the number of records along the record (unlimited)
// dimension, or 0 if the file has none.
func (d *Dataset) NumRecords() int {
	if d.numRecs < 0 {
		return 0
	}
	return d.numRecs
}

// Dimensions returns the names of all dimensions in the file.
func (d *Dataset) Dimensions() []string {
	return d.ff.Header.Dimensions("")
}

// Variables returns the names of all variables in the file, in the order
// they are defined in the header.
func (d *Dataset) Variables() []string {
	return d.ff.Header.Variables()
}

// DataVariables returns the names of the variables in the file that hold
// data rather than coordinates, in header order. Coordinate variables
// (one-dimensional variables named after their dimension) and auxiliary
// coordinates listed in any variable's "coordinates" attribute are
// excluded.
func (d *Dataset) DataVariables() []string {
	aux := make(map[string]bool)
	for _, v := range d.Variables() {
		for _, c := range strings.Fields(attrString(d.ff.Header.GetAttribute(v, "coordinates"))) {
			aux[c] = true
		}
	}
	var names []string
	for _, v := range d.Variables() {
		if d.isCoordinate(v) || aux[v] {
			continue
		}
		names = append(names, v)
	}
	return names
}

// isCoordinate returns whether v is a coordinate variable.
func (d *Dataset) isCoordinate(v string) bool {
	dims := d.ff.Header.Dimensions(v)
	return len(dims) == 1 && dims[0] == v
}

// Variable returns the variable with the given name.
func (d *Dataset) Variable(name string) (*Variable, error) {
	dims := d.ff.Header.Dimensions(name)
	if dims == nil {
		return nil, fmt.Errorf("dataset: variable %s not in %s", name, d.Path)
	}
	lengths := d.ff.Header.Lengths(name)
	shape := make([]int, len(lengths))
	copy(shape, lengths)
	record := d.ff.Header.IsRecordVariable(name)
	if record {
		shape[0] = d.NumRecords()
	}
	attrs := make(map[string]interface{})
	for _, a := range d.ff.Header.Attributes(name) {
		attrs[a] = d.ff.Header.GetAttribute(name, a)
	}
	return &Variable{
		Name:       name,
		Dims:       dims,
		Shape:      shape,
		Attributes: attrs,
		record:     record,
		ds:         d,
	}, nil
}

// GlobalAttribute returns the string value of the global attribute with
// the given name, or "" if it doesn't exist or isn't text.
func (d *Dataset) GlobalAttribute(name string) string {
	return attrString(d.ff.Header.GetAttribute("", name))
}

// coords returns the values along dimension dim: the decoded values of
// the coordinate variable if there is one, otherwise the positional
// indices 0..n-1.
func (d *Dataset) coords(dim string, n int) []float64 {
	if d.isCoordinate(dim) {
		if v, err := d.Variable(dim); err == nil && len(v.Shape) == 1 && v.Shape[0] == n {
			if data, err := v.values(); err == nil {
				return data.Elements
			}
		}
	}
	c := make([]float64, n)
	for i := range c {
		c[i] = float64(i)
	}
	return c
}
