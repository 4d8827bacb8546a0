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

package dataset

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Variable is a named variable in a Dataset.
type Variable struct {
	Name string

	// Dims holds the names of the variable's dimensions, outermost first.
	Dims []string

	// Shape holds the length of each dimension. The length of the record
	// dimension is the number of records in the file.
	Shape []int

	// Attributes holds the raw attribute values, which are of type
	// []uint8, string, []int16, []int32, []float32 or []float64.
	Attributes map[string]interface{}

	record bool
	ds     *Dataset
}

// Array is data read from a Variable, with any CF packing and fill
// values decoded. Missing values are NaN.
type Array struct {
	*sparse.DenseArray

	Name string

	// Dims holds the names of the remaining dimensions of the array.
	Dims []string

	// Coords holds the coordinate values along each of Dims.
	Coords [][]float64

	Attributes map[string]interface{}
}

// Rank returns the number of dimensions of the array.
func (a *Array) Rank() int { return len(a.Dims) }

// Attribute returns the text value of the named attribute, or "" if
// it doesn't exist or isn't text.
func (a *Array) Attribute(name string) string {
	return attrString(a.Attributes[name])
}

// Squeeze returns the array without its length-one dimensions and their
// coordinates. The result shares no data with a.
func (a *Array) Squeeze() *Array {
	var dims []string
	var shape []int
	var coords [][]float64
	for i, n := range a.Shape {
		if n == 1 {
			continue
		}
		dims = append(dims, a.Dims[i])
		shape = append(shape, n)
		coords = append(coords, a.Coords[i])
	}
	data := sparse.ZerosDense(shape...)
	copy(data.Elements, a.Elements)
	return &Array{
		DenseArray: data,
		Name:       a.Name,
		Dims:       dims,
		Coords:     coords,
		Attributes: a.Attributes,
	}
}

// HasDim returns whether dim is one of the variable's dimensions.
func (v *Variable) HasDim(dim string) bool {
	return v.dimIndex(dim) >= 0
}

func (v *Variable) dimIndex(dim string) int {
	for i, d := range v.Dims {
		if d == dim {
			return i
		}
	}
	return -1
}

// Read reads the whole variable.
func (v *Variable) Read() (*Array, error) {
	data, err := v.values()
	if err != nil {
		return nil, err
	}
	return v.array(data, v.Dims, v.Shape), nil
}

// Isel returns the variable indexed at position i along dimension dim,
// so that the result has one fewer dimension than the variable. When dim
// is the outermost dimension only the selected slab is read from the file.
func (v *Variable) Isel(dim string, i int) (*Array, error) {
	axis := v.dimIndex(dim)
	if axis < 0 {
		return nil, fmt.Errorf("dataset: variable %s has no dimension %s", v.Name, dim)
	}
	if i < 0 || i >= v.Shape[axis] {
		return nil, fmt.Errorf("dataset: index %d out of range for dimension %s of length %d in variable %s",
			i, dim, v.Shape[axis], v.Name)
	}
	dims := append(append([]string{}, v.Dims[:axis]...), v.Dims[axis+1:]...)
	shape := append(append([]int{}, v.Shape[:axis]...), v.Shape[axis+1:]...)

	var data *sparse.DenseArray
	if axis == 0 {
		buf, err := v.readSlabs(i, i+1)
		if err != nil {
			return nil, err
		}
		data = sparse.ZerosDense(shape...)
		copy(data.Elements, buf)
		if err := v.decode(data.Elements); err != nil {
			return nil, err
		}
	} else {
		all, err := v.values()
		if err != nil {
			return nil, err
		}
		data = selectIndex(all, axis, i, shape)
	}
	return v.array(data, dims, shape), nil
}

func (v *Variable) array(data *sparse.DenseArray, dims []string, shape []int) *Array {
	coords := make([][]float64, len(dims))
	for i, d := range dims {
		coords[i] = v.ds.coords(d, shape[i])
	}
	return &Array{
		DenseArray: data,
		Name:       v.Name,
		Dims:       dims,
		Coords:     coords,
		Attributes: v.Attributes,
	}
}

// values reads and decodes every element of the variable.
func (v *Variable) values() (*sparse.DenseArray, error) {
	if _, ok := v.ds.ff.Header.ZeroValue(v.Name, 0).(string); ok {
		return nil, fmt.Errorf("dataset: variable %s holds character data", v.Name)
	}
	shape := append([]int{}, v.Shape...)
	data := sparse.ZerosDense(shape...)
	var buf []float64
	var err error
	if v.record {
		buf, err = v.readSlabs(0, v.Shape[0])
	} else {
		r := v.ds.ff.Reader(v.Name, nil, nil)
		raw := r.Zero(len(data.Elements))
		if _, err = r.Read(raw); err != nil {
			return nil, fmt.Errorf("dataset: reading variable %s: %v", v.Name, err)
		}
		buf, err = toFloat64(raw)
	}
	if err != nil {
		return nil, err
	}
	copy(data.Elements, buf)
	if err := v.decode(data.Elements); err != nil {
		return nil, err
	}
	return data, nil
}

// readSlabs reads the raw values of the variable whose outermost index
// is in [start, end).
func (v *Variable) readSlabs(start, end int) ([]float64, error) {
	if _, ok := v.ds.ff.Header.ZeroValue(v.Name, 0).(string); ok {
		return nil, fmt.Errorf("dataset: variable %s holds character data", v.Name)
	}
	inner := 1
	for _, n := range v.Shape[1:] {
		inner *= n
	}
	out := make([]float64, 0, (end-start)*inner)
	for k := start; k < end; k++ {
		b, e := make([]int, len(v.Shape)), make([]int, len(v.Shape))
		b[0], e[0] = k, k+1
		r := v.ds.ff.Reader(v.Name, b, e)
		raw := r.Zero(inner)
		if _, err := r.Read(raw); err != nil {
			return nil, fmt.Errorf("dataset: reading record %d of variable %s: %v", k, v.Name, err)
		}
		vals, err := toFloat64(raw)
		if err != nil {
			return nil, fmt.Errorf("dataset: variable %s: %v", v.Name, err)
		}
		out = append(out, vals...)
	}
	return out, nil
}

// decode applies the CF conventions for missing data and packed values:
// elements equal to _FillValue or missing_value become NaN and the rest
// are transformed as x*scale_factor + add_offset.
func (v *Variable) decode(vals []float64) error {
	var missing []float64
	for _, name := range []string{"_FillValue", "missing_value"} {
		if a, ok := v.Attributes[name]; ok {
			f, err := toFloat64(a)
			if err != nil {
				return fmt.Errorf("dataset: variable %s attribute %s: %v", v.Name, name, err)
			}
			missing = append(missing, f...)
		}
	}
	scale, offset := 1., 0.
	if s := attrFloat(v.Attributes["scale_factor"]); !math.IsNaN(s) {
		scale = s
	}
	if o := attrFloat(v.Attributes["add_offset"]); !math.IsNaN(o) {
		offset = o
	}
	for i, x := range vals {
		for _, m := range missing {
			if x == m {
				x = math.NaN()
				break
			}
		}
		vals[i] = x*scale + offset
	}
	return nil
}

// selectIndex returns the elements of a at position idx along axis.
func selectIndex(a *sparse.DenseArray, axis, idx int, shape []int) *sparse.DenseArray {
	outer, inner := 1, 1
	for _, n := range a.Shape[:axis] {
		outer *= n
	}
	for _, n := range a.Shape[axis+1:] {
		inner *= n
	}
	out := sparse.ZerosDense(shape...)
	for o := 0; o < outer; o++ {
		src := (o*a.Shape[axis] + idx) * inner
		copy(out.Elements[o*inner:(o+1)*inner], a.Elements[src:src+inner])
	}
	return out
}
