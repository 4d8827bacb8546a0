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
	"strings"
)

// toFloat64 converts a slice of NetCDF values to float64.
// NC_BYTE is signed, so byte values are reinterpreted as int8.
func toFloat64(raw interface{}) ([]float64, error) {
	switch v := raw.(type) {
	case []uint8:
		o := make([]float64, len(v))
		for i, x := range v {
			o[i] = float64(int8(x))
		}
		return o, nil
	case []int16:
		o := make([]float64, len(v))
		for i, x := range v {
			o[i] = float64(x)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(v))
		for i, x := range v {
			o[i] = float64(x)
		}
		return o, nil
	case []float32:
		o := make([]float64, len(v))
		for i, x := range v {
			o[i] = float64(x)
		}
		return o, nil
	case []float64:
		o := make([]float64, len(v))
		copy(o, v)
		return o, nil
	case string:
		return nil, fmt.Errorf("character data is not numeric")
	default:
		return nil, fmt.Errorf("unsupported data type %T", raw)
	}
}

// attrFloat returns the first value of a numeric attribute, or NaN.
func attrFloat(a interface{}) float64 {
	if a == nil {
		return math.NaN()
	}
	f, err := toFloat64(a)
	if err != nil || len(f) == 0 {
		return math.NaN()
	}
	return f[0]
}

// attrString returns the value of a text attribute, or "".
func attrString(a interface{}) string {
	s, ok := a.(string)
	if !ok {
		return ""
	}
	return strings.TrimRight(s, "\x00")
}
