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

// Package ncfixture writes small NetCDF classic files for use in tests.
package ncfixture

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ctessum/cdf"
)

// Var is a variable to be written to a fixture file.
type Var struct {
	Name string
	Dims []string

	// Data is one of []uint8, string, []int16, []int32, []float32
	// or []float64, and determines the NetCDF type of the variable.
	Data interface{}

	Attrs map[string]interface{}
}

// File describes the contents of a fixture file.
type File struct {
	Dims []string

	// Lengths holds the length of each of Dims. A length of 0 marks
	// the record dimension.
	Lengths []int

	Vars   []Var
	Global map[string]interface{}
}

// Write writes f to path.
func (f File) Write(path string) error {
	h := cdf.NewHeader(f.Dims, f.Lengths)
	for _, k := range sortedKeys(f.Global) {
		h.AddAttribute("", k, f.Global[k])
	}
	hasRecord := false
	for _, v := range f.Vars {
		h.AddVariable(v.Name, v.Dims, v.Data)
		for _, k := range sortedKeys(v.Attrs) {
			h.AddAttribute(v.Name, k, v.Attrs[k])
		}
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	ff, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	for _, v := range f.Vars {
		var end []int
		if ff.Header.IsRecordVariable(v.Name) {
			hasRecord = true
		} else {
			end = append([]int{}, ff.Header.Lengths(v.Name)...)
		}
		start := make([]int, len(v.Dims))
		// The writer reports io.EOF once it reaches the end of a
		// fixed-size variable.
		if _, err := ff.Writer(v.Name, start, end).Write(v.Data); err != nil && err != io.EOF {
			return fmt.Errorf("ncfixture: writing %s: %v", v.Name, err)
		}
	}
	if hasRecord {
		return cdf.UpdateNumRecs(w)
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
