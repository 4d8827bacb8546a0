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

package ncplot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of plotting one variable. Exactly one of
// Artifact and Err is set.
type Result struct {
	Variable string
	Artifact *Artifact
	Err      *RenderError
}

// RenderError reports why a variable couldn't be plotted.
type RenderError struct {
	Variable string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Variable, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error { return e.Err }

// Report is the outcome of processing a file.
type Report struct {
	// Images maps each successfully plotted variable to the URL of
	// its image.
	Images Mapping

	// Skipped holds the variables that couldn't be plotted.
	Skipped []*RenderError
}

func (r *Report) add(res Result) {
	if res.Err != nil {
		r.Skipped = append(r.Skipped, res.Err)
		return
	}
	r.Images.Set(res.Variable, res.Artifact.URL)
}

// Mapping is an ordered map from variable name to image URL.
type Mapping struct {
	keys []string
	vals map[string]string
}

// Set adds or replaces the URL for variable v. New variables are
// added at the end.
func (m *Mapping) Set(v, url string) {
	if m.vals == nil {
		m.vals = make(map[string]string)
	}
	if _, ok := m.vals[v]; !ok {
		m.keys = append(m.keys, v)
	}
	m.vals[v] = url
}

// Get returns the URL for variable v.
func (m Mapping) Get(v string) (string, bool) {
	url, ok := m.vals[v]
	return url, ok
}

// Len returns the number of variables in the mapping.
func (m Mapping) Len() int { return len(m.keys) }

// Variables returns the variable names in the order they were added.
func (m Mapping) Variables() []string {
	return append([]string(nil), m.keys...)
}

// String formats the mapping with single-quoted keys and values, for
// example {'t2': '/outputs/weather.nc_t2.png'}.
func (m Mapping) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", quote(k), quote(m.vals[k]))
	}
	b.WriteByte('}')
	return b.String()
}

// quote single-quotes s, escaping backslashes and single quotes.
func quote(s string) string {
	s = strings.Replace(s, `\`, `\\`, -1)
	s = strings.Replace(s, `'`, `\'`, -1)
	return "'" + s + "'"
}

// MarshalJSON encodes the mapping as a JSON object with keys in order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
