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

// Package colormap holds the fixed table that assigns a colour palette to
// each known model output variable, and turns palette names into colours.
package colormap

import (
	"fmt"
	"sort"
	"strings"
)

// Name identifies a colour palette.
type Name int

// The available palettes.
const (
	Viridis Name = iota // perceptually uniform default
	Plasma
	Blues
	YlGnBu
	RdBu
	PiYG
)

var names = map[Name]string{
	Viridis: "viridis",
	Plasma:  "plasma",
	Blues:   "Blues",
	YlGnBu:  "YlGnBu",
	RdBu:    "RdBu",
	PiYG:    "PiYG",
}

// Default is the palette used for variables that are not in a Table.
const Default = Viridis

func (n Name) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return fmt.Sprintf("Name(%d)", int(n))
}

// ParseName returns the palette with the given name. Matching is not
// case sensitive.
func ParseName(s string) (Name, error) {
	for n, ns := range names {
		if strings.EqualFold(ns, s) {
			return n, nil
		}
	}
	return 0, fmt.Errorf("colormap: unknown palette %q", s)
}

// Table maps variable names to palettes. A Table is immutable once
// created; use With to derive a modified copy.
type Table struct {
	m map[string]Name
}

// DefaultTable returns the palettes for the standard surface variables.
func DefaultTable() Table {
	return Table{m: map[string]Name{
		"t2":     Plasma, // temperature
		"rainc":  Blues,  // cumulus rainfall
		"rainnc": YlGnBu, // non-cumulus rainfall
		"rh2":    YlGnBu, // humidity
		"u10m":   RdBu,   // east-west wind
		"v10m":   PiYG,   // north-south wind
	}}
}

// Lookup returns the palette for the named variable, or Default if the
// variable isn't in the table. Variable names are matched exactly.
func (t Table) Lookup(variable string) Name {
	if n, ok := t.m[variable]; ok {
		return n
	}
	return Default
}

// With returns a copy of t with the given entries added or replaced.
func (t Table) With(entries map[string]Name) Table {
	m := make(map[string]Name, len(t.m)+len(entries))
	for k, v := range t.m {
		m[k] = v
	}
	for k, v := range entries {
		m[k] = v
	}
	return Table{m: m}
}

// ParseTable parses variable-to-palette-name pairs, as they would be
// given in a configuration file, into entries for Table.With.
func ParseTable(entries map[string]string) (map[string]Name, error) {
	o := make(map[string]Name, len(entries))
	for k, v := range entries {
		n, err := ParseName(v)
		if err != nil {
			return nil, fmt.Errorf("colormap: variable %s: %v", k, err)
		}
		o[k] = n
	}
	return o, nil
}

// Variables returns the variable names in the table, sorted.
func (t Table) Variables() []string {
	o := make([]string, 0, len(t.m))
	for k := range t.m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}
