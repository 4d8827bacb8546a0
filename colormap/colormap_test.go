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

package colormap

import (
	"image/color"
	"testing"
)

func TestLookup(t *testing.T) {
	tbl := DefaultTable()
	for _, test := range []struct {
		variable string
		want     Name
	}{
		{"t2", Plasma},
		{"rainc", Blues},
		{"rainnc", YlGnBu},
		{"rh2", YlGnBu},
		{"u10m", RdBu},
		{"v10m", PiYG},
		{"T2", Viridis},
		{"bogus_var", Viridis},
		{"", Viridis},
	} {
		t.Run(test.variable, func(t *testing.T) {
			if got := tbl.Lookup(test.variable); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestWith(t *testing.T) {
	base := DefaultTable()
	mod := base.With(map[string]Name{"T2": Plasma, "t2": Blues})
	if mod.Lookup("T2") != Plasma || mod.Lookup("t2") != Blues {
		t.Errorf("overrides not applied: %v %v", mod.Lookup("T2"), mod.Lookup("t2"))
	}
	if base.Lookup("T2") != Viridis || base.Lookup("t2") != Plasma {
		t.Error("With modified the original table")
	}
	if got := len(mod.Variables()); got != 7 {
		t.Errorf("variables: got %d, want 7", got)
	}
}

func TestParse(t *testing.T) {
	n, err := ParseName("ylgnbu")
	if err != nil {
		t.Fatal(err)
	}
	if n != YlGnBu {
		t.Errorf("got %v", n)
	}
	if _, err := ParseName("jet"); err == nil {
		t.Error("expected an error for an unknown palette")
	}
	entries, err := ParseTable(map[string]string{"T2": "plasma", "PSFC": "Blues"})
	if err != nil {
		t.Fatal(err)
	}
	if entries["T2"] != Plasma || entries["PSFC"] != Blues {
		t.Errorf("got %v", entries)
	}
	if _, err := ParseTable(map[string]string{"T2": "rainbow"}); err == nil {
		t.Error("expected an error")
	}
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestPalette(t *testing.T) {
	for _, n := range []Name{Viridis, Plasma, Blues, YlGnBu, RdBu, PiYG} {
		t.Run(n.String(), func(t *testing.T) {
			p, err := n.Palette(256)
			if err != nil {
				t.Fatal(err)
			}
			if len(p.Colors()) != 256 {
				t.Errorf("got %d colors", len(p.Colors()))
			}
			if _, err := n.Mid(); err != nil {
				t.Error(err)
			}
		})
	}
	if _, err := Viridis.Palette(1); err == nil {
		t.Error("expected an error for a one-color palette")
	}
	if _, err := Name(99).Palette(10); err == nil {
		t.Error("expected an error for an unknown palette")
	}
}

func TestPaletteDirection(t *testing.T) {
	colors := func(n Name) (lo, hi color.RGBA) {
		p, err := n.Palette(64)
		if err != nil {
			t.Fatal(err)
		}
		cs := p.Colors()
		return rgba(cs[0]), rgba(cs[len(cs)-1])
	}
	lo, hi := colors(RdBu)
	if lo.R <= lo.B || hi.B <= hi.R {
		t.Errorf("RdBu should run from red to blue: %v -> %v", lo, hi)
	}
	lo, hi = colors(PiYG)
	if lo.R <= lo.G || hi.G <= hi.R {
		t.Errorf("PiYG should run from pink to green: %v -> %v", lo, hi)
	}
	lo, hi = colors(Blues)
	if int(lo.R)+int(lo.G)+int(lo.B) <= int(hi.R)+int(hi.G)+int(hi.B) {
		t.Errorf("Blues should run from light to dark: %v -> %v", lo, hi)
	}
	lo, hi = colors(Plasma)
	if !near(lo, rgba(plasmaControls[0])) || !near(hi, rgba(plasmaControls[len(plasmaControls)-1])) {
		t.Errorf("plasma endpoints: %v -> %v", lo, hi)
	}
}

// near reports whether two colours differ by at most 2 in each channel.
func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return int(x)-int(y) <= 2 && int(y)-int(x) <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestColorMap(t *testing.T) {
	for _, n := range []Name{Viridis, Plasma, Blues, YlGnBu, RdBu, PiYG} {
		t.Run(n.String(), func(t *testing.T) {
			cm, err := n.ColorMap()
			if err != nil {
				t.Fatal(err)
			}
			if cm.Min() != 0 || cm.Max() != 1 || cm.Alpha() != 1 {
				t.Errorf("range [%g, %g] alpha %g", cm.Min(), cm.Max(), cm.Alpha())
			}
			mid, err := cm.At(0.5)
			if err != nil {
				t.Fatal(err)
			}
			for _, v := range []float64{-0.1, 1.1} {
				if _, err := cm.At(v); err == nil {
					t.Errorf("At(%g): expected an error", v)
				}
			}
			cm.SetMax(300)
			cm.SetMin(250)
			c, err := cm.At(275)
			if err != nil {
				t.Fatal(err)
			}
			if !near(rgba(c), rgba(mid)) {
				t.Errorf("rescaled middle %v, want %v", rgba(c), rgba(mid))
			}
		})
	}
	if _, err := Name(99).ColorMap(); err == nil {
		t.Error("expected an error for an unknown palette")
	}
}

func TestContinuousMapAlpha(t *testing.T) {
	cm := &continuousMap{c: gradient{{R: 200, A: 255}, {B: 200, A: 255}}, max: 1, alpha: 0.5}
	c, err := cm.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(c).(color.NRGBA); got.R != 200 || got.A != 128 {
		t.Errorf("got %v", got)
	}
}

func TestGradient(t *testing.T) {
	g := gradient{{R: 0, A: 255}, {R: 100, A: 255}, {R: 200, A: 255}}
	for _, test := range []struct {
		x    float64
		want uint8
	}{
		{-1, 0}, {0, 0}, {0.25, 50}, {0.5, 100}, {0.75, 150}, {1, 200}, {2, 200},
	} {
		if got := rgba(g.Map(test.x)).R; got != test.want {
			t.Errorf("Map(%g): got %d, want %d", test.x, got, test.want)
		}
	}
}
