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

package ncplotutil

import (
	"os"
	"reflect"
	"testing"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/ncplot/colormap"
)

func TestGetStringMapString(t *testing.T) {
	tests := []struct {
		name    string
		val     interface{}
		want    map[string]string
		wantErr bool
	}{
		{name: "unset", val: nil, want: map[string]string{}},
		{name: "empty string", val: "", want: map[string]string{}},
		{name: "json", val: `{"T2":"plasma","SNOWH":"Blues"}`, want: map[string]string{"T2": "plasma", "SNOWH": "Blues"}},
		{name: "map", val: map[string]string{"a": "RdBu"}, want: map[string]string{"a": "RdBu"}},
		{name: "config file", val: map[string]interface{}{"a": "PiYG"}, want: map[string]string{"a": "PiYG"}},
		{name: "bad json", val: `{"T2":`, wantErr: true},
		{name: "wrong type", val: 5, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := viper.New()
			if test.val != nil {
				cfg.Set("Palettes", test.val)
			}
			got, err := GetStringMapString("Palettes", cfg)
			if (err != nil) != test.wantErr {
				t.Fatalf("err = %v", err)
			}
			if !test.wantErr && !reflect.DeepEqual(got, test.want) {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestPipelineConfig(t *testing.T) {
	os.Setenv("NCPLOT_TEST_DATA", "/data")
	defer os.Unsetenv("NCPLOT_TEST_DATA")

	cfg := viper.New()
	cfg.Set("UploadsDir", "${NCPLOT_TEST_DATA}/uploads")
	cfg.Set("OutputsDir", "/srv/outputs")
	cfg.Set("URLPrefix", "/images")
	cfg.Set("TimeDimension", "Time")
	cfg.Set("Palettes", `{"T2":"rdbu"}`)

	c, err := PipelineConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.UploadsDir != "/data/uploads" {
		t.Errorf("UploadsDir = %s", c.UploadsDir)
	}
	if c.OutputsDir != "/srv/outputs" || c.URLPrefix != "/images" || c.TimeDimension != "Time" {
		t.Errorf("config = %+v", c)
	}
	if a := c.Artifact("w.nc", "T2"); a.URL != "/images/w.nc_T2.png" {
		t.Errorf("URL = %s", a.URL)
	}
	for v, want := range map[string]colormap.Name{
		"T2":   colormap.RdBu,
		"t2":   colormap.Plasma,
		"v10m": colormap.PiYG,
		"Q2":   colormap.Viridis,
	} {
		if got := c.Palettes.Lookup(v); got != want {
			t.Errorf("%s: palette %v, want %v", v, got, want)
		}
	}

	cfg.Set("Palettes", `{"T2":"jet"}`)
	if _, err := PipelineConfig(cfg); err == nil {
		t.Error("expected an error for an unknown palette")
	}
}
