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
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/ncplot"
	"github.com/spatialmodel/ncplot/colormap"
	"github.com/spf13/cast"
)

// PipelineConfig creates a processing configuration from a viper
// configuration. Directory options may contain environment variables.
func PipelineConfig(cfg *viper.Viper) (*ncplot.Config, error) {
	c := ncplot.DefaultConfig()
	c.UploadsDir = os.ExpandEnv(cfg.GetString("UploadsDir"))
	c.OutputsDir = os.ExpandEnv(cfg.GetString("OutputsDir"))
	c.URLPrefix = cfg.GetString("URLPrefix")
	c.TimeDimension = cfg.GetString("TimeDimension")

	p, err := GetStringMapString("Palettes", cfg)
	if err != nil {
		return nil, err
	}
	entries, err := colormap.ParseTable(p)
	if err != nil {
		return nil, fmt.Errorf("ncplot: Palettes: %v", err)
	}
	c.Palettes = c.Palettes.With(entries)
	return c, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument or environment variable.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch i := i.(type) {
	case nil:
		return make(map[string]string), nil
	case map[string]string:
		return i, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(i)
	case string:
		if i == "" {
			return make(map[string]string), nil
		}
		d := json.NewDecoder(bytes.NewBufferString(i))
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("ncplot: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("ncplot: invalid type for %s: %#v", varName, i)
	}
}
