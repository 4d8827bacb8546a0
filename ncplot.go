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

// Package ncplot turns the data variables of a netCDF file into PNG
// images, one per variable, and reports where each image can be found.
package ncplot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncplot/colormap"
	"github.com/spatialmodel/ncplot/dataset"
	"github.com/spatialmodel/ncplot/render"
)

// ErrNoFilename is returned when no input file name is given.
var ErrNoFilename = errors.New("ncplot: no input file name given")

// Config holds the locations and settings used by Process.
type Config struct {
	// UploadsDir is the directory input files are read from.
	UploadsDir string

	// OutputsDir is the directory images are written to. It is created
	// if it doesn't exist.
	OutputsDir string

	// URLPrefix is the public path OutputsDir is served under.
	URLPrefix string

	// TimeDimension is the name of the dimension along which only the
	// first index is plotted.
	TimeDimension string

	// Palettes maps variable names to colour palettes.
	Palettes colormap.Table

	// Renderer draws the images. If nil, render.New() is used.
	Renderer *render.Renderer
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UploadsDir:    filepath.Join("public", "uploads"),
		OutputsDir:    filepath.Join("public", "outputs"),
		URLPrefix:     "/outputs",
		TimeDimension: "time",
		Palettes:      colormap.DefaultTable(),
	}
}

// Artifact is an image produced from one variable.
type Artifact struct {
	Variable string

	// Path is the location of the image on disk.
	Path string

	// URL is the public path of the image.
	URL string
}

// Artifact returns where the image for variable v in file filename is
// written and served.
func (c *Config) Artifact(filename, v string) Artifact {
	name := fmt.Sprintf("%s_%s.png", filename, v)
	return Artifact{
		Variable: v,
		Path:     filepath.Join(c.OutputsDir, name),
		URL:      path.Join("/", c.URLPrefix, name),
	}
}

// Process plots each data variable in the file called filename in
// cfg.UploadsDir. Variables are processed one at a time. A variable that
// can't be plotted is left out of the returned Report's Images and added
// to its Skipped list instead; this doesn't stop the run. An error is
// returned if filename is empty, the output directory can't be created
// or the file can't be opened as a dataset; no images are written in
// that case. ctx is checked between variables, and if it is done the
// report so far is returned along with ctx.Err().
func Process(ctx context.Context, cfg *Config, filename string, log logrus.FieldLogger) (*Report, error) {
	if filename == "" {
		return nil, ErrNoFilename
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	input := filepath.Join(cfg.UploadsDir, filename)
	if err := os.MkdirAll(cfg.OutputsDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("ncplot: creating output directory: %v", err)
	}
	ds, err := dataset.Open(input)
	if err != nil {
		return nil, fmt.Errorf("ncplot: %v", err)
	}
	defer ds.Close()

	r := cfg.Renderer
	if r == nil {
		r = render.New()
		r.Log = log
	}
	log = log.WithField("file", filename)

	report := new(Report)
	for _, v := range ds.DataVariables() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := plotVariable(ds, cfg, r, filename, v, log)
		report.add(res)
		if res.Err != nil {
			log.WithField("variable", v).Warnf("Skipping %s: %v", v, res.Err.Err)
			continue
		}
		log.WithField("variable", v).Info("ncplot: wrote image")
	}
	return report, nil
}

// plotVariable renders one variable, selecting the first time index if
// the variable has a time dimension. Dimensions of length one are dropped
// before the kind of plot is chosen.
func plotVariable(ds *dataset.Dataset, cfg *Config, r *render.Renderer, filename, name string, log logrus.FieldLogger) Result {
	fail := func(err error) Result {
		return Result{Variable: name, Err: &RenderError{Variable: name, Err: err}}
	}
	v, err := ds.Variable(name)
	if err != nil {
		return fail(err)
	}
	var arr *dataset.Array
	if cfg.TimeDimension != "" && v.HasDim(cfg.TimeDimension) {
		arr, err = v.Isel(cfg.TimeDimension, 0)
	} else {
		arr, err = v.Read()
	}
	if err != nil {
		return fail(err)
	}
	arr = arr.Squeeze()
	cmap := cfg.Palettes.Lookup(name)
	log.WithFields(logrus.Fields{
		"variable": name,
		"palette":  cmap.String(),
		"dims":     strings.Join(arr.Dims, ","),
	}).Debug("ncplot: rendering")

	a := cfg.Artifact(filename, name)
	title := strings.ToUpper(name) + " Visualization"
	if err := r.Render(arr, cmap, title, a.Path); err != nil {
		return fail(err)
	}
	return Result{Variable: name, Artifact: &a}
}
