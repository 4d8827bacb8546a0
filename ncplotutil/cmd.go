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

// Package ncplotutil contains the ncplot command-line interface and its
// configuration.
package ncplotutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncplot"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the version of ncplot.
const Version = "0.1.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ncplot.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel sets the level of messages written to standard error.
              One of panic, fatal, error, warning, info or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "UploadsDir",
			usage: `
              UploadsDir is the directory that input files are read from.
              Input files are given by name only and looked up here.`,
			defaultVal: "public/uploads",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "OutputsDir",
			usage: `
              OutputsDir is the directory that images are written to. It is
              created if it doesn't already exist.`,
			defaultVal: "public/outputs",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "URLPrefix",
			usage: `
              URLPrefix is the public path that OutputsDir is served under. It
              is used to build the image references that are reported.`,
			defaultVal: "/outputs",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "TimeDimension",
			usage: `
              TimeDimension is the name of the time dimension. Only the first
              index along this dimension is plotted.`,
			defaultVal: "time",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Palettes",
			usage: `
              Palettes maps variable names to colour palettes, adding to or
              replacing the built-in assignments. Variables that are not listed
              here or built in are drawn with viridis. Available palettes are
              viridis, plasma, Blues, YlGnBu, RdBu and PiYG.
              It should be in the format: {"T2":"plasma","SNOWH":"Blues"}`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "json",
			usage: `
              json prints the image references as a JSON object rather than
              with single quotes.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MaxUploadMB",
			usage: `
              MaxUploadMB is the largest upload request, in megabytes, that the
              web server accepts.`,
			defaultVal: DefaultMaxUploadBytes >> 20,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "http",
			usage: `
              http specifies the address the web server listens on.`,
			defaultVal: ":8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("NCPLOT")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(bytes.TrimSpace(b.Bytes()))
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ncplot: problem reading configuration file: %v", err)
		}
	}
	return setLogger(logrus.StandardLogger(), Cfg.GetString("loglevel"))
}

// setLogger configures log to write formatted messages at the given
// level to standard error, leaving standard output for results.
func setLogger(log *logrus.Logger, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("ncplot: %v", err)
	}
	log.Out = os.Stderr
	log.SetLevel(lvl)
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ncplot",
	Short: "Plot the variables in netCDF files.",
	Long: `ncplot draws each data variable in a netCDF file as a PNG image.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NCPLOT_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ncplot.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ncplot v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run filename",
	Short: "Plot the variables in one file.",
	Long: `run plots every data variable in the named file, which is looked up
in UploadsDir, and writes the images to OutputsDir. Variables that can't be
plotted are reported and skipped. The image references are printed last, as a
mapping from variable name to path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filename string
		if len(args) == 1 {
			filename = args[0]
		}
		cfg, err := PipelineConfig(Cfg)
		if err != nil {
			return err
		}
		return Run(context.Background(), cmd.OutOrStdout(), cfg, filename, Cfg.GetBool("json"), logrus.StandardLogger())
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web server that plots uploaded files.",
	Long: `serve starts a web server. Files uploaded to /api/netcdf in the 'file'
field of a multipart form are saved in UploadsDir and plotted, and the
response lists the image references. Images are served from URLPrefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := PipelineConfig(Cfg)
		if err != nil {
			return err
		}
		log := logrus.StandardLogger()
		h := NewServer(cfg, log)
		h.MaxUploadBytes = int64(Cfg.GetInt("MaxUploadMB")) << 20
		srv := &http.Server{
			Addr:              Cfg.GetString("http"),
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}
		log.Infof("listening on %s", srv.Addr)
		return srv.ListenAndServe()
	},
	DisableAutoGenTag: true,
}

// Run plots the variables in filename and writes a line for each skipped
// variable followed by the image references to w.
func Run(ctx context.Context, w io.Writer, cfg *ncplot.Config, filename string, asJSON bool, log logrus.FieldLogger) error {
	r, err := ncplot.Process(ctx, cfg, filename, log)
	if r != nil {
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "Skipping %v\n", s)
		}
	}
	if err != nil {
		return err
	}
	if asJSON {
		return json.NewEncoder(w).Encode(r.Images)
	}
	_, err = fmt.Fprintln(w, r.Images)
	return err
}
