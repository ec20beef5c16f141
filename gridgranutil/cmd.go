/*
Copyright © 2023 the GridGran authors.
This file is part of GridGran.

GridGran is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GridGran is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GridGran.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package gridgranutil provides the command-line interface to GridGran:
// configuration handling, CSV input and output, and the worker pool that
// granulates every 1000m cell of a run.
package gridgranutil

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridgran"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	// Options are the configuration options available to GridGran.
	options = []option{
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
              loglevel is the minimum level of log messages to print:
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to a CSV file of points with the columns
              ID125m, p, h and uprn. Rows without a uprn or population stand
              for empty 125m cells.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory the grid, point and region tables
              are written to. It is created if it doesn't exist.`,
			shorthand:  "o",
			defaultVal: "gridgran_out",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "ReportFile",
			usage: `
              ReportFile is the path of an optional Excel (.xlsx) report
              summarizing the run.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed is the base random seed. The seed of every 1000m cell is
              derived from it and the cell id, so runs are reproducible.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Retries",
			usage: `
              Retries is the number of times a failed 1000m cell is
              retried with a new seed before it is reported as failed.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mask",
			usage: `
              Mask selects how output counts at or below the tier 3 cutoffs
              are written: minimum (the smallest publishable value), null
              (empty) or star (*).`,
			defaultVal: "minimum",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Thresholds.P1",
			usage: `
              Thresholds.P1 is the largest population of a class 1 cell.`,
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Thresholds.P2",
			usage: `
              Thresholds.P2 is the largest population of a class 2 cell.
              Leave empty, together with Thresholds.H2, to disable class 2.`,
			defaultVal: "40",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Thresholds.P3",
			usage: `
              Thresholds.P3 is the largest population of a class 3 cell.
              Published cells must have a larger population.`,
			defaultVal: 49,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Thresholds.H1",
			usage: `
              Thresholds.H1 is the largest household count of a class 1 cell.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Thresholds.H2",
			usage: `
              Thresholds.H2 is the largest household count of a class 2 cell.
              Leave empty, together with Thresholds.P2, to disable class 2.`,
			defaultVal: "20",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Thresholds.H3",
			usage: `
              Thresholds.H3 is the largest household count of a class 3 cell.
              Published cells must have more households.`,
			defaultVal: 24,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Cls2Prp",
			usage: `
              Cls2Prp is the share of the population or households of four
              sibling cells that their class 2 members must hold to stay in
              class 2 rather than be treated as class 1.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "MiddleTierOff",
			usage: `
              MiddleTierOff lists the levels (ID500m, ID250m, ID125m) at which
              class 2 is disabled when classifying child cells.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Search.MaxIterations",
			usage: `
              Search.MaxIterations is the number of random samples drawn
              before a search for points to move gives up.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Search.SampleGrowthInterval",
			usage: `
              Search.SampleGrowthInterval is the number of search iterations
              after which the sample size grows.`,
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Search.SampleGrowthStep",
			usage: `
              Search.SampleGrowthStep is the number of points the sample
              size grows by.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GRIDGRAN")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
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
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gridgran: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("gridgran: %v", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// Settings returns the value of every configuration option except the
// location of the configuration file.
func Settings() map[string]interface{} {
	o := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		o[option.name] = Cfg.Get(option.name)
	}
	return o
}

// nest converts dotted option names into nested tables.
func nest(settings map[string]interface{}) map[string]interface{} {
	o := make(map[string]interface{})
	for k, v := range settings {
		parts := strings.Split(k, ".")
		m := o
		for _, p := range parts[:len(parts)-1] {
			sub, ok := m[p].(map[string]interface{})
			if !ok {
				sub = make(map[string]interface{})
				m[p] = sub
			}
			m = sub
		}
		m[parts[len(parts)-1]] = v
	}
	return o
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gridgran",
	Short: "Disclosure control for gridded population counts.",
	Long: `GridGran publishes population and household counts on a nested grid of
1000m, 500m, 250m and 125m cells, dissolving cells into coarser ones, or
moving points between neighboring cells, wherever a finer cell would fall
below the disclosure limit.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GRIDGRAN_var' where 'var' is
the name of the variable to be set, with dots replaced by underscores.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GridGran.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GridGran v%s\n", gridgran.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Granulate a point file.",
	Long: `run reads the points in InputFile, resolves every 1000m cell and writes
the 125m grid (grid.csv), the points after relocation (points.csv and
points_published.csv) and the dissolved, masked output cells (regions.csv)
to OutputDir. Cells that fail are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		r, err := Process(cfg, Settings(), logrus.StandardLogger())
		if err != nil {
			return err
		}
		if failed := r.Failed(); len(failed) > 0 {
			cmd.Printf("%d of %d cells failed\n", len(failed), len(r.Cells))
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration.",
	Long: `config checks the configuration and prints it in TOML format, so that it
can be saved and passed back with --config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := LoadConfig(Cfg); err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(nest(Settings()))
	},
	DisableAutoGenTag: true,
}
