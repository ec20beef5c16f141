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

package gridgranutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridgran"
	"github.com/spf13/cast"
)

// Config holds the settings of a granulation run.
type Config struct {
	Thresholds gridgran.Thresholds
	Cls2Prp    float64
	Search     gridgran.SearchConfig

	// MiddleTierOff lists the levels at which class 2 is disabled.
	MiddleTierOff []gridgran.Level

	Mask gridgran.MaskMode

	// Seed is the base seed from which the seed of every 1000m cell is
	// derived.
	Seed int64

	// Retries is the number of times a failed 1000m cell is retried with
	// a new seed.
	Retries int

	InputFile  string
	OutputDir  string
	ReportFile string
}

// Granulator returns the granulator described by c.
func (c *Config) Granulator(log logrus.FieldLogger) (*gridgran.Granulator, error) {
	cls, err := gridgran.NewClassifier(c.Thresholds, c.Cls2Prp)
	if err != nil {
		return nil, err
	}
	g := gridgran.NewGranulator(cls)
	g.Search = c.Search
	for _, l := range c.MiddleTierOff {
		g.MiddleTierOff[l] = true
	}
	if log != nil {
		g.Log = log
	}
	return g, nil
}

// LoadConfig reads a run configuration from cfg and checks it.
func LoadConfig(cfg *viper.Viper) (*Config, error) {
	p2, err := optionalCutoff(cfg.Get("Thresholds.P2"))
	if err != nil {
		return nil, fmt.Errorf("Thresholds.P2: %v", err)
	}
	h2, err := optionalCutoff(cfg.Get("Thresholds.H2"))
	if err != nil {
		return nil, fmt.Errorf("Thresholds.H2: %v", err)
	}
	c := &Config{
		Thresholds: gridgran.Thresholds{
			P1: cfg.GetInt("Thresholds.P1"), P2: p2, P3: cfg.GetInt("Thresholds.P3"),
			H1: cfg.GetInt("Thresholds.H1"), H2: h2, H3: cfg.GetInt("Thresholds.H3"),
		},
		Cls2Prp: cfg.GetFloat64("Cls2Prp"),
		Search: gridgran.SearchConfig{
			MaxIterations:        cfg.GetInt("Search.MaxIterations"),
			SampleGrowthInterval: cfg.GetInt("Search.SampleGrowthInterval"),
			SampleGrowthStep:     cfg.GetInt("Search.SampleGrowthStep"),
		},
		Seed:       cast.ToInt64(cfg.Get("Seed")),
		Retries:    cfg.GetInt("Retries"),
		InputFile:  os.ExpandEnv(cfg.GetString("InputFile")),
		OutputDir:  os.ExpandEnv(cfg.GetString("OutputDir")),
		ReportFile: os.ExpandEnv(cfg.GetString("ReportFile")),
	}

	if c.Mask, err = gridgran.ParseMaskMode(cfg.GetString("Mask")); err != nil {
		return nil, err
	}
	levels, err := cast.ToStringSliceE(cfg.Get("MiddleTierOff"))
	if err != nil {
		return nil, fmt.Errorf("MiddleTierOff: %v", err)
	}
	for _, name := range levels {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		l, err := gridgran.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("MiddleTierOff: %v", err)
		}
		if l == gridgran.Level1000m {
			return nil, fmt.Errorf("MiddleTierOff: %v cells are never classified as children", l)
		}
		c.MiddleTierOff = append(c.MiddleTierOff, l)
	}

	if err := c.Search.Validate(); err != nil {
		return nil, fmt.Errorf("parsing search configuration: %v", err)
	}
	if c.Retries < 0 {
		return nil, fmt.Errorf("parsing run configuration: Retries=%d but should be >=0", c.Retries)
	}
	if _, err := gridgran.NewClassifier(c.Thresholds, c.Cls2Prp); err != nil {
		return nil, err
	}
	return c, nil
}

// CheckFiles makes sure the input file is specified and the output
// directory exists, creating it if necessary.
func (c *Config) CheckFiles() error {
	if c.InputFile == "" {
		return fmt.Errorf(`you need to specify an input file configuration variable (for example: InputFile="points.csv")`)
	}
	if _, err := os.Stat(c.InputFile); err != nil {
		return fmt.Errorf("gridgran: the InputFile doesn't exist: %v", err)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("you need to specify an output directory (OutputDir)")
	}
	if err := os.MkdirAll(c.OutputDir, os.ModePerm); err != nil {
		return fmt.Errorf("gridgran: creating OutputDir: %v", err)
	}
	if c.ReportFile != "" {
		if _, err := os.Stat(filepath.Dir(c.ReportFile)); err != nil {
			return fmt.Errorf("gridgran: the ReportFile directory doesn't exist: %v", err)
		}
	}
	return nil
}

// optionalCutoff converts a tier 2 cutoff. An empty value disables the
// tier.
func optionalCutoff(v interface{}) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return nil, err
	}
	return gridgran.Cutoff(i), nil
}
