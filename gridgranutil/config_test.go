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
	"errors"
	"os"
	"testing"

	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/gridgran"
)

// defaultCfg returns a configuration holding the default option values.
func defaultCfg() *viper.Viper {
	v := viper.New()
	for _, o := range options {
		v.SetDefault(o.name, o.defaultVal)
	}
	return v
}

func TestLoadConfig(t *testing.T) {
	v := defaultCfg()
	v.Set("MiddleTierOff", []string{"ID250m", " ID125m"})
	v.Set("Seed", "12")
	c, err := LoadConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Thresholds:    gridgran.DefaultThresholds(),
		Search:        gridgran.DefaultSearch(),
		MiddleTierOff: []gridgran.Level{gridgran.Level250m, gridgran.Level125m},
		Mask:          gridgran.MaskMinimum,
		Seed:          12,
		OutputDir:     "gridgran_out",
	}
	if diff := pretty.Diff(c, want); len(diff) != 0 {
		t.Error(diff)
	}

	g, err := c.Granulator(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.MiddleTierOff[gridgran.Level250m] || g.MiddleTierOff[gridgran.Level500m] {
		t.Errorf("middle tier overrides %v", g.MiddleTierOff)
	}
}

func TestLoadConfigNoMiddleTier(t *testing.T) {
	v := defaultCfg()
	v.Set("Thresholds.P2", "")
	v.Set("Thresholds.H2", "")
	c, err := LoadConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if c.Thresholds.P2 != nil || c.Thresholds.H2 != nil {
		t.Errorf("middle tier should be disabled: %# v", pretty.Formatter(c.Thresholds))
	}

	v.Set("Thresholds.P2", 30)
	if _, err := LoadConfig(v); !errors.Is(err, gridgran.ErrClassificationMismatch) {
		t.Errorf("have %v, want %v", err, gridgran.ErrClassificationMismatch)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	for name, val := range map[string]interface{}{
		"Search.MaxIterations": 0,
		"Retries":              -1,
		"Mask":                 "zero",
		"MiddleTierOff":        []string{"ID1000m"},
		"Thresholds.P2":        "forty",
		"Cls2Prp":              2.0,
	} {
		v := defaultCfg()
		v.Set(name, val)
		if _, err := LoadConfig(v); err == nil {
			t.Errorf("%s=%v: expected an error", name, val)
		}
	}
}

func TestEnvironment(t *testing.T) {
	os.Setenv("GRIDGRAN_SEARCH_MAXITERATIONS", "7")
	defer os.Unsetenv("GRIDGRAN_SEARCH_MAXITERATIONS")
	if n := Cfg.GetInt("Search.MaxIterations"); n != 7 {
		t.Errorf("have %d, want 7", n)
	}
}

func TestCheckFiles(t *testing.T) {
	c := &Config{InputFile: "does_not_exist.csv", OutputDir: "tmp_out"}
	if err := c.CheckFiles(); err == nil {
		t.Error("expected an error for a missing input file")
	}
	c.InputFile = ""
	if err := c.CheckFiles(); err == nil {
		t.Error("expected an error for an unspecified input file")
	}
}
