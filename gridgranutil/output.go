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
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridgran"
)

// Output files written to the output directory.
const (
	GridFile      = "grid.csv"
	PointFile     = "points.csv"
	PublishedFile = "points_published.csv"
	RegionFile    = "regions.csv"
)

// Process reads the points in cfg.InputFile, granulates them and writes
// the output tables, and the report if cfg.ReportFile is set. settings
// are recorded in the report.
func Process(cfg *Config, settings map[string]interface{}, log logrus.FieldLogger) (*Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := cfg.CheckFiles(); err != nil {
		return nil, err
	}
	g, err := cfg.Granulator(log)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("gridgranutil: opening input: %v", err)
	}
	pts, err := ReadPoints(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	r := Run(g, pts, cfg.Seed, cfg.Retries, log)

	grid := r.Grid()
	points := r.Points()
	regions := gridgran.Dissolve(grid)
	cells := make(map[string]int, len(regions))
	for _, reg := range regions {
		cells[reg.ID] = reg.Cells
	}
	masked := g.Classifier.Mask(regions, cfg.Mask)

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{GridFile, func(w io.Writer) error { return WriteGrid(w, grid) }},
		{PointFile, func(w io.Writer) error { return WritePoints(w, points) }},
		{PublishedFile, func(w io.Writer) error { return WritePoints(w, points.Published()) }},
		{RegionFile, func(w io.Writer) error { return WriteRegions(w, masked, cells) }},
	}
	for _, wr := range writers {
		if err := writeFile(filepath.Join(cfg.OutputDir, wr.name), wr.write); err != nil {
			return nil, err
		}
	}
	if cfg.ReportFile != "" {
		if err := WriteReport(cfg.ReportFile, r, cfg, settings); err != nil {
			return nil, err
		}
	}

	s := Summarize(r)
	log.WithFields(logrus.Fields{
		"cells":      s.Cells,
		"skipped":    s.Skipped,
		"failed":     s.Failed,
		"population": s.Population,
		"regions":    s.Regions,
		"moved":      s.MovedPoints,
	}).Info("granulation finished")
	return r, nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("gridgranutil: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("gridgranutil: writing %s: %v", name, err)
	}
	return f.Close()
}
