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
	"sort"

	"github.com/spatialmodel/gridgran"
	"github.com/spatialmodel/gridgran/internal/hash"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds run-wide statistics.
type Summary struct {
	Cells, Skipped, Failed int

	Population, Households int

	// Regions is the number of published output cells.
	Regions int

	// MovedPoints is the number of published points that were relocated,
	// and MeanMovedShare is the mean over granulated cells of the share of
	// each cell's points that were relocated, weighted by population.
	MovedPoints    int
	MeanMovedShare float64
}

// Summarize computes the run statistics of r.
func Summarize(r *Result) Summary {
	var s Summary
	var shares, weights, pop []float64
	for _, c := range r.Cells {
		s.Cells++
		switch {
		case c.Err != nil:
			s.Failed++
			continue
		case c.Skipped:
			s.Skipped++
		}
		pop = append(pop, float64(c.Population()))
		s.Households += c.Points.Households()
		if c.Skipped {
			continue
		}
		s.Regions += len(gridgran.Dissolve(c.Grid))
		moved := c.Moved()
		s.MovedPoints += moved
		if n := len(c.Points.Published()); n > 0 {
			shares = append(shares, float64(moved)/float64(n))
			weights = append(weights, float64(c.Population()))
		}
	}
	s.Population = int(floats.Sum(pop))
	if len(shares) > 0 {
		s.MeanMovedShare = stat.Mean(shares, weights)
	}
	return s
}

// status describes the outcome of a cell for the report.
func (c *CellResult) status() string {
	switch {
	case c.Err != nil:
		return "failed: " + c.Err.Error()
	case c.Skipped:
		return "skipped"
	default:
		return "ok"
	}
}

// WriteReport saves an Excel workbook summarizing r: one row per 1000m
// cell on the "cells" sheet, the run statistics on the "summary" sheet
// and the settings on the "config" sheet.
func WriteReport(filename string, r *Result, cfg *Config, settings map[string]interface{}) error {
	f := xlsx.NewFile()
	cells, err := f.AddSheet("cells")
	if err != nil {
		return fmt.Errorf("gridgranutil: creating report: %v", err)
	}
	addRow(cells, "ID1000m", "population", "households", "regions", "moved points", "attempts", "status")
	for i := range r.Cells {
		c := &r.Cells[i]
		row := cells.AddRow()
		row.AddCell().SetString(c.ID)
		row.AddCell().SetInt(c.Population())
		row.AddCell().SetInt(c.Points.Households())
		row.AddCell().SetInt(len(gridgran.Dissolve(c.Grid)))
		row.AddCell().SetInt(c.Moved())
		row.AddCell().SetInt(c.Attempts)
		row.AddCell().SetString(c.status())
	}

	s := Summarize(r)
	summary, err := f.AddSheet("summary")
	if err != nil {
		return fmt.Errorf("gridgranutil: creating report: %v", err)
	}
	for _, kv := range []struct {
		k string
		v float64
	}{
		{"cells", float64(s.Cells)},
		{"skipped", float64(s.Skipped)},
		{"failed", float64(s.Failed)},
		{"population", float64(s.Population)},
		{"households", float64(s.Households)},
		{"regions", float64(s.Regions)},
		{"moved points", float64(s.MovedPoints)},
		{"mean moved share", s.MeanMovedShare},
	} {
		row := summary.AddRow()
		row.AddCell().SetString(kv.k)
		row.AddCell().SetFloat(kv.v)
	}

	conf, err := f.AddSheet("config")
	if err != nil {
		return fmt.Errorf("gridgranutil: creating report: %v", err)
	}
	addRow(conf, "fingerprint", hash.Hash(cfg))
	var keys []string
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		addRow(conf, k, fmt.Sprint(settings[k]))
	}

	if err := f.Save(filename); err != nil {
		return fmt.Errorf("gridgranutil: saving report: %v", err)
	}
	return nil
}

func addRow(s *xlsx.Sheet, values ...string) {
	row := s.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
