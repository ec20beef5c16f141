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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spatialmodel/gridgran"
)

// Column names of the point and grid tables.
const (
	colP              = "p"
	colH              = "h"
	colUPRN           = "uprn"
	colPClass         = "p_cls"
	colHClass         = "h_cls"
	colClass          = "classification"
	colDissolveTarget = "dissolve_target"
	colStartPoint     = "START_POINT"
	colAboveThreshold = "above_threshold"
	colCells          = "n_cells"
)

// moveLevels are the levels at which points can be relocated, in the
// order their columns are written.
var moveLevels = []gridgran.Level{gridgran.Level500m, gridgran.Level250m, gridgran.Level125m}

// ReadPoints reads a point table with the columns ID125m, p, h and uprn.
// The ancestor identifiers are derived from ID125m. A missing h column,
// or an empty h value, counts one household per row with a UPRN. Rows
// without a UPRN or population are placeholders for empty cells.
func ReadPoints(r io.Reader) (gridgran.Table, error) {
	d := csv.NewReader(r)
	d.Comment = '#'
	d.TrimLeadingSpace = true
	lines, err := d.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("gridgranutil: reading points: %v", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("gridgranutil: reading points: missing header")
	}
	col := make(map[string]int)
	for i, name := range lines[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{gridgran.Level125m.String(), colP} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("gridgranutil: reading points: missing column %q", name)
		}
	}
	get := func(line []string, name string) string {
		if i, ok := col[name]; ok && i < len(line) {
			return strings.TrimSpace(line[i])
		}
		return ""
	}

	o := make(gridgran.Table, 0, len(lines)-1)
	for i, line := range lines[1:] {
		row := i + 2
		id := get(line, gridgran.Level125m.String())
		p, err := parseCount(get(line, colP))
		if err != nil {
			return nil, fmt.Errorf("gridgranutil: line %d: p: %v", row, err)
		}
		uprn := get(line, colUPRN)
		var pt gridgran.Point
		if uprn == "" && p == 0 {
			pt, err = gridgran.Placeholder(id)
		} else {
			pt, err = gridgran.NewPoint(id, uprn, p)
		}
		if err != nil {
			return nil, fmt.Errorf("gridgranutil: line %d: %v", row, err)
		}
		if hs := get(line, colH); hs != "" {
			if pt.H, err = parseCount(hs); err != nil {
				return nil, fmt.Errorf("gridgranutil: line %d: h: %v", row, err)
			}
		} else if uprn == "" {
			pt.H = 0
		}
		o = append(o, pt)
	}
	return gridgran.DropDuplicates(o), nil
}

// parseCount parses a non-negative integer count. Whole-valued floats,
// as written by spreadsheet tools, are accepted.
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("%q is not a whole number", s)
		}
		v = int(f)
	}
	if v < 0 {
		return 0, fmt.Errorf("%d is negative", v)
	}
	return v, nil
}

func idColumns() []string {
	o := make([]string, len(gridgran.Levels))
	for i, l := range gridgran.Levels {
		o[i] = l.String()
	}
	return o
}

// WritePoints writes a point table, including the move tracking columns.
func WritePoints(w io.Writer, t gridgran.Table) error {
	e := csv.NewWriter(w)
	header := append(idColumns(), colP, colH, colUPRN)
	for _, l := range moveLevels {
		header = append(header, l.MoveColumn())
	}
	header = append(header, colStartPoint)
	if err := e.Write(header); err != nil {
		return err
	}
	for _, p := range t {
		line := append([]string{}, p.IDs[:]...)
		line = append(line, strconv.Itoa(p.P), strconv.Itoa(p.H), p.UPRN)
		for _, l := range moveLevels {
			line = append(line, p.MoveOrigin[l])
		}
		line = append(line, p.StartCell)
		if err := e.Write(line); err != nil {
			return err
		}
	}
	e.Flush()
	return e.Error()
}

// WriteGrid writes one row per 125m cell with its classes and dissolve
// target.
func WriteGrid(w io.Writer, g gridgran.Grid) error {
	e := csv.NewWriter(w)
	header := append(idColumns(), colP, colH, colPClass, colHClass, colClass, colDissolveTarget)
	if err := e.Write(header); err != nil {
		return err
	}
	for _, r := range g {
		line := append([]string{}, r.IDs[:]...)
		line = append(line,
			strconv.Itoa(r.P), strconv.Itoa(r.H),
			strconv.Itoa(int(r.PClass)), strconv.Itoa(int(r.HClass)), strconv.Itoa(int(r.Class)),
			r.DissolveTarget)
		if err := e.Write(line); err != nil {
			return err
		}
	}
	e.Flush()
	return e.Error()
}

// WriteRegions writes the dissolved, masked output cells. cells gives
// the number of 125m cells in each region and may be nil.
func WriteRegions(w io.Writer, regions []gridgran.MaskedRegion, cells map[string]int) error {
	e := csv.NewWriter(w)
	if err := e.Write([]string{"GridID", colP, colH, colAboveThreshold, colCells}); err != nil {
		return err
	}
	for _, r := range regions {
		line := []string{r.ID, r.P, r.H, strconv.FormatBool(r.AboveThreshold), strconv.Itoa(cells[r.ID])}
		if err := e.Write(line); err != nil {
			return err
		}
	}
	e.Flush()
	return e.Error()
}
