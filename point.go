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

package gridgran

import (
	"sort"
)

// Point is one addressable unit, or a placeholder row standing for an
// empty 125m cell.
type Point struct {
	// UPRN uniquely identifies the unit. It is empty for placeholders.
	UPRN string

	// P is the population of the unit and H is 1 for an occupied unit
	// and 0 for a placeholder.
	P, H int

	// IDs are the identifiers of the 125m cell the point currently
	// belongs to and of that cell's ancestors.
	IDs CellIDs

	// MoveOrigin records, for each level at which the point was
	// relocated, the 125m cell it was relocated from.
	MoveOrigin [numLevels]string

	// StartCell is the 125m cell the point was read in.
	StartCell string
}

// NewPoint returns an occupied unit with population p in the 125m cell id125.
func NewPoint(id125, uprn string, p int) (Point, error) {
	ids, err := NewCellIDs(id125)
	if err != nil {
		return Point{}, err
	}
	return Point{UPRN: uprn, P: p, H: 1, IDs: ids, StartCell: id125}, nil
}

// Placeholder returns an empty row for the 125m cell id125 so that the cell
// is present in aggregations even when nobody lives in it.
func Placeholder(id125 string) (Point, error) {
	ids, err := NewCellIDs(id125)
	if err != nil {
		return Point{}, err
	}
	return Point{IDs: ids, StartCell: id125}, nil
}

// Moved reports whether the point was relocated at any level.
func (p Point) Moved() bool {
	for _, o := range p.MoveOrigin {
		if o != "" {
			return true
		}
	}
	return false
}

// donor reports whether the point can be handed to another cell.
func (p Point) donor() bool { return p.P > 0 }

// relocate moves the point into the 125m cell dst, recording its
// current cell as the origin of a move made at level l.
func (p Point) relocate(dst CellIDs, l Level) Point {
	p.MoveOrigin[l] = p.IDs[Level125m]
	p.IDs = dst
	return p
}

// emptied returns the zero-valued row left behind when the point leaves
// its cell.
func (p Point) emptied() Point {
	return Point{IDs: p.IDs, StartCell: p.StartCell, MoveOrigin: p.MoveOrigin}
}

// Table is a set of point rows. Tables have value semantics: every
// operation that changes rows returns a new table.
type Table []Point

// Clone returns a copy of t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	o := make(Table, len(t))
	copy(o, t)
	return o
}

// Population returns the summed population of t.
func (t Table) Population() int {
	var s int
	for _, p := range t {
		s += p.P
	}
	return s
}

// Households returns the summed household count of t.
func (t Table) Households() int {
	var s int
	for _, p := range t {
		s += p.H
	}
	return s
}

// donors returns the indices of the rows of t that can be donated.
func (t Table) donors() []int {
	var o []int
	for i, p := range t {
		if p.donor() {
			o = append(o, i)
		}
	}
	return o
}

// In returns the rows of t whose identifier at level l is one of ids.
func (t Table) In(l Level, ids ...string) Table {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var o Table
	for _, p := range t {
		if _, ok := want[p.IDs[l]]; ok {
			o = append(o, p)
		}
	}
	return o
}

// IDs returns the sorted unique identifiers of t at level l.
func (t Table) IDs(l Level) []string {
	seen := make(map[string]struct{})
	var o []string
	for _, p := range t {
		id := p.IDs[l]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		o = append(o, id)
	}
	sort.Strings(o)
	return o
}

// Split groups the rows of t by their identifier at level l.
func (t Table) Split(l Level) map[string]Table {
	o := make(map[string]Table)
	for _, p := range t {
		o[p.IDs[l]] = append(o[p.IDs[l]], p)
	}
	return o
}

// Published returns the rows of t that represent real units: rows with a
// UPRN and a population.
func (t Table) Published() Table {
	var o Table
	for _, p := range t {
		if p.UPRN != "" && p.P > 0 {
			o = append(o, p)
		}
	}
	return o
}

// DropDuplicates removes rows whose UPRN appeared earlier in t, which
// happens when a unit straddles a cell border. Placeholders are kept.
func DropDuplicates(t Table) Table {
	seen := make(map[string]struct{})
	var o Table
	for _, p := range t {
		if p.UPRN != "" {
			if _, ok := seen[p.UPRN]; ok {
				continue
			}
			seen[p.UPRN] = struct{}{}
		}
		o = append(o, p)
	}
	return o
}
