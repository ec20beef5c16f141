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

// Cell summarizes all points sharing an identifier at one level.
type Cell struct {
	Level Level

	// IDs holds the identifiers of the cell and of its ancestors.
	// Identifiers finer than Level are empty.
	IDs CellIDs

	P, H int

	PClass, HClass, Class Class
}

// ID returns the identifier of the cell at its own level.
func (c Cell) ID() string { return c.IDs[c.Level] }

// Parent returns the identifier of the cell's parent, or the empty
// string for a 1000m cell.
func (c Cell) Parent() string {
	if pl, ok := c.Level.Coarser(); ok {
		return c.IDs[pl]
	}
	return ""
}

// Aggregation is a table of cells at one level, sorted so that siblings
// are adjacent.
type Aggregation []Cell

// Aggregate sums the points in t by their identifiers at level l and
// classifies every resulting cell. Class 2 cells are downgraded within
// each complete group of four siblings. The output depends only on the
// multiset of rows in t.
func (c *Classifier) Aggregate(t Table, l Level) Aggregation {
	index := make(map[CellIDs]int)
	var o Aggregation
	for _, p := range t {
		key := p.IDs.Truncate(l)
		i, ok := index[key]
		if !ok {
			i = len(o)
			index[key] = i
			o = append(o, Cell{Level: l, IDs: key})
		}
		o[i].P += p.P
		o[i].H += p.H
	}
	sort.Slice(o, func(i, j int) bool { return lessIDs(o[i].IDs, o[j].IDs, l) })
	c.classify(o)
	return o
}

// classify sets the classes of the sorted cells a and downgrades each run
// of siblings.
func (c *Classifier) classify(a Aggregation) {
	for i := range a {
		a[i].PClass, a[i].HClass, a[i].Class = c.Classify(a[i].P, a[i].H)
	}
	for start := 0; start < len(a); {
		end := start + 1
		for end < len(a) && a[end].Parent() == a[start].Parent() {
			end++
		}
		if a[start].Parent() != "" {
			c.downgrade(a[start:end])
		}
		start = end
	}
}

// lessIDs orders identifiers from the coarsest level down to l.
func lessIDs(a, b CellIDs, l Level) bool {
	for lv := Level1000m; lv >= l; lv-- {
		if a[lv] != b[lv] {
			return a[lv] < b[lv]
		}
	}
	return false
}

// Classes returns the class of every cell in a.
func (a Aggregation) Classes() []Class {
	o := make([]Class, len(a))
	for i, c := range a {
		o[i] = c.Class
	}
	return o
}

// IDs returns the identifier of every cell in a.
func (a Aggregation) IDs() []string {
	o := make([]string, len(a))
	for i, c := range a {
		o[i] = c.ID()
	}
	return o
}

// WithClass returns the identifiers of the cells in a with class cls.
func (a Aggregation) WithClass(cls Class) []string {
	var o []string
	for _, c := range a {
		if c.Class == cls {
			o = append(o, c.ID())
		}
	}
	return o
}

// Population returns the summed population of a.
func (a Aggregation) Population() int {
	var s int
	for _, c := range a {
		s += c.P
	}
	return s
}

// GridRow is a 125m cell together with the identifier of the cell its
// geometry will be dissolved into.
type GridRow struct {
	Cell

	// DissolveTarget is empty while the cell may still be split, and set
	// once to the cell's own identifier or one of its ancestors'.
	DissolveTarget string
}

// Grid is a table of 125m cells.
type Grid []GridRow

// Template aggregates t to 125m and leaves every dissolve target unset.
func (c *Classifier) Template(t Table) Grid {
	a := c.Aggregate(t, Level125m)
	o := make(Grid, len(a))
	for i, cell := range a {
		o[i] = GridRow{Cell: cell}
	}
	return o
}

// Reclassify returns a copy of g, sorted like a template, with the classes
// of every row recomputed by c. Dissolve targets are kept.
func (c *Classifier) Reclassify(g Grid) Grid {
	o := g.Clone()
	sort.SliceStable(o, func(i, j int) bool { return lessIDs(o[i].IDs, o[j].IDs, Level125m) })
	a := make(Aggregation, len(o))
	for i, r := range o {
		a[i] = r.Cell
	}
	c.classify(a)
	for i := range o {
		o[i].Cell = a[i]
	}
	return o
}

// Clone returns a copy of g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	o := make(Grid, len(g))
	copy(o, g)
	return o
}

// In returns the rows of g whose identifier at level l is one of ids.
func (g Grid) In(l Level, ids ...string) Grid {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var o Grid
	for _, r := range g {
		if _, ok := want[r.IDs[l]]; ok {
			o = append(o, r)
		}
	}
	return o
}

// Population returns the summed population of g.
func (g Grid) Population() int {
	var s int
	for _, r := range g {
		s += r.P
	}
	return s
}

// Resolved reports whether every row of g has a dissolve target.
func (g Grid) Resolved() bool {
	for _, r := range g {
		if r.DissolveTarget == "" {
			return false
		}
	}
	return true
}

// Undetermined reports whether no row of g has a dissolve target.
func (g Grid) Undetermined() bool {
	for _, r := range g {
		if r.DissolveTarget != "" {
			return false
		}
	}
	return true
}

// commit returns a copy of g in which every row without a dissolve target
// is dissolved into target. Rows that already have one keep it.
func (g Grid) commit(target func(GridRow) string) Grid {
	o := g.Clone()
	for i := range o {
		if o[i].DissolveTarget == "" {
			o[i].DissolveTarget = target(o[i])
		}
	}
	return o
}

// dissolveInto dissolves every undetermined row of g into the cell id.
func (g Grid) dissolveInto(id string) Grid {
	return g.commit(func(GridRow) string { return id })
}

// keepOwn sets the dissolve target of every undetermined row of g to the
// row's own 125m identifier.
func (g Grid) keepOwn() Grid {
	return g.commit(func(r GridRow) string { return r.IDs[Level125m] })
}

// cells returns the identifiers of the 125m cells of g lying within the
// level l cells ids, for use as relocation destinations.
func (g Grid) cells(l Level, ids ...string) []CellIDs {
	var o []CellIDs
	for _, r := range g.In(l, ids...) {
		o = append(o, r.IDs)
	}
	return o
}
