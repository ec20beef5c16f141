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
	"fmt"
	"math/rand"
)

// placeholder reports whether p is an empty-cell row.
func (p Point) placeholder() bool { return p.UPRN == "" && p.P == 0 && p.H == 0 }

// childSets returns, for the children of one parent, the identifiers of
// the children in each class.
func childSets(children Aggregation) (byClass [Class4 + 1][]string) {
	for _, c := range children {
		if c.Class.valid() {
			byClass[c.Class] = append(byClass[c.Class], c.ID())
		}
	}
	return byClass
}

// merge moves every point of the class 1 children into random 125m cells
// of the class 4 children, leaving a placeholder behind for each point
// moved. Moves are recorded against the children level l.
func (c *Classifier) merge(pts Table, grid Grid, children Aggregation, l Level, rng *rand.Rand) (Table, Grid, error) {
	byClass := childSets(children)
	dest := grid.cells(l, byClass[Class4]...)
	if len(dest) == 0 {
		return nil, nil, fmt.Errorf("merging at %v: no class 4 cells to merge into: %w", l, ErrDisclosureNotAchievable)
	}
	from := make(map[string]bool)
	for _, id := range byClass[Class1] {
		from[id] = true
	}
	o := make(Table, 0, len(pts))
	for _, p := range pts {
		if !from[p.IDs[l]] || p.placeholder() {
			o = append(o, p)
			continue
		}
		o = append(o, p.emptied(), p.relocate(dest[rng.Intn(len(dest))], l))
	}
	return o, c.Template(o), nil
}

// rescue tops up the class 3 children of one parent with excess points
// taken from the class 1 children and from the surplus of the class 4
// children, so that every child ends up in class 0 or 4. The inputs are
// never modified.
func (c *Classifier) rescue(pts Table, grid Grid, children Aggregation, l Level, s SearchConfig, rng *rand.Rand) (Table, Grid, error) {
	tp, th := c.ThresholdP(), c.ThresholdH()
	byClass := childSets(children)

	class3 := pts.In(l, byClass[Class3]...)
	pool := pts.In(l, byClass[Class1]...)
	remainder := pts.In(l, byClass[Class0]...)
	for _, id := range byClass[Class4] {
		rows := pts.In(l, id)
		core, surplus, err := s.splitSurplus(rows, tp, th, rng)
		if err != nil {
			remainder = append(remainder, rows...)
			continue
		}
		remainder = append(remainder, core...)
		pool = append(pool, surplus...)
	}

	type need struct {
		id   string
		p, h int
	}
	var needs []need
	var pNeeded, hNeeded int
	for _, child := range children {
		if child.Class != Class3 {
			continue
		}
		n := need{id: child.ID(), p: atLeastOne(tp - child.P), h: atLeastOne(th - child.H)}
		needs = append(needs, n)
		pNeeded += n.p
		hNeeded += n.h
	}
	donors := pool.donors()
	if avail := populationOf(pool, donors); avail < pNeeded || len(donors) < hNeeded {
		return nil, nil, fmt.Errorf("rescuing %d class 3 cells at %v: need %d population in %d households, have %d in %d: %w",
			len(needs), l, pNeeded, hNeeded, avail, len(donors), ErrDisclosureNotAchievable)
	}

	var received Table
	for k, n := range needs {
		avail := pool.donors()
		var idx []int
		if k == len(needs)-1 && populationOf(pool, avail) >= n.p && len(avail) >= n.h {
			idx = avail
		} else {
			var err error
			if idx, err = s.match(pool, avail, n.p, n.h, rng); err != nil {
				return nil, nil, fmt.Errorf("rescuing %s: %w", n.id, err)
			}
		}
		dest := grid.cells(l, n.id)
		for _, i := range idx {
			p := pool[i]
			pool[i] = p.emptied()
			received = append(received, p.relocate(dest[rng.Intn(len(dest))], l))
		}
	}

	o := make(Table, 0, len(class3)+len(received)+len(pool)+len(remainder))
	o = append(o, class3...)
	o = append(o, received...)
	o = append(o, pool...)
	o = append(o, remainder...)

	after := c.Aggregate(o, l)
	if Match(after.Classes()) == PatternMerge {
		var err error
		if o, _, err = c.merge(o, c.Template(o), after, l, rng); err != nil {
			return nil, nil, err
		}
		after = c.Aggregate(o, l)
	}
	for _, child := range after {
		if child.Class != Class0 && child.Class != Class4 {
			return nil, nil, fmt.Errorf("rescue left %s in class %d: %w", child.ID(), child.Class, ErrDisclosureNotAchievable)
		}
	}
	return o, c.Template(o), nil
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
