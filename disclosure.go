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

// Resolution is the outcome of resolving the children of one parent cell.
type Resolution struct {
	// Matched is the pattern of the children's classes before any
	// shuffling, and Applied is the action that was committed. They
	// differ when shuffling failed and the parent was dissolved instead.
	Matched, Applied Pattern

	Points Table
	Grid   Grid

	// Children is the aggregation of Points at the children level.
	Children Aggregation

	// Err is the shuffling error that caused a fallback to aggregation.
	Err error
}

// Resolve decides what happens to the children at level l of the parent
// cell parentID, given the points and 125m grid rows under that parent.
// Shuffling failures are recovered by dissolving every child into the
// parent; an unrecognized class pattern is returned as an error.
func (c *Classifier) Resolve(parentID string, l Level, pts Table, grid Grid, s SearchConfig, rng *rand.Rand) (*Resolution, error) {
	children := c.Aggregate(pts, l)
	r := &Resolution{Matched: Match(children.Classes())}
	r.Applied = r.Matched

	var err error
	switch r.Matched {
	case PatternAccept:
		r.Points, r.Grid = pts.Clone(), grid.Clone()
	case PatternAggregate:
		r.Points, r.Grid = pts.Clone(), grid.dissolveInto(parentID)
	case PatternMerge:
		r.Points, r.Grid, err = c.merge(pts, grid, children, l, rng)
	case PatternRescue:
		r.Points, r.Grid, err = c.rescue(pts, grid, children, l, s, rng)
	default:
		return nil, fmt.Errorf("resolving %s at %v: classes %v: %w",
			parentID, l, setOf(children.Classes()...), ErrUnrecognizedPattern)
	}
	if err != nil {
		if !recoverable(err) {
			return nil, err
		}
		r.Applied, r.Err = PatternAggregate, err
		r.Points, r.Grid = pts.Clone(), grid.dissolveInto(parentID)
	}
	r.Children = c.Aggregate(r.Points, l)
	return r, nil
}
