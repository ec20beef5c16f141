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

// Package gridgran applies statistical disclosure control to population
// counts on a nested 1000m, 500m, 250m and 125m square grid. For each
// 1000m cell it decides, level by level, whether the four children of a
// cell can be published at the finer resolution or must be dissolved
// into their parent, moving individual points between siblings where
// that lets a finer split clear the disclosure limit.
package gridgran

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Version gives the version number.
const Version = "0.1.0"

// Granulator resolves the cells of one 1000m cell.
type Granulator struct {
	Classifier *Classifier
	Search     SearchConfig

	// MiddleTierOff disables class 2 while classifying the children at
	// the given level.
	MiddleTierOff [numLevels]bool

	// Log receives a debug entry for every decision. It defaults to the
	// logrus standard logger.
	Log logrus.FieldLogger
}

// NewGranulator returns a granulator using c and the default search bounds.
func NewGranulator(c *Classifier) *Granulator {
	return &Granulator{Classifier: c, Search: DefaultSearch(), Log: logrus.StandardLogger()}
}

func (g *Granulator) classifier(l Level) *Classifier {
	if g.MiddleTierOff[l] {
		return g.Classifier.WithoutMiddleTier()
	}
	return g.Classifier
}

func (g *Granulator) log() logrus.FieldLogger {
	if g.Log == nil {
		return logrus.StandardLogger()
	}
	return g.Log
}

// Granulate resolves the 1000m cell cellID holding the points pts. It
// returns one grid row per 125m cell, each with its dissolve target set,
// and the points after any relocation. The input is not modified.
func (g *Granulator) Granulate(cellID string, pts Table, rng *rand.Rand) (Grid, Table, error) {
	if err := g.Search.Validate(); err != nil {
		return nil, nil, err
	}
	for _, p := range pts {
		if !p.IDs.Valid() || p.IDs[Level1000m] != cellID {
			return nil, nil, fmt.Errorf("granulating %s: point in %q: %w", cellID, p.IDs[Level125m], ErrInvalidCellID)
		}
	}
	return g.resolve(Level1000m, cellID, pts, g.Classifier.Template(pts), rng)
}

// resolve handles the children of the cell parentID at level parent and
// recurses into every child that stays split.
func (g *Granulator) resolve(parent Level, parentID string, pts Table, grid Grid, rng *rand.Rand) (Grid, Table, error) {
	child := parent.Finer()
	r, err := g.classifier(child).Resolve(parentID, child, pts, grid, g.Search, rng)
	if err != nil {
		return nil, nil, err
	}
	entry := g.log().WithFields(logrus.Fields{
		"cell":    parentID,
		"level":   child.String(),
		"pattern": r.Applied.String(),
		"classes": setOf(r.Children.Classes()...).String(),
	})
	if r.Err != nil {
		entry.WithError(r.Err).Debugf("%s failed; dissolving into parent", r.Matched)
	} else {
		entry.Debug("resolved")
	}
	if g.MiddleTierOff[child] && (r.Applied == PatternMerge || r.Applied == PatternRescue) {
		// Shuffled rows were re-derived without class 2.
		r.Grid = g.Classifier.Reclassify(r.Grid)
	}

	if r.Applied == PatternAggregate {
		return r.Grid, r.Points, nil
	}
	if child == Level125m {
		return r.Grid.keepOwn(), r.Points, nil
	}
	var (
		outGrid Grid
		outPts  Table
	)
	split := r.Points.Split(child)
	for _, id := range r.Points.IDs(child) {
		cg, cp, err := g.resolve(child, id, split[id], r.Grid.In(child, id), rng)
		if err != nil {
			return nil, nil, err
		}
		outGrid = append(outGrid, cg...)
		outPts = append(outPts, cp...)
	}
	return outGrid, outPts, nil
}
