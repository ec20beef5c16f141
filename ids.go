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
)

// Level is a resolution in the nested grid hierarchy.
type Level int

// The four resolutions of the grid, finest first.
const (
	Level125m Level = iota
	Level250m
	Level500m
	Level1000m
)

// numLevels is the number of levels in the hierarchy.
const numLevels = 4

// Levels lists every level, finest first.
var Levels = []Level{Level125m, Level250m, Level500m, Level1000m}

var levelNames = [numLevels]string{"ID125m", "ID250m", "ID500m", "ID1000m"}

// String returns the column name of the level's identifier, e.g. "ID500m".
func (l Level) String() string {
	if l < Level125m || l > Level1000m {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// MoveColumn returns the name of the column recording where points that
// were relocated while resolving children at this level came from.
func (l Level) MoveColumn() string {
	return l.String() + "_LEVEL_MOVE_ORIGIN"
}

// Finer returns the next finer level. The finest level is its own child.
func (l Level) Finer() Level {
	if l == Level125m {
		return l
	}
	return l - 1
}

// Coarser returns the next coarser level and false if l is the
// coarsest level.
func (l Level) Coarser() (Level, bool) {
	if l >= Level1000m {
		return l, false
	}
	return l + 1, true
}

// ParseLevel returns the level whose identifier column is name.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("gridgran: unknown level %q", name)
}

// CellIDs holds the identifier of a 125m cell and of each of its ancestors,
// indexed by Level.
type CellIDs [numLevels]string

// NewCellIDs derives the ancestor identifiers of a 125m cell. The last
// three characters of the id locate the cell within its 250m, 500m and
// 1000m ancestors; each coarser id zeroes one more of them.
func NewCellIDs(id125 string) (CellIDs, error) {
	var ids CellIDs
	if len(id125) < 3 {
		return ids, fmt.Errorf("%w: %q is shorter than 3 characters", ErrInvalidCellID, id125)
	}
	stem, tail := id125[:len(id125)-3], id125[len(id125)-3:]
	ids[Level125m] = id125
	ids[Level250m] = stem + "0" + tail[1:]
	ids[Level500m] = stem + "00" + tail[2:]
	ids[Level1000m] = stem + "000"
	return ids, nil
}

// At returns the identifier at level l.
func (ids CellIDs) At(l Level) string { return ids[l] }

// Valid reports whether the ancestor identifiers are consistent with the
// 125m identifier.
func (ids CellIDs) Valid() bool {
	want, err := NewCellIDs(ids[Level125m])
	return err == nil && want == ids
}

// Truncate returns a copy of ids with every level finer than l cleared.
func (ids CellIDs) Truncate(l Level) CellIDs {
	for i := Level125m; i < l; i++ {
		ids[i] = ""
	}
	return ids
}
