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
	"strings"
)

// Pattern is the action taken for a parent cell, chosen from the set of
// classes of its children.
type Pattern int

// Sibling patterns.
const (
	PatternUnrecognized Pattern = iota

	// PatternAggregate dissolves every child into the parent.
	PatternAggregate

	// PatternMerge moves the points of class 1 children into class 4
	// children.
	PatternMerge

	// PatternRescue tops up class 3 children with excess points from
	// their siblings.
	PatternRescue

	// PatternAccept publishes the children as they are.
	PatternAccept
)

func (p Pattern) String() string {
	switch p {
	case PatternAggregate:
		return "aggregate"
	case PatternMerge:
		return "merge"
	case PatternRescue:
		return "rescue"
	case PatternAccept:
		return "accept"
	default:
		return "unrecognized"
	}
}

// classSet is a bit set of classes; bit i is set when class i is present.
type classSet uint8

func setOf(classes ...Class) classSet {
	var s classSet
	for _, c := range classes {
		s |= 1 << uint(c)
	}
	return s
}

func (s classSet) has(c Class) bool { return s&(1<<uint(c)) != 0 }

func (s classSet) String() string {
	var parts []string
	for c := Class0; c <= Class4; c++ {
		if s.has(c) {
			parts = append(parts, fmt.Sprint(int(c)))
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// patterns maps every set of child classes without class 2 to its
// action. Sets containing class 2 always aggregate.
var patterns = map[classSet]Pattern{
	setOf(Class1):         PatternAggregate,
	setOf(Class3):         PatternAggregate,
	setOf(Class0, Class1): PatternAggregate,
	setOf(Class0, Class3): PatternAggregate,

	setOf(Class1, Class4):         PatternMerge,
	setOf(Class0, Class1, Class4): PatternMerge,

	setOf(Class1, Class3):                 PatternRescue,
	setOf(Class3, Class4):                 PatternRescue,
	setOf(Class0, Class1, Class3):         PatternRescue,
	setOf(Class0, Class3, Class4):         PatternRescue,
	setOf(Class1, Class3, Class4):         PatternRescue,
	setOf(Class0, Class1, Class3, Class4): PatternRescue,

	setOf(Class0):         PatternAccept,
	setOf(Class4):         PatternAccept,
	setOf(Class0, Class4): PatternAccept,
}

// Match returns the pattern for the given child classes. It returns
// PatternUnrecognized for an empty input or a class outside 0 to 4.
func Match(classes []Class) Pattern {
	if len(classes) == 0 {
		return PatternUnrecognized
	}
	for _, c := range classes {
		if !c.valid() {
			return PatternUnrecognized
		}
	}
	s := setOf(classes...)
	if s.has(Class2) {
		return PatternAggregate
	}
	return patterns[s]
}
