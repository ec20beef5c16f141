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

import "errors"

var (
	// ErrInseparableSubset indicates that a bounded search could not find a
	// subset of points meeting its population and household criteria.
	ErrInseparableSubset = errors.New("gridgran: points could not be separated to meet the disclosure limit")

	// ErrDisclosureNotAchievable indicates that not enough excess points
	// exist to bring the class 3 cells over the disclosure limit.
	ErrDisclosureNotAchievable = errors.New("gridgran: disclosure limit cannot be achieved by shuffling")

	// ErrClassificationMismatch indicates that only one of the population
	// and household middle cutoffs is set.
	ErrClassificationMismatch = errors.New("gridgran: population and household middle cutoffs must both be set or both be unset")

	// ErrUnrecognizedPattern indicates a set of sibling classes that the
	// decision table does not cover.
	ErrUnrecognizedPattern = errors.New("gridgran: unrecognized sibling class pattern")

	// ErrInvalidCellID indicates a cell identifier that the hierarchy
	// cannot be derived from.
	ErrInvalidCellID = errors.New("gridgran: invalid cell id")
)

// recoverable reports whether err is a shuffling failure that is handled
// by dissolving the parent cell.
func recoverable(err error) bool {
	return errors.Is(err, ErrInseparableSubset) || errors.Is(err, ErrDisclosureNotAchievable)
}
