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
	"sort"
	"testing"
)

// testCell is the 1000m cell used throughout the tests.
const testCell = "X000"

// id returns the 125m identifier at the given quadrants of testCell.
func id(q500, q250, q125 int) string { return fmt.Sprintf("X%d%d%d", q125, q250, q500) }

// child500 returns the identifier of the 500m child q of testCell.
func child500(q int) string { return fmt.Sprintf("X00%d", q) }

// cellsOf500 returns the sixteen 125m identifiers inside the 500m child q.
func cellsOf500(q int) []string {
	var o []string
	for b := 1; b <= 4; b++ {
		for c := 1; c <= 4; c++ {
			o = append(o, id(q, b, c))
		}
	}
	return o
}

// fill adds n points of population p to the 500m child q, spread over
// its sixteen 125m cells.
func fill(pops map[string][]int, q, n, p int) {
	cells := cellsOf500(q)
	for i := 0; i < n; i++ {
		c := cells[i%len(cells)]
		pops[c] = append(pops[c], p)
	}
}

// table returns a placeholder for every 125m cell of testCell followed by
// one point for every population listed in pops.
func table(t *testing.T, pops map[string][]int) Table {
	var o Table
	for q := 1; q <= 4; q++ {
		for _, c := range cellsOf500(q) {
			ph, err := Placeholder(c)
			if err != nil {
				t.Fatal(err)
			}
			o = append(o, ph)
		}
	}
	var keys []string
	for k := range pops {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for j, p := range pops[k] {
			pt, err := NewPoint(k, fmt.Sprintf("%s-%d", k, j), p)
			if err != nil {
				t.Fatal(err)
			}
			o = append(o, pt)
		}
	}
	return o
}

func defaultClassifier(t *testing.T) *Classifier {
	c, err := NewClassifier(DefaultThresholds(), 0)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
