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

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		classes []Class
		want    Pattern
	}{
		{classes: []Class{2, 2, 2, 2}, want: PatternAggregate},
		{classes: []Class{2, 4, 4, 4}, want: PatternAggregate},
		{classes: []Class{0, 1, 2, 3}, want: PatternAggregate},
		{classes: []Class{1, 1, 1, 1}, want: PatternAggregate},
		{classes: []Class{3, 3, 3, 3}, want: PatternAggregate},
		{classes: []Class{0, 1, 1, 0}, want: PatternAggregate},
		{classes: []Class{3, 0, 0, 0}, want: PatternAggregate},

		{classes: []Class{1, 1, 1, 4}, want: PatternMerge},
		{classes: []Class{0, 1, 4, 4}, want: PatternMerge},

		{classes: []Class{1, 3, 3, 1}, want: PatternRescue},
		{classes: []Class{3, 4, 4, 4}, want: PatternRescue},
		{classes: []Class{0, 1, 3, 3}, want: PatternRescue},
		{classes: []Class{0, 3, 4, 0}, want: PatternRescue},
		{classes: []Class{1, 3, 4, 4}, want: PatternRescue},
		{classes: []Class{0, 1, 3, 4}, want: PatternRescue},

		{classes: []Class{4, 0, 4, 0}, want: PatternAccept},
		{classes: []Class{4, 4, 4, 4}, want: PatternAccept},
		{classes: []Class{0, 0, 0, 0}, want: PatternAccept},
		{classes: []Class{4}, want: PatternAccept},

		{classes: nil, want: PatternUnrecognized},
		{classes: []Class{4, 7}, want: PatternUnrecognized},
		{classes: []Class{-1}, want: PatternUnrecognized},
	}
	for _, test := range tests {
		if have := Match(test.classes); have != test.want {
			t.Errorf("Match(%v) = %v; want %v", test.classes, have, test.want)
		}
	}
}

// Every combination of four valid sibling classes is covered.
func TestMatchExhaustive(t *testing.T) {
	for a := Class0; a <= Class4; a++ {
		for b := a; b <= Class4; b++ {
			for c := b; c <= Class4; c++ {
				for d := c; d <= Class4; d++ {
					classes := []Class{a, b, c, d}
					if Match(classes) == PatternUnrecognized {
						t.Errorf("no pattern for %v", classes)
					}
				}
			}
		}
	}
	if s := setOf(0, 3, 4).String(); s != "{0,3,4}" {
		t.Errorf("set string %q", s)
	}
}
