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
	"testing"

	"github.com/kr/pretty"
)

func TestDissolve(t *testing.T) {
	row := func(id125, target string, p, h int) GridRow {
		ids, err := NewCellIDs(id125)
		if err != nil {
			t.Fatal(err)
		}
		return GridRow{Cell: Cell{IDs: ids, P: p, H: h}, DissolveTarget: target}
	}
	g := Grid{
		row("X111", "X001", 10, 4),
		row("X211", "X001", 45, 20),
		row("X112", "X112", 60, 30),
		row("X212", "X212", 0, 0),
		row("X113", "", 7, 3),
	}
	have := Dissolve(g)
	want := []Region{
		{ID: "X001", P: 55, H: 24, Cells: 2},
		{ID: "X112", P: 60, H: 30, Cells: 1},
	}
	if diff := pretty.Diff(have, want); len(diff) != 0 {
		t.Error(diff)
	}
}

func TestMask(t *testing.T) {
	c := defaultClassifier(t)
	regions := []Region{
		{ID: "a", P: 55, H: 24},
		{ID: "b", P: 60, H: 30},
		{ID: "c", P: 49, H: 25},
	}
	tests := []struct {
		mode MaskMode
		want []MaskedRegion
	}{
		{
			mode: MaskMinimum,
			want: []MaskedRegion{
				{ID: "a", P: "55", H: "25"},
				{ID: "b", P: "60", H: "30", AboveThreshold: true},
				{ID: "c", P: "50", H: "25"},
			},
		},
		{
			mode: MaskNull,
			want: []MaskedRegion{
				{ID: "a", P: "55", H: ""},
				{ID: "b", P: "60", H: "30", AboveThreshold: true},
				{ID: "c", P: "", H: "25"},
			},
		},
		{
			mode: MaskStar,
			want: []MaskedRegion{
				{ID: "a", P: "55", H: "*"},
				{ID: "b", P: "60", H: "30", AboveThreshold: true},
				{ID: "c", P: "*", H: "25"},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.mode.String(), func(t *testing.T) {
			if diff := pretty.Diff(c.Mask(regions, test.mode), test.want); len(diff) != 0 {
				t.Error(diff)
			}
		})
	}

	if m, err := ParseMaskMode("star"); err != nil || m != MaskStar {
		t.Errorf("ParseMaskMode: %v, %v", m, err)
	}
	if _, err := ParseMaskMode("zero"); err == nil {
		t.Error("expected an error for an unknown mask mode")
	}
}
