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
	"errors"
	"math/rand"
	"testing"

	"github.com/kr/pretty"
)

func TestClassify(t *testing.T) {
	c := defaultClassifier(t)
	noMid := c.WithoutMiddleTier()
	tests := []struct {
		p, h            int
		pCls, hCls, cls Class
		noMidCls        Class
	}{
		{p: 0, h: 0, pCls: 0, hCls: 0, cls: 0, noMidCls: 0},
		{p: 10, h: 5, pCls: 1, hCls: 1, cls: 1, noMidCls: 1},
		{p: 11, h: 6, pCls: 2, hCls: 2, cls: 2, noMidCls: 3},
		{p: 40, h: 20, pCls: 2, hCls: 2, cls: 2, noMidCls: 3},
		{p: 41, h: 21, pCls: 3, hCls: 3, cls: 3, noMidCls: 3},
		{p: 49, h: 24, pCls: 3, hCls: 3, cls: 3, noMidCls: 3},
		{p: 50, h: 25, pCls: 4, hCls: 4, cls: 4, noMidCls: 4},
		{p: 120, h: 3, pCls: 4, hCls: 1, cls: 1, noMidCls: 1},
		{p: 45, h: 30, pCls: 3, hCls: 4, cls: 3, noMidCls: 3},
	}
	for _, test := range tests {
		pCls, hCls, cls := c.Classify(test.p, test.h)
		if pCls != test.pCls || hCls != test.hCls || cls != test.cls {
			t.Errorf("Classify(%d, %d) = %d, %d, %d; want %d, %d, %d",
				test.p, test.h, pCls, hCls, cls, test.pCls, test.hCls, test.cls)
		}
		if _, _, cls2 := c.Classify(test.p, test.h); cls2 != cls {
			t.Errorf("Classify(%d, %d) is not repeatable", test.p, test.h)
		}
		if _, _, cls := noMid.Classify(test.p, test.h); cls != test.noMidCls {
			t.Errorf("without middle tier Classify(%d, %d) = %d; want %d", test.p, test.h, cls, test.noMidCls)
		}
	}
	if c.Thresholds().P2 == nil {
		t.Error("WithoutMiddleTier modified its receiver")
	}
	if c.ThresholdP() != 50 || c.ThresholdH() != 25 {
		t.Errorf("thresholds %d, %d", c.ThresholdP(), c.ThresholdH())
	}
}

func TestNewClassifier(t *testing.T) {
	th := DefaultThresholds()
	th.H2 = nil
	if _, err := NewClassifier(th, 0); !errors.Is(err, ErrClassificationMismatch) {
		t.Errorf("have %v, want %v", err, ErrClassificationMismatch)
	}

	th = DefaultThresholds()
	th.P2, th.H2 = nil, nil
	if _, err := NewClassifier(th, 0); err != nil {
		t.Errorf("no middle tier: %v", err)
	}

	th = DefaultThresholds()
	th.P2 = Cutoff(60)
	if _, err := NewClassifier(th, 0); err == nil {
		t.Error("expected an error for non-increasing cutoffs")
	}

	if _, err := NewClassifier(DefaultThresholds(), 1.5); err == nil {
		t.Error("expected an error for a class 2 proportion above 1")
	}
}

func TestDowngrade(t *testing.T) {
	pops := make(map[string][]int)
	fill(pops, 1, 10, 2) // p=20, h=10: class 2
	fill(pops, 2, 30, 2)
	fill(pops, 3, 30, 2)
	fill(pops, 4, 30, 2)
	tbl := table(t, pops)

	for _, test := range []struct {
		prp  float64
		want Class
	}{
		{prp: 0, want: Class2},
		{prp: 0.05, want: Class2},
		{prp: 0.5, want: Class1},
	} {
		c, err := NewClassifier(DefaultThresholds(), test.prp)
		if err != nil {
			t.Fatal(err)
		}
		a := c.Aggregate(tbl, Level500m)
		if a[0].Class != test.want {
			t.Errorf("cls2Prp=%g: class %d, want %d", test.prp, a[0].Class, test.want)
		}
		if test.want == Class1 && (a[0].PClass != Class1 || a[0].HClass != Class1) {
			t.Errorf("cls2Prp=%g: all class fields should be downgraded: %# v", test.prp, pretty.Formatter(a[0]))
		}
	}

	// An incomplete sibling group is never downgraded.
	c, err := NewClassifier(DefaultThresholds(), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	a := c.Aggregate(tbl.In(Level500m, child500(1), child500(2)), Level500m)
	if a[0].Class != Class2 {
		t.Errorf("incomplete group: class %d", a[0].Class)
	}
}

func TestAggregate(t *testing.T) {
	c := defaultClassifier(t)
	pops := make(map[string][]int)
	fill(pops, 1, 5, 2)
	fill(pops, 2, 40, 2)
	fill(pops, 3, 23, 2)
	tbl := table(t, pops)

	a := c.Aggregate(tbl, Level500m)
	if diff := pretty.Diff(a.IDs(), []string{"X001", "X002", "X003", "X004"}); len(diff) != 0 {
		t.Fatal(diff)
	}
	if diff := pretty.Diff(a.Classes(), []Class{1, 4, 3, 0}); len(diff) != 0 {
		t.Error(diff)
	}
	if a.Population() != tbl.Population() {
		t.Errorf("population %d, want %d", a.Population(), tbl.Population())
	}
	if a[1].IDs[Level1000m] != testCell || a[1].IDs[Level250m] != "" {
		t.Errorf("ids %v", a[1].IDs)
	}

	// The result does not depend on row order.
	shuffled := tbl.Clone()
	rand.New(rand.NewSource(4)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if diff := pretty.Diff(c.Aggregate(shuffled, Level500m), a); len(diff) != 0 {
		t.Error(diff)
	}

	// Aggregating a table of aggregated cells reproduces them.
	fine := c.Aggregate(tbl, Level125m)
	var again Table
	for _, cell := range fine {
		again = append(again, Point{P: cell.P, H: cell.H, IDs: cell.IDs, StartCell: cell.ID()})
	}
	if diff := pretty.Diff(c.Aggregate(again, Level125m), fine); len(diff) != 0 {
		t.Error(diff)
	}

	g := c.Template(tbl)
	if len(g) != 64 || !g.Undetermined() {
		t.Errorf("template should have 64 undetermined rows")
	}
	if g.Population() != tbl.Population() {
		t.Errorf("template population %d", g.Population())
	}
}

func TestReclassify(t *testing.T) {
	c := defaultClassifier(t)
	pops := make(map[string][]int)
	pops[id(1, 1, 1)] = []int{2, 2, 2, 2, 2, 2, 2, 2}
	tbl := table(t, pops)
	grid := c.WithoutMiddleTier().Template(tbl).dissolveInto(testCell)
	if row := grid.In(Level125m, id(1, 1, 1))[0]; row.Class != Class3 {
		t.Fatalf("class %d without tier 2, want 3", row.Class)
	}
	have := c.Reclassify(grid)
	if diff := pretty.Diff(have, c.Template(tbl).dissolveInto(testCell)); len(diff) != 0 {
		t.Error(diff)
	}
}
