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

// Class describes how far a cell's counts are from the disclosure limit:
// 0 is empty, 4 is safely over the limit and 1 to 3 are increasingly
// close to it.
type Class int

// Cell classes.
const (
	Class0 Class = iota
	Class1
	Class2
	Class3
	Class4
)

func (c Class) valid() bool { return c >= Class0 && c <= Class4 }

// Thresholds holds the inclusive upper bounds of the population (P) and
// household (H) tiers. The middle cutoffs P2 and H2 are optional; when
// both are nil there is no class 2.
type Thresholds struct {
	P1 int
	P2 *int
	P3 int

	H1 int
	H2 *int
	H3 int
}

// Cutoff returns a pointer to v, for setting the optional middle cutoffs.
func Cutoff(v int) *int { return &v }

// DefaultThresholds returns the cutoffs used for census grid outputs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		P1: 10, P2: Cutoff(40), P3: 49,
		H1: 5, H2: Cutoff(20), H3: 24,
	}
}

func (t Thresholds) validate() error {
	if (t.P2 == nil) != (t.H2 == nil) {
		return ErrClassificationMismatch
	}
	if err := checkTiers("population", t.P1, t.P2, t.P3); err != nil {
		return err
	}
	return checkTiers("household", t.H1, t.H2, t.H3)
}

func checkTiers(name string, lower int, middle *int, upper int) error {
	if lower < 0 {
		return fmt.Errorf("gridgran: %s lower cutoff %d must not be negative", name, lower)
	}
	if middle == nil {
		if lower >= upper {
			return fmt.Errorf("gridgran: %s cutoffs must increase; got %d, %d", name, lower, upper)
		}
		return nil
	}
	if !(lower < *middle && *middle < upper) {
		return fmt.Errorf("gridgran: %s cutoffs must increase; got %d, %d, %d", name, lower, *middle, upper)
	}
	return nil
}

// Classifier maps population and household counts to classes.
type Classifier struct {
	t       Thresholds
	cls2Prp float64
}

// NewClassifier validates t and returns a classifier using it. Class 2
// cells whose share of the population and households of their four
// siblings is below cls2Prp are reclassified as class 1.
func NewClassifier(t Thresholds, cls2Prp float64) (*Classifier, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if cls2Prp < 0 || cls2Prp > 1 {
		return nil, fmt.Errorf("gridgran: class 2 proportion %g is not within [0, 1]", cls2Prp)
	}
	return &Classifier{t: t, cls2Prp: cls2Prp}, nil
}

// Thresholds returns the cutoffs c classifies with.
func (c *Classifier) Thresholds() Thresholds { return c.t }

// Cls2Prp returns the class 2 proportion c was created with.
func (c *Classifier) Cls2Prp() float64 { return c.cls2Prp }

// ThresholdP is the smallest population of a publishable cell.
func (c *Classifier) ThresholdP() int { return c.t.P3 + 1 }

// ThresholdH is the smallest household count of a publishable cell.
func (c *Classifier) ThresholdH() int { return c.t.H3 + 1 }

// WithoutMiddleTier returns a classifier that has no class 2.
func (c *Classifier) WithoutMiddleTier() *Classifier {
	o := *c
	o.t.P2, o.t.H2 = nil, nil
	return &o
}

// Classify returns the population class, the household class and the
// combined class of a cell with population p and h households. The
// combined class is the more restrictive of the two.
func (c *Classifier) Classify(p, h int) (pCls, hCls, cls Class) {
	pCls = tier(p, c.t.P1, c.t.P2, c.t.P3)
	hCls = tier(h, c.t.H1, c.t.H2, c.t.H3)
	cls = pCls
	if hCls < cls {
		cls = hCls
	}
	return pCls, hCls, cls
}

func tier(v, lower int, middle *int, upper int) Class {
	switch {
	case v <= 0:
		return Class0
	case v <= lower:
		return Class1
	case middle != nil && v <= *middle:
		return Class2
	case v <= upper:
		return Class3
	default:
		return Class4
	}
}

// downgrade reclassifies the class 2 members of a complete sibling group
// as class 1 when their share of the group's population and households
// is below the class 2 proportion.
func (c *Classifier) downgrade(group []Cell) {
	if len(group) != 4 {
		return
	}
	var p, h, p2, h2 int
	var has2 bool
	for _, cell := range group {
		p += cell.P
		h += cell.H
		if cell.Class == Class2 {
			has2 = true
			p2 += cell.P
			h2 += cell.H
		}
	}
	if !has2 {
		return
	}
	prp := share(p2, p)
	if hp := share(h2, h); hp > prp {
		prp = hp
	}
	if prp >= c.cls2Prp {
		return
	}
	for i := range group {
		if group[i].Class == Class2 {
			group[i].PClass, group[i].HClass, group[i].Class = Class1, Class1, Class1
		}
	}
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
