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
	"strconv"
)

// Region is a published output cell: the union of every 125m cell sharing
// a dissolve target.
type Region struct {
	ID   string
	P, H int

	// Cells is the number of 125m cells dissolved into the region.
	Cells int
}

// Dissolve sums the grid rows by dissolve target and returns one region
// per target with a nonzero population, sorted by identifier. Rows
// without a target are skipped.
func Dissolve(g Grid) []Region {
	index := make(map[string]int)
	var o []Region
	for _, r := range g {
		if r.DissolveTarget == "" {
			continue
		}
		i, ok := index[r.DissolveTarget]
		if !ok {
			i = len(o)
			index[r.DissolveTarget] = i
			o = append(o, Region{ID: r.DissolveTarget})
		}
		o[i].P += r.P
		o[i].H += r.H
		o[i].Cells++
	}
	kept := o[:0]
	for _, r := range o {
		if r.P > 0 {
			kept = append(kept, r)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })
	return kept
}

// MaskMode selects how counts at or below the tier 3 cutoff are written.
type MaskMode int

// Mask modes.
const (
	// MaskMinimum replaces a low count with the smallest publishable value.
	MaskMinimum MaskMode = iota
	// MaskNull replaces a low count with an empty value.
	MaskNull
	// MaskStar replaces a low count with "*".
	MaskStar
)

var maskNames = []string{"minimum", "null", "star"}

func (m MaskMode) String() string {
	if m < 0 || int(m) >= len(maskNames) {
		return fmt.Sprintf("MaskMode(%d)", int(m))
	}
	return maskNames[m]
}

// ParseMaskMode returns the mask mode called name.
func ParseMaskMode(name string) (MaskMode, error) {
	for i, n := range maskNames {
		if n == name {
			return MaskMode(i), nil
		}
	}
	return 0, fmt.Errorf("gridgran: unknown mask mode %q; valid modes are %v", name, maskNames)
}

// MaskedRegion is a region with its counts masked for publication.
type MaskedRegion struct {
	ID   string
	P, H string

	// AboveThreshold is true when both counts exceed the tier 3 cutoffs.
	AboveThreshold bool
}

// Mask flags every region whose population and household counts both
// exceed the tier 3 cutoffs of c and rewrites the counts that do not
// according to mode.
func (c *Classifier) Mask(regions []Region, mode MaskMode) []MaskedRegion {
	o := make([]MaskedRegion, len(regions))
	for i, r := range regions {
		o[i] = MaskedRegion{
			ID:             r.ID,
			P:              maskCount(r.P, c.t.P3, mode),
			H:              maskCount(r.H, c.t.H3, mode),
			AboveThreshold: r.P > c.t.P3 && r.H > c.t.H3,
		}
	}
	return o
}

func maskCount(v, cutoff int, mode MaskMode) string {
	if v > cutoff {
		return strconv.Itoa(v)
	}
	switch mode {
	case MaskNull:
		return ""
	case MaskStar:
		return "*"
	default:
		return strconv.Itoa(cutoff + 1)
	}
}
