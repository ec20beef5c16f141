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
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SearchConfig bounds the randomized subset searches used when shuffling
// points between sibling cells.
type SearchConfig struct {
	// MaxIterations is the number of samples drawn before a search gives up.
	MaxIterations int

	// SampleGrowthInterval is the number of iterations after which the
	// sample size grows by SampleGrowthStep.
	SampleGrowthInterval int
	SampleGrowthStep     int
}

// DefaultSearch returns the search bounds used when none are configured.
func DefaultSearch() SearchConfig {
	return SearchConfig{MaxIterations: 100, SampleGrowthInterval: 10, SampleGrowthStep: 1}
}

// Validate checks that the bounds describe a terminating search.
func (s SearchConfig) Validate() error {
	if s.MaxIterations <= 0 {
		return fmt.Errorf("gridgran: MaxIterations=%d but should be >0", s.MaxIterations)
	}
	if s.SampleGrowthInterval <= 0 {
		return fmt.Errorf("gridgran: SampleGrowthInterval=%d but should be >0", s.SampleGrowthInterval)
	}
	if s.SampleGrowthStep < 0 {
		return fmt.Errorf("gridgran: SampleGrowthStep=%d but should be >=0", s.SampleGrowthStep)
	}
	return nil
}

const (
	// surplusTolerance is how far above the cell mean the mean population
	// of a kept sample may lie for the surplus search to stop early.
	surplusTolerance = 0.05

	// matchTolerance is how far above the needed population a donated
	// sample may lie for the matching search to stop early.
	matchTolerance = 0.10
)

// grow returns the sample size to use after iteration it.
func (s SearchConfig) grow(n, it int) int {
	if (it+1)%s.SampleGrowthInterval == 0 {
		return n + s.SampleGrowthStep
	}
	return n
}

// draw returns n distinct members of pool in ascending order.
func draw(rng *rand.Rand, pool []int, n int) []int {
	perm := rng.Perm(len(pool))[:n]
	o := make([]int, n)
	for i, j := range perm {
		o[i] = pool[j]
	}
	sort.Ints(o)
	return o
}

func populationOf(t Table, idx []int) int {
	var s int
	for _, i := range idx {
		s += t[i].P
	}
	return s
}

// splitSurplus divides the rows of a class 4 child into a core that stays
// and a surplus that may be given away. The core consists of every row in
// the 125m cells touched by the sample of donor rows, starting at th rows,
// whose population exceeds tp by the least. The search stops early once a
// qualifying sample's mean population is within 5% of the child's mean.
// It fails with ErrInseparableSubset unless the core itself holds at least
// tp population and th donor rows.
func (s SearchConfig) splitSurplus(rows Table, tp, th int, rng *rand.Rand) (core, surplus Table, err error) {
	donors := rows.donors()
	pop := rows.Population()
	all := make([]float64, len(rows))
	for i, p := range rows {
		all[i] = float64(p.P)
	}
	cellMean := stat.Mean(all, nil)

	var (
		best       []int
		bestExcess int
	)
	n := th
	for it := 0; it < s.MaxIterations; it++ {
		if n <= 0 || len(donors) < 2*n || pop < 2*tp {
			break
		}
		idx := draw(rng, donors, n)
		if sp := populationOf(rows, idx); sp >= tp {
			if best == nil || sp-tp < bestExcess {
				best, bestExcess = idx, sp-tp
			}
			if (float64(sp)/float64(n)-cellMean)/cellMean <= surplusTolerance {
				break
			}
		}
		n = s.grow(n, it)
	}
	if best == nil {
		return nil, nil, fmt.Errorf("splitting surplus of %d rows: %w", len(rows), ErrInseparableSubset)
	}

	touched := make(map[string]bool)
	for _, i := range best {
		touched[rows[i].IDs[Level125m]] = true
	}
	for _, p := range rows {
		if touched[p.IDs[Level125m]] {
			core = append(core, p)
		} else {
			surplus = append(surplus, p)
		}
	}
	if core.Population() < tp || len(core.donors()) < th {
		return nil, nil, fmt.Errorf("kept core of %d rows is below the disclosure limit: %w",
			len(core), ErrInseparableSubset)
	}
	return core, surplus, nil
}

// match draws hNeeded rows at a time from candidates, which index into
// pool, and returns the sample whose population is closest above
// pNeeded. It fails with ErrInseparableSubset if no sample reaches
// pNeeded within the iteration budget.
func (s SearchConfig) match(pool Table, candidates []int, pNeeded, hNeeded int, rng *rand.Rand) ([]int, error) {
	var best []int
	bestMargin := math.Inf(1)
	n := hNeeded
	for it := 0; it < s.MaxIterations; it++ {
		if n <= 0 || len(candidates) < n {
			break
		}
		idx := draw(rng, candidates, n)
		if sp := populationOf(pool, idx); sp >= pNeeded {
			margin := float64(sp-pNeeded) / float64(pNeeded)
			if margin < bestMargin {
				best, bestMargin = idx, margin
			}
			if margin <= matchTolerance {
				break
			}
		}
		n = s.grow(n, it)
	}
	if best == nil {
		return nil, fmt.Errorf("matching %d population in %d households from %d candidates: %w",
			pNeeded, hNeeded, len(candidates), ErrInseparableSubset)
	}
	return best, nil
}
