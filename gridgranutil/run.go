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

package gridgranutil

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridgran"
	"github.com/spatialmodel/gridgran/internal/hash"
)

// CellResult is the outcome of granulating one 1000m cell.
type CellResult struct {
	ID string

	Grid   gridgran.Grid
	Points gridgran.Table

	// Skipped is true for cells without population, which are not
	// granulated.
	Skipped bool

	// Attempts is the number of times the cell was granulated.
	Attempts int

	// Err is the error of the last attempt if every attempt failed.
	Err error
}

// Population returns the population of the cell.
func (c *CellResult) Population() int { return c.Points.Population() }

// Moved returns the number of points that were relocated.
func (c *CellResult) Moved() int {
	var n int
	for _, p := range c.Points.Published() {
		if p.Moved() {
			n++
		}
	}
	return n
}

// Result holds the outcome of every 1000m cell of a run, sorted by cell id.
type Result struct {
	Cells []CellResult
}

// Grid returns the grid rows of every granulated cell.
func (r *Result) Grid() gridgran.Grid {
	var o gridgran.Grid
	for _, c := range r.Cells {
		if c.Err == nil {
			o = append(o, c.Grid...)
		}
	}
	return o
}

// Points returns the point rows of every cell that did not fail.
func (r *Result) Points() gridgran.Table {
	var o gridgran.Table
	for _, c := range r.Cells {
		if c.Err == nil {
			o = append(o, c.Points...)
		}
	}
	return o
}

// Failed returns the cells whose every attempt failed.
func (r *Result) Failed() []CellResult {
	var o []CellResult
	for _, c := range r.Cells {
		if c.Err != nil {
			o = append(o, c)
		}
	}
	return o
}

// retryInterval is the first wait before a failed cell is retried.
const retryInterval = 50 * time.Millisecond

// retryable reports whether a new seed might let a failed cell succeed.
// Invalid identifiers and unrecognized class patterns fail every time.
func retryable(err error) bool {
	return errors.Is(err, gridgran.ErrInseparableSubset) || errors.Is(err, gridgran.ErrDisclosureNotAchievable)
}

// Run concurrently granulates every 1000m cell of pts with g. The random
// seed of each cell is derived from seed and the cell id, so results do
// not depend on scheduling. A cell failing with a search error is retried
// up to retries times with a new seed; cells that still fail are
// reported in the result and do not stop the others.
func Run(g *gridgran.Granulator, pts gridgran.Table, seed int64, retries int, log logrus.FieldLogger) *Result {
	if log == nil {
		log = logrus.StandardLogger()
	}
	split := pts.Split(gridgran.Level1000m)
	ids := pts.IDs(gridgran.Level1000m)
	r := &Result{Cells: make([]CellResult, len(ids))}

	nprocs := runtime.GOMAXPROCS(0) // number of processors
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for ii := pp; ii < len(ids); ii += nprocs {
				r.Cells[ii] = granulateCell(g, ids[ii], split[ids[ii]], seed, retries, log)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()

	for _, c := range r.Failed() {
		log.WithFields(logrus.Fields{"cell": c.ID, "attempts": c.Attempts}).WithError(c.Err).Warn("granulation failed")
	}
	return r
}

func granulateCell(g *gridgran.Granulator, id string, pts gridgran.Table, seed int64, retries int, log logrus.FieldLogger) CellResult {
	c := CellResult{ID: id, Points: pts}
	if pts.Population() == 0 {
		c.Skipped = true
		return c
	}
	op := func() error {
		rng := rand.New(rand.NewSource(hash.Seed(seed+int64(c.Attempts), id)))
		c.Attempts++
		grid, out, err := g.Granulate(id, pts, rng)
		if err != nil {
			if !retryable(err) {
				return &backoff.PermanentError{Err: err}
			}
			return err
		}
		c.Grid, c.Points = grid, out
		return nil
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInterval
	c.Err = backoff.RetryNotify(op, backoff.WithMaxRetries(b, uint64(retries)), func(err error, d time.Duration) {
		log.WithField("cell", id).WithError(err).Warnf("retrying in %v", d)
	})
	return c
}
