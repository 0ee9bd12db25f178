// Implements the hyperparameter sweep grid. For every retained evaluation
// example the sweeper runs each grid point exactly once, in the cursor's
// deterministic nested order.

package bench

// Point is a single grid cell: one timed estimator invocation.
type Point struct {
	NumSamples int // sample budget handed to the estimator
	BatchSize  int // training batch size for the rebuilt loader
	Repetition int // repetition index, zero-based
}

// Grid enumerates the Cartesian product of sample counts, batch sizes, and
// repetition indices. Points are independent of each other; ordering matters
// only for reproducibility of artifact naming.
type Grid struct {
	SampleCounts []int // outer axis, ascending
	BatchSizes   []int // middle axis, ascending
	Repetitions  int   // inner axis, indices 0..Repetitions-1
}

// DefaultGrid returns the standard sweep grid: sample counts 700 to 1300 in
// steps of 100 (7 values) and power-of-two batch sizes 1 to 128 (8 values).
func DefaultGrid(repetitions int) Grid {
	sampleCounts := make([]int, 0, 7)
	for n := 700; n <= 1300; n += 100 {
		sampleCounts = append(sampleCounts, n)
	}
	return Grid{
		SampleCounts: sampleCounts,
		BatchSizes:   []int{1, 2, 4, 8, 16, 32, 64, 128},
		Repetitions:  repetitions,
	}
}

// Size returns the total number of points the grid yields.
func (g Grid) Size() int {
	return len(g.SampleCounts) * len(g.BatchSizes) * g.Repetitions
}

// Cursor returns a fresh cursor positioned before the first point.
func (g Grid) Cursor() *Cursor {
	return &Cursor{grid: g}
}

// Cursor lazily walks a Grid in nested order: sample count ascending, then
// batch size ascending, then repetition from zero. It is restartable via
// Reset and independent of any other cursor over the same grid.
type Cursor struct {
	grid    Grid
	i, j, k int // indices into SampleCounts, BatchSizes, repetitions
}

// Next returns the next point and true, or a zero Point and false once the
// grid is exhausted.
func (c *Cursor) Next() (Point, bool) {
	if c.i >= len(c.grid.SampleCounts) || c.j >= len(c.grid.BatchSizes) || c.grid.Repetitions <= 0 {
		return Point{}, false
	}
	p := Point{
		NumSamples: c.grid.SampleCounts[c.i],
		BatchSize:  c.grid.BatchSizes[c.j],
		Repetition: c.k,
	}
	c.k++
	if c.k >= c.grid.Repetitions {
		c.k = 0
		c.j++
		if c.j >= len(c.grid.BatchSizes) {
			c.j = 0
			c.i++
		}
	}
	return p, true
}

// Reset repositions the cursor before the first point.
func (c *Cursor) Reset() {
	c.i, c.j, c.k = 0, 0, 0
}
