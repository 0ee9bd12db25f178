// Tracks sweep-wide timing metrics for final reporting.

package bench

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// SweepMetrics aggregates statistics about the sweep for final reporting.
// Timings are grouped by batch size, the axis that dominates estimator cost.
type SweepMetrics struct {
	ExamplesSeen     int // evaluation examples inspected
	ExamplesRetained int // examples that passed the mode filter
	ExamplesSkipped  int // examples rejected by the mode filter
	PointsRun        int // grid points executed

	secondsByBatchSize map[int][]float64
}

func NewSweepMetrics() *SweepMetrics {
	return &SweepMetrics{
		secondsByBatchSize: make(map[int][]float64),
	}
}

// Observe records the elapsed time of one grid point.
func (m *SweepMetrics) Observe(pt Point, elapsed time.Duration) {
	m.PointsRun++
	m.secondsByBatchSize[pt.BatchSize] = append(m.secondsByBatchSize[pt.BatchSize], elapsed.Seconds())
}

// Print displays aggregated metrics at the end of the sweep: per-batch-size
// mean, standard deviation, and median of estimator wall time.
func (m *SweepMetrics) Print() {
	fmt.Println("=== Sweep Metrics ===")
	fmt.Printf("Examples Seen     : %d\n", m.ExamplesSeen)
	fmt.Printf("Examples Retained : %d\n", m.ExamplesRetained)
	fmt.Printf("Examples Skipped  : %d\n", m.ExamplesSkipped)
	fmt.Printf("Grid Points Run   : %d\n", m.PointsRun)

	batchSizes := make([]int, 0, len(m.secondsByBatchSize))
	for bs := range m.secondsByBatchSize {
		batchSizes = append(batchSizes, bs)
	}
	sort.Ints(batchSizes)
	for _, bs := range batchSizes {
		seconds := append([]float64(nil), m.secondsByBatchSize[bs]...)
		sort.Float64s(seconds)
		mean := stat.Mean(seconds, nil)
		stddev := stat.StdDev(seconds, nil)
		median := stat.Quantile(0.5, stat.Empirical, seconds, nil)
		fmt.Printf("Batch Size %-4d   : mean %.3fs stddev %.3fs median %.3fs (n=%d)\n",
			bs, mean, stddev, median, len(seconds))
	}
}

// TimingsForBatchSize returns the recorded wall times (seconds) for one batch
// size, in observation order.
func (m *SweepMetrics) TimingsForBatchSize(batchSize int) []float64 {
	return m.secondsByBatchSize[batchSize]
}
