// Dataset and loader types. The evaluation set is walked in fixed order at
// batch size one; the training set is consumed through a BatchLoader that is
// rebuilt (with a fresh randomized order) before every estimator invocation.

package bench

import (
	"fmt"
	"math/rand"
)

// Example is one classification record: a dense feature vector and its label.
// Immutable once loaded.
type Example struct {
	Features []float64
	Label    int
}

// Dataset is a fixed-order sequence of examples.
type Dataset struct {
	examples []*Example
}

// NewDataset wraps a slice of examples. The slice is owned by the dataset
// afterwards and must not be mutated by the caller.
func NewDataset(examples []*Example) *Dataset {
	return &Dataset{examples: examples}
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.examples)
}

// Get returns the example at index i, in load order.
func (d *Dataset) Get(i int) *Example {
	return d.examples[i]
}

// BatchLoader yields batches of training examples in a randomized order drawn
// once at construction. Iteration cycles: after the last batch it wraps to the
// first, so a loader can serve any sample budget. Build a fresh loader per
// estimator invocation; reuse would carry iteration state between repetitions.
type BatchLoader struct {
	ds        *Dataset
	batchSize int
	order     []int
	pos       int
}

// NewBatchLoader shuffles a new iteration order over ds using rng.
func NewBatchLoader(ds *Dataset, batchSize int, rng *rand.Rand) (*BatchLoader, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("batch loader requires a non-empty dataset")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	order := rng.Perm(ds.Len())
	return &BatchLoader{ds: ds, batchSize: batchSize, order: order}, nil
}

// BatchSize returns the loader's batch size.
func (l *BatchLoader) BatchSize() int {
	return l.batchSize
}

// NumBatches returns the number of batches per pass over the dataset. The
// final batch of a pass may be short.
func (l *BatchLoader) NumBatches() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// Next returns the next batch, wrapping to the start of the order once the
// dataset is exhausted. The returned slice is freshly allocated per call.
func (l *BatchLoader) Next() []*Example {
	if l.pos >= len(l.order) {
		l.pos = 0
	}
	end := l.pos + l.batchSize
	if end > len(l.order) {
		end = len(l.order)
	}
	batch := make([]*Example, 0, end-l.pos)
	for _, idx := range l.order[l.pos:end] {
		batch = append(batch, l.ds.Get(idx))
	}
	l.pos = end
	return batch
}
