package bench

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parityClassifier predicts class 1 for examples whose first feature is odd,
// class 0 otherwise. Eval labels then control which examples are "correct".
type parityClassifier struct{}

func (parityClassifier) Predict(ex *Example) int {
	return int(ex.Features[0]) % 2
}

func (parityClassifier) NamedParameters() []ParamInfo {
	return []ParamInfo{
		{Name: "linear.weight", Size: 4, Trainable: true},
		{Name: "frozen.embedding", Size: 8, Trainable: false},
	}
}

// recordingEstimator returns a fixed block and records each invocation.
type recordingEstimator struct {
	invocations []Point
	loaders     []*BatchLoader
	failAt      int // invocation index to fail on, -1 = never
}

func (e *recordingEstimator) EstimateSTest(model Classifier, loader *BatchLoader,
	ex *Example, params EstimatorParams, numSamples int) ([]ParamBlock, error) {

	if e.failAt >= 0 && len(e.invocations) == e.failAt {
		return nil, errors.New("estimator blew up")
	}
	e.invocations = append(e.invocations, Point{NumSamples: numSamples, BatchSize: loader.BatchSize()})
	e.loaders = append(e.loaders, loader)
	return []ParamBlock{{Name: "linear.weight", Data: []float64{1, 2, 3, 4}}}, nil
}

// evalSet builds n eval examples; those with even index are classified
// correctly by parityClassifier, odd-index ones incorrectly.
func evalSet(n int) *Dataset {
	examples := make([]*Example, n)
	for i := range examples {
		label := 0
		if i%2 == 1 {
			label = 1 // prediction will be 0 (feature 2i is even) -> incorrect
		}
		examples[i] = &Example{Features: []float64{float64(2 * i)}, Label: label}
	}
	return NewDataset(examples)
}

func trainSet() *Dataset {
	examples := make([]*Example, 256)
	for i := range examples {
		examples[i] = &Example{Features: []float64{float64(i)}, Label: i % 2}
	}
	return NewDataset(examples)
}

func newTestSweeper(mode Mode, numExamples int, grid Grid, est Estimator, sink Sink) *Sweeper {
	return NewSweeper(
		NewSweepConfig(mode, numExamples, grid.Repetitions, 42, false),
		grid,
		EstimatorParams{Damp: 0.01, Scale: 25, WeightDecay: 0.005},
		parityClassifier{},
		est,
		trainSet(),
		evalSet(10),
		sink,
	)
}

func smallGrid() Grid {
	return Grid{SampleCounts: []int{10, 20, 30}, BatchSizes: []int{1, 4}, Repetitions: 2}
}

func TestSweeper_OnlyCorrect_RetainsOnlyCorrect(t *testing.T) {
	sink := &MemorySink{}
	s := newTestSweeper(ModeOnlyCorrect, 2, smallGrid(), &recordingEstimator{failAt: -1}, sink)

	results, err := s.Run()
	require.NoError(t, err)
	for _, rec := range results {
		assert.True(t, rec.Correct)
		assert.Equal(t, 0, rec.TestIndex%2, "only even eval indices are correct")
	}
}

func TestSweeper_OnlyIncorrect_RetainsOnlyIncorrect(t *testing.T) {
	sink := &MemorySink{}
	s := newTestSweeper(ModeOnlyIncorrect, 2, smallGrid(), &recordingEstimator{failAt: -1}, sink)

	results, err := s.Run()
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, rec := range results {
		assert.False(t, rec.Correct)
		assert.Equal(t, 1, rec.TestIndex%2, "only odd eval indices are incorrect")
	}
}

func TestSweeper_InvalidMode_FailsBeforeAnyWork(t *testing.T) {
	sink := &MemorySink{}
	est := &recordingEstimator{failAt: -1}
	s := newTestSweeper(Mode("bogus"), 2, smallGrid(), est, sink)

	_, err := s.Run()
	assert.Error(t, err)
	assert.Empty(t, est.invocations, "no estimator call before mode validation")
	assert.Empty(t, sink.Names, "nothing persisted before mode validation")
}

func TestSweeper_GridPointCountPerExample(t *testing.T) {
	// GIVEN the default grid with 3 repetitions and a quota of 2 examples
	sink := &MemorySink{}
	grid := DefaultGrid(3)
	s := newTestSweeper(ModeOnlyCorrect, 2, grid, &recordingEstimator{failAt: -1}, sink)

	// WHEN the sweep runs
	results, err := s.Run()
	require.NoError(t, err)

	// THEN exactly 7 x 8 x 3 records exist per retained example
	perExample := make(map[int]int)
	for _, rec := range results {
		perExample[rec.TestIndex]++
	}
	require.Len(t, perExample, 2)
	for idx, n := range perExample {
		assert.Equal(t, 7*8*3, n, "example %d", idx)
	}
}

func TestSweeper_OrderingAscendingWithinExample(t *testing.T) {
	sink := &MemorySink{}
	s := newTestSweeper(ModeOnlyCorrect, 1, smallGrid(), &recordingEstimator{failAt: -1}, sink)

	results, err := s.Run()
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		prevKey := [3]int{prev.NumSamples, prev.BatchSize, prev.Repetition}
		curKey := [3]int{cur.NumSamples, cur.BatchSize, cur.Repetition}
		assert.True(t, less3(prevKey, curKey), "records out of order at %d: %v >= %v", i, prevKey, curKey)
	}
}

func less3(a, b [3]int) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestSweeper_HaltsAtQuota(t *testing.T) {
	// GIVEN 5 correct examples available (indices 0,2,4,6,8) and a quota of 3
	sink := &MemorySink{}
	grid := smallGrid()
	s := newTestSweeper(ModeOnlyCorrect, 3, grid, &recordingEstimator{failAt: -1}, sink)

	results, err := s.Run()
	require.NoError(t, err)

	// THEN exactly 3 examples were swept and later eval examples untouched
	indices := make(map[int]bool)
	for _, rec := range results {
		indices[rec.TestIndex] = true
	}
	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true}, indices)
	assert.Equal(t, 3*grid.Size(), len(results))
}

func TestSweeper_ArtifactNamesUnique(t *testing.T) {
	sink := &MemorySink{}
	s := newTestSweeper(ModeOnlyCorrect, 2, smallGrid(), &recordingEstimator{failAt: -1}, sink)

	_, err := s.Run()
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, name := range sink.Names {
		assert.False(t, seen[name], "duplicate artifact %s", name)
		seen[name] = true
	}
}

func TestSweeper_PersistsEveryRecordInOrder(t *testing.T) {
	sink := &MemorySink{}
	s := newTestSweeper(ModeOnlyCorrect, 1, smallGrid(), &recordingEstimator{failAt: -1}, sink)

	results, err := s.Run()
	require.NoError(t, err)
	require.Equal(t, len(results), len(sink.Records))
	for i, rec := range results {
		assert.Same(t, rec, sink.Records[i])
		assert.Equal(t, rec.ArtifactName(ModeOnlyCorrect, 1), sink.Names[i])
	}
}

func TestSweeper_EstimatorFailurePropagates(t *testing.T) {
	sink := &MemorySink{}
	est := &recordingEstimator{failAt: 3}
	s := newTestSweeper(ModeOnlyCorrect, 1, smallGrid(), est, sink)

	results, err := s.Run()
	assert.Error(t, err)
	assert.Len(t, results, 3, "records before the failure are returned")
	assert.Len(t, sink.Names, 3, "records before the failure stay persisted")
}

func TestSweeper_SinkFailurePropagates(t *testing.T) {
	boom := fmt.Errorf("scp: no route to host")
	s := newTestSweeper(ModeOnlyCorrect, 1, smallGrid(), &recordingEstimator{failAt: -1}, &failingSink{err: boom})

	_, err := s.Run()
	assert.ErrorIs(t, err, boom)
}

func TestSweeper_FreshLoaderPerInvocation(t *testing.T) {
	sink := &MemorySink{}
	est := &recordingEstimator{failAt: -1}
	s := newTestSweeper(ModeOnlyCorrect, 1, smallGrid(), est, sink)

	_, err := s.Run()
	require.NoError(t, err)
	seen := make(map[*BatchLoader]bool)
	for _, l := range est.loaders {
		assert.False(t, seen[l], "loader instance reused across invocations")
		seen[l] = true
	}
}

func TestSweeper_ParamsFilterFromFrozenParameters(t *testing.T) {
	sink := &MemorySink{}
	s := newTestSweeper(ModeOnlyCorrect, 1, smallGrid(), &recordingEstimator{failAt: -1}, sink)

	assert.Equal(t, []string{"frozen.embedding"}, s.Params.ParamsFilter)
	assert.Contains(t, s.Params.WeightDecayIgnores, "bias")
	assert.Contains(t, s.Params.WeightDecayIgnores, "LayerNorm.weight")
	assert.Contains(t, s.Params.WeightDecayIgnores, "frozen.embedding")
}
