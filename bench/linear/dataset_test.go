package linear

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeDatasets_Sizes(t *testing.T) {
	cfg := DefaultDatasetConfig()
	train, eval, err := MakeDatasets(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, cfg.TrainSize, train.Len())
	assert.Equal(t, cfg.EvalSize, eval.Len())
	for i := 0; i < eval.Len(); i++ {
		ex := eval.Get(i)
		assert.Len(t, ex.Features, cfg.NumFeatures)
		assert.GreaterOrEqual(t, ex.Label, 0)
		assert.Less(t, ex.Label, cfg.NumClasses)
	}
}

func TestMakeDatasets_SeededReproducible(t *testing.T) {
	cfg := DefaultDatasetConfig()
	trainA, _, err := MakeDatasets(cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	trainB, _, err := MakeDatasets(cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for i := 0; i < trainA.Len(); i++ {
		assert.Equal(t, trainA.Get(i).Label, trainB.Get(i).Label)
		assert.Equal(t, trainA.Get(i).Features, trainB.Get(i).Features)
	}
}

func TestMakeDatasets_InvalidConfig(t *testing.T) {
	cfg := DefaultDatasetConfig()
	cfg.NumClasses = 1
	_, _, err := MakeDatasets(cfg, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
