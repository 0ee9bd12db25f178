package linear

import (
	"fmt"
	"math/rand"

	"github.com/influence-bench/influence-bench/bench"
)

// DatasetConfig groups synthetic dataset generation parameters.
type DatasetConfig struct {
	NumClasses  int     // number of Gaussian clusters / labels
	NumFeatures int     // feature dimension
	TrainSize   int     // training examples
	EvalSize    int     // evaluation examples
	Spread      float64 // intra-cluster noise standard deviation
}

// DefaultDatasetConfig returns a dataset that a trained linear model
// classifies mostly, but not entirely, correctly -- both filter modes have
// examples to retain.
func DefaultDatasetConfig() DatasetConfig {
	return DatasetConfig{
		NumClasses:  3,
		NumFeatures: 16,
		TrainSize:   512,
		EvalSize:    64,
		Spread:      1.5,
	}
}

// MakeDatasets draws class centers and then train and eval splits from them,
// all from the supplied RNG. Examples are fixed-order once generated.
func MakeDatasets(cfg DatasetConfig, rng *rand.Rand) (train, eval *bench.Dataset, err error) {
	if cfg.NumClasses < 2 || cfg.NumFeatures < 1 || cfg.TrainSize < 1 || cfg.EvalSize < 1 {
		return nil, nil, fmt.Errorf("invalid dataset config %+v", cfg)
	}

	centers := make([][]float64, cfg.NumClasses)
	for c := range centers {
		centers[c] = make([]float64, cfg.NumFeatures)
		for f := range centers[c] {
			centers[c][f] = rng.NormFloat64() * 2.0
		}
	}

	draw := func(n int) []*bench.Example {
		examples := make([]*bench.Example, n)
		for i := range examples {
			label := rng.Intn(cfg.NumClasses)
			features := make([]float64, cfg.NumFeatures)
			for f := range features {
				features[f] = centers[label][f] + rng.NormFloat64()*cfg.Spread
			}
			examples[i] = &bench.Example{Features: features, Label: label}
		}
		return examples
	}

	return bench.NewDataset(draw(cfg.TrainSize)), bench.NewDataset(draw(cfg.EvalSize)), nil
}
