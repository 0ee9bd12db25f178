package bench

// SweepConfig groups the sweep-control parameters.
type SweepConfig struct {
	Mode              Mode // which prediction-correctness class to retain
	NumExamplesToTest int  // quota of retained examples (must be > 0)
	Repetitions       int  // grid repetitions per (num_samples, batch_size) cell
	Seed              int64
	Progress          bool // render a progress bar over each example's grid
}

// NewSweepConfig bundles sweep-control parameters into a SweepConfig.
func NewSweepConfig(mode Mode, numExamplesToTest, repetitions int, seed int64, progress bool) SweepConfig {
	return SweepConfig{
		Mode:              mode,
		NumExamplesToTest: numExamplesToTest,
		Repetitions:       repetitions,
		Seed:              seed,
		Progress:          progress,
	}
}
