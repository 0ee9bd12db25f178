package bench

import (
	"fmt"
	"time"
)

// Result is the record produced for one grid point. Created once, persisted
// immediately, appended to the sweep's accumulation slice, never mutated.
type Result struct {
	TestIndex   int           `cbor:"test_index"`
	NumSamples  int           `cbor:"num_samples"`
	BatchSize   int           `cbor:"batch_size"`
	Repetition  int           `cbor:"repetition"`
	STest       []ParamBlock  `cbor:"s_test"`
	TimeElapsed time.Duration `cbor:"time_elapsed"`
	Correct     bool          `cbor:"correct"`
}

// ArtifactName returns the deterministic persisted-artifact name for this
// record. Every field of the composite key appears, so names are unique
// across a sweep:
//
//	stest.<mode>.<numExamplesToTest>.<testIndex>.<numSamples>.<batchSize>.<repetition>.pth
func (r *Result) ArtifactName(mode Mode, numExamplesToTest int) string {
	return fmt.Sprintf("stest.%s.%d.%d.%d.%d.%d.pth",
		mode, numExamplesToTest, r.TestIndex, r.NumSamples, r.BatchSize, r.Repetition)
}
