// bench/sweeper.go
package bench

import (
	"fmt"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper is the driver that holds the sweep configuration, the model and
// estimator under test, the datasets, and the persistence sink.
type Sweeper struct {
	Config SweepConfig
	Grid   Grid
	Params EstimatorParams

	Model     Classifier
	Estimator Estimator
	Train     *Dataset
	Eval      *Dataset
	Sink      Sink

	RNG     *PartitionedRNG
	Metrics *SweepMetrics
}

// NewSweeper wires a Sweeper. The estimator's parameter filter is derived
// from the model: frozen parameter blocks are excluded from estimation and
// appended to the weight-decay ignore list, on top of the conventional
// ignores.
func NewSweeper(cfg SweepConfig, grid Grid, params EstimatorParams,
	model Classifier, estimator Estimator, train, eval *Dataset, sink Sink) *Sweeper {

	frozen := BuildParamsFilter(model)
	params.ParamsFilter = frozen
	params.WeightDecayIgnores = append(DefaultWeightDecayIgnores(), frozen...)

	return &Sweeper{
		Config:    cfg,
		Grid:      grid,
		Params:    params,
		Model:     model,
		Estimator: estimator,
		Train:     train,
		Eval:      eval,
		Sink:      sink,
		RNG:       NewPartitionedRNG(NewSweepKey(cfg.Seed)),
		Metrics:   NewSweepMetrics(),
	}
}

// Run walks the evaluation set in fixed order, filters examples by prediction
// correctness against the configured mode, and for each retained example runs
// every grid point: rebuild the batch loader, time the estimator, persist the
// record, append it to the accumulation slice. Iteration halts once the
// retained-example quota is reached. Estimator and sink failures abort the
// run; records persisted before the failure remain in the sink.
func (s *Sweeper) Run() ([]*Result, error) {
	if _, err := ParseMode(string(s.Config.Mode)); err != nil {
		return nil, err
	}
	if s.Config.NumExamplesToTest <= 0 {
		return nil, fmt.Errorf("num examples to test must be positive, got %d", s.Config.NumExamplesToTest)
	}

	loaderRNG := s.RNG.ForSubsystem(SubsystemLoader)

	results := make([]*Result, 0, s.Config.NumExamplesToTest*s.Grid.Size())
	numExamplesTested := 0

	for testIndex := 0; testIndex < s.Eval.Len(); testIndex++ {
		if numExamplesTested >= s.Config.NumExamplesToTest {
			break
		}
		s.Metrics.ExamplesSeen++

		ex := s.Eval.Get(testIndex)
		correct := s.Model.Predict(ex) == ex.Label
		if !s.Config.Mode.Retain(correct) {
			s.Metrics.ExamplesSkipped++
			continue
		}
		s.Metrics.ExamplesRetained++

		var bar *pb.ProgressBar
		if s.Config.Progress {
			bar = pb.StartNew(s.Grid.Size())
		}

		cursor := s.Grid.Cursor()
		for pt, ok := cursor.Next(); ok; pt, ok = cursor.Next() {
			// A fresh loader per invocation guarantees an independent
			// randomized batch order across repetitions.
			loader, err := NewBatchLoader(s.Train, pt.BatchSize, loaderRNG)
			if err != nil {
				return results, err
			}

			start := time.Now()
			sTest, err := s.Estimator.EstimateSTest(s.Model, loader, ex, s.Params, pt.NumSamples)
			elapsed := time.Since(start)
			if err != nil {
				return results, fmt.Errorf("estimator failed at example %d N=%d B=%d R=%d: %w",
					testIndex, pt.NumSamples, pt.BatchSize, pt.Repetition, err)
			}
			logrus.Infof("Running #%d N=%d B=%d R=%d takes %.2f seconds",
				testIndex, pt.NumSamples, pt.BatchSize, pt.Repetition, elapsed.Seconds())

			rec := &Result{
				TestIndex:   testIndex,
				NumSamples:  pt.NumSamples,
				BatchSize:   pt.BatchSize,
				Repetition:  pt.Repetition,
				STest:       sTest,
				TimeElapsed: elapsed,
				Correct:     correct,
			}
			name := rec.ArtifactName(s.Config.Mode, s.Config.NumExamplesToTest)
			if err := s.Sink.Save(name, rec); err != nil {
				return results, fmt.Errorf("persisting %s: %w", name, err)
			}
			results = append(results, rec)
			s.Metrics.Observe(pt, elapsed)

			if bar != nil {
				bar.Increment()
			}
		}
		if bar != nil {
			bar.Finish()
		}

		numExamplesTested++
	}

	logrus.Infof("Sweep complete: %d examples retained, %d grid points run",
		numExamplesTested, s.Metrics.PointsRun)
	return results, nil
}
