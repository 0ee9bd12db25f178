package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/influence-bench/influence-bench/bench"
	"github.com/influence-bench/influence-bench/bench/linear"
)

var (
	// CLI flags for sweep control
	mode              string // example filter: only-correct | only-incorrect
	numExamplesToTest int    // quota of retained evaluation examples
	numRepetitions    int    // repetitions per (num_samples, batch_size) cell
	seed              int64  // master seed for datasets, model init, loader shuffles
	logLevel          string // log verbosity level
	progress          bool   // render a per-example progress bar

	// CLI flags for estimator hyperparameters
	task        string  // task name used to resolve damp/scale from hyperparams.yaml
	damp        float64 // damping term (0 = resolve from hyperparams.yaml)
	scale       float64 // scaling divisor (0 = resolve from hyperparams.yaml)
	weightDecay float64 // L2 coefficient during Hessian-vector products

	// CLI flags for persistence
	outputDir string // local mirror directory for result artifacts
	redisAddr string // remote Redis store (empty = local only)

	// CLI flags for the synthetic task
	trainEpochs int // SGD epochs before the sweep starts
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "influence-bench",
	Short: "Runtime benchmark for influence-function s_test estimation",
}

// sweepCmd runs the benchmark sweep using parameters from CLI flags
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the s_test hyperparameter grid and persist timed results",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		// Validate the mode before any model or dataset work
		parsedMode, err := bench.ParseMode(mode)
		if err != nil {
			logrus.Fatalf("Invalid mode: %v", err)
		}

		// Resolve damp/scale from hyperparams.yaml when left at defaults
		damp, scale := damp, scale
		if damp == 0 && scale == 0 {
			newDamp, newScale := GetHyperparams(task)
			damp, scale = newDamp, newScale
		}
		if scale == 0 {
			logrus.Fatalf("Could not find hyperparameters for task=%v", task)
		}

		logrus.Infof("Starting sweep with mode=%s, numExamples=%d, repetitions=%d, damp=%v, scale=%v",
			parsedMode, numExamplesToTest, numRepetitions, damp, scale)

		startTime := time.Now()

		rng := bench.NewPartitionedRNG(bench.NewSweepKey(seed))
		datasetCfg := linear.DefaultDatasetConfig()
		train, eval, err := linear.MakeDatasets(datasetCfg, rng.ForSubsystem(bench.SubsystemDataset))
		if err != nil {
			logrus.Fatalf("unable to build datasets; %v", err)
		}

		modelRNG := rng.ForSubsystem(bench.SubsystemModel)
		model, err := linear.NewModel(datasetCfg.NumClasses, datasetCfg.NumFeatures, modelRNG)
		if err != nil {
			logrus.Fatalf("unable to build model; %v", err)
		}
		model.Fit(train, trainEpochs, 0.1, modelRNG)
		logrus.Infof("Model trained: eval accuracy %.3f", model.Accuracy(eval))

		sink, err := buildSink(outputDir, redisAddr)
		if err != nil {
			logrus.Fatalf("unable to build sink; %v", err)
		}

		sweeper := bench.NewSweeper(
			bench.NewSweepConfig(parsedMode, numExamplesToTest, numRepetitions, seed, progress),
			bench.DefaultGrid(numRepetitions),
			bench.EstimatorParams{Damp: damp, Scale: scale, WeightDecay: weightDecay},
			model,
			linear.NewEstimator(),
			train,
			eval,
			sink,
		)
		results, err := sweeper.Run()
		if err != nil {
			logrus.Fatalf("Sweep failed after %d results: %v", len(results), err)
		}
		sweeper.Metrics.Print()

		logrus.Infof("Sweep complete in %s: %d result records", time.Since(startTime).Round(time.Millisecond), len(results))
	},
}

// buildSink wires the persistence sink: local directory alone, or remote
// Redis mirrored locally when an address is given.
func buildSink(dir, redisAddr string) (bench.Sink, error) {
	local, err := bench.NewDirSink(dir)
	if err != nil {
		return nil, err
	}
	if redisAddr == "" {
		return local, nil
	}
	return &bench.MirrorSink{Remote: bench.NewRedisSink(redisAddr), Local: local}, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	sweepCmd.Flags().StringVar(&mode, "mode", "", "Example filter (only-correct or only-incorrect)")
	sweepCmd.Flags().IntVar(&numExamplesToTest, "num-examples", 5, "Number of retained evaluation examples to sweep")
	sweepCmd.Flags().IntVar(&numRepetitions, "repetitions", 4, "Repetitions per (num_samples, batch_size) grid cell")
	sweepCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for dataset, model, and loader randomness")
	sweepCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	sweepCmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar over each example's grid")

	// Estimator hyperparameters
	sweepCmd.Flags().StringVar(&task, "task", "synthetic", "Task name for hyperparameter lookup")
	sweepCmd.Flags().Float64Var(&damp, "damp", 0, "Damping hyperparameter (0 = from hyperparams.yaml)")
	sweepCmd.Flags().Float64Var(&scale, "scale", 0, "Scaling hyperparameter (0 = from hyperparams.yaml)")
	sweepCmd.Flags().Float64Var(&weightDecay, "weight-decay", 0.005, "Weight decay used in Hessian-vector products")

	// Persistence
	sweepCmd.Flags().StringVar(&outputDir, "output-dir", "stest-out", "Local directory for result artifacts")
	sweepCmd.Flags().StringVar(&redisAddr, "redis", "", "Redis host:port for remote result storage (empty = local only)")

	// Synthetic task training
	sweepCmd.Flags().IntVar(&trainEpochs, "train-epochs", 5, "SGD epochs to train the model before the sweep")

	// Attach `sweep` as a subcommand to `root`
	rootCmd.AddCommand(sweepCmd)
}
