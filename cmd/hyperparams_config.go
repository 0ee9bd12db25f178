package cmd

import (
	"os"

	"gopkg.in/yaml.v3"
)

const HYPERPARAMS_FILEPATH string = "hyperparams.yaml"

// Define struct for YAML
type HyperparamsConfig struct {
	Tasks   []TaskHyperparams `yaml:"tasks"`
	Version string            `yaml:"version"`
}

type TaskHyperparams struct {
	Task  string  `yaml:"task"`
	Damp  float64 `yaml:"damp"`
	Scale float64 `yaml:"scale"`
}

// GetHyperparams resolves the default damp/scale pair for a task from
// hyperparams.yaml. Returns zeros when the task has no entry.
func GetHyperparams(task string) (float64, float64) {
	return getHyperparamsFrom(HYPERPARAMS_FILEPATH, task)
}

func getHyperparamsFrom(path string, task string) (float64, float64) {
	// Read YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	// Parse YAML
	var cfg HyperparamsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(err)
	}

	for _, t := range cfg.Tasks {
		if t.Task == task {
			return t.Damp, t.Scale
		}
	}
	return 0, 0
}
