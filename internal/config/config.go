package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"resextract/internal/selector"
)

// Job describes one batch extraction: which archive to read, where to write,
// and which selectors to extract. Used by the run and validate commands.
type Job struct {
	Version int      `yaml:"version"`
	Result  string   `yaml:"result"`
	Output  string   `yaml:"output"`
	Stride  int      `yaml:"stride"`
	Extract []string `yaml:"extract"`
}

func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading job file: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("loading job file: %w", err)
	}

	if job.Stride == 0 {
		job.Stride = 1
	}

	if err := validateJob(&job); err != nil {
		return nil, fmt.Errorf("loading job file: %w", err)
	}

	return &job, nil
}

func validateJob(job *Job) error {
	if job.Version != 1 {
		return fmt.Errorf("unsupported version: %d", job.Version)
	}
	if strings.TrimSpace(job.Result) == "" {
		return fmt.Errorf("result file is required")
	}
	if strings.TrimSpace(job.Output) == "" {
		return fmt.Errorf("output file is required")
	}
	if job.Stride < 1 {
		return fmt.Errorf("stride must be at least 1")
	}
	if len(job.Extract) == 0 {
		return fmt.Errorf("at least one extract selector is required")
	}
	for i, arg := range job.Extract {
		if _, err := selector.Parse(arg); err != nil {
			return fmt.Errorf("extract selector %d: %w", i+1, err)
		}
	}
	return nil
}
