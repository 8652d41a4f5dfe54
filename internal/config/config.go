// Package config handles taskmd configuration
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the optional per-project configuration file.
const DefaultConfigFile = ".taskmd.yaml"

// Config holds taskmd configuration
type Config struct {
	// TasksFile is the default tasks.md path used when a command is not
	// given an explicit file argument
	TasksFile string `yaml:"tasks_file"`

	// SpecDir is the directory holding the MoAI SPEC triad
	// (spec.md, plan.md, acceptance.md)
	SpecDir string `yaml:"spec_dir"`

	// Verbose enables debug logging
	Verbose bool `yaml:"verbose"`
}

// Load loads configuration from defaults, then the optional .taskmd.yaml
// file, then environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		TasksFile: "tasks.md",
		SpecDir:   ".moai/specs",
	}

	if err := cfg.loadFile(DefaultConfigFile); err != nil {
		return nil, err
	}

	// Environment overrides
	if v := os.Getenv("TASKMD_TASKS_FILE"); v != "" {
		cfg.TasksFile = v
	}
	if v := os.Getenv("TASKMD_SPEC_DIR"); v != "" {
		cfg.SpecDir = v
	}
	if v := os.Getenv("TASKMD_VERBOSE"); v != "" {
		cfg.Verbose = parseBoolOrDefault(v, false)
	}

	return cfg, nil
}

// loadFile merges an optional yaml config file. A missing file is not an
// error; a malformed one is.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func parseBoolOrDefault(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
