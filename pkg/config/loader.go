package config

import (
	"fmt"
	"os"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadExperiment loads and parses an experiment file
func LoadExperiment(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment file %s: %w", path, err)
	}
	exp, err := ParseExperimentYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse experiment file %s: %w", path, err)
	}
	return exp, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	// Validate log level; empty selects the default at runtime
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if cfg.LogLevel != "" && !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", cfg.Workers)
	}

	if cfg.Estimation != nil {
		if err := validateEstimation(cfg.Estimation); err != nil {
			return fmt.Errorf("estimation validation failed: %w", err)
		}
	}

	if cfg.Evaluation != nil {
		if err := validateEvaluation(cfg.Evaluation); err != nil {
			return fmt.Errorf("evaluation validation failed: %w", err)
		}
	}

	return nil
}

// validateEstimation validates the estimator settings
func validateEstimation(e *Estimation) error {
	if e.Trials < 0 {
		return fmt.Errorf("trials cannot be negative, got %d", e.Trials)
	}
	// The removal policy is deliberately not validated here: unrecognized
	// policies degrade to random removal at runtime with a warning.
	return nil
}

// validateEvaluation validates the curve sweep settings
func validateEvaluation(e *Evaluation) error {
	if e.Rate < 0 {
		return fmt.Errorf("rate cannot be negative, got %d", e.Rate)
	}
	if e.Repeats < 0 {
		return fmt.Errorf("repeats cannot be negative, got %d", e.Repeats)
	}
	return nil
}

// validateExperiment validates the experiment configuration
func validateExperiment(exp *Experiment) error {
	if exp.Name == "" {
		return fmt.Errorf("experiment name cannot be empty")
	}
	if exp.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", exp.Workers)
	}

	if len(exp.Strategies) == 0 {
		return fmt.Errorf("at least one strategy must be defined")
	}
	validMethods := map[string]bool{
		"":          true, // defaults to random
		"random":    true,
		"degree":    true,
		"bio_smart": true,
	}
	strategyNames := make(map[string]bool)
	for _, spec := range exp.Strategies {
		if spec.Name == "" {
			return fmt.Errorf("strategy name cannot be empty")
		}
		if strategyNames[spec.Name] {
			return fmt.Errorf("duplicate strategy name: %s", spec.Name)
		}
		strategyNames[spec.Name] = true

		if !validMethods[spec.Method] {
			return fmt.Errorf("strategy %s: invalid method %s (must be random, degree, or bio_smart)", spec.Name, spec.Method)
		}
		if spec.EdgesPerNode < 0 {
			return fmt.Errorf("strategy %s: edges_per_node cannot be negative, got %d", spec.Name, spec.EdgesPerNode)
		}
		if spec.Steps <= 0 {
			return fmt.Errorf("strategy %s: steps must be positive, got %d", spec.Name, spec.Steps)
		}
	}

	if exp.Estimation != nil {
		if err := validateEstimation(exp.Estimation); err != nil {
			return fmt.Errorf("estimation validation failed: %w", err)
		}
	}

	if exp.Evaluation != nil {
		if err := validateEvaluation(exp.Evaluation); err != nil {
			return fmt.Errorf("evaluation validation failed: %w", err)
		}
	}

	return nil
}
