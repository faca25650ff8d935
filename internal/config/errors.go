package config

import (
	"errors"
)

// Sentinel error kinds returned by Load and Validate.
var (
	// ErrInvalidConfig wraps range and species template failures.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the YAML file or CHIMERA_ variables.
	ErrLoadConfig = errors.New("load config failed")
)
