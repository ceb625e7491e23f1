package config

import (
	"errors"
)

// Sentinel error kinds for this package, matchable with errors.Is.
// Load wraps every failure in exactly one of them: ErrLoadConfig for
// source errors (missing file, bad YAML, env parsing), ErrInvalidConfig
// for values that fail validation after merging.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
