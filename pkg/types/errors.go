package types

import "errors"

// Domain errors for configuration and index validation
var (
	// ErrInvalidConfiguration is the root of every configuration error.
	// The specific errors below wrap it so callers can match on either.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")
	ErrInvalidDistance  = errors.New("distance must be >= 0")
	ErrInvalidLocation  = errors.New("location must be >= 0")
	ErrInvalidWeight    = errors.New("key weight must be > 0")
	ErrDuplicateKey     = errors.New("duplicate key name")
	ErrNoKeys           = errors.New("keys are required for structured records")

	// Index errors
	ErrRecordOutOfRange = errors.New("record id out of range")
)
