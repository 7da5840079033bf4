package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when a job spec or schedule is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrJobNotFound is returned when a job is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyRegistered is returned when two jobs share a name
	ErrJobAlreadyRegistered = errors.New("job already registered")

	// ErrJobRunning is returned when a manual run overlaps a running one
	ErrJobRunning = errors.New("job is already running")
)
