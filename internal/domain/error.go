package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrJobTerminal      = errors.New("job already in a terminal state")
	ErrJobNotStarted    = errors.New("job could not be started")
	ErrEmptyCompletion  = errors.New("model returned empty completion")
	ErrUnparsableOutput = errors.New("model output could not be parsed")
)
