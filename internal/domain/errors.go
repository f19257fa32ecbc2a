package domain

import "errors"

var (
	// ErrNotFound signals that a referenced product or user is absent from the
	// currently loaded artifact or read model. Distinct from ErrUnavailable.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable signals that a required artifact is missing, unreadable,
	// or failed to deserialize. Callers should retry later or fall back.
	ErrUnavailable = errors.New("artifact unavailable")
	// ErrEmptyCorpus signals a build attempted over zero active products.
	ErrEmptyCorpus = errors.New("empty product corpus")
	// ErrNoInteractions signals CF training attempted with no interaction events.
	ErrNoInteractions = errors.New("no interaction data")
	// ErrNoFeedback signals sentiment training attempted with no usable comments.
	ErrNoFeedback = errors.New("no feedback comments")
	// ErrJobAlreadyRunning signals a training trigger while the same job type runs.
	ErrJobAlreadyRunning = errors.New("training job already running")
	// ErrUnknownJob signals a training trigger for an unrecognized job type.
	ErrUnknownJob = errors.New("unknown training job")
	// ErrInvalidInput signals a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
