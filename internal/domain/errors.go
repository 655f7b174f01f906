package domain

import "errors"

var (
	// ErrGenerationFailed signals an unusable generative response.
	ErrGenerationFailed = errors.New("answer generation failed")
	// ErrProviderUnavailable signals that the generative backend is down or
	// its circuit breaker is open.
	ErrProviderUnavailable = errors.New("generative provider unavailable")
)
