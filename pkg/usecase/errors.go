package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	// ErrMalformedPayload means the interaction callback fit none of the
	// recognized flows. The controller maps it to HTTP 400.
	ErrMalformedPayload = errors.New("malformed interaction payload")
)
