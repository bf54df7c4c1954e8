package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrValidation marks request payloads that are missing required fields or carry
	// unsupported enum values. It maps to a client error and has no side effects.
	ErrValidation = errors.New("validation failed")
	// ErrBackendUnavailable is returned when a single candidate model cannot be
	// version-resolved. The model resolver recovers from it by trying the next candidate.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrNoUsableModel is returned when every candidate model failed resolution.
	ErrNoUsableModel    = errors.New("no usable model")
	ErrInferenceFailure = errors.New("inference failure")
	// ErrOutputParse is returned when the backend output matches none of the
	// recognised shapes (list, string, map with an image/url key).
	ErrOutputParse = errors.New("output parse failure")
	ErrStorage     = errors.New("storage failure")
)
