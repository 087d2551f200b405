package nvd

import "errors"

var (
	// ErrAuthFailure is returned on HTTP 403. The API key is missing or rejected
	// and no further request can succeed, so callers stop the whole run.
	ErrAuthFailure = errors.New("nvd api authentication failed")

	// ErrExhaustedRetries is returned when every attempt of a page request failed
	ErrExhaustedRetries = errors.New("nvd api request failed after all attempts")

	// ErrMissingAPIKey is returned before any request when no key is configured
	ErrMissingAPIKey = errors.New("nvd api key is not configured")

	// errTransient marks failures that are worth another attempt
	errTransient = errors.New("transient failure")
)
