// Package common provides the error taxonomy, diagnostics and small helpers shared by the pipeline.
package common

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

var (
	// ErrInvalidIdentifier indicates an input could not be mapped to a YouTube ID.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrNotFound indicates the API returned no item for a resolved ID.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition indicates a missing credential or unusable configuration.
	ErrPrecondition = errors.New("precondition failed")
)

// ProviderError wraps a failure returned by a YouTube Data API call.
type ProviderError struct {
	Operation  string // e.g. "videos.list"
	Identifier string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Identifier, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err carries a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// StatusCode returns the HTTP status carried by a YouTube API error, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
