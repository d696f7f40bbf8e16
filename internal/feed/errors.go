package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMorePages is returned by FetchNext once the continuation has ended.
	ErrNoMorePages = errors.New("no more pages")
	// ErrFetchInProgress is returned by FetchNext while another next-page fetch
	// for the same filter is outstanding.
	ErrFetchInProgress = errors.New("fetch already in progress")
	// ErrInvalidPage is returned for page tokens below 1.
	ErrInvalidPage = errors.New("page must be a positive integer")
)

// UnavailableError reports an upstream failure. StatusCode is zero when the
// upstream could not be reached at all.
type UnavailableError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("player feed unavailable (status %d): %s", e.StatusCode, e.Message)
	}
	return "player feed unavailable: " + e.Message
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// AsUnavailableError attempts to unwrap an error into an UnavailableError.
func AsUnavailableError(err error) (*UnavailableError, bool) {
	var unErr *UnavailableError
	if errors.As(err, &unErr) {
		return unErr, true
	}
	return nil, false
}
