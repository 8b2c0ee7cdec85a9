package mkm

import (
	"errors"
	"fmt"
)

// ErrNoResults is a recognized "nothing found" condition: an explicit empty
// result, or an empty body on an otherwise-ok response. Callers treat it as
// zero results, not as a failure.
var ErrNoResults = errors.New("no results found")

// RemoteError is returned when the marketplace answers with a status the
// client does not handle. It aborts the current fetch only.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cardmarket API error (status %d): %s", e.StatusCode, e.Body)
}

// IsRemoteError reports whether err is a RemoteError and returns it.
func IsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
