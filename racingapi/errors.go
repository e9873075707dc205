package racingapi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the feed has no record for an identifier.
var ErrNotFound = errors.New("racingapi: not found")

// StatusError is a non-2xx response from the feed.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("racingapi: %s returned %d", e.URL, e.Code)
}

// Permanent reports whether err will keep failing on retry: a missing
// record or a client-side rejection. Timeouts and 5xx responses are
// transient and may succeed on a later cycle.
func Permanent(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500
	}
	return false
}
