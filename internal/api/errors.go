package api

import (
	"errors"
	"fmt"
)

// Error is the one failure kind of this package: network errors, non-2xx
// responses and undecodable bodies all come back as *Error.
type Error struct {
	Op         string // list, create, update, delete
	Method     string
	URL        string
	StatusCode int    // 0 when no response arrived
	Body       string // truncated response body, if any
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s: %d: %v", e.Op, e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAPIError reports whether err came from this package.
func IsAPIError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
