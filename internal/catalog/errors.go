package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidPageSize reports a page size below one.
var ErrInvalidPageSize = errors.New("page size must be at least 1")

// RequestError is returned for every failed catalog request: transport
// failures, non-2xx responses and undecodable payloads. Status is zero when
// no response was received.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Status > 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return "request failed"
}

func (e *RequestError) Unwrap() error { return e.Err }

// AsRequestError extracts a *RequestError from err's chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
