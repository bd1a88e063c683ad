package backend

import (
	"errors"
	"fmt"
)

// Kind classifies why a backend call failed
type Kind string

const (
	KindNone       Kind = ""
	KindTransport  Kind = "transport"
	KindUpstream   Kind = "upstream"
	KindParse      Kind = "parse"
	KindValidation Kind = "validation"
)

// maxErrorBody caps how much of an upstream error body is kept for logs
const maxErrorBody = 512

// TransportError means the request never produced an HTTP response
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a non-2xx answer from the backend
type UpstreamError struct {
	URL    string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("backend returned status %d for %s", e.Status, e.URL)
}

// ParseError means a 2xx body could not be decoded as JSON of the expected shape
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError means a decoded body did not pass record validation
type ValidationError struct {
	URL string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.URL, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ErrorKind reports the Kind of a backend error, or KindNone for nil and
// errors that did not come from this package.
func ErrorKind(err error) Kind {
	var (
		transportErr  *TransportError
		upstreamErr   *UpstreamError
		parseErr      *ParseError
		validationErr *ValidationError
	)

	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &upstreamErr):
		return KindUpstream
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &transportErr):
		return KindTransport
	}
	return KindNone
}

// StatusOf returns the upstream HTTP status carried by err, or 0
func StatusOf(err error) int {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Status
	}
	return 0
}
