package facta

import (
	"errors"
	"fmt"
)

// Category classifies client-layer failures
type Category string

const (
	// AuthFailure means no bearer token could be obtained
	AuthFailure Category = "auth_failure"
	// TransportFailure covers network errors and non-2xx responses
	TransportFailure Category = "transport_failure"
	// UpstreamBusinessError means the API answered without an explicit erro=false
	UpstreamBusinessError Category = "upstream_error"
	// ParseFailure means the body could not be decoded or lacked required fields
	ParseFailure Category = "parse_failure"
)

// Error is a categorized failure from one upstream endpoint
type Error struct {
	Category   Category
	Endpoint   string
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("facta %s [%s]: %s: %v", e.Endpoint, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("facta %s [%s]: %s", e.Endpoint, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func newError(category Category, endpoint, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Endpoint:   endpoint,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the category of err, or the empty string for
// errors that did not originate in this package
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ""
}
