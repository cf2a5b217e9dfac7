package domain

import "errors"

// ErrorKind classifies every failure the pipeline can produce.
type ErrorKind string

const (
	// KindValidation covers malformed URLs, a missing branch selection, and a
	// missing required credential. Detected locally, no network call is made.
	KindValidation ErrorKind = "validation"
	// KindNotFound covers an absent or inaccessible repository, branch, or
	// archive. The remote does not distinguish "nonexistent" from "private and
	// unauthenticated", and neither do we.
	KindNotFound ErrorKind = "not_found"
	// KindAuth covers a rejected or insufficient credential.
	KindAuth ErrorKind = "auth"
	// KindRedirect covers a redirect response with no usable Location header.
	KindRedirect ErrorKind = "redirect"
	// KindStream covers a response stream that could not be opened or read.
	KindStream ErrorKind = "stream"
	// KindNetwork covers any other transport failure or non-success status.
	KindNetwork ErrorKind = "network"
)

// Error is the typed error carried through the pipeline. StatusCode holds the
// raw HTTP status when the failure came from a remote response.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a locally detected validation failure.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates a not-found failure for the given status code.
func NewNotFoundError(message string, statusCode int) *Error {
	return &Error{Kind: KindNotFound, Message: message, StatusCode: statusCode}
}

// NewAuthError creates an authentication/authorization failure.
func NewAuthError(message string, statusCode int) *Error {
	return &Error{Kind: KindAuth, Message: message, StatusCode: statusCode}
}

// NewRedirectError creates a failure for a redirect without a Location header.
func NewRedirectError(message string, statusCode int) *Error {
	return &Error{Kind: KindRedirect, Message: message, StatusCode: statusCode}
}

// NewStreamError creates a failure for an unreadable response stream.
func NewStreamError(message string, err error) *Error {
	return &Error{Kind: KindStream, Message: message, Err: err}
}

// NewNetworkError creates a transport or unexpected-status failure.
func NewNetworkError(message string, statusCode int, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, StatusCode: statusCode, Err: err}
}

// KindOf extracts the error kind from any error in a chain. Errors that did
// not originate in the pipeline are treated as network failures.
func KindOf(err error) ErrorKind {
	var pipelineErr *Error
	if errors.As(err, &pipelineErr) {
		return pipelineErr.Kind
	}
	return KindNetwork
}
