package modwiki

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENETWORK  = "network"
	ENOTFOUND = "not_found"
	ESTORE    = "store"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("modwiki error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	var ne *NetworkError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	} else if errors.As(err, &ne) {
		return ENETWORK
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	var e *Error
	var ne *NetworkError
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	} else if errors.As(err, &ne) {
		return ne.Error()
	}
	return "Internal error."
}

// NetworkError is returned by a Fetcher when a request cannot be completed.
// Transient failures (timeouts, resets, 5xx, 429) may succeed on retry;
// permanent ones (other 4xx, bad URLs, TLS failures) will not.
type NetworkError struct {
	URL        string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *NetworkError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s network error: HTTP %d for %s", kind, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s network error for %s: %v", kind, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a NetworkError worth retrying.
func IsTransient(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Transient
}
