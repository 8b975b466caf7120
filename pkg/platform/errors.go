package platform

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies every failure an adapter or the service can report.
type ErrorKind string

// Error kinds.
const (
	NotFound                    ErrorKind = "NotFound"
	AuthenticationFailed        ErrorKind = "AuthenticationFailed"
	PermissionDenied            ErrorKind = "PermissionDenied"
	InvalidReference            ErrorKind = "InvalidReference"
	RateLimited                 ErrorKind = "RateLimited"
	UpstreamError               ErrorKind = "UpstreamError"
	UnknownPlatform             ErrorKind = "UnknownPlatform"
	AdapterInitializationFailed ErrorKind = "AdapterInitializationFailed"
)

// Sentinel errors matched by errors.Is against an *Error of the same kind.
var (
	ErrNotFound                    = errors.New("not found")
	ErrAuthenticationFailed        = errors.New("authentication failed")
	ErrPermissionDenied            = errors.New("permission denied")
	ErrInvalidReference            = errors.New("invalid reference")
	ErrRateLimited                 = errors.New("rate limited")
	ErrUpstream                    = errors.New("upstream error")
	ErrUnknownPlatform             = errors.New("unknown platform")
	ErrAdapterInitializationFailed = errors.New("adapter initialization failed")
)

var sentinels = map[ErrorKind]error{
	NotFound:                    ErrNotFound,
	AuthenticationFailed:        ErrAuthenticationFailed,
	PermissionDenied:            ErrPermissionDenied,
	InvalidReference:            ErrInvalidReference,
	RateLimited:                 ErrRateLimited,
	UpstreamError:               ErrUpstream,
	UnknownPlatform:             ErrUnknownPlatform,
	AdapterInitializationFailed: ErrAdapterInitializationFailed,
}

// Error is the single error type crossing the adapter boundary.
type Error struct {
	Kind     ErrorKind
	Platform string
	Op       string
	// Status is the HTTP status of the upstream response, 0 when there was none.
	Status  int
	Message string
	// RetryAfter is the platform's hint for RateLimited errors.
	RetryAfter time.Duration
	Err        error
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error renders the kind first so front-ends show it next to the raw message.
func (e *Error) Error() string {
	msg := string(e.Kind) + ":"
	if e.Platform != "" {
		msg += " " + e.Platform + ":"
	}
	if e.Op != "" {
		msg += " " + e.Op + ":"
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" %d", e.Status)
	}
	switch {
	case e.Message != "":
		msg += " " + e.Message
	case e.Err != nil:
		msg += " " + e.Err.Error()
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target == sentinels[e.Kind]
}

// Retryable reports whether a read operation may be attempted again.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case RateLimited:
		return true
	case UpstreamError:
		return e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// KindOf returns the kind of err, or "" when err carries no *Error.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}

// KindForStatus maps an HTTP status to the error kind adapters report for it.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return AuthenticationFailed
	case http.StatusForbidden:
		return PermissionDenied
	case http.StatusNotFound:
		return NotFound
	case http.StatusTooManyRequests:
		return RateLimited
	default:
		return UpstreamError
	}
}
