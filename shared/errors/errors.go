package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an error independently of its message so callers can
// match on it with errors.Is.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindDuplicateAccount
	KindInvalidCode
	KindNotFoundOrUnverified
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindDependencyFailure
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Kind       Kind
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Is reports whether target carries the same kind. Errors without a kind
// fall back to comparing status codes.
func (e *ErrorWithStatusCode) Is(target error) bool {
	t, ok := target.(*ErrorWithStatusCode)
	if !ok {
		return false
	}
	if t.Kind != KindUnknown || e.Kind != KindUnknown {
		return t.Kind == e.Kind
	}
	return t.StatusCode == e.StatusCode
}

var (
	ErrDuplicateAccount     = &ErrorWithStatusCode{Message: "Email already registered", StatusCode: http.StatusBadRequest, Kind: KindDuplicateAccount}
	ErrInvalidCode          = &ErrorWithStatusCode{Message: "Invalid OTP", StatusCode: http.StatusBadRequest, Kind: KindInvalidCode}
	ErrNotFoundOrUnverified = &ErrorWithStatusCode{Message: "User not found or not verified", StatusCode: http.StatusBadRequest, Kind: KindNotFoundOrUnverified}
	ErrInvalidCredentials   = &ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusBadRequest, Kind: KindInvalidCredentials}
	ErrUnauthenticated      = &ErrorWithStatusCode{Message: "Please sign-in", StatusCode: http.StatusUnauthorized, Kind: KindUnauthenticated}
	ErrForbidden            = &ErrorWithStatusCode{Message: "Access denied. Only for admin", StatusCode: http.StatusForbidden, Kind: KindForbidden}
	ErrRateLimited          = &ErrorWithStatusCode{Message: "Rate limit exceeded, try again later", StatusCode: http.StatusTooManyRequests, Kind: KindRateLimited}
	ErrServer               = &ErrorWithStatusCode{Message: "Server error", StatusCode: http.StatusInternalServerError, Kind: KindDependencyFailure}
)

func Validation(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Kind: KindValidation}
}

func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound, Kind: KindNotFound}
}

func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Kind: KindConflict}
}

func Unauthenticated(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnauthorized, Kind: KindUnauthenticated}
}

func RateLimited(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusTooManyRequests, Kind: KindRateLimited}
}

// IsNotFound reports whether err (or anything it wraps) is a 404.
func IsNotFound(err error) bool {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// KindOf returns the kind of the first ErrorWithStatusCode in err's chain.
func KindOf(err error) Kind {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Public returns the error to expose to a client. Anything that is not an
// ErrorWithStatusCode, or reports a 5xx, is collapsed into ErrServer.
func Public(err error) *ErrorWithStatusCode {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) && e.StatusCode < http.StatusInternalServerError {
		return e
	}
	return ErrServer
}

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindValidation:           "validation",
	KindDuplicateAccount:     "duplicate_account",
	KindInvalidCode:          "invalid_code",
	KindNotFoundOrUnverified: "not_found_or_unverified",
	KindInvalidCredentials:   "invalid_credentials",
	KindUnauthenticated:      "unauthenticated",
	KindForbidden:            "forbidden",
	KindNotFound:             "not_found",
	KindConflict:             "conflict",
	KindRateLimited:          "rate_limited",
	KindDependencyFailure:    "dependency_failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}
