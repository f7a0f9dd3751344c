package errors

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "ValidationError"
	KindAuthentication  Kind = "AuthenticationError"
	KindAuthorization   Kind = "AuthorizationError"
	KindNotFound        Kind = "NotFoundError"
	KindSelfSecond      Kind = "SelfSecondError"
	KindDuplicateSecond Kind = "DuplicateSecondError"
	KindIssueClosed     Kind = "IssueClosedError"
	KindConflict        Kind = "ConflictError"
	KindRateLimit       Kind = "RateLimitError"
	KindInternal        Kind = "InternalError"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func newError(kind Kind, status int, message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: kind, Message: message, StatusCode: status}
}

func Validation(message string) error {
	return newError(KindValidation, http.StatusBadRequest, message)
}

func Authentication(message string) error {
	return newError(KindAuthentication, http.StatusUnauthorized, message)
}

func Authorization(message string) error {
	return newError(KindAuthorization, http.StatusForbidden, message)
}

func NotFound(message string) error {
	return newError(KindNotFound, http.StatusNotFound, message)
}

func SelfSecond() error {
	return newError(KindSelfSecond, http.StatusConflict, "You cannot second your own issue")
}

func DuplicateSecond() error {
	return newError(KindDuplicateSecond, http.StatusConflict, "You have already seconded this issue")
}

func IssueClosed() error {
	return newError(KindIssueClosed, http.StatusConflict, "Issue is closed")
}

// Conflict is retryable: the caller lost a race for a contended resource.
func Conflict(message string) error {
	return newError(KindConflict, http.StatusConflict, message)
}

func RateLimited() error {
	return newError(KindRateLimit, http.StatusTooManyRequests, "Rate limit exceeded, try again later")
}

// As unwraps err down to an *ErrorWithStatusCode if there is one.
func As(err error) (*ErrorWithStatusCode, bool) {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
