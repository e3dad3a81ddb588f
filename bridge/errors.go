package bridge

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/erraggy/apicontract/contracterrors"
)

// Error codes written in the "code" member of JSON error bodies.
const (
	CodeInvalidParam     = "invalid_param"
	CodeMissingParam     = "missing_param"
	CodeConversion       = "conversion_error"
	CodeInvalidBody      = "invalid_body"
	CodeInvalidResult    = "invalid_result"
	CodeHandler          = "handler_error"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeRateLimited      = "rate_limited"
	CodeTimeout          = "timeout"
	CodeInternal         = "internal_error"
)

// HTTPError lets a handler choose the response status for its failure.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

// Errorf returns an *HTTPError with the given status and formatted message.
func Errorf(status int, format string, args ...any) *HTTPError {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Cause != nil {
		if msg == "" {
			return e.Cause.Error()
		}
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// StatusFor maps an error from the request pipeline to a response status and
// error code.
//
// Parameter failures (conversion, missing, mismatch) are client errors;
// result check failures and unclassified handler errors are server errors.
func StatusFor(err error) (int, string) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		status := httpErr.Status
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		code := httpErr.Code
		if code == "" {
			code = CodeHandler
		}
		return status, code
	}

	switch {
	case errors.Is(err, contracterrors.ErrResult):
		return http.StatusInternalServerError, CodeInvalidResult
	case errors.Is(err, contracterrors.ErrMissingParam):
		return http.StatusBadRequest, CodeMissingParam
	case errors.Is(err, contracterrors.ErrConversion):
		return http.StatusBadRequest, CodeConversion
	case errors.Is(err, contracterrors.ErrMismatch):
		return http.StatusBadRequest, CodeInvalidParam
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, CodeInvalidBody
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, CodeInvalidBody
	case errors.Is(err, errTimeout):
		return http.StatusGatewayTimeout, CodeTimeout
	}
	return http.StatusInternalServerError, CodeHandler
}

var (
	errBadBody      = errors.New("request body is not valid JSON")
	errBodyTooLarge = errors.New("request body is too large")
	errTimeout      = errors.New("handler timed out")
)
