package errors

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// ToHTTP translates a domain error into the status code and message sent to
// the client. Storage and unknown errors never leak their cause.
func ToHTTP(err error) *HTTPError {
	switch {
	case err == nil:
		return nil
	case IsValidation(err), IsConflict(err), IsInvalidTransition(err):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case IsNotFound(err):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case IsAuthentication(err):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case IsAuthorization(err):
		return NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
