package pipeline

import (
	"fmt"
	"net/http"
)

// Error is a client-facing failure. Status is the HTTP status it maps to and
// Message is returned verbatim in the response body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation reports malformed, missing or inconsistent input (400).
func Validation(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a referenced entity or route that does not exist (404).
func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// MethodNotAllowed reports a known path requested with an unsupported method (405).
func MethodNotAllowed(method, path string) *Error {
	return &Error{Status: http.StatusMethodNotAllowed, Message: fmt.Sprintf("%s not allowed for %s", method, path)}
}
