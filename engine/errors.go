package engine

import (
	"errors"
	"strings"
)

// Query names used in error messages.
const (
	QuerySearchHotel = "search_hotel"
	QueryLogin       = "login_api"
)

// ErrUnknownKind is returned for request kinds with no handler. Its text is
// reported to clients verbatim.
var ErrUnknownKind = errors.New("Invalid request type")

// InvalidRequestError reports a request that failed validation, either
// because it could not be parsed or because rules were violated.
type InvalidRequestError struct {
	Kind   string
	Errors []string
	cause  error
}

func (e *InvalidRequestError) Error() string {
	return "Invalid hotel request for " + e.Kind + ": " + strings.Join(e.Errors, "\n")
}

func (e *InvalidRequestError) Unwrap() error { return e.cause }

// InvalidResponseError reports a non-success status from a supplier API.
type InvalidResponseError struct {
	Service string
	Status  int
	Message string
}

func (e *InvalidResponseError) Error() string {
	return "Invalid hotel API response for " + e.Service + ": " + e.Message
}

// checkStatus accepts 200 and 201.
func checkStatus(service string, status int, message string) error {
	if status == 200 || status == 201 {
		return nil
	}
	if message == "" {
		message = "Unknown error"
	}
	return &InvalidResponseError{Service: service, Status: status, Message: message}
}
