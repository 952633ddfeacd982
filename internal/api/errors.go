package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is returned when the backend answers with a non-success status.
type RequestError struct {
	Method   string
	Endpoint string
	Status   int

	// Message is the backend's error message, surfaced verbatim to the user.
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Endpoint, e.Status, e.Message)
}

// NetworkError is returned when a request could not be completed at all
// (DNS failure, refused connection, broken transport).
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsRequestError reports whether err (or any error in its chain) is a RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// IsNetworkError reports whether err (or any error in its chain) is a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsNotFound reports whether err is a RequestError with status 404.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound
}

// ServerMessage returns the message to show the user for err: the backend's
// message for request errors, a fixed text for network errors, and
// err.Error() otherwise.
func ServerMessage(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	if IsNetworkError(err) {
		return "cannot reach the server"
	}
	return err.Error()
}
