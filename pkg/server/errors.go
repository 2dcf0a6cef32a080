package server

import (
	"errors"
	"net/http"
)

var (
	// ErrEmptyMessage is returned when a chat or ingest carries no words.
	ErrEmptyMessage = errors.New("no input provided")
	// ErrInvalidRequest covers malformed bodies and bad parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownAction is returned for an IPC action the server does not serve.
	ErrUnknownAction = errors.New("unknown action")
	// ErrRateLimited is returned when the request budget is spent.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// StatusCode maps an error to the HTTP status (and IPC code) it is reported with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// publicMessage is the text a client sees for err.
func publicMessage(err error) string {
	if errors.Is(err, ErrEmptyMessage) {
		return "No input provided"
	}
	if StatusCode(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
