package model

import (
	"context"
	"errors"
	"fmt"
)

// Validation failures. They are detected locally and never reach the network.
var (
	ErrEmptyUsername       = errors.New("enter a GitHub username or profile URL")
	ErrEmptyJobDescription = errors.New("fill in the job description")
	ErrNoCandidates        = errors.New("add candidates")
	ErrNoFilters           = errors.New("select at least one filter")
	ErrEmptyCandidate      = errors.New("enter a candidate URL")
	ErrDuplicateCandidate  = errors.New("candidate already added")
	ErrCandidateLimit      = errors.New("candidate limit reached")
)

// validationErrors are the sentinels whose text is shown as is, without the
// detail callers wrap around them.
var validationErrors = []error{
	ErrEmptyUsername, ErrEmptyJobDescription, ErrNoCandidates, ErrNoFilters,
	ErrEmptyCandidate, ErrDuplicateCandidate, ErrCandidateLimit,
}

// ErrInFlight is returned when a form is submitted while its previous request
// is still running.
var ErrInFlight = errors.New("a request for this form is already in progress")

// ErrUnexpectedResponse means a 2xx response carried none of the result fields.
var ErrUnexpectedResponse = errors.New("unexpected response from server")

// ValidationError wraps one of the validation sentinels with the form it came from.
type ValidationError struct {
	Form FormID
	Err  error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response. Message is extracted from the response body.
type HTTPError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// TransportError means the request never completed or the body could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Describe returns the message shown in the result region for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		msg := vErr.Err.Error()
		for _, sentinel := range validationErrors {
			if errors.Is(vErr.Err, sentinel) {
				msg = sentinel.Error()
				break
			}
		}
		return capitalize(msg) + "."
	}

	if errors.Is(err, context.Canceled) {
		return "Request cancelled."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out."
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fmt.Sprintf("Request failed (HTTP %d).", httpErr.StatusCode)
	}

	var tErr *TransportError
	if errors.As(err, &tErr) {
		return fmt.Sprintf("Connection error: %v", tErr.Err)
	}

	if errors.Is(err, ErrUnexpectedResponse) {
		return "Unexpected response from server."
	}
	if errors.Is(err, ErrInFlight) {
		return "A request for this form is already in progress."
	}

	return err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
