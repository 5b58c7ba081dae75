package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestFailed is matched by every *RequestError.
	ErrRequestFailed = errors.New("breeze request failed")
	// ErrRemoteRejected is matched by every *RemoteError.
	ErrRemoteRejected = errors.New("breeze rejected the request")
)

// RequestError reports a request that never produced a usable response
// within the attempt budget: network failures, timeouts and 5xx statuses.
type RequestError struct {
	Endpoint string
	Attempts int
	// StatusCode is the status of the last attempt, or 0 when no response
	// was received.
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d after %d attempts", ErrRequestFailed, e.Endpoint, e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("%s: %s after %d attempts: %v", ErrRequestFailed, e.Endpoint, e.Attempts, e.Err)
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

// RemoteError reports a response in which the service refused the request.
// Payload holds the decoded response body exactly as received, or the raw
// body text when it was not JSON.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Payload    any
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s (status %d): %v", ErrRemoteRejected, e.Endpoint, e.StatusCode, e.Payload)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteRejected
}
