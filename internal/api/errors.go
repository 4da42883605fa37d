package api

import "fmt"

// Error is a failure reported by the backend, either through an "error" field in the
// JSON payload or through a non-2xx status without one.
type Error struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// TransportError wraps a request that never produced a usable response.
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
