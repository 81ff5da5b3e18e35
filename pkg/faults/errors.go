package faults

import "fmt"

// APIError represents an error response from the chaos API.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// InjectionError reports that a fault could not be created: a transport
// failure, a non-success status, or a response missing a fault ID. The
// manager records nothing when injection fails.
type InjectionError struct {
	Err error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("inject fault: %v", e.Err)
}

func (e *InjectionError) Unwrap() error {
	return e.Err
}

// RemovalError reports that a single targeted fault deletion failed. During
// the automatic cleanup pass it is not surfaced to the caller; it triggers
// the bulk-clear fallback instead.
type RemovalError struct {
	ID  string
	Err error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("remove fault %s: %v", e.ID, e.Err)
}

func (e *RemovalError) Unwrap() error {
	return e.Err
}
