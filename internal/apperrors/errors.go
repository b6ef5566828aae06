package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewShowNotFoundError creates a specific error for an unknown TVMaze show ID.
func NewShowNotFoundError(showID int) *ErrNotFound {
	return &ErrNotFound{
		Resource: "show",
		ID:       showID,
	}
}

// NewHandleNotFoundError creates a specific error for a show handle that is
// unknown or has expired from the registry.
func NewHandleNotFoundError(handle string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "show handle",
		ID:       handle,
	}
}

// ErrNetworkFailure is returned when a request to the upstream API could not complete.
type ErrNetworkFailure struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface.
func (e *ErrNetworkFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ErrNetworkFailure) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrNetworkFailure) Is(target error) bool {
	_, ok := target.(*ErrNetworkFailure)
	return ok
}

// ErrUnexpectedStatus is returned when the upstream API answers with a non-200 status.
type ErrUnexpectedStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnexpectedStatus) Is(target error) bool {
	_, ok := target.(*ErrUnexpectedStatus)
	return ok
}

// ErrMalformedResponse is returned when an upstream body does not have the expected shape.
type ErrMalformedResponse struct {
	Resource string
	Err      error
}

// Error implements the error interface.
func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *ErrMalformedResponse) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedResponse) Is(target error) bool {
	_, ok := target.(*ErrMalformedResponse)
	return ok
}
