package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound represents an error when a requested resource is not found.
// Inside the cascade it is absorbed; at the HTTP surface it becomes an empty stream list.
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

// ErrConfigurationMissing is returned when a required setting (base URL, API key, secret) is absent.
type ErrConfigurationMissing struct {
	Setting string
	Hint    string
}

// Error implements the error interface.
func (e *ErrConfigurationMissing) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s is not configured: %s", e.Setting, e.Hint)
	}
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// Is allows for error checking with errors.Is().
func (e *ErrConfigurationMissing) Is(target error) bool {
	_, ok := target.(*ErrConfigurationMissing)
	return ok
}

// NewConfigurationMissingError creates a new ErrConfigurationMissing.
func NewConfigurationMissingError(setting, hint string) *ErrConfigurationMissing {
	return &ErrConfigurationMissing{Setting: setting, Hint: hint}
}

// ErrBadRequest is returned when a required request parameter is missing or invalid.
type ErrBadRequest struct {
	Param string
}

// Error implements the error interface.
func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("missing %s parameter", e.Param)
}

// Is allows for error checking with errors.Is().
func (e *ErrBadRequest) Is(target error) bool {
	_, ok := target.(*ErrBadRequest)
	return ok
}

// NewBadRequestError creates a new ErrBadRequest.
func NewBadRequestError(param string) *ErrBadRequest {
	return &ErrBadRequest{Param: param}
}

// ErrUnauthorized is returned when the shared access secret does not match.
type ErrUnauthorized struct{}

// Error implements the error interface.
func (e *ErrUnauthorized) Error() string {
	return "invalid or missing access key"
}

// Is allows for error checking with errors.Is().
func (e *ErrUnauthorized) Is(target error) bool {
	_, ok := target.(*ErrUnauthorized)
	return ok
}

// HTTPStatus maps an error to the status code the API reports for it.
// Only configuration, request and authorization failures are caller-visible;
// everything else (including not-found) is reported as 200 with an empty list.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, &ErrConfigurationMissing{}):
		return http.StatusServiceUnavailable
	case errors.Is(err, &ErrBadRequest{}):
		return http.StatusBadRequest
	case errors.Is(err, &ErrUnauthorized{}):
		return http.StatusForbidden
	default:
		return http.StatusOK
	}
}
