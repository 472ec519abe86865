package workspace

import (
	"errors"
	"fmt"
)

// Workspace-specific errors.
var (
	// ErrConfigMissingURL indicates the workspace URL was not configured.
	ErrConfigMissingURL = errors.New("workspace: url is required")

	// ErrInsecureURL indicates an http:// URL was given without allowing insecure connections.
	ErrInsecureURL = errors.New("workspace: insecure http url not allowed")

	// ErrInvalidRefPath indicates a reference path string could not be parsed.
	ErrInvalidRefPath = errors.New("workspace: invalid reference path")
)

// ServerError is an error reported by the workspace service in a JSON-RPC
// error response. Message is nil when the server sent a null message.
type ServerError struct {
	Name    string
	Code    int
	Message *string
	Data    string
}

func (e *ServerError) Error() string {
	msg := "<null>"
	if e.Message != nil {
		msg = *e.Message
	}
	return fmt.Sprintf("workspace: %s %d: %s", e.Name, e.Code, msg)
}

// UnauthorizedError indicates the workspace rejected or could not be given
// the caller's credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return "workspace: unauthorized: " + e.Message
}

// HTTPStatusError is a non-JSON-RPC HTTP failure, typically from a proxy in
// front of the service. It is treated as a transport error.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("workspace: http %s", e.Status)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}
