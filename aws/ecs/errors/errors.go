// Package errors defines the ECS client's error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Error represents a failed ECS operation.
type Error struct {
	// Op is the operation that failed (e.g., "runTask")
	Op string

	// Cluster is the target cluster, if known
	Cluster string

	// TaskDefinition is the task definition, if known
	TaskDefinition string

	// Message adds context to the underlying error
	Message string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ecs ")
	b.WriteString(e.Op)
	if e.Cluster != "" {
		b.WriteString(" cluster=")
		b.WriteString(e.Cluster)
	}
	if e.TaskDefinition != "" {
		b.WriteString(" taskDefinition=")
		b.WriteString(e.TaskDefinition)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCluster sets the cluster.
func (e *Error) WithCluster(cluster string) *Error {
	e.Cluster = cluster
	return e
}

// WithTaskDefinition sets the task definition.
func (e *Error) WithTaskDefinition(taskDefinition string) *Error {
	e.TaskDefinition = taskDefinition
	return e
}

// WithMessage sets a context message.
func (e *Error) WithMessage(message string) *Error {
	e.Message = message
	return e
}

// NewError creates a new Error for op wrapping err.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

var (
	// ErrInvalidInput indicates a malformed RunTask request.
	ErrInvalidInput = errors.New("ecs: invalid input")

	// ErrClusterNotFound indicates the target cluster does not exist.
	ErrClusterNotFound = errors.New("ecs: cluster not found")

	// ErrAccessDenied indicates the caller may not run the task.
	ErrAccessDenied = errors.New("ecs: access denied")

	// ErrThrottled indicates the request was rate limited.
	ErrThrottled = errors.New("ecs: request throttled")
)

// FromAPIError converts an ECS API error into one that also matches the
// corresponding sentinel. Unknown errors are returned unchanged.
func FromAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	var sentinel error
	switch apiErr.ErrorCode() {
	case "ClusterNotFoundException":
		sentinel = ErrClusterNotFound
	case "AccessDeniedException":
		sentinel = ErrAccessDenied
	case "InvalidParameterException", "PlatformUnknownException", "UnsupportedFeatureException":
		sentinel = ErrInvalidInput
	case "ThrottlingException":
		sentinel = ErrThrottled
	default:
		return err
	}

	return fmt.Errorf("%w: %w", sentinel, err)
}
