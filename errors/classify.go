package errors

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/aws/smithy-go"

	ecserrors "github.com/saleem-mirza/aws-demos/aws/ecs/errors"
	s3errors "github.com/saleem-mirza/aws-demos/aws/s3/errors"
)

// Error is an error carrying an ErrorCode.
// Package-level sentinels built with New can be matched with errors.Is.
type Error struct {
	// Code classifies the failure
	Code ErrorCode

	// Message is a human readable description
	Message string

	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without an underlying cause.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around err.
func Wrap(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Classify maps err onto an ErrorCode. Coded errors win over the AWS API error
// they wrap; unknown errors map to CodeUnknown. A nil error has no code.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	if code, ok := classifySentinel(err); ok {
		return code
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return classifyAPICode(apiErr.ErrorCode())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CodeTimeout
		}
		return CodeNetwork
	}

	return CodeUnknown
}

// classifySentinel maps the storage and orchestration client sentinels.
func classifySentinel(err error) (ErrorCode, bool) {
	switch {
	case errors.Is(err, s3errors.ErrInvalidInput),
		errors.Is(err, s3errors.ErrInvalidBucketName),
		errors.Is(err, s3errors.ErrInvalidObjectKey),
		errors.Is(err, ecserrors.ErrInvalidInput):
		return CodeInvalidInput, true
	case errors.Is(err, s3errors.ErrObjectNotFound),
		errors.Is(err, s3errors.ErrBucketNotFound),
		errors.Is(err, ecserrors.ErrClusterNotFound):
		return CodeNotFound, true
	case errors.Is(err, s3errors.ErrAccessDenied),
		errors.Is(err, ecserrors.ErrAccessDenied):
		return CodeForbidden, true
	case errors.Is(err, s3errors.ErrTooManyRequests), errors.Is(err, ecserrors.ErrThrottled):
		return CodeRateLimit, true
	case errors.Is(err, s3errors.ErrTimeout):
		return CodeTimeout, true
	case errors.Is(err, s3errors.ErrConnection):
		return CodeNetwork, true
	case errors.Is(err, s3errors.ErrInvalidCredentials):
		return CodeUnauthorized, true
	}
	return "", false
}

// classifyAPICode maps AWS API error codes returned by S3 and ECS.
func classifyAPICode(code string) ErrorCode {
	switch code {
	case "AccessDenied", "AccessDeniedException", "AllAccessDisabled", "UnauthorizedOperation":
		return CodeForbidden
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken",
		"UnrecognizedClientException", "InvalidClientTokenId":
		return CodeUnauthorized
	case "NoSuchKey", "NoSuchBucket", "NotFound", "ClusterNotFoundException":
		return CodeNotFound
	case "Throttling", "ThrottlingException", "SlowDown", "RequestLimitExceeded", "TooManyRequestsException":
		return CodeRateLimit
	case "InvalidParameterException", "ValidationException", "InvalidRequest", "InvalidArgument",
		"PlatformUnknownException", "PlatformTaskDefinitionIncompatibilityException":
		return CodeInvalidInput
	case "ServiceUnavailable", "ServiceUnavailableException", "InternalError", "ServerException":
		return CodeUnavailable
	case "RequestTimeout", "RequestTimeoutException":
		return CodeTimeout
	default:
		return CodeExecutionFailed
	}
}
