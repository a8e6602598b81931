package event

import (
	perrors "github.com/saleem-mirza/aws-demos/errors"
)

// Envelope errors. All of them classify as INVALID_INPUT.
var (
	// ErrMalformedEnvelope indicates the message body is not valid JSON.
	ErrMalformedEnvelope = perrors.New(perrors.CodeInvalidInput, "malformed envelope")

	// ErrUnknownEnvelope indicates valid JSON that is neither a probe nor a notification.
	ErrUnknownEnvelope = perrors.New(perrors.CodeInvalidInput, "unknown envelope")

	// ErrIncompleteRecord indicates a record without bucket name, object key or event time.
	ErrIncompleteRecord = perrors.New(perrors.CodeInvalidInput, "incomplete record")

	// ErrInvalidEventTime indicates an event time that cannot be parsed.
	ErrInvalidEventTime = perrors.New(perrors.CodeInvalidInput, "invalid event time")
)
