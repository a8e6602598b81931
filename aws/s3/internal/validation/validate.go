// Package validation provides input validation for S3 copy requests.
//
// Only presence and the S3 length limit are checked. Any other byte sequence
// S3 accepts as a key, including control characters, leading slashes and ".."
// segments, is passed through unchanged.
package validation

import "github.com/saleem-mirza/aws-demos/aws/s3/errors"

// maxKeyLength is the S3 limit for object keys, in bytes.
const maxKeyLength = 1024

// ValidateBucket checks that a bucket name is present.
// Bucket naming rules are enforced by S3 itself; names delivered in event
// notifications are always valid.
func ValidateBucket(op, bucket string) error {
	if bucket == "" {
		return errors.NewError(op, errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}
	return nil
}

// ValidateObjectKey checks that a key is present and within the S3 length limit.
func ValidateObjectKey(key string) error {
	if key == "" {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithMessage("object key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot exceed 1024 bytes")
	}

	return nil
}
