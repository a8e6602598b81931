// Package s3 provides the main S3 client and core operations.
package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	s3errors "github.com/saleem-mirza/aws-demos/aws/s3/errors"
	"github.com/saleem-mirza/aws-demos/aws/s3/internal/operations/copy"
	"github.com/saleem-mirza/aws-demos/aws/s3/internal/validation"
	"github.com/saleem-mirza/aws-demos/aws/s3/s3types"
)

// Copy copies an object server-side, within or across buckets.
// Objects larger than 5GiB are copied with a multipart upload; smaller
// objects use a single CopyObject request. The source object's metadata is
// preserved unless WithCopyMetadata is given.
//
// Errors:
//   - ErrInvalidInput: If any bucket/key parameters are empty or invalid,
//     or the source and destination are the same object
//   - ErrObjectNotFound: If the source object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to read or write
//   - ErrBucketNotFound: If either bucket doesn't exist
//
// Example:
//
//	err := client.Copy(ctx, "uploads", "2023/photo.png", "uploads", "processed/1690000000.0_photo.png")
//	if err != nil {
//	    return fmt.Errorf("copy failed: %w", err)
//	}
func (c *Client) Copy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	opts ...s3types.CopyOption,
) error {
	if err := validateLocation("copy", srcBucket, srcKey, "source"); err != nil {
		return err
	}
	if err := validateLocation("copy", dstBucket, dstKey, "destination"); err != nil {
		return err
	}

	if srcBucket == dstBucket && srcKey == dstKey {
		return s3errors.NewError("copy", s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("cannot copy object to itself")
	}

	cfg := c.copyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	err := copy.NewCopier(c.s3Client).Copy(ctx, srcBucket, srcKey, dstBucket, dstKey, &cfg)
	if err != nil {
		return s3errors.NewError("copy", err).
			WithBucket(dstBucket).
			WithKey(dstKey).
			WithMessage("failed to copy from " + srcBucket + "/" + srcKey)
	}
	return nil
}

// Exists checks if an object exists in S3 without downloading it.
// It issues a HEAD request; a missing object yields (false, nil).
func (c *Client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := validateLocation("exists", bucket, key, ""); err != nil {
		return false, err
	}

	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err = s3errors.FromAPIError(err)
		if s3errors.IsObjectNotFound(err) {
			return false, nil
		}
		return false, s3errors.NewError("exists", err).WithBucket(bucket).WithKey(key)
	}

	return true, nil
}

func validateLocation(op, bucket, key, role string) error {
	if err := validation.ValidateBucket(op, bucket); err != nil {
		if role != "" {
			return s3errors.NewError(op, s3errors.ErrInvalidInput).
				WithKey(key).
				WithMessage(role + " bucket name cannot be empty")
		}
		return err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	return nil
}
