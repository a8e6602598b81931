// Package copy handles server-side S3 object copies.
//
// Objects up to the single-request limit are copied with one CopyObject call.
// Larger objects are copied with a multipart upload whose parts are filled by
// UploadPartCopy, so no object data passes through the caller.
package copy

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/encoding/httpbinding"
	"golang.org/x/sync/errgroup"

	"github.com/saleem-mirza/aws-demos/aws/s3/errors"
	"github.com/saleem-mirza/aws-demos/aws/s3/internal/s3api"
	"github.com/saleem-mirza/aws-demos/aws/s3/s3types"
)

const (
	// MaxSingleCopySize is the largest object S3 copies in a single CopyObject request.
	MaxSingleCopySize = 5 * 1024 * 1024 * 1024 // 5GiB

	// DefaultPartSize is the part size for multipart copies.
	DefaultPartSize = 128 * 1024 * 1024 // 128MiB

	// DefaultConcurrency is the number of parts copied in parallel.
	DefaultConcurrency = 5

	minPartSize = 5 * 1024 * 1024 // 5MiB, S3 minimum for all but the last part
	maxParts    = 10000
)

// Copier handles copy operations with automatic multipart support
type Copier struct {
	s3Client s3api.S3API
}

// NewCopier creates a new copy operation handler
func NewCopier(s3Client s3api.S3API) *Copier {
	return &Copier{
		s3Client: s3Client,
	}
}

// Copy performs a copy operation, choosing between simple and multipart copy
// based on the source object's size.
func (c *Copier) Copy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	config *s3types.CopyOptionConfig,
) error {
	srcMetadata, err := c.getObjectMetadata(ctx, srcBucket, srcKey)
	if err != nil {
		return err
	}

	objectSize := aws.ToInt64(srcMetadata.ContentLength)
	if objectSize > MaxSingleCopySize {
		return c.multipartCopy(ctx, srcBucket, srcKey, dstBucket, dstKey, objectSize, config)
	}

	return c.simpleCopy(ctx, srcBucket, srcKey, dstBucket, dstKey, config)
}

// CopySource renders the x-amz-copy-source value for an object.
// Every byte outside the RFC 3986 unreserved set is percent-encoded, except
// the "/" separators. S3 decodes the header, so "+" must not survive as-is.
func CopySource(bucket, key string) string {
	return bucket + "/" + httpbinding.EscapePath(key, false)
}

// simpleCopy performs a simple copy operation using CopyObject
func (c *Copier) simpleCopy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	config *s3types.CopyOptionConfig,
) error {
	copySource := CopySource(srcBucket, srcKey)

	input := &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource),
	}

	c.applyCopyOptions(input, config)

	_, err := c.s3Client.CopyObject(ctx, input)
	if err != nil {
		return errors.NewObjectError("simpleCopy", dstBucket, dstKey, errors.FromAPIError(err)).
			WithMessage("failed to copy from " + srcBucket + "/" + srcKey)
	}

	return nil
}

// applyCopyOptions applies configuration options to the copy input
func (c *Copier) applyCopyOptions(input *s3.CopyObjectInput, config *s3types.CopyOptionConfig) {
	if config == nil {
		return
	}

	if config.Metadata != nil {
		input.Metadata = config.Metadata
		if config.ReplaceMetadata {
			input.MetadataDirective = awstypes.MetadataDirectiveReplace
		} else {
			input.MetadataDirective = awstypes.MetadataDirectiveCopy
		}
	}

	if config.StorageClass != "" {
		input.StorageClass = awstypes.StorageClass(config.StorageClass)
	}

	if sse := config.SSE; sse != nil {
		input.ServerSideEncryption = awstypes.ServerSideEncryption(sse.Type)
		if sse.Type == s3types.SSEKMS && sse.KMSKeyID != "" {
			input.SSEKMSKeyId = aws.String(sse.KMSKeyID)
		}
	}
}

// multipartCopy performs a multipart copy operation for large objects
func (c *Copier) multipartCopy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	objectSize int64,
	config *s3types.CopyOptionConfig,
) error {
	partSize := PartSize(objectSize, config)
	numParts := calculateParts(objectSize, partSize)

	uploadID, err := c.createMultipartUpload(ctx, dstBucket, dstKey, config)
	if err != nil {
		return err
	}

	parts, err := c.copyParts(ctx, srcBucket, srcKey, dstBucket, dstKey, uploadID, objectSize, partSize, numParts, config)
	if err != nil {
		c.abortMultipartUpload(ctx, dstBucket, dstKey, uploadID)
		return err
	}

	return c.completeMultipartUpload(ctx, dstBucket, dstKey, uploadID, parts)
}

// PartSize returns the part size for a multipart copy of objectSize bytes.
// The configured size is raised when needed to stay within the part count limit.
func PartSize(objectSize int64, config *s3types.CopyOptionConfig) int64 {
	partSize := int64(DefaultPartSize)
	if config != nil && config.PartSize > 0 {
		partSize = config.PartSize
	}
	if partSize < minPartSize {
		partSize = minPartSize
	}
	if minimum := (objectSize + maxParts - 1) / maxParts; partSize < minimum {
		partSize = minimum
	}
	return partSize
}

// calculateParts calculates the number of parts needed
func calculateParts(size, partSize int64) int {
	if size == 0 {
		return 1
	}
	return int((size + partSize - 1) / partSize)
}

// getObjectMetadata retrieves metadata for an object
func (c *Copier) getObjectMetadata(ctx context.Context, bucket, key string) (*s3.HeadObjectOutput, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	result, err := c.s3Client.HeadObject(ctx, input)
	if err != nil {
		return nil, errors.NewObjectError("getObjectMetadata", bucket, key, errors.FromAPIError(err))
	}
	return result, nil
}

// createMultipartUpload creates a new multipart upload for copy destination
func (c *Copier) createMultipartUpload(
	ctx context.Context,
	bucket, key string,
	config *s3types.CopyOptionConfig,
) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	if config != nil {
		if config.StorageClass != "" {
			input.StorageClass = awstypes.StorageClass(config.StorageClass)
		}
		if config.Metadata != nil {
			input.Metadata = config.Metadata
		}
		if sse := config.SSE; sse != nil {
			input.ServerSideEncryption = awstypes.ServerSideEncryption(sse.Type)
			if sse.Type == s3types.SSEKMS && sse.KMSKeyID != "" {
				input.SSEKMSKeyId = aws.String(sse.KMSKeyID)
			}
		}
	}

	output, err := c.s3Client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", errors.NewObjectError("createMultipartUpload", bucket, key, errors.FromAPIError(err))
	}

	return aws.ToString(output.UploadId), nil
}

// copyParts copies all parts with bounded concurrency.
// The first failing part cancels the remaining ones.
func (c *Copier) copyParts(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey, uploadID string,
	objectSize, partSize int64,
	numParts int,
	config *s3types.CopyOptionConfig,
) ([]awstypes.CompletedPart, error) {
	parts := make([]awstypes.CompletedPart, numParts)
	copySource := CopySource(srcBucket, srcKey)

	concurrency := DefaultConcurrency
	if config != nil && config.Concurrency > 0 {
		concurrency = config.Concurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < numParts; i++ {
		partNumber := int32(i + 1)
		g.Go(func() error {
			etag, err := c.copyPart(gctx, copySource, dstBucket, dstKey, uploadID, objectSize, partSize, partNumber)
			if err != nil {
				return err
			}
			// Each goroutine owns exactly one slot.
			parts[partNumber-1] = awstypes.CompletedPart{
				ETag:       aws.String(etag),
				PartNumber: aws.Int32(partNumber),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

// copyPart copies a single part from source to destination
func (c *Copier) copyPart(
	ctx context.Context,
	copySource, dstBucket, dstKey, uploadID string,
	objectSize, partSize int64,
	partNumber int32,
) (string, error) {
	offset := int64(partNumber-1) * partSize
	size := partSize
	if offset+size > objectSize {
		size = objectSize - offset
	}

	input := &s3.UploadPartCopyInput{
		Bucket:          aws.String(dstBucket),
		Key:             aws.String(dstKey),
		CopySource:      aws.String(copySource),
		CopySourceRange: aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+size-1)),
		UploadId:        aws.String(uploadID),
		PartNumber:      aws.Int32(partNumber),
	}

	output, err := c.s3Client.UploadPartCopy(ctx, input)
	if err != nil {
		return "", errors.NewObjectError("copyPart", dstBucket, dstKey, errors.FromAPIError(err)).
			WithMessage(fmt.Sprintf("failed to copy part %d", partNumber))
	}
	if output.CopyPartResult == nil {
		return "", errors.NewObjectError("copyPart", dstBucket, dstKey, errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("part %d returned no result", partNumber))
	}

	return aws.ToString(output.CopyPartResult.ETag), nil
}

// completeMultipartUpload completes the multipart copy
func (c *Copier) completeMultipartUpload(
	ctx context.Context,
	bucket, key, uploadID string,
	parts []awstypes.CompletedPart,
) error {
	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: parts,
		},
	}

	_, err := c.s3Client.CompleteMultipartUpload(ctx, input)
	if err != nil {
		c.abortMultipartUpload(ctx, bucket, key, uploadID)
		return errors.NewObjectError("completeMultipartUpload", bucket, key, errors.FromAPIError(err))
	}

	return nil
}

// abortMultipartUpload cleans up a failed multipart copy
func (c *Copier) abortMultipartUpload(ctx context.Context, bucket, key, uploadID string) {
	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	}
	// Ignore errors during cleanup
	_, _ = c.s3Client.AbortMultipartUpload(context.WithoutCancel(ctx), input)
}
