package s3

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/saleem-mirza/aws-demos/aws/s3/s3types"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of attempts made by the SDK retryer.
// Zero keeps the SDK default.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the HTTP timeout for individual S3 requests.
// Default is no timeout (0).
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets how many parts a multipart copy transfers in parallel.
func WithConcurrency(concurrency int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithPartSize sets the part size for multipart copies.
// Values below the S3 minimum of 5MiB are raised to it.
func WithPartSize(partSize int64) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for LocalStack and other S3-compatible services.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithCopyMetadata replaces the destination object's user metadata.
func WithCopyMetadata(metadata map[string]string) s3types.CopyOption {
	return func(c *s3types.CopyOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string, len(metadata))
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
		c.ReplaceMetadata = true
	}
}

// WithCopyStorageClass sets the storage class of the destination object.
func WithCopyStorageClass(storageClass s3types.StorageClass) s3types.CopyOption {
	return func(c *s3types.CopyOptionConfig) {
		c.StorageClass = storageClass
	}
}

// WithCopyEncryption sets server-side encryption for the destination object.
func WithCopyEncryption(sse *s3types.SSEConfig) s3types.CopyOption {
	return func(c *s3types.CopyOptionConfig) {
		c.SSE = sse
	}
}
