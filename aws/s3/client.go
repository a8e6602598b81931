package s3

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/saleem-mirza/aws-demos/aws/s3/errors"
	"github.com/saleem-mirza/aws-demos/aws/s3/internal/s3api"
	"github.com/saleem-mirza/aws-demos/aws/s3/s3types"
)

// Client represents an S3 client with configurable options.
// It is safe for concurrent use; the underlying SDK client is thread-safe and
// the client configuration is immutable after construction.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// config holds the AWS configuration
	config aws.Config

	// copyConfig holds defaults for multipart copies
	copyConfig s3types.CopyOptionConfig
}

// New creates a new S3 client with the provided options.
// It loads AWS credentials using the default credential chain
// and applies the specified configuration options.
//
// Example:
//
//	client, err := s3.New(ctx,
//	    s3.WithRegion("us-west-2"),
//	    s3.WithMaxRetries(3),
//	)
func New(ctx context.Context, opts ...s3types.Option) (*Client, error) {
	clientCfg := &s3types.ClientConfig{
		MaxRetries:     0, // SDK default retryer
		Timeout:        0, // No timeout by default
		Concurrency:    0, // Copier default
		PartSize:       0, // Copier default
		ForcePathStyle: false,
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var err error
		cfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.Timeout > 0 {
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return &Client{
		s3Client: s3.NewFromConfig(cfg, s3Opts...),
		config:   cfg,
		copyConfig: s3types.CopyOptionConfig{
			PartSize:    clientCfg.PartSize,
			Concurrency: clientCfg.Concurrency,
		},
	}, nil
}

// NewWithClient creates a new S3 client with a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API) *Client {
	return &Client{
		s3Client: s3Client,
		config:   aws.Config{},
	}
}

// Region returns the region the client was configured for.
func (c *Client) Region() string {
	return c.config.Region
}
