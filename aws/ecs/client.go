package ecs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	"github.com/saleem-mirza/aws-demos/aws/ecs/errors"
	"github.com/saleem-mirza/aws-demos/aws/ecs/internal/ecsapi"
)

// Client launches ECS tasks. It is safe for concurrent use.
type Client struct {
	ecsClient ecsapi.ECSAPI
	config    aws.Config
}

// ClientConfig holds configuration for the ECS client.
type ClientConfig struct {
	Region          string
	Endpoint        string
	MaxRetries      int
	CustomAWSConfig *aws.Config
}

// Option configures the ECS client.
type Option func(*ClientConfig)

// New creates a new ECS client using the default credential chain.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	clientCfg := &ClientConfig{}
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
		cfg.Region = "us-east-1"
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var ecsOpts []func(*ecs.Options)
	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		ecsOpts = append(ecsOpts, func(o *ecs.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return &Client{
		ecsClient: ecs.NewFromConfig(cfg, ecsOpts...),
		config:    cfg,
	}, nil
}

// NewWithClient creates a client around a custom ECSAPI implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(ecsClient ecsapi.ECSAPI) *Client {
	return &Client{ecsClient: ecsClient}
}

// Region returns the region the client was configured for.
func (c *Client) Region() string {
	return c.config.Region
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(c *ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom ECS endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithMaxRetries sets the maximum number of attempts made by the SDK retryer.
func WithMaxRetries(maxRetries int) Option {
	return func(c *ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithAWSConfig overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) Option {
	return func(c *ClientConfig) {
		c.CustomAWSConfig = config
	}
}
