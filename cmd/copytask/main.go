// Command copytask runs inside the launched container. It copies the object
// named by its environment into the processed/ prefix of the same bucket.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/saleem-mirza/aws-demos/aws/s3"
	"github.com/saleem-mirza/aws-demos/aws/s3/s3types"
	"github.com/saleem-mirza/aws-demos/config"
	"github.com/saleem-mirza/aws-demos/copytask"
	perrors "github.com/saleem-mirza/aws-demos/errors"
	"github.com/saleem-mirza/aws-demos/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Getenv("COPYTASK_CONFIG"))
	stop()
	os.Exit(code)
}

func run(ctx context.Context, configPath string) int {
	cfg, err := config.LoadTask(configPath)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	opts := []s3types.Option{}
	if cfg.AWS.Region != "" {
		opts = append(opts, s3.WithRegion(cfg.AWS.Region))
	}
	if cfg.AWS.Endpoint != "" {
		opts = append(opts, s3.WithEndpoint(cfg.AWS.Endpoint), s3.WithForcePathStyle(true))
	}
	if cfg.AWS.MaxRetries > 0 {
		opts = append(opts, s3.WithMaxRetries(cfg.AWS.MaxRetries))
	}
	opts = append(opts,
		s3.WithTimeout(cfg.Timeout),
		s3.WithPartSize(cfg.PartSize),
		s3.WithConcurrency(cfg.Concurrency),
	)

	client, err := s3.New(ctx, opts...)
	if err != nil {
		code := perrors.Classify(err)
		logger.Error("failed to create s3 client", "error", err, "error_code", code, "retryable", code.Retryable())
		return 1
	}

	taskOpts := []copytask.Option{copytask.WithLogger(logger)}
	if cfg.StorageClass != "" {
		taskOpts = append(taskOpts, copytask.WithCopyOptions(s3.WithCopyStorageClass(s3types.StorageClass(cfg.StorageClass))))
	}

	params := copytask.Params{Bucket: cfg.Bucket, Key: cfg.Key, EventTime: cfg.EventTime}
	if _, err := copytask.New(client, taskOpts...).Run(ctx, params); err != nil {
		return 1
	}
	return 0
}
