// Command dispatcher is the Lambda function that receives upload
// notifications from SQS and launches one copy task per upload.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/saleem-mirza/aws-demos/aws/ecs"
	"github.com/saleem-mirza/aws-demos/config"
	"github.com/saleem-mirza/aws-demos/dedup"
	"github.com/saleem-mirza/aws-demos/dispatcher"
	"github.com/saleem-mirza/aws-demos/logging"
)

func main() {
	ctx := context.Background()

	handler, cleanup, err := setup(ctx, os.Getenv("DISPATCHER_CONFIG"))
	if err != nil {
		slog.Error("failed to start dispatcher", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	lambda.Start(handler.HandleSQS)
}

// setup builds the handler from configuration. configPath may be empty.
func setup(ctx context.Context, configPath string) (*dispatcher.Handler, func(), error) {
	cfg, err := config.LoadDispatcher(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	opts := []ecs.Option{}
	if cfg.AWS.Region != "" {
		opts = append(opts, ecs.WithRegion(cfg.AWS.Region))
	}
	if cfg.AWS.Endpoint != "" {
		opts = append(opts, ecs.WithEndpoint(cfg.AWS.Endpoint))
	}
	if cfg.AWS.MaxRetries > 0 {
		opts = append(opts, ecs.WithMaxRetries(cfg.AWS.MaxRetries))
	}

	client, err := ecs.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create ecs client: %w", err)
	}

	cleanup := func() {}
	dispatchOpts := []dispatcher.Option{dispatcher.WithLogger(logger)}

	if cfg.Dedup.Enabled() {
		store, err := dedup.Connect(ctx, cfg.Dedup.RedisURL, cfg.Dedup.TTL, cfg.Dedup.Prefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connect dedup store: %w", err)
		}
		cleanup = func() { _ = store.Close() }
		dispatchOpts = append(dispatchOpts, dispatcher.WithDeduper(store))
		logger.Info("launch deduplication enabled", "ttl", cfg.Dedup.TTL)
	}

	d, err := dispatcher.New(client, cfg.DispatcherConfig(), dispatchOpts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return dispatcher.NewHandler(d, logger), cleanup, nil
}
