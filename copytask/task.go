// Package copytask copies an uploaded object into the processed/ prefix of
// its bucket. It runs once per container start.
package copytask

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/saleem-mirza/aws-demos/aws/s3/s3types"
	perrors "github.com/saleem-mirza/aws-demos/errors"
)

// ProcessedPrefix is the destination prefix inside the source bucket.
const ProcessedPrefix = "processed/"

// Copier performs a server-side object copy. The aws/s3 client satisfies it.
type Copier interface {
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string, opts ...s3types.CopyOption) error
}

// Params are the values handed to the task through its environment.
type Params struct {
	Bucket    string
	Key       string
	EventTime string
}

// Outcome describes what Run did.
type Outcome struct {
	// Skipped is set when bucket or key was empty and nothing was copied.
	Skipped bool

	// DestinationKey is the key written, when not skipped.
	DestinationKey string
}

// DerivedKey returns processed/<eventTime>_<basename>, where basename is the
// part of key after its last "/".
func DerivedKey(key, eventTime string) string {
	base := key[strings.LastIndex(key, "/")+1:]
	return ProcessedPrefix + eventTime + "_" + base
}

// Task copies one object per Run.
type Task struct {
	copier   Copier
	logger   *slog.Logger
	copyOpts []s3types.CopyOption
}

// Option configures a Task.
type Option func(*Task)

// WithLogger configures the task with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Task) {
		t.logger = logger
	}
}

// WithCopyOptions passes opts to every copy, e.g. a storage class for the
// processed object.
func WithCopyOptions(opts ...s3types.CopyOption) Option {
	return func(t *Task) {
		t.copyOpts = append(t.copyOpts, opts...)
	}
}

// New returns a Task that copies through copier.
func New(copier Copier, opts ...Option) *Task {
	t := &Task{copier: copier}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run copies p.Key to DerivedKey(p.Key, p.EventTime) in p.Bucket.
// An empty bucket or key is a successful no-op. The copy is attempted once.
func (t *Task) Run(ctx context.Context, p Params) (*Outcome, error) {
	if p.Bucket == "" || p.Key == "" {
		if t.logger != nil {
			t.logger.InfoContext(ctx, "nothing to copy", "bucket", p.Bucket, "key", p.Key)
		}
		return &Outcome{Skipped: true}, nil
	}

	dst := DerivedKey(p.Key, p.EventTime)

	if t.logger != nil {
		t.logger.InfoContext(ctx, "copying object",
			"bucket", p.Bucket,
			"key", p.Key,
			"event_time", p.EventTime,
			"destination_key", dst,
		)
	}

	if err := t.copier.Copy(ctx, p.Bucket, p.Key, p.Bucket, dst, t.copyOpts...); err != nil {
		if t.logger != nil {
			code := perrors.Classify(err)
			t.logger.ErrorContext(ctx, "copy failed",
				"bucket", p.Bucket,
				"key", p.Key,
				"destination_key", dst,
				"error", err,
				"error_code", code,
				"retryable", code.Retryable(),
			)
		}
		return nil, fmt.Errorf("copy s3://%s/%s: %w", p.Bucket, p.Key, err)
	}

	if t.logger != nil {
		t.logger.InfoContext(ctx, "object copied", "bucket", p.Bucket, "destination_key", dst)
	}

	return &Outcome{DestinationKey: dst}, nil
}
