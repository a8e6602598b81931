// Package dispatcher turns object upload notifications into copy task launches.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/saleem-mirza/aws-demos/dedup"
	perrors "github.com/saleem-mirza/aws-demos/errors"
	"github.com/saleem-mirza/aws-demos/event"
)

// Environment variable names read by the copy task.
const (
	EnvBucket    = "s3_bucket"
	EnvObjectKey = "s3_object_key"
	EnvEventTime = "eventTime"
)

// ErrInvalidConfig is returned by New for an unusable Config.
var ErrInvalidConfig = perrors.New(perrors.CodeInvalidConfig, "invalid dispatcher configuration")

// Launcher starts tasks. The aws/ecs client satisfies it.
type Launcher interface {
	RunTask(ctx context.Context, input *ecs.RunTaskInput) (*ecs.RunTaskOutput, error)
}

// Config describes the task launched for each upload.
type Config struct {
	Cluster         string
	TaskDefinition  string
	ContainerName   string
	Subnets         []string
	SecurityGroups  []string
	AssignPublicIP  types.AssignPublicIp
	LaunchType      types.LaunchType
	PlatformVersion string

	// SkipPrefix, when set, suppresses launches for keys under it.
	SkipPrefix string

	// DecodeKeys forwards URL-decoded keys instead of the raw notification key.
	DecodeKeys bool
}

func (c *Config) applyDefaults() {
	if c.AssignPublicIP == "" {
		c.AssignPublicIP = types.AssignPublicIpEnabled
	}
	if c.LaunchType == "" {
		c.LaunchType = types.LaunchTypeFargate
	}
	if c.PlatformVersion == "" {
		c.PlatformVersion = "LATEST"
	}
}

func (c *Config) validate() error {
	switch {
	case c.Cluster == "":
		return fmt.Errorf("%w: cluster is required", ErrInvalidConfig)
	case c.TaskDefinition == "":
		return fmt.Errorf("%w: task definition is required", ErrInvalidConfig)
	case c.ContainerName == "":
		return fmt.Errorf("%w: container name is required", ErrInvalidConfig)
	case len(c.Subnets) == 0:
		return fmt.Errorf("%w: at least one subnet is required", ErrInvalidConfig)
	}
	return nil
}

// Dispatcher launches one copy task per upload notification.
// It holds no per-message state and is safe for concurrent use.
type Dispatcher struct {
	launcher Launcher
	cfg      Config
	logger   *slog.Logger
	deduper  dedup.Store
}

// New returns a Dispatcher that launches tasks through launcher.
func New(launcher Launcher, cfg Config, opts ...Option) (*Dispatcher, error) {
	if launcher == nil {
		return nil, fmt.Errorf("%w: launcher cannot be nil", ErrInvalidConfig)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	applyOptions(options, opts)

	return &Dispatcher{
		launcher: launcher,
		cfg:      cfg,
		logger:   options.logger,
		deduper:  options.deduper,
	}, nil
}

// Dispatch handles one message body. Test events and skipped keys return a
// Result without launching; an upload launches exactly one task.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) (*Result, error) {
	n, err := event.Parse(body)
	if err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case event.Probe:
		if d.logger != nil {
			d.logger.InfoContext(ctx, "received test event", "bucket", n.Bucket)
		}
		return &Result{Kind: KindProbe, Bucket: n.Bucket}, nil
	case event.Upload:
		return d.launch(ctx, n)
	default:
		return nil, event.ErrUnknownEnvelope
	}
}

func (d *Dispatcher) launch(ctx context.Context, u event.Upload) (*Result, error) {
	key := u.Key
	if d.cfg.DecodeKeys {
		key = u.DecodedKey()
	}
	ts := event.FormatTimestamp(u.EventTime)

	result := &Result{Bucket: u.Bucket, Key: key, EventTime: ts}

	if u.Extra > 0 && d.logger != nil {
		d.logger.WarnContext(ctx, "ignoring additional records in envelope",
			"bucket", u.Bucket,
			"key", key,
			"extra_records", u.Extra,
		)
	}

	if d.cfg.SkipPrefix != "" && strings.HasPrefix(key, d.cfg.SkipPrefix) {
		if d.logger != nil {
			d.logger.InfoContext(ctx, "skipping key under skip prefix",
				"bucket", u.Bucket,
				"key", key,
				"skip_prefix", d.cfg.SkipPrefix,
			)
		}
		result.Kind = KindSkipped
		return result, nil
	}

	launchKey := u.Bucket + "/" + key + "@" + ts
	reserved, err := d.deduper.Reserve(ctx, launchKey)
	if err != nil {
		return nil, fmt.Errorf("reserve launch: %w", err)
	}
	if !reserved {
		if d.logger != nil {
			d.logger.InfoContext(ctx, "duplicate notification", "bucket", u.Bucket, "key", key, "event_time", ts)
		}
		result.Kind = KindDuplicate
		return result, nil
	}

	if d.logger != nil {
		d.logger.InfoContext(ctx, "launching copy task",
			"bucket", u.Bucket,
			"key", key,
			"event_time", ts,
			"cluster", d.cfg.Cluster,
		)
	}

	out, err := d.launcher.RunTask(ctx, d.runTaskInput(u.Bucket, key, ts))
	if err != nil {
		if relErr := d.deduper.Release(context.WithoutCancel(ctx), launchKey); relErr != nil && d.logger != nil {
			d.logger.WarnContext(ctx, "failed to release launch reservation", "key", launchKey, "error", relErr)
		}
		if d.logger != nil {
			code := perrors.Classify(err)
			d.logger.ErrorContext(ctx, "failed to launch copy task",
				"bucket", u.Bucket,
				"key", key,
				"error", err,
				"error_code", code,
				"retryable", code.Retryable(),
			)
		}
		return nil, fmt.Errorf("launch copy task for %s/%s: %w", u.Bucket, key, err)
	}

	result.Kind = KindLaunched
	result.Output = out
	d.logOutput(ctx, result)

	return result, nil
}

func (d *Dispatcher) runTaskInput(bucket, key, ts string) *ecs.RunTaskInput {
	return &ecs.RunTaskInput{
		Cluster:         aws.String(d.cfg.Cluster),
		TaskDefinition:  aws.String(d.cfg.TaskDefinition),
		Count:           aws.Int32(1),
		LaunchType:      d.cfg.LaunchType,
		PlatformVersion: aws.String(d.cfg.PlatformVersion),
		NetworkConfiguration: &types.NetworkConfiguration{
			AwsvpcConfiguration: &types.AwsVpcConfiguration{
				Subnets:        d.cfg.Subnets,
				SecurityGroups: d.cfg.SecurityGroups,
				AssignPublicIp: d.cfg.AssignPublicIP,
			},
		},
		Overrides: &types.TaskOverride{
			ContainerOverrides: []types.ContainerOverride{
				{
					Name: aws.String(d.cfg.ContainerName),
					Environment: []types.KeyValuePair{
						{Name: aws.String(EnvBucket), Value: aws.String(bucket)},
						{Name: aws.String(EnvObjectKey), Value: aws.String(key)},
						{Name: aws.String(EnvEventTime), Value: aws.String(ts)},
					},
				},
			},
		},
	}
}

func (d *Dispatcher) logOutput(ctx context.Context, r *Result) {
	if d.logger == nil || r.Output == nil {
		return
	}
	for _, task := range r.Output.Tasks {
		d.logger.InfoContext(ctx, "copy task started",
			"bucket", r.Bucket,
			"key", r.Key,
			"task_arn", aws.ToString(task.TaskArn),
		)
	}
	for _, f := range r.Output.Failures {
		d.logger.WarnContext(ctx, "copy task placement failed",
			"bucket", r.Bucket,
			"key", r.Key,
			"arn", aws.ToString(f.Arn),
			"reason", aws.ToString(f.Reason),
			"detail", aws.ToString(f.Detail),
		)
	}
}

// IsConfigError reports whether err came from an invalid Config.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
