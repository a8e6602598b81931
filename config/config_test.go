package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/saleem-mirza/aws-demos/errors"
)

// clearEnv blanks every variable the loaders read so host settings cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ECS_CLUSTER", "ECS_TASK_DEFINITION", "ECS_CONTAINER_NAME", "ECS_SUBNETS",
		"ECS_SECURITY_GROUPS", "ECS_ASSIGN_PUBLIC_IP", "ECS_LAUNCH_TYPE", "ECS_PLATFORM_VERSION",
		"DISPATCH_SKIP_PREFIX", "DISPATCH_DECODE_KEYS", "DEDUP_REDIS_URL", "DEDUP_TTL", "DEDUP_PREFIX",
		"LOG_LEVEL", "LOG_FORMAT", "AWS_REGION", "AWS_DEFAULT_REGION", "AWS_ENDPOINT_URL", "AWS_MAX_ATTEMPTS",
		"s3_bucket", "bucket", "s3_object_key", "object_key", "eventTime", "event_time", "COPY_STORAGE_CLASS",
		"COPY_PART_SIZE", "COPY_CONCURRENCY", "COPY_TIMEOUT",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDispatcher_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadDispatcher("")
	require.NoError(t, err)

	assert.Equal(t, "ecs_cluster", cfg.Cluster)
	assert.Equal(t, "ecs_task", cfg.TaskDefinition)
	assert.Equal(t, "demo", cfg.ContainerName)
	assert.Equal(t, []string{"subnet-968ee398"}, cfg.Subnets)
	assert.Empty(t, cfg.SecurityGroups)
	assert.Equal(t, "ENABLED", cfg.AssignPublicIP)
	assert.Equal(t, "FARGATE", cfg.LaunchType)
	assert.Equal(t, "LATEST", cfg.PlatformVersion)
	assert.Empty(t, cfg.SkipPrefix)
	assert.False(t, cfg.DecodeKeys)
	assert.False(t, cfg.Dedup.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Dedup.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.AWS.Endpoint)
}

func TestLoadDispatcher_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("ECS_CLUSTER", "prod")
	t.Setenv("ECS_TASK_DEFINITION", "copy:3")
	t.Setenv("ECS_CONTAINER_NAME", "copier")
	t.Setenv("ECS_SUBNETS", "subnet-a, subnet-b,")
	t.Setenv("ECS_SECURITY_GROUPS", "sg-1")
	t.Setenv("ECS_ASSIGN_PUBLIC_IP", "disabled")
	t.Setenv("DISPATCH_SKIP_PREFIX", "processed/")
	t.Setenv("DISPATCH_DECODE_KEYS", "true")
	t.Setenv("DEDUP_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DEDUP_TTL", "90m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:4566")

	cfg, err := LoadDispatcher("")
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Cluster)
	assert.Equal(t, "copy:3", cfg.TaskDefinition)
	assert.Equal(t, "copier", cfg.ContainerName)
	assert.Equal(t, []string{"subnet-a", "subnet-b"}, cfg.Subnets)
	assert.Equal(t, []string{"sg-1"}, cfg.SecurityGroups)
	assert.Equal(t, "DISABLED", cfg.AssignPublicIP)
	assert.Equal(t, "processed/", cfg.SkipPrefix)
	assert.True(t, cfg.DecodeKeys)
	assert.True(t, cfg.Dedup.Enabled())
	assert.Equal(t, 90*time.Minute, cfg.Dedup.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "http://localhost:4566", cfg.AWS.Endpoint)

	dc := cfg.DispatcherConfig()
	assert.Equal(t, types.AssignPublicIpDisabled, dc.AssignPublicIP)
	assert.Equal(t, types.LaunchTypeFargate, dc.LaunchType)
	assert.Equal(t, "processed/", dc.SkipPrefix)
}

func TestLoadDispatcher_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "no subnets", env: map[string]string{"ECS_SUBNETS": " , "}},
		{name: "bad public ip flag", env: map[string]string{"ECS_ASSIGN_PUBLIC_IP": "maybe"}},
		{name: "unknown launch type", env: map[string]string{"ECS_LAUNCH_TYPE": "SPACESHIP"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
		{name: "bad log format", env: map[string]string{"LOG_FORMAT": "xml"}},
		{name: "bad ttl", env: map[string]string{"DEDUP_REDIS_URL": "redis://x", "DEDUP_TTL": "soon"}},
		{name: "zero ttl", env: map[string]string{"DEDUP_REDIS_URL": "redis://x", "DEDUP_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadDispatcher("")
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Equal(t, perrors.CodeInvalidConfig, perrors.Classify(err))
		})
	}
}

func TestLoadDispatcher_ConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ECS_CLUSTER", "from-env")

	path := filepath.Join(t.TempDir(), "dispatcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cluster: from-file
task_definition: file-task
subnets: subnet-x,subnet-y
`), 0o600))

	cfg, err := LoadDispatcher(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Cluster)
	assert.Equal(t, "file-task", cfg.TaskDefinition)
	assert.Equal(t, []string{"subnet-x", "subnet-y"}, cfg.Subnets)

	_, err = LoadDispatcher(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadTask_Aliases(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Task
	}{
		{
			name: "primary names",
			env:  map[string]string{"s3_bucket": "b", "s3_object_key": "k", "eventTime": "1.0"},
			want: Task{Bucket: "b", Key: "k", EventTime: "1.0"},
		},
		{
			name: "alternate names",
			env:  map[string]string{"bucket": "b2", "object_key": "k2", "event_time": "2.0"},
			want: Task{Bucket: "b2", Key: "k2", EventTime: "2.0"},
		},
		{
			name: "primary wins when both set",
			env:  map[string]string{"s3_bucket": "b", "bucket": "other", "s3_object_key": "k", "object_key": "other"},
			want: Task{Bucket: "b", Key: "k"},
		},
		{
			name: "empty primary falls through",
			env:  map[string]string{"s3_bucket": "", "bucket": "b2"},
			want: Task{Bucket: "b2"},
		},
		{
			name: "nothing set",
			want: Task{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadTask("")
			require.NoError(t, err)
			assert.Equal(t, tt.want.Bucket, cfg.Bucket)
			assert.Equal(t, tt.want.Key, cfg.Key)
			assert.Equal(t, tt.want.EventTime, cfg.EventTime)
		})
	}
}

func TestLoadTask_CopyTuning(t *testing.T) {
	clearEnv(t)
	t.Setenv("COPY_STORAGE_CLASS", "STANDARD_IA")
	t.Setenv("COPY_PART_SIZE", "67108864")
	t.Setenv("COPY_CONCURRENCY", "8")
	t.Setenv("COPY_TIMEOUT", "90s")

	cfg, err := LoadTask("")
	require.NoError(t, err)
	assert.Equal(t, "STANDARD_IA", cfg.StorageClass)
	assert.Equal(t, int64(64*1024*1024), cfg.PartSize)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
}

func TestLoadTask_CopyTuningDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadTask("")
	require.NoError(t, err)
	assert.Zero(t, cfg.PartSize)
	assert.Zero(t, cfg.Concurrency)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadTask_InvalidCopyTuning(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"negative part size", "COPY_PART_SIZE", "-1"},
		{"negative concurrency", "COPY_CONCURRENCY", "-2"},
		{"negative timeout", "COPY_TIMEOUT", "-5s"},
		{"unparsable timeout", "COPY_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.val)

			_, err := LoadTask("")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadTask_InvalidLogging(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := LoadTask("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
