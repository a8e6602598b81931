// Package config loads the dispatcher and copy task settings from the
// environment, optionally layered over a config file.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/spf13/viper"

	"github.com/saleem-mirza/aws-demos/dispatcher"
	perrors "github.com/saleem-mirza/aws-demos/errors"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = perrors.New(perrors.CodeInvalidConfig, "invalid configuration")

// Dispatcher is the dispatcher Lambda configuration.
type Dispatcher struct {
	Cluster         string   `mapstructure:"cluster"`
	TaskDefinition  string   `mapstructure:"task_definition"`
	ContainerName   string   `mapstructure:"container_name"`
	Subnets         []string `mapstructure:"subnets"`
	SecurityGroups  []string `mapstructure:"security_groups"`
	AssignPublicIP  string   `mapstructure:"assign_public_ip"`
	LaunchType      string   `mapstructure:"launch_type"`
	PlatformVersion string   `mapstructure:"platform_version"`
	SkipPrefix      string   `mapstructure:"skip_prefix"`
	DecodeKeys      bool     `mapstructure:"decode_keys"`

	Dedup   DedupConfig   `mapstructure:"dedup"`
	Logging LoggingConfig `mapstructure:"log"`
	AWS     AWSConfig     `mapstructure:"aws"`
}

// Task is the copy task configuration.
type Task struct {
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
	EventTime string `mapstructure:"event_time"`

	StorageClass string        `mapstructure:"storage_class"`
	PartSize     int64         `mapstructure:"part_size"`
	Concurrency  int           `mapstructure:"concurrency"`
	Timeout      time.Duration `mapstructure:"timeout"`

	Logging LoggingConfig `mapstructure:"log"`
	AWS     AWSConfig     `mapstructure:"aws"`
}

// DedupConfig enables launch deduplication when RedisURL is set.
type DedupConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// Enabled reports whether a Redis URL was configured.
func (d DedupConfig) Enabled() bool {
	return d.RedisURL != ""
}

// LoggingConfig selects the process log handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AWSConfig overrides SDK client settings, mostly for LocalStack.
type AWSConfig struct {
	Region     string `mapstructure:"region"`
	Endpoint   string `mapstructure:"endpoint"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// LoadDispatcher reads the dispatcher configuration. configPath may be empty.
func LoadDispatcher(configPath string) (*Dispatcher, error) {
	v := viper.New()

	v.SetDefault("cluster", "ecs_cluster")
	v.SetDefault("task_definition", "ecs_task")
	v.SetDefault("container_name", "demo")
	v.SetDefault("subnets", "subnet-968ee398")
	v.SetDefault("security_groups", "")
	v.SetDefault("assign_public_ip", string(types.AssignPublicIpEnabled))
	v.SetDefault("launch_type", string(types.LaunchTypeFargate))
	v.SetDefault("platform_version", "LATEST")
	v.SetDefault("skip_prefix", "")
	v.SetDefault("decode_keys", false)
	v.SetDefault("dedup.redis_url", "")
	v.SetDefault("dedup.ttl", "24h")
	v.SetDefault("dedup.prefix", "copy-dispatch:")
	setCommonDefaults(v)

	bindEnv(v, map[string][]string{
		"cluster":          {"ECS_CLUSTER"},
		"task_definition":  {"ECS_TASK_DEFINITION"},
		"container_name":   {"ECS_CONTAINER_NAME"},
		"subnets":          {"ECS_SUBNETS"},
		"security_groups":  {"ECS_SECURITY_GROUPS"},
		"assign_public_ip": {"ECS_ASSIGN_PUBLIC_IP"},
		"launch_type":      {"ECS_LAUNCH_TYPE"},
		"platform_version": {"ECS_PLATFORM_VERSION"},
		"skip_prefix":      {"DISPATCH_SKIP_PREFIX"},
		"decode_keys":      {"DISPATCH_DECODE_KEYS"},
		"dedup.redis_url":  {"DEDUP_REDIS_URL"},
		"dedup.ttl":        {"DEDUP_TTL"},
		"dedup.prefix":     {"DEDUP_PREFIX"},
	})

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Dispatcher
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.Subnets = cleanList(cfg.Subnets)
	cfg.SecurityGroups = cleanList(cfg.SecurityGroups)
	cfg.AssignPublicIP = strings.ToUpper(cfg.AssignPublicIP)
	cfg.LaunchType = strings.ToUpper(cfg.LaunchType)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadTask reads the copy task configuration. Each parameter accepts two
// environment names; the first non-empty one wins.
func LoadTask(configPath string) (*Task, error) {
	v := viper.New()

	v.SetDefault("bucket", "")
	v.SetDefault("key", "")
	v.SetDefault("event_time", "")
	v.SetDefault("storage_class", "")
	v.SetDefault("part_size", 0)
	v.SetDefault("concurrency", 0)
	v.SetDefault("timeout", time.Duration(0))
	setCommonDefaults(v)

	bindEnv(v, map[string][]string{
		"bucket":        {"s3_bucket", "bucket"},
		"key":           {"s3_object_key", "object_key"},
		"event_time":    {"eventTime", "event_time"},
		"storage_class": {"COPY_STORAGE_CLASS"},
		"part_size":     {"COPY_PART_SIZE"},
		"concurrency":   {"COPY_CONCURRENCY"},
		"timeout":       {"COPY_TIMEOUT"},
	})

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Task
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the copy task settings.
func (c *Task) Validate() error {
	switch {
	case c.PartSize < 0:
		return fmt.Errorf("%w: part size cannot be negative", ErrInvalidConfig)
	case c.Concurrency < 0:
		return fmt.Errorf("%w: concurrency cannot be negative", ErrInvalidConfig)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	return c.Logging.Validate()
}

// Validate checks the dispatcher settings.
func (c *Dispatcher) Validate() error {
	switch {
	case c.Cluster == "":
		return fmt.Errorf("%w: cluster cannot be empty", ErrInvalidConfig)
	case c.TaskDefinition == "":
		return fmt.Errorf("%w: task definition cannot be empty", ErrInvalidConfig)
	case c.ContainerName == "":
		return fmt.Errorf("%w: container name cannot be empty", ErrInvalidConfig)
	case len(c.Subnets) == 0:
		return fmt.Errorf("%w: at least one subnet is required", ErrInvalidConfig)
	}

	if !oneOf(types.AssignPublicIp(c.AssignPublicIP), types.AssignPublicIp("").Values()) {
		return fmt.Errorf("%w: assign public ip %q", ErrInvalidConfig, c.AssignPublicIP)
	}
	if !oneOf(types.LaunchType(c.LaunchType), types.LaunchType("").Values()) {
		return fmt.Errorf("%w: launch type %q", ErrInvalidConfig, c.LaunchType)
	}
	if c.Dedup.Enabled() && c.Dedup.TTL <= 0 {
		return fmt.Errorf("%w: dedup ttl must be positive", ErrInvalidConfig)
	}

	return c.Logging.Validate()
}

// DispatcherConfig converts the settings into a dispatcher.Config.
func (c *Dispatcher) DispatcherConfig() dispatcher.Config {
	return dispatcher.Config{
		Cluster:         c.Cluster,
		TaskDefinition:  c.TaskDefinition,
		ContainerName:   c.ContainerName,
		Subnets:         c.Subnets,
		SecurityGroups:  c.SecurityGroups,
		AssignPublicIP:  types.AssignPublicIp(c.AssignPublicIP),
		LaunchType:      types.LaunchType(c.LaunchType),
		PlatformVersion: c.PlatformVersion,
		SkipPrefix:      c.SkipPrefix,
		DecodeKeys:      c.DecodeKeys,
	}
}

// Validate checks the log level and format.
func (c LoggingConfig) Validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Format)
	}
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.max_retries", 0)

	bindEnv(v, map[string][]string{
		"log.level":       {"LOG_LEVEL"},
		"log.format":      {"LOG_FORMAT"},
		"aws.region":      {"AWS_REGION", "AWS_DEFAULT_REGION"},
		"aws.endpoint":    {"AWS_ENDPOINT_URL"},
		"aws.max_retries": {"AWS_MAX_ATTEMPTS"},
	})
}

func bindEnv(v *viper.Viper, bindings map[string][]string) {
	for key, envs := range bindings {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

func readConfigFile(v *viper.Viper, configPath string) error {
	if configPath == "" {
		return nil
	}
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func oneOf[T comparable](v T, allowed []T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
