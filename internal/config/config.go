// Package config loads and validates narrator configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/route-narrator/internal/route"
)

// EnvPrefix scopes environment overrides, e.g. NARRATOR_PACING_INTERVAL=2s.
const EnvPrefix = "NARRATOR"

// Config captures all knobs loaded via Viper.
type Config struct {
	Pacing    PacingConfig    `mapstructure:"pacing"`
	Narration NarrationConfig `mapstructure:"narration"`
	Route     RouteConfig     `mapstructure:"route"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	PubSub    PubSubConfig    `mapstructure:"pubsub"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// PacingConfig controls the delay between narrated steps.
type PacingConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	TrailingDelay bool          `mapstructure:"trailing_delay"`
}

// NarrationConfig controls locale selection and number formatting.
type NarrationConfig struct {
	Locale    string `mapstructure:"locale"`
	Precision int    `mapstructure:"precision"`
}

// RouteConfig lists the steps to narrate, e.g. "straight:100".
type RouteConfig struct {
	Steps []string `mapstructure:"steps"`
}

// LoggingConfig toggles zap development features and the minimum level.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// ProgressConfig tunes the telemetry hub.
type ProgressConfig struct {
	BufferSize     int           `mapstructure:"buffer_size"`
	MaxBatchEvents int           `mapstructure:"max_batch_events"`
	MaxBatchWait   time.Duration `mapstructure:"max_batch_wait"`
	SinkTimeout    time.Duration `mapstructure:"sink_timeout"`
}

// MetricsConfig exposes Prometheus collectors over HTTP.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// PubSubConfig holds the optional telemetry topic.
type PubSubConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
	SkipSteps bool   `mapstructure:"skip_steps"`
}

// TracingConfig controls span sampling for narration runs.
type TracingConfig struct {
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Load builds a Config from an optional file plus the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper unmarshals and validates the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindEnv enables NARRATOR_* environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pacing.interval", route.DefaultInterval)
	v.SetDefault("pacing.trailing_delay", false)
	v.SetDefault("narration.locale", "")
	v.SetDefault("narration.precision", 3)
	v.SetDefault("route.steps", route.Default().Strings())
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("progress.buffer_size", 256)
	v.SetDefault("progress.max_batch_events", 32)
	v.SetDefault("progress.max_batch_wait", 500*time.Millisecond)
	v.SetDefault("progress.sink_timeout", 5*time.Second)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("pubsub.enabled", false)
	v.SetDefault("pubsub.project_id", "")
	v.SetDefault("pubsub.topic_name", "")
	v.SetDefault("pubsub.skip_steps", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Pacing.Interval <= 0 {
		return fmt.Errorf("pacing.interval must be > 0")
	}
	if c.Narration.Precision < 0 || c.Narration.Precision > 9 {
		return fmt.Errorf("narration.precision must be between 0 and 9")
	}
	if _, err := c.ParsedRoute(); err != nil {
		return fmt.Errorf("route.steps: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Progress.BufferSize <= 0 {
		return fmt.Errorf("progress.buffer_size must be > 0")
	}
	if c.Progress.MaxBatchEvents <= 0 {
		return fmt.Errorf("progress.max_batch_events must be > 0")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must be set when metrics are enabled")
	}
	if c.PubSub.Enabled && (c.PubSub.ProjectID == "" || c.PubSub.TopicName == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic_name must be set when pubsub is enabled")
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be in (0, 1]")
	}
	return nil
}

// ParsedRoute converts the configured steps into a route.
func (c Config) ParsedRoute() (route.Route, error) {
	return route.Parse(c.Route.Steps)
}
