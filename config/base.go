package config

import (
	"time"

	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/server"
	"github.com/kbukum/rxkit/sse"
	"github.com/kbukum/rxkit/validation"
)

// Config is the complete configuration of an rxkit service.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Rx            RxConfig            `yaml:"rx" mapstructure:"rx"`
	SSE           sse.Config          `yaml:"sse" mapstructure:"sse"`
	Server        server.Config       `yaml:"server" mapstructure:"server"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// RxConfig configures publishers built by the service.
type RxConfig struct {
	// Scheduler selects where ReceiveOn runs downstream work.
	Scheduler string `yaml:"scheduler" mapstructure:"scheduler" validate:"omitempty,oneof=immediate deferred"`
	// DefaultBuffer sizes channels feeding external sources into subjects.
	DefaultBuffer int `yaml:"default_buffer" mapstructure:"default_buffer" validate:"gte=0"`
}

// ObservabilityConfig configures OTLP metric and trace export.
type ObservabilityConfig struct {
	MetricsEnabled bool          `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	TracingEnabled bool          `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval" validate:"gte=0"`
}

// ApplyDefaults fills unset fields in every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Rx.Scheduler == "" {
		c.Rx.Scheduler = "immediate"
	}
	if c.Rx.DefaultBuffer == 0 {
		c.Rx.DefaultBuffer = 64
	}
	c.SSE.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = "localhost:4318"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
	if c.Observability.MetricInterval == 0 {
		c.Observability.MetricInterval = 15 * time.Second
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge("config", c.ServiceConfig.Validate())
	v.Merge("config", validation.Validate(c))
	v.Merge("sse", c.SSE.Validate())
	v.Merge("server", c.Server.Validate())
	o := c.Observability
	v.Range("observability.sample_rate", o.SampleRate, 0, 1)
	v.Custom(!(o.MetricsEnabled || o.TracingEnabled) || o.Endpoint != "",
		"observability.endpoint", "is required when metrics or tracing is enabled")
	return v.Err()
}

// MeterConfig returns the meter settings for this service.
func (c *Config) MeterConfig() observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		Endpoint:       c.Observability.Endpoint,
		Insecure:       c.Observability.Insecure,
		Interval:       c.Observability.MetricInterval,
	}
}

// TracerConfig returns the tracer settings for this service.
func (c *Config) TracerConfig() observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		Endpoint:       c.Observability.Endpoint,
		Insecure:       c.Observability.Insecure,
		SampleRate:     c.Observability.SampleRate,
	}
}
