package sse

import (
	"fmt"
	"time"
)

// Config holds stream settings.
type Config struct {
	// KeepAlive is the interval between keep-alive comments.
	KeepAlive time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`
	// Buffer is the per-client event buffer size.
	Buffer int `yaml:"buffer" mapstructure:"buffer"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.KeepAlive == 0 {
		c.KeepAlive = 30 * time.Second
	}
	if c.Buffer == 0 {
		c.Buffer = 256
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.KeepAlive < 0 {
		return fmt.Errorf("sse.keep_alive must not be negative (got: %s)", c.KeepAlive)
	}
	if c.Buffer < 0 {
		return fmt.Errorf("sse.buffer must not be negative (got: %d)", c.Buffer)
	}
	return nil
}
