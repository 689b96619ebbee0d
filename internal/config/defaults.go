package config

import (
	"time"

	"k8s.io/utils/ptr"
)

// DefaultConfigFilename is the configuration file used when none is given.
const DefaultConfigFilename = "blueprints.yaml"

// Execution defaults.
const (
	DefaultFieldManager = "blueprints"
	DefaultMaxRetries   = 5
	DefaultInitialDelay = 2 * time.Second
	DefaultParallelism  = 4
	DefaultTimeout      = 15 * time.Minute
)

// ApplyDefaults fills unset execution settings.
func (c *Config) ApplyDefaults() {
	if c.FieldManager == "" {
		c.FieldManager = DefaultFieldManager
	}
	if c.Execution.MaxRetries == nil {
		c.Execution.MaxRetries = ptr.To(DefaultMaxRetries)
	}
	if c.Execution.InitialDelay == 0 {
		c.Execution.InitialDelay = DefaultInitialDelay
	}
	if c.Execution.Parallelism == nil {
		c.Execution.Parallelism = ptr.To(DefaultParallelism)
	}
	if c.Execution.Timeout == 0 {
		c.Execution.Timeout = DefaultTimeout
	}
	if c.Templates.Region == "" {
		c.Templates.Region = c.Region
	}
}
