package addons

import (
	"errors"
	"fmt"
)

// ConfigError reports add-on configuration that cannot be deployed.
type ConfigError struct {
	AddOn  string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("add-on %s: %s", e.AddOn, e.Reason)
	}
	return fmt.Sprintf("add-on %s: invalid %s: %s", e.AddOn, e.Field, e.Reason)
}

// IsConfigError reports whether err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
