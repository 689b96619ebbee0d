package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"k8s.io/utils/ptr"
)

// ClusterNamePattern matches DNS-1123 label style cluster names.
var ClusterNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// DeploymentModes lists the recognised collector deployment modes.
var DeploymentModes = []string{"deployment", "daemonset", "statefulset", "sidecar"}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.ClusterName != "" && !ClusterNamePattern.MatchString(c.ClusterName) {
		errs = append(errs, fmt.Errorf("invalid cluster_name %q: must be a lowercase DNS label", c.ClusterName))
	}
	if ptr.Deref(c.Execution.MaxRetries, 0) < 0 {
		errs = append(errs, fmt.Errorf("execution.max_retries must not be negative"))
	}
	if ptr.Deref(c.Execution.Parallelism, 0) < 0 {
		errs = append(errs, fmt.Errorf("execution.parallelism must not be negative"))
	}
	if c.Execution.InitialDelay < 0 || c.Execution.Timeout < 0 {
		errs = append(errs, fmt.Errorf("execution durations must not be negative"))
	}
	if c.Templates.Endpoint != "" {
		if err := validateURL(c.Templates.Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("invalid templates.endpoint: %w", err))
		}
	}

	errs = append(errs, c.validateAmp()...)
	errs = append(errs, c.validateFluxCD()...)

	return errors.Join(errs...)
}

func (c *Config) validateAmp() []error {
	amp := c.Addons.Amp
	if !amp.Enabled {
		return nil
	}

	var errs []error
	if amp.PrometheusEndpoint == "" {
		errs = append(errs, fmt.Errorf("addons.amp.prometheus_endpoint is required"))
	} else if err := validateURL(amp.PrometheusEndpoint); err != nil {
		errs = append(errs, fmt.Errorf("invalid addons.amp.prometheus_endpoint: %w", err))
	}
	if mode := strings.ToLower(strings.TrimSpace(amp.DeploymentMode)); amp.DeploymentMode != "" && !slices.Contains(DeploymentModes, mode) {
		errs = append(errs, fmt.Errorf("invalid addons.amp.deployment_mode %q: must be one of %v", amp.DeploymentMode, DeploymentModes))
	}
	if !c.Addons.Adot.Enabled {
		errs = append(errs, fmt.Errorf("addons.amp requires addons.adot to be enabled"))
	}
	return errs
}

func (c *Config) validateFluxCD() []error {
	flux := c.Addons.FluxCD
	if !flux.Enabled {
		return nil
	}

	var errs []error
	if flux.Bootstrap.URL != "" {
		if err := validateURL(flux.Bootstrap.URL); err != nil {
			errs = append(errs, fmt.Errorf("invalid addons.fluxcd.bootstrap.url: %w", err))
		}
	}
	if flux.Bootstrap.Interval != "" {
		if _, err := time.ParseDuration(flux.Bootstrap.Interval); err != nil {
			errs = append(errs, fmt.Errorf("invalid addons.fluxcd.bootstrap.interval: %w", err))
		}
	}
	return errs
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q must be an absolute URL", raw)
	}
	return nil
}
