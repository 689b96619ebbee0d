package config

import "time"

// Config is the root of a blueprints configuration file.
type Config struct {
	// ClusterName identifies the cluster in labels and collector config.
	// Resolved from the kubeconfig when empty.
	ClusterName string `yaml:"cluster_name,omitempty"`

	// Region is the AWS region used for remote write signing.
	// Resolved from the AWS default configuration chain when empty.
	Region string `yaml:"region,omitempty"`

	// Kubeconfig is the kubeconfig path. Empty uses KUBECONFIG or ~/.kube/config.
	Kubeconfig string `yaml:"kubeconfig,omitempty"`

	// Context selects a kubeconfig context. Empty uses the current context.
	Context string `yaml:"context,omitempty"`

	// FieldManager is the server-side apply field manager.
	FieldManager string `yaml:"field_manager,omitempty"`

	Templates TemplatesConfig `yaml:"templates,omitempty"`
	Execution ExecutionConfig `yaml:"execution,omitempty"`
	Addons    AddonsConfig    `yaml:"addons"`
}

// TemplatesConfig configures the object store used for s3:// template references.
type TemplatesConfig struct {
	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `yaml:"endpoint,omitempty"`
	// Region of the bucket. Defaults to the cluster region.
	Region string `yaml:"region,omitempty"`
	// AccessKey and SecretKey select static credentials instead of the
	// AWS default chain.
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// ExecutionConfig tunes how a plan is applied.
type ExecutionConfig struct {
	// MaxRetries per resource for transient API failures. Zero disables
	// retries; nil means DefaultMaxRetries.
	MaxRetries *int `yaml:"max_retries,omitempty"`
	// InitialDelay before the first retry.
	InitialDelay time.Duration `yaml:"initial_delay,omitempty"`
	// Parallelism bounds concurrent applies within a dependency level.
	// Zero means unbounded; nil means DefaultParallelism.
	Parallelism *int `yaml:"parallelism,omitempty"`
	// Timeout bounds the whole deploy.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Force takes ownership of fields another field manager owns.
	Force bool `yaml:"force,omitempty"`
}

// AddonsConfig holds per add-on settings.
type AddonsConfig struct {
	Adot   AdotConfig   `yaml:"adot,omitempty"`
	Amp    AmpConfig    `yaml:"amp,omitempty"`
	FluxCD FluxCDConfig `yaml:"fluxcd,omitempty"`
}

// HelmChartConfig overrides the chart coordinates of a Helm-based add-on.
type HelmChartConfig struct {
	Repository string `yaml:"repository,omitempty"`
	Chart      string `yaml:"chart,omitempty"`
	Version    string `yaml:"version,omitempty"`
}

// AdotConfig configures the OpenTelemetry operator installation.
type AdotConfig struct {
	Enabled   bool            `yaml:"enabled"`
	Namespace string          `yaml:"namespace,omitempty"`
	Release   string          `yaml:"release,omitempty"`
	Helm      HelmChartConfig `yaml:"helm,omitempty"`
	Values    map[string]any  `yaml:"values,omitempty"`
}

// AmpConfig configures the collector that remote-writes to Amazon Managed
// Service for Prometheus.
type AmpConfig struct {
	Enabled bool `yaml:"enabled"`
	// PrometheusEndpoint is the workspace endpoint, e.g.
	// https://aps-workspaces.us-west-2.amazonaws.com/workspaces/ws-1/
	PrometheusEndpoint string `yaml:"prometheus_endpoint,omitempty"`
	// DeploymentMode is one of deployment, daemonset, statefulset or sidecar.
	DeploymentMode string `yaml:"deployment_mode,omitempty"`
	Namespace      string `yaml:"namespace,omitempty"`
	Name           string `yaml:"name,omitempty"`
	// Template replaces the built-in collector template. Accepts a file
	// path, file:// URL or s3://bucket/key.
	Template string `yaml:"template,omitempty"`
}

// FluxCDConfig configures the Flux installation and its bootstrap Git source.
type FluxCDConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Name      string `yaml:"name,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	Release   string `yaml:"release,omitempty"`
	// CreateNamespace defaults to true.
	CreateNamespace *bool           `yaml:"create_namespace,omitempty"`
	Helm            HelmChartConfig `yaml:"helm,omitempty"`
	Values          map[string]any  `yaml:"values,omitempty"`
	Bootstrap       GitSourceConfig `yaml:"bootstrap,omitempty"`
}

// GitSourceConfig describes the GitRepository Flux reconciles first.
// Empty fields take the add-on defaults.
type GitSourceConfig struct {
	Name      string `yaml:"name,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	URL       string `yaml:"url,omitempty"`
	Branch    string `yaml:"branch,omitempty"`
	Interval  string `yaml:"interval,omitempty"`
}

// EnabledAddOns lists the names of enabled add-ons in a stable order.
func (c *Config) EnabledAddOns() []string {
	var names []string
	if c.Addons.Adot.Enabled {
		names = append(names, "adot-collector")
	}
	if c.Addons.Amp.Enabled {
		names = append(names, "amp")
	}
	if c.Addons.FluxCD.Enabled {
		names = append(names, "fluxcd")
	}
	return names
}
