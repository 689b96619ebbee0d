// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/blueprints/internal/addons"
	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/manifest"
	"github.com/imamik/blueprints/internal/plan"
	"github.com/imamik/blueprints/internal/platform/s3"
)

// DeployOptions are the flags of the deploy command.
type DeployOptions struct {
	ConfigPath  string
	DryRun      bool
	MetricsFile string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads and validates the configuration file.
	loadConfigFile = config.LoadFile

	// resolveClusterFacts fills the cluster name and region.
	resolveClusterFacts = config.ResolveClusterFacts

	// newKubeClient connects to the cluster selected by the kubeconfig.
	newKubeClient = k8sclient.NewFromKubeconfigPath

	// newObjectGetter creates the S3 client used for s3:// template references.
	newObjectGetter = func(ctx context.Context, cfg *config.Config) (manifest.ObjectGetter, error) {
		return s3.NewClient(ctx, cfg.Templates.Region, s3.Options{
			Endpoint:  cfg.Templates.Endpoint,
			AccessKey: cfg.Templates.AccessKey,
			SecretKey: cfg.Templates.SecretKey,
		})
	}

	// renderChart renders Helm charts at apply time.
	renderChart addons.ChartRenderFunc = helm.RenderFromSpec

	// writeMetricsFile exports the metrics registry in text format.
	writeMetricsFile = func(path string) error {
		return prometheus.WriteToTextfile(path, metrics.Registry)
	}

	// stdout receives dry-run manifests and plan output.
	stdout io.Writer = os.Stdout
)

// Deploy provisions the configured add-ons.
//
// The workflow is:
//  1. Load and validate the configuration, then resolve missing cluster facts
//  2. Connect to the cluster and read its version for chart rendering
//  3. Build the plan from the enabled add-ons
//  4. Execute the plan, or print the rendered manifests with DryRun
//  5. Write metrics to MetricsFile if set, also when execution failed
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := loadDeployConfig(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	logger := log.FromContext(ctx).WithValues("cluster", cfg.ClusterName)
	ctx = log.IntoContext(ctx, logger)

	var (
		applier     plan.Applier
		kubeVersion string
	)
	if opts.DryRun {
		applier = &printApplier{out: stdout}
	} else {
		client, err := newKubeClient(cfg.Kubeconfig, cfg.Context)
		if err != nil {
			return fmt.Errorf("failed to connect to cluster: %w", err)
		}
		kubeVersion, err = client.ServerVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to get server version: %w", err)
		}
		applier = client
	}

	info, err := buildPlan(ctx, cfg, kubeVersion)
	if err != nil {
		return err
	}

	logger.Info("deploying add-ons", "addons", cfg.EnabledAddOns(), "resources", info.Plan.Len(), "dryRun", opts.DryRun)

	execCtx, cancel := context.WithTimeout(ctx, cfg.Execution.Timeout)
	defer cancel()

	execErr := info.Plan.Execute(execCtx, applier,
		plan.WithFieldManager(cfg.FieldManager),
		plan.WithForce(cfg.Execution.Force),
		plan.WithMaxRetries(ptr.Deref(cfg.Execution.MaxRetries, config.DefaultMaxRetries)),
		plan.WithInitialDelay(cfg.Execution.InitialDelay),
		plan.WithParallelism(ptr.Deref(cfg.Execution.Parallelism, config.DefaultParallelism)),
	)
	if execErr != nil {
		execErr = fmt.Errorf("failed to apply plan: %w", execErr)
	}

	if opts.MetricsFile != "" {
		if err := writeMetricsFile(opts.MetricsFile); err != nil {
			return errors.Join(execErr, fmt.Errorf("failed to write metrics file: %w", err))
		}
	}
	if execErr != nil {
		return execErr
	}

	if !opts.DryRun {
		logger.Info("add-ons deployed")
	}
	return nil
}

// loadDeployConfig loads the configuration and fills everything the file
// may leave out.
func loadDeployConfig(ctx context.Context, configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = config.DefaultConfigFilename
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	if err := resolveClusterFacts(ctx, cfg); err != nil {
		return nil, err
	}
	// Templates.Region follows a region resolved only now.
	cfg.ApplyDefaults()

	return cfg, nil
}

// buildPlan provisions the enabled add-ons onto a new plan.
func buildPlan(ctx context.Context, cfg *config.Config, kubeVersion string) (*addons.ClusterInfo, error) {
	getter, err := newObjectGetter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create template storage client: %w", err)
	}

	addOns, err := addons.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if len(addOns) == 0 {
		return nil, fmt.Errorf("no add-ons enabled in configuration")
	}

	info := addons.NewClusterInfo(cfg.ClusterName, cfg.Region, manifest.WithObjectGetter(getter))
	info.KubeVersion = kubeVersion
	info.RenderChart = renderChart

	if err := addons.Provision(ctx, info, addOns...); err != nil {
		return nil, fmt.Errorf("failed to provision add-ons: %w", err)
	}
	return info, nil
}
