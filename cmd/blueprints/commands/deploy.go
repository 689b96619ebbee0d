package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
	"github.com/imamik/blueprints/internal/config"
)

// Deploy returns the command that provisions the configured add-ons.
//
// Flags:
//
//	--config, -c: Path to configuration YAML file (default "blueprints.yaml")
//	--dry-run: Print rendered manifests instead of applying them
//	--metrics-file: Write Prometheus metrics to this file when done
func Deploy() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision the configured add-ons onto the cluster",
		Long: `Provision the configured add-ons onto the cluster.

The cluster is selected by the kubeconfig and context in the configuration
file, falling back to KUBECONFIG and the current context. A missing cluster
name is taken from the kubeconfig and a missing region from the AWS
environment.

Objects are applied with Server-Side Apply, so re-running deploy after a
configuration change updates the cluster in place.

Examples:
  # Deploy using blueprints.yaml in the current directory
  blueprints deploy

  # Print the manifests without touching the cluster
  blueprints deploy --dry-run

  # Export apply metrics for the node_exporter textfile collector
  blueprints deploy --metrics-file /var/lib/node_exporter/blueprints.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultConfigFilename, "Path to configuration file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print rendered manifests instead of applying them")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	return cmd
}
