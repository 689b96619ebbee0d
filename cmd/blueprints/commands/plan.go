package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
	"github.com/imamik/blueprints/internal/config"
)

// Plan returns the command that shows what deploy would apply.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resources deploy would apply, in order",
		Long: `Show the resources deploy would apply.

Resources are grouped into levels. Every resource is applied after all
resources in earlier levels; resources in the same level are applied
concurrently. Nothing is sent to the cluster.

Examples:
  # Plan using blueprints.yaml in the current directory
  blueprints plan

  # Plan using a specific config file
  blueprints plan -c staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "Path to configuration file")

	return cmd
}
