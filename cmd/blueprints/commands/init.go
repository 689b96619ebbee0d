package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
	"github.com/imamik/blueprints/internal/config"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "blueprints.yaml")
//	--full, -f: Output full YAML with all defaults (default: minimal output)
func Init() *cobra.Command {
	var (
		outputPath string
		fullOutput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a blueprints configuration",
		Long: `Interactively create a blueprints configuration file.

The wizard asks about:

  - Cluster name and AWS region (both may be left empty and resolved
    from the kubeconfig and the AWS environment at deploy time)
  - Which add-ons to enable
  - The Amazon Managed Service for Prometheus workspace endpoint and
    collector deployment mode
  - The Git repository Flux bootstraps from

Use --full to write every option with its default value. By default only
the values that differ from the defaults are written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVarP(&fullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
