// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// setLogger installs the logging backend. Replaced in tests.
var setLogger = func(verbose bool) {
	ctrl.SetLogger(zap.New(zap.UseDevMode(verbose)))
}

// Root returns the root command for the blueprints CLI.
//
// The persistent --verbose flag switches the logger to development mode,
// which includes V(1) detail such as per-object applies.
func Root() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "blueprints",
		Short:         "Provision observability and GitOps add-ons onto Kubernetes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setLogger(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose development logging")

	cmd.AddCommand(Init())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Version())

	return cmd
}
