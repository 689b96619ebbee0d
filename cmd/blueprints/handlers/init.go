package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, fullOutput bool) error {
	if wizardFileExists(outputPath) {
		overwrite, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(stdout, "Aborted: existing configuration left unchanged.")
			return nil
		}
	}

	printWelcome(fullOutput)

	result, err := wizardRunWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizardBuildConfig(result)

	if err := wizardWriteConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome(fullOutput bool) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "blueprints - add-ons for Kubernetes")
	fmt.Fprintln(stdout, "===================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard will help you create a blueprints configuration.")
	if fullOutput {
		fmt.Fprintln(stdout, "Full output mode: every option is written with its default.")
	} else {
		fmt.Fprintln(stdout, "Minimal output mode: only values that differ from the defaults are written.")
	}
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Summary")
	fmt.Fprintln(stdout, "-------")
	fmt.Fprintf(stdout, "  Cluster: %s\n", orResolved(cfg.ClusterName, "from kubeconfig"))
	fmt.Fprintf(stdout, "  Region:  %s\n", orResolved(cfg.Region, "from AWS environment"))
	addOns := cfg.EnabledAddOns()
	if len(addOns) == 0 {
		fmt.Fprintln(stdout, "  Add-ons: none")
	} else {
		fmt.Fprintf(stdout, "  Add-ons: %s\n", strings.Join(addOns, ", "))
	}
	if cfg.Addons.Amp.Enabled {
		fmt.Fprintf(stdout, "  AMP:     %s\n", cfg.Addons.Amp.PrometheusEndpoint)
	}
	if cfg.Addons.FluxCD.Enabled && cfg.Addons.FluxCD.Bootstrap.URL != "" {
		fmt.Fprintf(stdout, "  Flux:    %s\n", cfg.Addons.FluxCD.Bootstrap.URL)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintf(stdout, "  1. Review %s if needed\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  2. Preview the resources:")
	fmt.Fprintf(stdout, "     blueprints plan -c %s\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "  3. Deploy:")
	fmt.Fprintf(stdout, "     blueprints deploy -c %s\n", outputPath)
	fmt.Fprintln(stdout)
}

func orResolved(value, source string) string {
	if value == "" {
		return "(" + source + ")"
	}
	return value
}
