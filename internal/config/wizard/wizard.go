package wizard

import (
	"context"
	"fmt"
	"slices"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	ClusterName string
	Region      string

	EnabledAddons []string

	// AMP
	AmpEndpoint    string
	DeploymentMode string

	// Flux
	GitURL          string
	GitBranch       string
	GitInterval     string
	CreateNamespace bool
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runClusterGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}

	if err := runAddonsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("addons: %w", err)
	}

	if slices.Contains(result.EnabledAddons, AddonAmp) {
		if err := runAmpGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("amp: %w", err)
		}
	}

	if slices.Contains(result.EnabledAddons, AddonFluxCD) {
		if err := runFluxGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("fluxcd: %w", err)
		}
	}

	return result, nil
}
