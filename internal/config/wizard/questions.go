package wizard

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/imamik/blueprints/internal/config"
)

// runClusterGroup prompts for cluster name and region.
func runClusterGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Name").
				Description("Leave empty to use the cluster of the current kubeconfig context").
				Placeholder("my-cluster").
				Value(&result.ClusterName).
				Validate(validateClusterName),
			huh.NewInput().
				Title("AWS Region").
				Description("Leave empty to use AWS_REGION or the shared AWS config").
				Placeholder("us-west-2").
				Value(&result.Region),
		).Title("Cluster"),
	).RunWithContext(ctx)
}

// runAddonsGroup prompts for the add-ons to enable.
func runAddonsGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Add-ons").
				Description("Select the add-ons to provision").
				Options(AddonsToOptions()...).
				Value(&result.EnabledAddons),
		).Title("Add-ons"),
	).RunWithContext(ctx)
}

// runAmpGroup prompts for the AMP workspace endpoint and collector mode.
func runAmpGroup(ctx context.Context, result *WizardResult) error {
	result.DeploymentMode = "deployment"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("AMP Workspace Endpoint").
				Description("Prometheus endpoint of the AMP workspace").
				Placeholder("https://aps-workspaces.us-west-2.amazonaws.com/workspaces/ws-xxxx/").
				Value(&result.AmpEndpoint).
				Validate(validateEndpoint),
			huh.NewSelect[string]().
				Title("Collector Deployment Mode").
				Options(DeploymentModesToOptions()...).
				Value(&result.DeploymentMode),
		).Title("Amazon Managed Prometheus"),
	).RunWithContext(ctx)
}

// runFluxGroup prompts for the Flux bootstrap Git source.
func runFluxGroup(ctx context.Context, result *WizardResult) error {
	result.CreateNamespace = true

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Git Repository URL").
				Description("Leave empty for the sample workloads repository").
				Placeholder("https://github.com/aws-samples/eks-blueprints-workloads.git").
				Value(&result.GitURL).
				Validate(validateRepoURL),
			huh.NewInput().
				Title("Branch").
				Placeholder("master").
				Value(&result.GitBranch),
			huh.NewInput().
				Title("Sync Interval").
				Placeholder("5m0s").
				Value(&result.GitInterval).
				Validate(validateInterval),
			huh.NewConfirm().
				Title("Create flux-system namespace?").
				Value(&result.CreateNamespace),
		).Title("Flux CD"),
	).RunWithContext(ctx)
}

func validateClusterName(s string) error {
	if s == "" {
		return nil
	}
	if !config.ClusterNamePattern.MatchString(s) {
		return errClusterNameInvalid
	}
	return nil
}

func validateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errEndpointRequired
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return errEndpointInvalid
	}
	return nil
}

func validateRepoURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errRepoURLInvalid
	}
	return nil
}

func validateInterval(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return errIntervalInvalid
	}
	return nil
}
