package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/imamik/blueprints/internal/config"
)

// Add-on keys offered by the wizard.
const (
	AddonAdot   = "adot"
	AddonAmp    = "amp"
	AddonFluxCD = "fluxcd"
)

// AddonOption describes a selectable add-on.
type AddonOption struct {
	Key         string
	Label       string
	Description string
	Default     bool
}

// Addons lists the add-ons the wizard can enable.
var Addons = []AddonOption{
	{Key: AddonAdot, Label: "ADOT operator", Description: "OpenTelemetry operator for collectors", Default: true},
	{Key: AddonAmp, Label: "Amazon Managed Prometheus", Description: "Collector remote-writing metrics to AMP", Default: true},
	{Key: AddonFluxCD, Label: "Flux CD", Description: "GitOps controller with a bootstrap Git source", Default: false},
}

// deploymentModeDescriptions documents each collector deployment mode.
var deploymentModeDescriptions = map[string]string{
	"deployment":  "Single collector Deployment (default)",
	"daemonset":   "One collector per node",
	"statefulset": "StatefulSet with stable identities",
	"sidecar":     "Injected next to application pods",
}

// AddonsToOptions converts add-on options to huh options, preselecting defaults.
func AddonsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Addons))
	for i, a := range Addons {
		opts[i] = huh.NewOption(a.Label+" - "+a.Description, a.Key).Selected(a.Default)
	}
	return opts
}

// DeploymentModesToOptions converts config.DeploymentModes to huh options.
func DeploymentModesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(config.DeploymentModes))
	for i, mode := range config.DeploymentModes {
		opts[i] = huh.NewOption(mode+" - "+deploymentModeDescriptions[mode], mode)
	}
	return opts
}
