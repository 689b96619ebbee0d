package wizard

import (
	"slices"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/imamik/blueprints/internal/config"
)

// BuildConfig creates a Config struct from the wizard result.
// Enabling AMP also enables the ADOT operator it runs on.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		ClusterName: result.ClusterName,
		Region:      result.Region,
	}

	enabled := func(key string) bool { return slices.Contains(result.EnabledAddons, key) }

	if enabled(AddonAmp) {
		cfg.Addons.Amp = config.AmpConfig{
			Enabled:            true,
			PrometheusEndpoint: strings.TrimSpace(result.AmpEndpoint),
		}
		if result.DeploymentMode != "" && result.DeploymentMode != "deployment" {
			cfg.Addons.Amp.DeploymentMode = result.DeploymentMode
		}
	}

	if enabled(AddonAdot) || enabled(AddonAmp) {
		cfg.Addons.Adot.Enabled = true
	}

	if enabled(AddonFluxCD) {
		cfg.Addons.FluxCD = config.FluxCDConfig{
			Enabled: true,
			Bootstrap: config.GitSourceConfig{
				URL:      result.GitURL,
				Branch:   result.GitBranch,
				Interval: result.GitInterval,
			},
		}
		if !result.CreateNamespace {
			cfg.Addons.FluxCD.CreateNamespace = ptr.To(false)
		}
	}

	return cfg
}
