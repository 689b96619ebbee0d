package addons

import (
	"fmt"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/config"
)

// FromConfig builds the enabled add-ons described by cfg.
func FromConfig(cfg *config.Config) ([]ClusterAddOn, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var result []ClusterAddOn

	if adot := cfg.Addons.Adot; adot.Enabled {
		result = append(result, NewAdotCollectorAddOn(AdotCollectorAddOnProps{
			HelmAddOnProps: helmProps(adot.Namespace, adot.Release, adot.Helm, adot.Values),
		}))
	}

	if amp := cfg.Addons.Amp; amp.Enabled {
		result = append(result, NewAmpAddOn(AmpAddOnProps{
			PrometheusEndpoint: amp.PrometheusEndpoint,
			DeploymentMode:     amp.DeploymentMode,
			Namespace:          amp.Namespace,
			Name:               amp.Name,
			Template:           amp.Template,
		}))
	}

	if flux := cfg.Addons.FluxCD; flux.Enabled {
		props := FluxCDAddOnProps{
			HelmAddOnProps:  helmProps(flux.Namespace, flux.Release, flux.Helm, flux.Values),
			CreateNamespace: flux.CreateNamespace,
			GitRepository: GitRepositoryProps{
				Name:      flux.Bootstrap.Name,
				Namespace: flux.Bootstrap.Namespace,
				URL:       flux.Bootstrap.URL,
				Branch:    flux.Bootstrap.Branch,
				Interval:  flux.Bootstrap.Interval,
			},
		}
		props.Name = flux.Name
		result = append(result, NewFluxCDAddOn(props))
	}

	return result, nil
}

func helmProps(namespace, release string, chart config.HelmChartConfig, values map[string]any) HelmAddOnProps {
	return HelmAddOnProps{
		Namespace:  namespace,
		Release:    release,
		Chart:      chart.Chart,
		Version:    chart.Version,
		Repository: chart.Repository,
		Values:     helm.Values(values),
	}
}
