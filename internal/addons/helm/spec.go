package helm

import "github.com/imamik/blueprints/internal/config"

// ChartSpec locates a chart in a Helm repository.
type ChartSpec struct {
	Repository string
	Name       string
	Version    string
}

// String renders the spec as "name@version (repository)".
func (s ChartSpec) String() string {
	return s.Name + "@" + s.Version + " (" + s.Repository + ")"
}

// GetChartSpec returns the chart spec for the given add-on name,
// applying any overrides from the HelmChartConfig.
// Unknown add-ons start from an empty spec, so a fully specified override
// still yields a usable chart.
func GetChartSpec(name string, helmCfg config.HelmChartConfig) ChartSpec {
	spec := DefaultChartSpecs[name]

	if helmCfg.Repository != "" {
		spec.Repository = helmCfg.Repository
	}
	if helmCfg.Chart != "" {
		spec.Name = helmCfg.Chart
	}
	if helmCfg.Version != "" {
		spec.Version = helmCfg.Version
	}

	return spec
}
