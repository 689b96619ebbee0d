package addons

import (
	"fmt"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/plan"
)

// HelmAddOnProps describes a Helm-based add-on. Empty fields take the
// add-on's defaults.
type HelmAddOnProps struct {
	// Name identifies the add-on in labels and logs.
	Name       string
	Namespace  string
	Chart      string
	Version    string
	Release    string
	Repository string
	Values     helm.Values
}

// HelmAddOn is the shared base of add-ons installed from a Helm chart.
type HelmAddOn struct {
	props HelmAddOnProps
}

// mergeHelmProps overlays the non-empty fields of user on defaults.
// Values deep-merge.
func mergeHelmProps(defaults, user HelmAddOnProps) HelmAddOnProps {
	merged := defaults
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&merged.Name, user.Name},
		{&merged.Namespace, user.Namespace},
		{&merged.Chart, user.Chart},
		{&merged.Version, user.Version},
		{&merged.Release, user.Release},
		{&merged.Repository, user.Repository},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	merged.Values = helm.DeepMerge(defaults.Values, user.Values)
	return merged
}

// Props returns the effective properties.
func (h *HelmAddOn) Props() HelmAddOnProps {
	return h.props
}

// chartSpec resolves the chart coordinates, starting from the registry
// entry for registryKey.
func (h *HelmAddOn) chartSpec(registryKey string) helm.ChartSpec {
	return helm.GetChartSpec(registryKey, config.HelmChartConfig{
		Repository: h.props.Repository,
		Chart:      h.props.Chart,
		Version:    h.props.Version,
	})
}

// addHelmChart registers the chart on the plan.
func (h *HelmAddOn) addHelmChart(info *ClusterInfo, registryKey string, values helm.Values) (*plan.Handle, error) {
	spec := h.chartSpec(registryKey)
	if spec.Repository == "" || spec.Name == "" {
		return nil, &ConfigError{AddOn: h.props.Name, Field: "chart", Reason: "repository and chart name are required"}
	}

	handle, err := info.Plan.Add(NewHelmChart(info, spec, h.props.Release, h.props.Namespace, values))
	if err != nil {
		return nil, fmt.Errorf("failed to add chart %s: %w", spec.Name, err)
	}
	return handle, nil
}

// addNamespace registers the add-on's namespace and orders dependent after it.
func (h *HelmAddOn) addNamespace(info *ClusterInfo, dependent *plan.Handle) error {
	ns, err := info.Plan.Add(NewNamespaceResource(info, h.props.Name, h.props.Namespace))
	if err != nil {
		return fmt.Errorf("failed to add namespace %s: %w", h.props.Namespace, err)
	}
	return info.Plan.DeclareDependency(dependent, ns)
}
