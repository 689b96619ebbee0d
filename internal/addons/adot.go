package addons

import (
	"context"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/plan"
)

// AdotCollectorAddOnName is the name other add-ons depend on.
const AdotCollectorAddOnName = "adot-collector"

// AdotCollectorAddOnProps configures the OpenTelemetry operator.
type AdotCollectorAddOnProps struct {
	HelmAddOnProps
	// CreateNamespace defaults to true.
	CreateNamespace *bool
}

// AdotCollectorAddOn installs the OpenTelemetry operator, which reconciles
// the OpenTelemetryCollector resources of AmpAddOn.
type AdotCollectorAddOn struct {
	HelmAddOn
	createNamespace bool
}

func adotDefaultProps() HelmAddOnProps {
	spec := helm.DefaultChartSpecs[AdotCollectorAddOnName]
	return HelmAddOnProps{
		Name:       AdotCollectorAddOnName,
		Namespace:  "opentelemetry-operator-system",
		Chart:      spec.Name,
		Version:    spec.Version,
		Release:    "blueprints-adot-addon",
		Repository: spec.Repository,
		Values: helm.Values{
			"manager": helm.Values{
				"collectorImage": helm.Values{
					"repository": "public.ecr.aws/aws-observability/aws-otel-collector",
				},
			},
			"admissionWebhooks": helm.Values{
				"certManager":      helm.Values{"enabled": false},
				"autoGenerateCert": helm.Values{"enabled": true},
			},
		},
	}
}

// NewAdotCollectorAddOn creates the add-on with props merged over the defaults.
func NewAdotCollectorAddOn(props AdotCollectorAddOnProps) *AdotCollectorAddOn {
	merged := mergeHelmProps(adotDefaultProps(), props.HelmAddOnProps)
	merged.Name = AdotCollectorAddOnName
	return &AdotCollectorAddOn{
		HelmAddOn:       HelmAddOn{props: merged},
		createNamespace: props.CreateNamespace == nil || *props.CreateNamespace,
	}
}

func (a *AdotCollectorAddOn) Name() string { return AdotCollectorAddOnName }

// Deploy registers the operator chart and, unless disabled, its namespace.
func (a *AdotCollectorAddOn) Deploy(_ context.Context, info *ClusterInfo) (*plan.Handle, error) {
	chart, err := a.addHelmChart(info, AdotCollectorAddOnName, a.props.Values)
	if err != nil {
		return nil, err
	}
	if a.createNamespace {
		if err := a.addNamespace(info, chart); err != nil {
			return nil, err
		}
	}
	return chart, nil
}
