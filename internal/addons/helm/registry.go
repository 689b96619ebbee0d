package helm

// DefaultChartSpecs contains the default chart specifications for each add-on.
// Users can override these settings via config.HelmChartConfig.
var DefaultChartSpecs = map[string]ChartSpec{
	"fluxcd": {
		Repository: "https://fluxcd-community.github.io/helm-charts",
		Name:       "flux2",
		Version:    "2.7.0",
	},
	"adot-collector": {
		Repository: "https://open-telemetry.github.io/opentelemetry-helm-charts",
		Name:       "opentelemetry-operator",
		Version:    "0.74.2",
	},
}
