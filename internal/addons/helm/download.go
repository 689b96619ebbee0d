package helm

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// chartCache keeps downloaded charts for the lifetime of the process.
var chartCache = struct {
	sync.Mutex
	charts map[ChartSpec]*chart.Chart
}{charts: make(map[ChartSpec]*chart.Chart)}

// Function variables for dependency injection in tests.
var (
	findChartURL = func(spec ChartSpec, getters getter.Providers) (string, error) {
		return repo.FindChartInRepoURL(spec.Repository, spec.Name, spec.Version, "", "", "", getters)
	}

	fetchArchive = func(chartURL string, getters getter.Providers) (*chart.Chart, error) {
		u, err := url.Parse(chartURL)
		if err != nil {
			return nil, fmt.Errorf("invalid chart URL %s: %w", chartURL, err)
		}
		g, err := getters.ByScheme(u.Scheme)
		if err != nil {
			return nil, fmt.Errorf("no getter for chart URL %s: %w", chartURL, err)
		}
		data, err := g.Get(chartURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chart archive %s: %w", chartURL, err)
		}
		return loader.LoadArchive(data)
	}
)

// DownloadChart fetches a chart from its repository, reusing charts already
// downloaded by this process.
func DownloadChart(ctx context.Context, spec ChartSpec) (*chart.Chart, error) {
	if spec.Repository == "" || spec.Name == "" {
		return nil, fmt.Errorf("incomplete chart spec %q: repository and name are required", spec.String())
	}

	chartCache.Lock()
	defer chartCache.Unlock()

	if ch, ok := chartCache.charts[spec]; ok {
		return ch, nil
	}

	log.FromContext(ctx).Info("downloading helm chart", "chart", spec.Name, "version", spec.Version, "repository", spec.Repository)

	getters := getter.All(cli.New())
	chartURL, err := findChartURL(spec, getters)
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", spec.Name, spec.Repository, err)
	}

	ch, err := fetchArchive(chartURL, getters)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart %s: %w", spec.Name, err)
	}

	chartCache.charts[spec] = ch
	return ch, nil
}

// ClearCache drops every cached chart.
func ClearCache() {
	chartCache.Lock()
	defer chartCache.Unlock()
	chartCache.charts = make(map[ChartSpec]*chart.Chart)
}
