package handlers

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/manifest"
)

// saveAndRestoreFactories saves and restores all factory variables.
func saveAndRestoreFactories(t *testing.T) {
	origLoadConfigFile := loadConfigFile
	origResolveClusterFacts := resolveClusterFacts
	origNewKubeClient := newKubeClient
	origNewObjectGetter := newObjectGetter
	origRenderChart := renderChart
	origWriteMetricsFile := writeMetricsFile
	origStdout := stdout
	origIsInteractiveTTY := isInteractiveTTY

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		resolveClusterFacts = origResolveClusterFacts
		newKubeClient = origNewKubeClient
		newObjectGetter = origNewObjectGetter
		renderChart = origRenderChart
		writeMetricsFile = origWriteMetricsFile
		stdout = origStdout
		isInteractiveTTY = origIsInteractiveTTY
	})
}

// stubDeployEnvironment replaces every factory with an in-memory version
// and returns the stdout buffer.
func stubDeployEnvironment(t *testing.T, cfg *config.Config) *bytes.Buffer {
	t.Helper()
	saveAndRestoreFactories(t)

	loadConfigFile = func(string) (*config.Config, error) { return cfg, nil }
	resolveClusterFacts = func(context.Context, *config.Config) error { return nil }
	newObjectGetter = func(context.Context, *config.Config) (manifest.ObjectGetter, error) {
		return nil, nil
	}
	renderChart = func(_ context.Context, spec helm.ChartSpec, release, namespace, _ string, _ helm.Values) ([]byte, error) {
		return []byte(fmt.Sprintf("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: %s\n  namespace: %s\ndata:\n  chart: %s\n", release, namespace, spec.Name)), nil
	}
	writeMetricsFile = func(string) error { return nil }

	var buf bytes.Buffer
	stdout = &buf
	return &buf
}

// testConfig returns a valid configuration with AMP and its operator enabled.
func testConfig() *config.Config {
	cfg := &config.Config{
		ClusterName: "demo",
		Region:      "us-west-2",
		Addons: config.AddonsConfig{
			Adot: config.AdotConfig{Enabled: true},
			Amp: config.AmpConfig{
				Enabled:            true,
				PrometheusEndpoint: "https://aps-workspaces.us-west-2.amazonaws.com/workspaces/ws-1/",
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// fakeKubeClient records ApplyManifests calls.
type fakeKubeClient struct {
	mu         sync.Mutex
	applied    [][]byte
	opts       []k8sclient.ApplyOptions
	namespaces []string
	version    string
	versionErr error
	applyErr   error
}

func (f *fakeKubeClient) ApplyManifests(_ context.Context, manifests []byte, opts k8sclient.ApplyOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, manifests)
	f.opts = append(f.opts, opts)
	return nil
}

func (f *fakeKubeClient) RefreshDiscovery(context.Context) error { return nil }

func (f *fakeKubeClient) EnsureNamespace(_ context.Context, name string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.namespaces = append(f.namespaces, name)
	return nil
}

func (f *fakeKubeClient) ServerVersion(context.Context) (string, error) {
	return f.version, f.versionErr
}
