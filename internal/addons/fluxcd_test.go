package addons

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/imamik/blueprints/internal/addons/helm"
)

func TestNewFluxCDAddOn_Defaults(t *testing.T) {
	t.Parallel()
	f := NewFluxCDAddOn(FluxCDAddOnProps{})

	props := f.Props()
	assert.Equal(t, "fluxcd-addon", props.Name)
	assert.Equal(t, "flux-system", props.Namespace)
	assert.Equal(t, "flux2", props.Chart)
	assert.Equal(t, "2.7.0", props.Version)
	assert.Equal(t, "blueprints-fluxcd-addon", props.Release)
	assert.Equal(t, "https://fluxcd-community.github.io/helm-charts", props.Repository)
	assert.Empty(t, props.Values)

	assert.Equal(t, GitRepositoryProps{
		Name:      "samplerepo",
		Namespace: "flux-system",
		URL:       "https://github.com/aws-samples/eks-blueprints-workloads.git",
		Branch:    "master",
		Interval:  "5m0s",
	}, f.GitRepository())
}

func TestNewFluxCDAddOn_MergesPerField(t *testing.T) {
	t.Parallel()
	f := NewFluxCDAddOn(FluxCDAddOnProps{
		HelmAddOnProps: HelmAddOnProps{
			Version: "2.8.0",
			Values:  helm.Values{"helmController": helm.Values{"create": false}},
		},
		GitRepository: GitRepositoryProps{
			URL:    "https://github.com/example/fleet.git",
			Branch: "main",
		},
	})

	assert.Equal(t, "2.8.0", f.Props().Version)
	assert.Equal(t, "flux2", f.Props().Chart)
	assert.Equal(t, helm.Values{"helmController": helm.Values{"create": false}}, f.Props().Values)

	git := f.GitRepository()
	assert.Equal(t, "https://github.com/example/fleet.git", git.URL)
	assert.Equal(t, "main", git.Branch)
	assert.Equal(t, "samplerepo", git.Name)
	assert.Equal(t, "5m0s", git.Interval)
}

func TestFluxCDAddOn_Deploy_CreateNamespace(t *testing.T) {
	t.Parallel()
	info := newTestInfo()

	h, err := NewFluxCDAddOn(FluxCDAddOnProps{}).Deploy(context.Background(), info)
	require.NoError(t, err)
	assert.Equal(t, "HelmChart/flux-system/blueprints-fluxcd-addon", h.ID())

	assert.Equal(t, 3, info.Plan.Len())
	assert.ElementsMatch(t, []string{
		"HelmChart/flux-system/blueprints-fluxcd-addon -> Namespace/flux-system",
		"GitRepository/flux-system/samplerepo -> HelmChart/flux-system/blueprints-fluxcd-addon",
	}, edgeIDs(info.Plan))

	applier := &recordingApplier{}
	require.NoError(t, info.Plan.Execute(context.Background(), applier))
	assert.Equal(t, []string{
		"Namespace/flux-system",
		"ConfigMap/blueprints-fluxcd-addon",
		"GitRepository/samplerepo",
	}, applier.names())

	git, ok := applier.find("GitRepository", "samplerepo")
	require.True(t, ok)
	assert.Equal(t, "source.toolkit.fluxcd.io/v1", git.doc["apiVersion"])
	branch, _, _ := unstructured.NestedString(git.doc, "spec", "ref", "branch")
	assert.Equal(t, "master", branch)
	interval, _, _ := unstructured.NestedString(git.doc, "spec", "interval")
	assert.Equal(t, "5m0s", interval)
	lbls, _, _ := unstructured.NestedStringMap(git.doc, "metadata", "labels")
	assert.Equal(t, "fluxcd-addon", lbls["blueprints.io/addon"])

	ns, ok := applier.find("Namespace", "flux-system")
	require.True(t, ok)
	nsLabels, _, _ := unstructured.NestedStringMap(ns.doc, "metadata", "labels")
	assert.Equal(t, "demo", nsLabels["blueprints.io/cluster"])
}

func TestFluxCDAddOn_Deploy_ExistingNamespace(t *testing.T) {
	t.Parallel()
	info := newTestInfo()
	createNamespace := false

	_, err := NewFluxCDAddOn(FluxCDAddOnProps{CreateNamespace: &createNamespace}).Deploy(context.Background(), info)
	require.NoError(t, err)

	assert.Equal(t, 2, info.Plan.Len())
	assert.Equal(t, []string{
		"GitRepository/flux-system/samplerepo -> HelmChart/flux-system/blueprints-fluxcd-addon",
	}, edgeIDs(info.Plan))

	order, err := info.Plan.Order()
	require.NoError(t, err)
	for _, h := range order {
		assert.NotEqual(t, KindNamespace, h.Kind())
	}
}

func TestFluxCDAddOn_Deploy_ChartValues(t *testing.T) {
	t.Parallel()
	info := newTestInfo()

	var gotSpec helm.ChartSpec
	var gotRelease, gotNamespace string
	var gotValues helm.Values
	info.RenderChart = func(_ context.Context, spec helm.ChartSpec, release, namespace, _ string, values helm.Values) ([]byte, error) {
		gotSpec, gotRelease, gotNamespace, gotValues = spec, release, namespace, values
		return []byte("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: flux\n"), nil
	}

	f := NewFluxCDAddOn(FluxCDAddOnProps{
		HelmAddOnProps: HelmAddOnProps{
			Repository: "oci://ghcr.io/fluxcd-community/charts",
			Values:     helm.Values{"imageAutomationController": helm.Values{"create": false}},
		},
	})
	_, err := f.Deploy(context.Background(), info)
	require.NoError(t, err)
	require.NoError(t, info.Plan.Execute(context.Background(), &recordingApplier{}))

	assert.Equal(t, helm.ChartSpec{Repository: "oci://ghcr.io/fluxcd-community/charts", Name: "flux2", Version: "2.7.0"}, gotSpec)
	assert.Equal(t, "blueprints-fluxcd-addon", gotRelease)
	assert.Equal(t, "flux-system", gotNamespace)
	assert.Equal(t, helm.Values{"imageAutomationController": helm.Values{"create": false}}, gotValues)
}
