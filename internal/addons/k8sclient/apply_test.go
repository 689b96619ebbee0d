package k8sclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"
	k8stesting "k8s.io/client-go/testing"
)

// patchRecord captures one server-side apply request seen by the fake dynamic client.
type patchRecord struct {
	resource  string
	namespace string
	name      string
	patchType types.PatchType
}

type patchRecorder struct {
	mu      sync.Mutex
	patches []patchRecord
	failOn  map[string]error
}

func (r *patchRecorder) react(action k8stesting.Action) (bool, runtime.Object, error) {
	patch := action.(k8stesting.PatchAction)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failOn[patch.GetName()]; ok {
		return true, nil, err
	}
	r.patches = append(r.patches, patchRecord{
		resource:  patch.GetResource().Resource,
		namespace: patch.GetNamespace(),
		name:      patch.GetName(),
		patchType: patch.GetPatchType(),
	})

	obj := &unstructured.Unstructured{}
	obj.SetName(patch.GetName())
	obj.SetNamespace(patch.GetNamespace())
	return true, obj, nil
}

func setupApplyTestClient(t *testing.T, mapper meta.RESTMapper) (*client, *patchRecorder) {
	t.Helper()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset()
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	dynamicClient := dynamicfake.NewSimpleDynamicClient(scheme)

	recorder := &patchRecorder{failOn: map[string]error{}}
	dynamicClient.PrependReactor("patch", "*", recorder.react)

	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}, recorder
}

// createApplyTestMapper creates a REST mapper for testing.
func createApplyTestMapper(extra ...*restmapper.APIGroupResources) meta.RESTMapper {
	resources := []*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Name: "",
				Versions: []metav1.GroupVersionForDiscovery{
					{GroupVersion: "v1", Version: "v1"},
				},
				PreferredVersion: metav1.GroupVersionForDiscovery{
					GroupVersion: "v1",
					Version:      "v1",
				},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "configmaps", Namespaced: true, Kind: "ConfigMap"},
					{Name: "serviceaccounts", Namespaced: true, Kind: "ServiceAccount"},
					{Name: "namespaces", Namespaced: false, Kind: "Namespace"},
				},
			},
		},
	}
	return restmapper.NewDiscoveryRESTMapper(append(resources, extra...))
}

func fluxSourceGroup() *restmapper.APIGroupResources {
	return &restmapper.APIGroupResources{
		Group: metav1.APIGroup{
			Name: "source.toolkit.fluxcd.io",
			Versions: []metav1.GroupVersionForDiscovery{
				{GroupVersion: "source.toolkit.fluxcd.io/v1", Version: "v1"},
			},
			PreferredVersion: metav1.GroupVersionForDiscovery{
				GroupVersion: "source.toolkit.fluxcd.io/v1",
				Version:      "v1",
			},
		},
		VersionedResources: map[string][]metav1.APIResource{
			"v1": {
				{Name: "gitrepositories", Namespaced: true, Kind: "GitRepository"},
			},
		},
	}
}

var testOpts = ApplyOptions{FieldManager: "blueprints-test"}

func TestApplyManifests_EmptyManifest(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t, createApplyTestMapper())

	require.NoError(t, c.ApplyManifests(context.Background(), []byte(``), testOpts))
	require.NoError(t, c.ApplyManifests(context.Background(), []byte("---\n---\n---\n"), testOpts))
	assert.Empty(t, rec.patches)
}

func TestApplyManifests_RequiresFieldManager(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t, createApplyTestMapper())

	err := c.ApplyManifests(context.Background(), []byte("kind: ConfigMap\n"), ApplyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field manager")
}

func TestApplyManifests_InvalidYAML(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t, createApplyTestMapper())

	err := c.ApplyManifests(context.Background(), []byte(`{invalid yaml: [`), testOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode manifest")
}

func TestApplyManifests_NoKindInDocument(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t, createApplyTestMapper())

	err := c.ApplyManifests(context.Background(), []byte("apiVersion: v1\nmetadata:\n  name: test\n"), testOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kind")
}

func TestApplyManifests_MultiDocumentInOrder(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t, createApplyTestMapper())

	manifests := []byte(`apiVersion: v1
kind: Namespace
metadata:
  name: observability
---
apiVersion: v1
kind: ServiceAccount
metadata:
  name: adot-collector
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: collector-config
  namespace: explicit
`)

	err := c.ApplyManifests(context.Background(), manifests, ApplyOptions{FieldManager: "m", Namespace: "observability"})
	require.NoError(t, err)

	require.Len(t, rec.patches, 3)
	assert.Equal(t, patchRecord{"namespaces", "", "observability", types.ApplyPatchType}, rec.patches[0])
	assert.Equal(t, patchRecord{"serviceaccounts", "observability", "adot-collector", types.ApplyPatchType}, rec.patches[1])
	assert.Equal(t, patchRecord{"configmaps", "explicit", "collector-config", types.ApplyPatchType}, rec.patches[2])
}

func TestApplyManifests_DefaultNamespace(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t, createApplyTestMapper())

	err := c.ApplyManifests(context.Background(), []byte("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cm\n"), testOpts)
	require.NoError(t, err)

	require.Len(t, rec.patches, 1)
	assert.Equal(t, "default", rec.patches[0].namespace)
}

func TestApplyManifests_RejectionStopsWithoutRollback(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t, createApplyTestMapper())
	rec.failOn["second"] = apierrors.NewForbidden(schema.GroupResource{Resource: "configmaps"}, "second", errors.New("denied"))

	manifests := []byte(`apiVersion: v1
kind: ConfigMap
metadata:
  name: first
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: second
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: third
`)

	err := c.ApplyManifests(context.Background(), manifests, testOpts)
	require.Error(t, err)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, "ConfigMap", applyErr.Kind)
	assert.Equal(t, "second", applyErr.Name)
	assert.Equal(t, "default", applyErr.Namespace)
	assert.True(t, apierrors.IsForbidden(err))
	assert.Contains(t, err.Error(), "failed to apply ConfigMap default/second")

	require.Len(t, rec.patches, 1)
	assert.Equal(t, "first", rec.patches[0].name)
}

func TestApplyObject_Validation(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t, createApplyTestMapper())

	tests := []struct {
		name    string
		obj     map[string]any
		wantErr string
	}{
		{
			name:    "no kind",
			obj:     map[string]any{"apiVersion": "v1", "metadata": map[string]any{"name": "x"}},
			wantErr: "no kind",
		},
		{
			name:    "no name",
			obj:     map[string]any{"apiVersion": "v1", "kind": "ConfigMap"},
			wantErr: "no name",
		},
		{
			name:    "unknown kind",
			obj:     map[string]any{"apiVersion": "example.com/v1", "kind": "Widget", "metadata": map[string]any{"name": "x"}},
			wantErr: "failed to get REST mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.applyObject(context.Background(), &unstructured.Unstructured{Object: tt.obj}, testOpts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyObject_RefreshesDiscoveryOnNoMatch(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t, createApplyTestMapper())
	refreshes := 0
	c.newMapper = func() (meta.RESTMapper, error) {
		refreshes++
		return createApplyTestMapper(fluxSourceGroup()), nil
	}

	manifests := []byte(`apiVersion: source.toolkit.fluxcd.io/v1
kind: GitRepository
metadata:
  name: samplerepo
  namespace: flux-system
spec:
  interval: 5m0s
  url: https://github.com/aws-samples/eks-blueprints-workloads.git
`)

	require.NoError(t, c.ApplyManifests(context.Background(), manifests, testOpts))
	assert.Equal(t, 1, refreshes)
	require.Len(t, rec.patches, 1)
	assert.Equal(t, "gitrepositories", rec.patches[0].resource)

	require.NoError(t, c.ApplyManifests(context.Background(), manifests, testOpts))
	assert.Equal(t, 1, refreshes, "mapper is cached after refresh")
}

func TestApplyObject_StillUnknownAfterRefresh(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t, createApplyTestMapper())
	c.newMapper = func() (meta.RESTMapper, error) {
		return createApplyTestMapper(), nil
	}

	err := c.ApplyManifests(context.Background(), []byte("apiVersion: source.toolkit.fluxcd.io/v1\nkind: GitRepository\nmetadata:\n  name: x\n"), testOpts)
	require.Error(t, err)
	assert.True(t, meta.IsNoMatchError(err))
}
