package addons

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/manifest"
	"github.com/imamik/blueprints/internal/util/labels"
)

// Resource kinds registered on plans by add-ons.
const (
	KindManifest  = "Manifest"
	KindNamespace = "Namespace"
	KindHelmChart = "HelmChart"
)

// ManifestDeployment is a set of template documents applied together after
// value substitution.
type ManifestDeployment struct {
	name      string
	namespace string
	documents []manifest.Document
	values    manifest.Values
	labels    *labels.LabelBuilder
}

// NewManifestDeployment creates a manifest resource. Every object receives
// the cluster, add-on and managed-by labels unless it already sets them.
func NewManifestDeployment(info *ClusterInfo, addOn, name, namespace string, docs []manifest.Document, values manifest.Values) *ManifestDeployment {
	return &ManifestDeployment{
		name:      name,
		namespace: namespace,
		documents: docs,
		values:    values,
		labels:    labels.NewLabelBuilder(info.ClusterName).WithAddOn(addOn),
	}
}

func (m *ManifestDeployment) Kind() string      { return KindManifest }
func (m *ManifestDeployment) Name() string      { return m.name }
func (m *ManifestDeployment) Namespace() string { return m.namespace }

// Render substitutes values into the documents and stamps labels.
func (m *ManifestDeployment) Render(_ context.Context) ([]byte, error) {
	docs, err := manifest.Substitute(m.documents, m.values)
	if err != nil {
		return nil, fmt.Errorf("failed to substitute values for %s: %w", m.name, err)
	}

	for _, doc := range docs {
		if err := stampLabels(doc, m.labels); err != nil {
			return nil, fmt.Errorf("failed to label %s %s: %w", doc.Kind(), doc.Name(), err)
		}
	}

	return manifest.Encode(docs)
}

func stampLabels(doc manifest.Document, lb *labels.LabelBuilder) error {
	obj := map[string]any(doc)
	existing, _, err := unstructured.NestedStringMap(obj, "metadata", "labels")
	if err != nil {
		return err
	}
	return unstructured.SetNestedStringMap(obj, lb.Apply(existing), "metadata", "labels")
}

// NamespaceResource creates a namespace.
type NamespaceResource struct {
	name   string
	labels map[string]string
}

// NewNamespaceResource creates a namespace resource labelled for the add-on.
func NewNamespaceResource(info *ClusterInfo, addOn, name string) *NamespaceResource {
	return &NamespaceResource{
		name:   name,
		labels: labels.NewLabelBuilder(info.ClusterName).WithAddOn(addOn).Build(),
	}
}

func (n *NamespaceResource) Kind() string      { return KindNamespace }
func (n *NamespaceResource) Name() string      { return n.name }
func (n *NamespaceResource) Namespace() string { return "" }

func (n *NamespaceResource) Render(_ context.Context) ([]byte, error) {
	return []byte(helm.NamespaceManifest(n.name, n.labels)), nil
}

// HelmChart is a Helm release rendered client-side at apply time.
type HelmChart struct {
	spec        helm.ChartSpec
	release     string
	namespace   string
	kubeVersion string
	values      helm.Values
	render      ChartRenderFunc
}

// NewHelmChart creates a chart resource using info's renderer and Kubernetes version.
func NewHelmChart(info *ClusterInfo, spec helm.ChartSpec, release, namespace string, values helm.Values) *HelmChart {
	return &HelmChart{
		spec:        spec,
		release:     release,
		namespace:   namespace,
		kubeVersion: info.KubeVersion,
		values:      values,
		render:      info.chartRenderer(),
	}
}

func (h *HelmChart) Kind() string      { return KindHelmChart }
func (h *HelmChart) Name() string      { return h.release }
func (h *HelmChart) Namespace() string { return h.namespace }

func (h *HelmChart) Render(ctx context.Context) ([]byte, error) {
	return h.render(ctx, h.spec, h.release, h.namespace, h.kubeVersion, h.values)
}

// ObjectResource applies a single object.
type ObjectResource struct {
	obj *unstructured.Unstructured
}

// NewObjectResource wraps obj, adding the add-on labels it does not carry yet.
func NewObjectResource(info *ClusterInfo, addOn string, obj *unstructured.Unstructured) *ObjectResource {
	obj = obj.DeepCopy()
	obj.SetLabels(labels.NewLabelBuilder(info.ClusterName).WithAddOn(addOn).Apply(obj.GetLabels()))
	return &ObjectResource{obj: obj}
}

func (o *ObjectResource) Kind() string      { return o.obj.GetKind() }
func (o *ObjectResource) Name() string      { return o.obj.GetName() }
func (o *ObjectResource) Namespace() string { return o.obj.GetNamespace() }

// Object returns a copy of the wrapped object.
func (o *ObjectResource) Object() *unstructured.Unstructured { return o.obj.DeepCopy() }

func (o *ObjectResource) Render(_ context.Context) ([]byte, error) {
	out, err := yaml.Marshal(o.obj.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s: %w", o.Kind(), o.Name(), err)
	}
	return out, nil
}
