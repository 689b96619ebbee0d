package addons

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/manifest"
	"github.com/imamik/blueprints/internal/plan"
)

// newTestInfo returns a ClusterInfo whose charts render to a single
// ConfigMap named after the release.
func newTestInfo() *ClusterInfo {
	info := NewClusterInfo("demo", "us-west-2")
	info.RenderChart = func(_ context.Context, spec helm.ChartSpec, release, namespace, _ string, _ helm.Values) ([]byte, error) {
		return []byte(fmt.Sprintf("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: %s\n  namespace: %s\ndata:\n  chart: %s\n", release, namespace, spec.Name)), nil
	}
	return info
}

// appliedObject is one object seen by recordingApplier.
type appliedObject struct {
	kind      string
	name      string
	namespace string
	doc       manifest.Document
}

// recordingApplier records applied objects in order.
type recordingApplier struct {
	mu      sync.Mutex
	objects []appliedObject
	calls   int
}

func (r *recordingApplier) ApplyManifests(_ context.Context, manifests []byte, opts k8sclient.ApplyOptions) error {
	docs, err := manifest.Parse(manifests)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, d := range docs {
		ns := d.Namespace()
		if ns == "" {
			ns = opts.Namespace
		}
		r.objects = append(r.objects, appliedObject{kind: d.Kind(), name: d.Name(), namespace: ns, doc: d})
	}
	return nil
}

func (r *recordingApplier) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.objects))
	for _, o := range r.objects {
		names = append(names, o.kind+"/"+o.name)
	}
	return names
}

func (r *recordingApplier) find(kind, name string) (appliedObject, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.objects {
		if o.kind == kind && o.name == name {
			return o, true
		}
	}
	return appliedObject{}, false
}

// edgeIDs lists plan edges as "dependent -> dependency".
func edgeIDs(p *plan.Plan) []string {
	var ids []string
	for _, e := range p.Edges() {
		ids = append(ids, e.Dependent.ID()+" -> "+e.Dependency.ID())
	}
	return ids
}

// stubAddOn is a configurable add-on for provisioning tests.
type stubAddOn struct {
	name    string
	deps    []string
	deploy  func(ctx context.Context, info *ClusterInfo) (*plan.Handle, error)
	deploys int
}

func (s *stubAddOn) Name() string        { return s.name }
func (s *stubAddOn) DependsOn() []string { return s.deps }

func (s *stubAddOn) Deploy(ctx context.Context, info *ClusterInfo) (*plan.Handle, error) {
	s.deploys++
	if s.deploy != nil {
		return s.deploy(ctx, info)
	}
	docs, err := manifest.Parse([]byte(fmt.Sprintf("apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: %s\n", s.name)))
	if err != nil {
		return nil, err
	}
	return info.Plan.Add(NewManifestDeployment(info, s.name, s.name, "default", docs, nil))
}
