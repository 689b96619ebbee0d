package plan

import (
	"context"

	"github.com/imamik/blueprints/internal/addons/k8sclient"
)

// Resource is one unit of cluster state tracked by a plan.
type Resource interface {
	// Kind names the resource type, e.g. "Manifest" or "HelmChart".
	Kind() string
	Name() string
	// Namespace is the default namespace for namespaced objects without one.
	Namespace() string
	// Render produces the multi-document YAML to apply.
	Render(ctx context.Context) ([]byte, error)
}

// Applier submits rendered manifests to a cluster.
type Applier interface {
	ApplyManifests(ctx context.Context, manifests []byte, opts k8sclient.ApplyOptions) error
}

// Handle is an opaque reference to a resource in a plan, used only to
// declare ordering.
type Handle struct {
	id        string
	kind      string
	name      string
	namespace string
}

// ID returns the unique key of the resource ("Kind/namespace/name").
func (h *Handle) ID() string { return h.id }

// Kind returns the resource kind.
func (h *Handle) Kind() string { return h.kind }

// Name returns the resource name.
func (h *Handle) Name() string { return h.name }

// Namespace returns the resource namespace.
func (h *Handle) Namespace() string { return h.namespace }

func (h *Handle) String() string { return h.id }

func resourceID(r Resource) string {
	if r.Namespace() == "" {
		return r.Kind() + "/" + r.Name()
	}
	return r.Kind() + "/" + r.Namespace() + "/" + r.Name()
}
