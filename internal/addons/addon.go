package addons

import (
	"context"
	"io/fs"
	"sync"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/manifest"
	"github.com/imamik/blueprints/internal/plan"
)

// ClusterAddOn provisions one capability onto a cluster.
type ClusterAddOn interface {
	// Name returns the unique name of the add-on.
	Name() string

	// Deploy registers the add-on's resources on info.Plan and returns the
	// handle dependents should order after. It is called once per run.
	Deploy(ctx context.Context, info *ClusterInfo) (*plan.Handle, error)
}

// Dependent is implemented by add-ons that require other add-ons to be
// deployed first.
type Dependent interface {
	DependsOn() []string
}

// ChartRenderFunc renders a Helm chart to multi-document YAML.
type ChartRenderFunc func(ctx context.Context, spec helm.ChartSpec, release, namespace, kubeVersion string, values helm.Values) ([]byte, error)

// ClusterInfo carries the cluster facts and the plan shared by all add-ons
// of one provisioning run.
type ClusterInfo struct {
	ClusterName string
	Region      string
	// KubeVersion is used for chart capabilities. Empty uses helm.DefaultKubeVersion.
	KubeVersion string

	Plan   *plan.Plan
	Loader *manifest.Loader

	// RenderChart defaults to helm.RenderFromSpec.
	RenderChart ChartRenderFunc

	mu          sync.Mutex
	provisioned map[string]*plan.Handle
}

// NewClusterInfo creates a ClusterInfo with an empty plan and a loader over
// the built-in templates.
func NewClusterInfo(clusterName, region string, opts ...manifest.LoaderOption) *ClusterInfo {
	return &ClusterInfo{
		ClusterName: clusterName,
		Region:      region,
		Plan:        plan.New(),
		Loader:      manifest.NewLoader(Templates(), opts...),
		RenderChart: helm.RenderFromSpec,
	}
}

// AddProvisionedAddOn records the handle returned by an add-on.
func (c *ClusterInfo) AddProvisionedAddOn(name string, h *plan.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provisioned == nil {
		c.provisioned = make(map[string]*plan.Handle)
	}
	c.provisioned[name] = h
}

// GetProvisionedAddOn returns the handle of an already deployed add-on.
func (c *ClusterInfo) GetProvisionedAddOn(name string) (*plan.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.provisioned[name]
	return h, ok
}

func (c *ClusterInfo) chartRenderer() ChartRenderFunc {
	if c.RenderChart == nil {
		return helm.RenderFromSpec
	}
	return c.RenderChart
}

// Templates returns the built-in manifest templates, rooted so that
// references look like "amp/collector-config-amp.ytpl".
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
