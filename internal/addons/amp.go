package addons

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/manifest"
	"github.com/imamik/blueprints/internal/plan"
)

// AmpAddOnName identifies the AMP add-on.
const AmpAddOnName = "amp"

const (
	ampDefaultTemplate   = "amp/collector-config-amp.ytpl"
	ampDaemonSetTemplate = "amp/collector-config-amp-daemonset.ytpl"

	// remoteWritePath is appended to the workspace endpoint.
	remoteWritePath = "api/v1/remote_write"
)

// AmpAddOnProps configures the AMP collector.
type AmpAddOnProps struct {
	// PrometheusEndpoint is the AMP workspace endpoint, e.g.
	// https://aps-workspaces.<region>.amazonaws.com/workspaces/<ws-id>/
	PrometheusEndpoint string
	// DeploymentMode is deployment (default), daemonset, statefulset or sidecar.
	DeploymentMode string
	// Namespace defaults to "default".
	Namespace string
	// Name defaults to "adot-collector-amp".
	Name string
	// Template replaces the built-in template for the mode. Accepts an
	// embedded name, a file path or an s3:// reference.
	Template string
}

var ampDefaultProps = AmpAddOnProps{
	DeploymentMode: "deployment",
	Name:           "adot-collector-amp",
	Namespace:      "default",
}

// AmpAddOn deploys an OpenTelemetry collector that scrapes cluster metrics
// and remote-writes them to an Amazon Managed Service for Prometheus workspace.
type AmpAddOn struct {
	props AmpAddOnProps
}

// NewAmpAddOn creates the add-on with empty props taking the defaults.
func NewAmpAddOn(props AmpAddOnProps) *AmpAddOn {
	merged := ampDefaultProps
	merged.PrometheusEndpoint = props.PrometheusEndpoint
	merged.Template = props.Template
	if props.DeploymentMode != "" {
		merged.DeploymentMode = props.DeploymentMode
	}
	if props.Namespace != "" {
		merged.Namespace = props.Namespace
	}
	if props.Name != "" {
		merged.Name = props.Name
	}
	return &AmpAddOn{props: merged}
}

func (a *AmpAddOn) Name() string { return AmpAddOnName }

// DependsOn requires the OpenTelemetry operator.
func (a *AmpAddOn) DependsOn() []string { return []string{AdotCollectorAddOnName} }

// Props returns the effective properties.
func (a *AmpAddOn) Props() AmpAddOnProps { return a.props }

// Deploy registers the collector manifests.
func (a *AmpAddOn) Deploy(ctx context.Context, info *ClusterInfo) (*plan.Handle, error) {
	if strings.TrimSpace(a.props.PrometheusEndpoint) == "" {
		return nil, &ConfigError{AddOn: AmpAddOnName, Field: "ampPrometheusEndpoint", Reason: "is required"}
	}
	if u, err := url.Parse(a.props.PrometheusEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ConfigError{AddOn: AmpAddOnName, Field: "ampPrometheusEndpoint", Reason: "must be an absolute URL"}
	}

	mode, err := ParseDeploymentMode(a.props.DeploymentMode)
	if err != nil {
		return nil, &ConfigError{AddOn: AmpAddOnName, Field: "deploymentMode", Reason: err.Error()}
	}
	if info.Region == "" {
		return nil, &ConfigError{AddOn: AmpAddOnName, Field: "region", Reason: "cluster region is required for remote write signing"}
	}

	ref := a.props.Template
	if ref == "" {
		ref = mode.Template()
	}
	log.FromContext(ctx).V(1).Info("loading collector template", "addon", AmpAddOnName, "template", ref, "mode", mode.String())

	docs, err := info.Loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load collector template: %w", err)
	}

	values := manifest.Values{
		"remoteWriteEndpoint": RemoteWriteURL(a.props.PrometheusEndpoint),
		"awsRegion":           info.Region,
		"deploymentMode":      mode.String(),
		"namespace":           a.props.Namespace,
		"clusterName":         info.ClusterName,
	}

	h, err := info.Plan.Add(NewManifestDeployment(info, AmpAddOnName, a.props.Name, a.props.Namespace, docs, values))
	if err != nil {
		return nil, err
	}
	if a.props.Namespace != "" && a.props.Namespace != "default" {
		if err := a.addNamespace(info, h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// addNamespace orders the collector after its namespace. A namespace another
// add-on already registered is reused.
func (a *AmpAddOn) addNamespace(info *ClusterInfo, collector *plan.Handle) error {
	res := NewNamespaceResource(info, AmpAddOnName, a.props.Namespace)
	ns, ok := info.Plan.Lookup(res)
	if !ok {
		var err error
		if ns, err = info.Plan.Add(res); err != nil {
			return fmt.Errorf("failed to add namespace %s: %w", a.props.Namespace, err)
		}
	}
	return info.Plan.DeclareDependency(collector, ns)
}

// RemoteWriteURL derives the remote-write URL from a workspace endpoint.
// A missing trailing slash is added and an endpoint that already ends with
// the remote-write path is returned unchanged.
func RemoteWriteURL(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if strings.HasSuffix(strings.TrimSuffix(endpoint, "/"), "/"+remoteWritePath) {
		return strings.TrimSuffix(endpoint, "/")
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return endpoint + remoteWritePath
}
