package k8sclient

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// ApplyOptions controls a Server-Side Apply call.
type ApplyOptions struct {
	// FieldManager identifies the actor applying the configuration.
	FieldManager string
	// Namespace is used for namespaced objects that do not set one.
	// Defaults to "default".
	Namespace string
	// Force takes ownership of fields owned by other managers.
	Force bool
}

// Client provides the Kubernetes operations used during add-on provisioning.
type Client interface {
	// ApplyManifests applies multi-document YAML using Server-Side Apply.
	// The first rejected object is returned as an *ApplyError.
	ApplyManifests(ctx context.Context, manifests []byte, opts ApplyOptions) error

	// RefreshDiscovery rebuilds the REST mapper to pick up newly installed CRDs.
	RefreshDiscovery(ctx context.Context) error

	// EnsureNamespace creates the namespace if it does not exist yet.
	EnsureNamespace(ctx context.Context, name string, labels map[string]string) error

	// ServerVersion returns the cluster's Kubernetes version, e.g. "v1.31.2".
	ServerVersion(ctx context.Context) (string, error)
}

// mapperFactory builds a fresh REST mapper from API discovery.
type mapperFactory func() (meta.RESTMapper, error)

// client implements the Client interface using k8s.io/client-go.
type client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface

	mu        sync.RWMutex
	mapper    meta.RESTMapper
	newMapper mapperFactory
}

// NewFromKubeconfig creates a Client from kubeconfig bytes.
func NewFromKubeconfig(kubeconfig []byte) (Client, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}
	return NewFromRESTConfig(restConfig)
}

// NewFromKubeconfigPath creates a Client from a kubeconfig file. An empty
// path uses the default loading rules (KUBECONFIG, then ~/.kube/config); an
// empty contextName uses the current context.
func NewFromKubeconfigPath(path, contextName string) (Client, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return NewFromRESTConfig(restConfig)
}

// NewFromRESTConfig creates a Client from a REST config.
func NewFromRESTConfig(restConfig *rest.Config) (Client, error) {
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	newMapper := func() (meta.RESTMapper, error) {
		groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
		if err != nil {
			return nil, fmt.Errorf("failed to get API group resources: %w", err)
		}
		return restmapper.NewDiscoveryRESTMapper(groupResources), nil
	}

	mapper, err := newMapper()
	if err != nil {
		return nil, err
	}

	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
		newMapper:     newMapper,
	}, nil
}

// NewFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients; discovery refresh is a no-op.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
) Client {
	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

// RefreshDiscovery refreshes the API discovery to pick up newly installed CRDs.
func (c *client) RefreshDiscovery(_ context.Context) error {
	if c.newMapper == nil {
		return nil
	}

	mapper, err := c.newMapper()
	if err != nil {
		return fmt.Errorf("failed to refresh discovery: %w", err)
	}

	c.mu.Lock()
	c.mapper = mapper
	c.mu.Unlock()
	return nil
}

// ServerVersion returns the cluster's git version string.
func (c *client) ServerVersion(_ context.Context) (string, error) {
	info, err := c.clientset.Discovery().ServerVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get server version: %w", err)
	}
	return info.GitVersion, nil
}

func (c *client) restMapper() meta.RESTMapper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapper
}
