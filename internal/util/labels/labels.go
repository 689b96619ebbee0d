package labels

// Label keys stamped on applied objects.
const (
	// KeyCluster identifies which cluster the object was provisioned for.
	KeyCluster = "blueprints.io/cluster"

	// KeyAddOn identifies the add-on that owns the object.
	KeyAddOn = "blueprints.io/addon"

	// KeyManagedBy is the well-known Kubernetes managed-by key.
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// ManagedByBlueprints is the value of KeyManagedBy for objects we apply.
const ManagedByBlueprints = "blueprints"

// LabelBuilder provides a fluent interface for building object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a builder with the cluster and managed-by labels set.
// An empty cluster name omits the cluster label.
func NewLabelBuilder(clusterName string) *LabelBuilder {
	lb := &LabelBuilder{
		labels: map[string]string{
			KeyManagedBy: ManagedByBlueprints,
		},
	}
	if clusterName != "" {
		lb.labels[KeyCluster] = clusterName
	}
	return lb
}

// WithAddOn sets the owning add-on label.
func (lb *LabelBuilder) WithAddOn(name string) *LabelBuilder {
	if name != "" {
		lb.labels[KeyAddOn] = name
	}
	return lb
}

// Merge adds all labels from the provided map, overriding existing keys.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Apply merges the built labels into existing without overriding keys the
// object already carries. A nil map is allocated.
func (lb *LabelBuilder) Apply(existing map[string]string) map[string]string {
	if existing == nil {
		existing = make(map[string]string, len(lb.labels))
	}
	for k, v := range lb.labels {
		if _, ok := existing[k]; !ok {
			existing[k] = v
		}
	}
	return existing
}

// SelectorForAddOn returns a label selector for all objects of one add-on in a cluster.
func SelectorForAddOn(clusterName, addOn string) string {
	return KeyCluster + "=" + clusterName + "," + KeyAddOn + "=" + addOn
}
