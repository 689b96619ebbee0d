// Package k8sclient applies rendered add-on manifests to a cluster.
//
// It wraps k8s.io/client-go: every document of a multi-document YAML stream
// is decoded into an unstructured object, mapped to its REST resource via
// API discovery and submitted with Server-Side Apply. Kinds unknown to the
// cached discovery data trigger one discovery refresh, so objects whose CRD
// was installed earlier in the same run can be applied.
package k8sclient
