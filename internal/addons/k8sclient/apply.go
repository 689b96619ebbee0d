package k8sclient

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// ApplyManifests applies multi-document YAML using Server-Side Apply.
// Each document in the YAML is parsed and applied separately, in order.
// Empty documents are skipped.
func (c *client) ApplyManifests(ctx context.Context, manifests []byte, opts ApplyOptions) error {
	if opts.FieldManager == "" {
		return fmt.Errorf("field manager is required for server-side apply")
	}

	logger := log.FromContext(ctx)
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	docIndex := 0
	for {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		if len(obj.Object) == 0 {
			docIndex++
			continue
		}

		if err := c.applyObject(ctx, &obj, opts); err != nil {
			return &ApplyError{
				Kind:      obj.GetKind(),
				Namespace: obj.GetNamespace(),
				Name:      obj.GetName(),
				Err:       err,
			}
		}
		logger.V(1).Info("applied object", "kind", obj.GetKind(), "namespace", obj.GetNamespace(), "name", obj.GetName())

		docIndex++
	}

	return nil
}

// applyObject applies a single unstructured object using Server-Side Apply.
// Namespaced objects without a namespace get opts.Namespace.
func (c *client) applyObject(ctx context.Context, obj *unstructured.Unstructured, opts ApplyOptions) error {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return fmt.Errorf("object has no kind set")
	}
	if obj.GetName() == "" {
		return fmt.Errorf("object has no name set")
	}

	mapping, err := c.mapping(ctx, obj)
	if err != nil {
		return err
	}

	resourceInterface := c.dynamicClient.Resource(mapping.Resource)
	namespaced := mapping.Scope.Name() == meta.RESTScopeNameNamespace
	if namespaced && obj.GetNamespace() == "" {
		namespace := opts.Namespace
		if namespace == "" {
			namespace = "default"
		}
		obj.SetNamespace(namespace)
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	patchOpts := metav1.PatchOptions{
		FieldManager: opts.FieldManager,
	}
	if opts.Force {
		force := true
		patchOpts.Force = &force
	}

	if namespaced {
		_, err = resourceInterface.Namespace(obj.GetNamespace()).Patch(ctx, obj.GetName(), types.ApplyPatchType, data, patchOpts)
	} else {
		_, err = resourceInterface.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, patchOpts)
	}
	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}

	return nil
}

// mapping resolves the REST mapping for obj, refreshing discovery once when
// the kind is unknown.
func (c *client) mapping(ctx context.Context, obj *unstructured.Unstructured) (*meta.RESTMapping, error) {
	gvk := obj.GroupVersionKind()

	mapping, err := c.restMapper().RESTMapping(gvk.GroupKind(), gvk.Version)
	if err == nil {
		return mapping, nil
	}
	if !meta.IsNoMatchError(err) || c.newMapper == nil {
		return nil, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	log.FromContext(ctx).V(1).Info("kind not in discovery cache, refreshing", "gvk", gvk.String())
	if refreshErr := c.RefreshDiscovery(ctx); refreshErr != nil {
		return nil, refreshErr
	}

	mapping, err = c.restMapper().RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}
	return mapping, nil
}
