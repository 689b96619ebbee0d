package helm

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

// DefaultKubeVersion is used for chart capabilities when the cluster version
// is unknown.
const DefaultKubeVersion = "v1.31.0"

// Renderer renders Helm charts with provided values.
type Renderer struct {
	releaseName string
	namespace   string
	kubeVersion string
}

// NewRenderer creates a renderer for one release in a namespace.
// An empty kubeVersion falls back to DefaultKubeVersion.
func NewRenderer(releaseName, namespace, kubeVersion string) *Renderer {
	if kubeVersion == "" {
		kubeVersion = DefaultKubeVersion
	}
	return &Renderer{
		releaseName: releaseName,
		namespace:   namespace,
		kubeVersion: kubeVersion,
	}
}

// RenderFromSpec downloads a chart and renders it with the provided values.
func RenderFromSpec(ctx context.Context, spec ChartSpec, releaseName, namespace, kubeVersion string, values Values) ([]byte, error) {
	loadedChart, err := DownloadChart(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart: %w", err)
	}

	manifests, err := NewRenderer(releaseName, namespace, kubeVersion).Render(loadedChart, values)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart %s: %w", spec.Name, err)
	}

	return manifests, nil
}

// Render runs the Helm template engine over ch.
//
// Values are deep-merged over the chart's defaults. CRDs shipped in the
// chart's crds/ directory come first, followed by the rendered templates in
// file name order. NOTES.txt and empty templates are dropped.
func (r *Renderer) Render(ch *chart.Chart, values Values) ([]byte, error) {
	chartDefaults := Values(ch.Values)
	mergedValues := DeepMerge(chartDefaults, values)

	releaseOptions := chartutil.ReleaseOptions{
		Name:      r.releaseName,
		Namespace: r.namespace,
		Revision:  1,
		IsInstall: true,
	}

	capabilities, err := r.capabilities()
	if err != nil {
		return nil, err
	}

	valuesToRender, err := chartutil.ToRenderValues(ch, mergedValues.ToMap(), releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	rendered, err := engine.Engine{}.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	var combined bytes.Buffer
	for _, crd := range ch.CRDObjects() {
		appendDocument(&combined, string(crd.File.Data))
	}
	for _, name := range slices.Sorted(maps.Keys(rendered)) {
		if filepath.Base(name) == "NOTES.txt" {
			continue
		}
		appendDocument(&combined, rendered[name])
	}

	return combined.Bytes(), nil
}

func (r *Renderer) capabilities() (*chartutil.Capabilities, error) {
	kubeVersion, err := chartutil.ParseKubeVersion(r.kubeVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid kubernetes version %q: %w", r.kubeVersion, err)
	}

	capabilities := chartutil.DefaultCapabilities.Copy()
	capabilities.KubeVersion = *kubeVersion
	return capabilities, nil
}

func appendDocument(buf *bytes.Buffer, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return
	}
	if buf.Len() > 0 {
		buf.WriteString("---\n")
	}
	buf.WriteString(trimmed)
	buf.WriteString("\n")
}
