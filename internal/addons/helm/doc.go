// Package helm renders Helm charts into plain Kubernetes manifests.
//
// It includes a chart registry mapping add-on names to chart coordinates,
// a downloader that fetches chart archives from their repositories at
// runtime, and a renderer that merges user values over chart defaults and
// runs the Helm template engine. Rendered output, CRDs included, is applied
// with Server-Side Apply by the plan executor rather than through Helm
// releases.
package helm
