// Package addons turns add-on configuration into a resource plan.
//
// Each [ClusterAddOn] registers the resources it needs (rendered manifests,
// Helm charts, namespaces and single objects) on the [ClusterInfo] plan and
// returns the handle other add-ons order themselves after. [Provision] deploys
// a set of add-ons in dependency order and declares the add-on level edges;
// nothing reaches the cluster until the plan is executed.
//
// Add-ons:
//   - [AdotCollectorAddOn]: OpenTelemetry operator Helm chart
//   - [AmpAddOn]: collector remote-writing to Amazon Managed Service for Prometheus
//   - [FluxCDAddOn]: Flux Helm chart plus a bootstrap GitRepository
package addons
