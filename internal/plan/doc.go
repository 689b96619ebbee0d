// Package plan records cluster resources and the order they must be applied in.
//
// Add-ons register resources with [Plan.Add] and receive an opaque [Handle].
// [Plan.DeclareDependency] records that one handle must be applied after
// another; edges that would close a cycle are rejected with a [CycleError]
// before anything reaches the cluster. [Plan.Execute] walks the graph level
// by level, applying independent resources concurrently and retrying
// transient API failures with exponential backoff.
package plan
