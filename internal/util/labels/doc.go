// Package labels builds the ownership labels stamped on every object an
// add-on applies.
//
// Keys use the blueprints.io prefix next to the well-known
// app.kubernetes.io/managed-by key, so objects can be selected per cluster
// and per add-on.
package labels
