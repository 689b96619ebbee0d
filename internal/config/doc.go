// Package config defines the blueprints configuration file model.
//
// A [Config] names the target cluster, how to reach it, how plan execution
// retries, and which add-ons to provision with their options. It is read
// from YAML with [LoadFile], checked with [Config.Validate], and completed
// at deploy time by [ResolveClusterFacts], which fills the cluster name and
// AWS region from the kubeconfig and the AWS default configuration chain.
package config
