// Package async runs named tasks concurrently and reports the first failure.
//
// The plan executor uses [RunParallel] to apply every resource of one
// dependency level at the same time.
package async
