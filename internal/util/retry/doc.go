// Package retry retries plan resource applies with exponential backoff.
//
// [WithExponentialBackoff] keeps calling an operation until it succeeds, the
// attempt budget runs out, or the context is cancelled. Errors wrapped with
// [Fatal] stop the loop immediately; the plan executor uses this to give up on
// objects the API server rejected for good.
package retry
