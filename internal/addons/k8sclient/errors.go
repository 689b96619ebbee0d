package k8sclient

import (
	"fmt"
)

// ApplyError reports an object the cluster refused to apply.
// Objects applied before it in the same call stay applied.
type ApplyError struct {
	Kind      string
	Namespace string
	Name      string
	Err       error
}

func (e *ApplyError) Error() string {
	if e.Namespace == "" {
		return fmt.Sprintf("failed to apply %s %s: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("failed to apply %s %s/%s: %v", e.Kind, e.Namespace, e.Name, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
