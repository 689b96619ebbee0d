package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateResource is returned when a resource with the same kind,
	// namespace and name is added twice.
	ErrDuplicateResource = errors.New("resource already declared")

	// ErrUnknownHandle is returned for handles that do not belong to the plan.
	ErrUnknownHandle = errors.New("unknown resource handle")

	// ErrAlreadyExecuted is returned when Execute is called a second time.
	ErrAlreadyExecuted = errors.New("plan already executed")
)

// CycleError reports a dependency edge that would make the graph cyclic.
type CycleError struct {
	Dependent  string
	Dependency string
}

func (e *CycleError) Error() string {
	if e.Dependent == e.Dependency {
		return fmt.Sprintf("resource %s cannot depend on itself", e.Dependent)
	}
	return fmt.Sprintf("dependency %s -> %s would create a cycle", e.Dependent, e.Dependency)
}

// IsCycle reports whether err is or wraps a CycleError.
func IsCycle(err error) bool {
	var cycleErr *CycleError
	return errors.As(err, &cycleErr)
}
