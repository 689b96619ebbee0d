package async

import (
	"context"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently and waits for all of them.
// At most limit tasks run at once; limit <= 0 means no limit.
// If any task fails, the error of the first task to fail is returned
// after every task has finished.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "Namespace/flux-system", Func: applyNamespace},
//	    {Name: "HelmChart/opentelemetry-operator", Func: applyChart},
//	}
//	if err := RunParallel(ctx, tasks, 0); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	if limit <= 0 || limit > len(tasks) {
		limit = len(tasks)
	}
	sem := make(chan struct{}, limit)
	resultChan := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			resultChan <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstError error
	for range len(tasks) {
		res := <-resultChan
		if res.err != nil && firstError == nil {
			firstError = fmt.Errorf("failed to apply %s: %w", res.name, res.err)
		}
	}

	return firstError
}
