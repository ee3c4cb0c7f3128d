package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently and waits for all of them.
//
// With collectAll false the first error received is returned; with
// collectAll true every failure is joined into one error. Either way each
// failure is prefixed with its task name.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "repository owner/demo", Func: deleteRepo},
//	    {Name: "project demo", Func: deleteProject},
//	}
//	if err := RunParallel(ctx, tasks, true); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, collectAll bool) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	resultChan := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			resultChan <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var errs []error
	for range len(tasks) {
		res := <-resultChan
		if res.err == nil {
			continue
		}
		wrapped := fmt.Errorf("%s: %w", res.name, res.err)
		if !collectAll && len(errs) > 0 {
			continue
		}
		errs = append(errs, wrapped)
	}

	return errors.Join(errs...)
}
