package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todolist/internal/controller"
	"todolist/internal/exitcode"
)

// errTaskNotFound is returned by findTask for an id matching no task.
var errTaskNotFound = errors.New("task not found")

// resolveTask loads the collection, applies filter, and resolves ref.
// On failure it reports to errOut and returns a non-zero exit code.
func resolveTask(ctx context.Context, ctrl *controller.Controller, filter controller.Filter, ref TaskRef, errOut io.Writer) (controller.Task, int) {
	if err := ctrl.Load(ctx); err != nil {
		// Already reported by the notifier.
		return controller.Task{}, exitCodeFor(err)
	}
	ctrl.SetFilter(filter)

	task, err := findTask(ctrl, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return controller.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

// findTask resolves a reference. Numbers index the visible tasks;
// ids match any loaded task.
func findTask(ctrl *controller.Controller, ref TaskRef) (controller.Task, error) {
	if ref.ID != "" {
		task, ok := ctrl.Find(ref.ID)
		if !ok {
			return controller.Task{}, fmt.Errorf("%w: %s", errTaskNotFound, ref.ID)
		}
		return task, nil
	}

	visible := ctrl.Visible()
	if ref.Num < 1 || ref.Num > len(visible) {
		return controller.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return visible[ref.Num-1], nil
}

// parseFilterFlag validates the --filter flag. Empty means all.
func parseFilterFlag(s string) (controller.Filter, error) {
	if s == "" {
		return controller.FilterAll, nil
	}
	return controller.ParseFilter(s)
}
