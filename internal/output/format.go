// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todolist/internal/controller"
)

const (
	// ListSeparator is the separator line for the list header.
	ListSeparator = "------------"

	// EmptyMessage is printed when no task is visible.
	EmptyMessage = "No tasks yet. Add one!"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces, checkbox, text)
func FormatTask(w io.Writer, num int, task controller.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), normalizeText(task.Text))
}

// FormatHeader formats the filter header with the visible and total counts.
func FormatHeader(w io.Writer, filter controller.Filter, visible, total int) {
	fmt.Fprintln(w, ListSeparator)
	if visible == total {
		fmt.Fprintf(w, "%s (%d)\n", filter.Label(), total)
	} else {
		fmt.Fprintf(w, "%s (%d of %d)\n", filter.Label(), visible, total)
	}
	fmt.Fprintln(w, ListSeparator)
}

// FormatList writes the visible tasks, numbered from 1, or EmptyMessage.
func FormatList(w io.Writer, tasks []controller.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyMessage)
		return
	}
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// FormatTaskRef formats a short task reference for confirmations, e.g. `"Buy milk"`.
func FormatTaskRef(task controller.Task) string {
	return fmt.Sprintf("%q", normalizeText(task.Text))
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// normalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
