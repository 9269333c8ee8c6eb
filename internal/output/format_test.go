package output_test

import (
	"bytes"
	"testing"

	"todolist/internal/controller"
	"todolist/internal/output"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task controller.Task
		want string
	}{
		{"pending", 1, controller.Task{Text: "Buy milk"}, "   1  [ ] Buy milk\n"},
		{"completed", 12, controller.Task{Text: "Walk dog", Completed: true}, "  12  [x] Walk dog\n"},
		{"empty", 3, controller.Task{Text: "  "}, "   3  [ ] (untitled)\n"},
		{"newlines", 4, controller.Task{Text: "a\nb\r\nc"}, "   4  [ ] a b  c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatTask(&buf, tt.num, tt.task)
			if got := buf.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatHeader(t *testing.T) {
	var buf bytes.Buffer
	output.FormatHeader(&buf, controller.FilterPending, 2, 5)

	want := "------------\nPending (2 of 5)\n------------\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatList_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatList(&buf, nil)

	if got := buf.String(); got != "No tasks yet. Add one!\n" {
		t.Errorf("unexpected output %q", got)
	}
}
