package output

import (
	"bytes"
	"testing"

	"todo/internal/service"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task service.Task
		want string
	}{
		{
			"with description",
			3,
			service.Task{Title: "Buy milk", Description: "2 litres", Priority: 1, Status: service.StatusPending},
			"   3  Buy milk [Pending] p1\n      2 litres\n",
		},
		{
			"blank description",
			12,
			service.Task{Title: "Call plumber", Description: " ", Priority: 3, Status: service.StatusCompleted},
			"  12  Call plumber [Completed] p3\n",
		},
		{
			"multiline",
			1,
			service.Task{Title: "a\nb", Description: "c\r\nd", Priority: 2, Status: service.StatusPending},
			"   1  a b [Pending] p2\n      c  d\n",
		},
		{
			"untitled",
			1,
			service.Task{Description: "x", Priority: 1, Status: service.StatusPending},
			"   1  (untitled) [Pending] p1\n      x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestFormatPage_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatPage(&buf, 1, nil)

	want := "------------\nNo tasks found\n------------\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatFooterAndControls(t *testing.T) {
	var buf bytes.Buffer
	FormatFooter(&buf, 2, 3)
	FormatControls(&buf, true, false)

	want := "Page 2 of 3\n[p] Previous  [-] Next  [r] Reload  [q] Quit\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
