// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

const (
	// NoTasks is printed in place of rows when a page is empty.
	NoTasks = "No tasks found"

	// Separator frames the task table.
	Separator = "------------"
)

// FormatTask formats one task row.
// Format: "{N:>4}  {TITLE} [{STATUS}] p{PRIORITY}\n" followed by the
// description indented by six spaces when it is not blank.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s [%s] p%d\n", num, normalizeText(task.Title), task.Status, task.Priority)
	if desc := normalizeText(task.Description); desc != untitled {
		fmt.Fprintf(w, "      %s\n", desc)
	}
}

// FormatPage formats a page of tasks, numbering from first.
func FormatPage(w io.Writer, first int, tasks []service.Task) {
	fmt.Fprintln(w, Separator)
	if len(tasks) == 0 {
		fmt.Fprintln(w, NoTasks)
	}
	for i, task := range tasks {
		FormatTask(w, first+i, task)
	}
	fmt.Fprintln(w, Separator)
}

// FormatFooter formats the page indicator.
func FormatFooter(w io.Writer, page, pages int) {
	fmt.Fprintf(w, "Page %d of %d\n", page, pages)
}

// FormatControls formats the pager controls; disabled ones are bracketed
// with dashes instead of their key.
func FormatControls(w io.Writer, canPrev, canNext bool) {
	prev := "[p] Previous"
	if !canPrev {
		prev = "[-] Previous"
	}
	next := "[n] Next"
	if !canNext {
		next = "[-] Next"
	}
	fmt.Fprintf(w, "%s  %s  [r] Reload  [q] Quit\n", prev, next)
}

const untitled = "(untitled)"

// normalizeText normalizes a title or description for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	if strings.TrimSpace(s) == "" {
		return untitled
	}
	return s
}
