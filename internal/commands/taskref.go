package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"todo/internal/service"
	"todo/internal/tasklist"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a single task number from args.
// Task numbers are the 1-based positions printed by the list command.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	return parseTaskNum(args[0])
}

// ParseTaskRefs parses one or more task numbers. Duplicates are dropped,
// first occurrence wins.
func ParseTaskRefs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}

	seen := make(map[int]bool)
	var nums []int
	for _, arg := range args {
		num, err := parseTaskNum(arg)
		if err != nil {
			return nil, err
		}
		if seen[num] {
			continue
		}
		seen[num] = true
		nums = append(nums, num)
	}
	return nums, nil
}

func parseTaskNum(s string) (int, error) {
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid task reference: %s", s)
	}
	num, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", s)
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// errTaskOutOfRange is returned by resolveTasks for an unknown number.
type errTaskOutOfRange int

func (e errTaskOutOfRange) Error() string {
	return fmt.Sprintf("task number out of range: %d", int(e))
}

// resolveTasks maps task numbers to tasks in the loaded list. All numbers
// are resolved before anything is changed, since a reload renumbers tasks.
func resolveTasks(ctrl *tasklist.Controller, nums []int) ([]service.Task, error) {
	tasks := make([]service.Task, 0, len(nums))
	for _, num := range nums {
		task, ok := ctrl.TaskAt(num)
		if !ok {
			return nil, errTaskOutOfRange(num)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
