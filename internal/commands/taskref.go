package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based number in the listing, 0 if ID is set
	ID  string // raw task id, empty if Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// An all-digit argument is a 1-based number into the current listing.
// Anything else is taken as a task id. Extra arguments are an error.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		if num < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
		}
		return TaskRef{Num: num}, nil
	}

	if strings.ContainsFunc(arg, unicode.IsSpace) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{ID: arg}, nil
}

// String formats the reference as the user typed it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
