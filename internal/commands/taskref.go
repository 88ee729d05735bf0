package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"ltask/internal/exitcode"
	"ltask/internal/service"
)

// MinIDPrefix is the shortest id prefix accepted as a task reference.
const MinIDPrefix = 4

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num    int    // 1-based position in the collection, 0 for a plain id prefix
	Prefix string // id prefix, also set for numbers of at least MinIDPrefix digits
}

// String returns the reference as the user typed it.
func (r TaskRef) String() string {
	if r.Prefix != "" {
		return r.Prefix
	}
	return strconv.Itoa(r.Num)
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskNotFound indicates no task matches the reference.
	ErrTaskNotFound = errors.New("task not found")

	// ErrOutOfRange indicates a position beyond the collection.
	ErrOutOfRange = errors.New("task number out of range")

	// ErrAmbiguousRef indicates an id prefix matching several tasks.
	ErrAmbiguousRef = errors.New("ambiguous task reference")
)

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. No args → ErrTaskRefRequired
// 2. All digits → position in the full collection (e.g. 3). Numbers of at
//    least MinIDPrefix digits also carry an id prefix, used when the
//    position is out of range (e.g. 1234 matches id 1234abcd-...)
// 3. At least MinIDPrefix id characters → id prefix (e.g. 9f1c)
// 4. Otherwise → error: invalid task reference: <ref>
//
// Extra args after the reference are rejected.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])

	if isAllDigits(arg) {
		var ref TaskRef
		if len(arg) >= MinIDPrefix {
			ref.Prefix = arg
		}
		num, err := strconv.Atoi(arg)
		if err == nil {
			ref.Num = num
		} else if ref.Prefix == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return ref, nil
	}

	if len(arg) >= MinIDPrefix && isIDChars(arg) {
		return TaskRef{Prefix: strings.ToLower(arg)}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[0])
}

// ResolveTask finds the task a reference points to.
func ResolveTask(svc service.Service, ref TaskRef) (service.Task, error) {
	all := svc.All()

	if ref.Num >= 1 && ref.Num <= len(all) {
		return all[ref.Num-1], nil
	}
	if ref.Prefix == "" {
		return service.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, ref.Num)
	}
	numeric := isAllDigits(ref.Prefix)

	var matches []service.Task
	for _, t := range all {
		if strings.HasPrefix(strings.ToLower(t.ID), ref.Prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		if numeric {
			return service.Task{}, fmt.Errorf("%w: %s", ErrOutOfRange, ref.Prefix)
		}
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref.Prefix)
	case 1:
		return matches[0], nil
	default:
		return service.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref.Prefix)
	}
}

// resolveArgs parses and resolves a reference, reporting failures to errOut.
// ok is false when the caller should return code.
func resolveArgs(svc service.Service, args []string, errOut io.Writer) (task service.Task, code int, ok bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}
	task, err = ResolveTask(svc, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}
	return task, exitcode.Success, true
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

// isIDChars returns true if s looks like part of a UUID or generated id.
func isIDChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
