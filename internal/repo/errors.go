package repo

import (
	"errors"
	"fmt"
)

var (
	// ErrIndex is matched by every *IndexError via errors.Is.
	ErrIndex = errors.New("no such task")
	// ErrTaskNotFound is also matched when the task was addressed by id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotInitialized is returned by operations that run before Initialize.
	ErrNotInitialized = errors.New("repository not initialized")
	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("repository already initialized")
)

// IndexError reports an operation on a position or id that is not in the
// current list.
type IndexError struct {
	Index int    // requested position, or -1 when addressed by id
	ID    string // requested id, empty when addressed by position
	Len   int    // list length at the time of the call
}

func (e *IndexError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: id %q", ErrIndex, e.ID)
	}
	return fmt.Sprintf("%s: index %d out of range [0, %d)", ErrIndex, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	if target == ErrTaskNotFound {
		return e.ID != ""
	}
	return target == ErrIndex
}
