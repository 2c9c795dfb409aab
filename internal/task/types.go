// Package task defines the task record and the persisted task document.
package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status represents a task status.
type Status string

const (
	StatusNotDone    Status = "Not done"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNotDone, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotDone, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Next returns the status that follows s in display order, wrapping around.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusNotDone
}

// Prev returns the status that precedes s in display order, wrapping around.
func (s Status) Prev() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+len(Statuses)-1)%len(Statuses)]
		}
	}
	return StatusNotDone
}

// ParseStatus parses a status name. Matching ignores case, spaces, dashes,
// and underscores, so "in-progress" and "In Progress" are the same status.
// A few shorthands are accepted: todo, doing, wip.
func ParseStatus(s string) (Status, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "notdone", "todo":
		return StatusNotDone, nil
	case "inprogress", "doing", "wip":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", &ValidationError{
		Field: "status",
		Err:   fmt.Errorf("invalid status %q, must be one of: Not done, In Progress, Done", s),
	}
}

// Task represents a single task in the list.
type Task struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Status   Status `json:"status"`
	Deadline Date   `json:"deadline"`
}

// New returns a task with a fresh id, status "Not done", and no deadline.
func New(title, summary string) Task {
	return Task{
		ID:      NewID(),
		Title:   title,
		Summary: summary,
		Status:  StatusNotDone,
	}
}

// Fields returns the editable fields of the task.
func (t Task) Fields() Fields {
	return Fields{
		Title:    t.Title,
		Summary:  t.Summary,
		Status:   t.Status,
		Deadline: t.Deadline,
	}
}

// WithFields returns a copy of t with every editable field replaced by f.
// The id is kept.
func (t Task) WithFields(f Fields) Task {
	t.Title = f.Title
	t.Summary = f.Summary
	t.Status = f.Status
	t.Deadline = f.Deadline
	return t
}

// HasDeadline reports whether the task has a deadline.
func (t Task) HasDeadline() bool {
	return !t.Deadline.IsZero()
}

// Fields holds the user-editable fields of a task.
type Fields struct {
	Title    string
	Summary  string
	Status   Status
	Deadline Date
}

// Validate checks the required title and the status value.
func (f Fields) Validate() error {
	if err := ValidateTitle(f.Title); err != nil {
		return err
	}
	if !f.Status.Valid() {
		return &ValidationError{
			Field: "status",
			Err:   fmt.Errorf("invalid status %q", f.Status),
		}
	}
	return nil
}

// ValidateTitle reports a validation error when title is blank.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Err: errors.New("missing required field")}
	}
	return nil
}

// NewID generates a task identifier.
func NewID() string {
	return uuid.NewString()
}

// legacyNamespace seeds ids for stored records that predate ids.
var legacyNamespace = uuid.MustParse("8f2c1e0a-6b7d-4c1e-9a3f-2d5b7e9c0f14")

// LegacyID derives a stable id for the record at position i that was stored
// without one. The same document always yields the same ids.
func LegacyID(i int, t Task) string {
	key := fmt.Sprintf("%d\x00%s\x00%s\x00%s", i, t.Title, t.Summary, t.Status)
	return uuid.NewSHA1(legacyNamespace, []byte(key)).String()
}

// assignUniqueIDs keeps the first occurrence of each stored id and gives
// missing or repeated ones a LegacyID.
func assignUniqueIDs(tasks []Task) {
	// false: stored later in the list, true: already assigned.
	taken := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.ID != "" {
			taken[t.ID] = false
		}
	}
	for i := range tasks {
		if id := tasks[i].ID; id != "" && !taken[id] {
			taken[id] = true
			continue
		}
		id := LegacyID(i, tasks[i])
		for n := 1; ; n++ {
			if _, used := taken[id]; !used {
				break
			}
			id = uuid.NewSHA1(legacyNamespace, []byte(fmt.Sprintf("%s\x00%d", id, n))).String()
		}
		taken[id] = true
		tasks[i].ID = id
	}
}

// ShortID returns the first eight characters of an id for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field string // field or JSON path the error refers to
	Err   error  // underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
