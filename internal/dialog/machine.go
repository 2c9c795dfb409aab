// Package dialog implements the add/edit dialog as a single state machine.
//
// The dialog is Closed, AddOpen, or EditOpen. While open it stages a draft of
// the task fields; Confirm hands the draft to the repository and closes only
// when the repository accepts it. At most one dialog is open at a time.
package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/taskman-go/internal/task"
)

// Kind is the dialog state tag.
type Kind int

const (
	Closed Kind = iota
	AddOpen
	EditOpen
)

func (k Kind) String() string {
	switch k {
	case Closed:
		return "closed"
	case AddOpen:
		return "add"
	case EditOpen:
		return "edit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrDialogOpen is returned when opening a dialog while one is open.
	ErrDialogOpen = errors.New("a dialog is already open")
	// ErrNoDialog is returned by operations that need an open dialog.
	ErrNoDialog = errors.New("no dialog is open")
	// ErrFieldDisabled is returned when setting a field the add dialog does
	// not offer.
	ErrFieldDisabled = errors.New("field is disabled in the add dialog")
)

// State is the tagged dialog state. TaskID and Index are set only for
// EditOpen; Index is the task's position when the dialog was opened.
type State struct {
	Kind   Kind
	TaskID string
	Index  int
}

// Repository is the subset of the task repository the dialog commits to.
type Repository interface {
	Add(ctx context.Context, title, summary string) (task.Task, error)
	Update(ctx context.Context, id string, f task.Fields) error
}

// Machine holds the dialog state and the staged draft.
type Machine struct {
	state State
	draft task.Fields
}

// New returns a closed dialog.
func New() *Machine {
	return &Machine{state: State{Kind: Closed, Index: -1}}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Draft returns the staged fields.
func (m *Machine) Draft() task.Fields { return m.draft }

// IsOpen reports whether a dialog is open.
func (m *Machine) IsOpen() bool { return m.state.Kind != Closed }

// OpenAdd opens the add dialog with an empty draft.
func (m *Machine) OpenAdd() error {
	if err := m.transition(AddOpen); err != nil {
		return err
	}
	m.state = State{Kind: AddOpen, Index: -1}
	m.draft = task.Fields{Status: task.StatusNotDone}
	return nil
}

// OpenEdit opens the edit dialog for t, staging a copy of its fields.
func (m *Machine) OpenEdit(t task.Task, index int) error {
	if t.ID == "" {
		return errors.New("cannot edit a task without an id")
	}
	if err := m.transition(EditOpen); err != nil {
		return err
	}
	m.state = State{Kind: EditOpen, TaskID: t.ID, Index: index}
	m.draft = t.Fields()
	return nil
}

// SetTitle stages the title.
func (m *Machine) SetTitle(s string) error {
	if !m.IsOpen() {
		return ErrNoDialog
	}
	m.draft.Title = s
	return nil
}

// SetSummary stages the summary.
func (m *Machine) SetSummary(s string) error {
	if !m.IsOpen() {
		return ErrNoDialog
	}
	m.draft.Summary = s
	return nil
}

// SetStatus stages the status. Edit dialog only.
func (m *Machine) SetStatus(s task.Status) error {
	if err := m.editable(); err != nil {
		return err
	}
	if !s.Valid() {
		return &task.ValidationError{Field: "status", Err: fmt.Errorf("invalid status %q", s)}
	}
	m.draft.Status = s
	return nil
}

// SetDeadline parses and stages the deadline; "" clears it. Edit dialog only.
func (m *Machine) SetDeadline(s string) error {
	if err := m.editable(); err != nil {
		return err
	}
	d, err := task.ParseDate(s)
	if err != nil {
		return err
	}
	m.draft.Deadline = d
	return nil
}

// Cancel closes the dialog and discards the draft.
func (m *Machine) Cancel() error {
	if !m.IsOpen() {
		return ErrNoDialog
	}
	m.close()
	return nil
}

// Confirm commits the draft to r. On success the dialog closes; on error it
// stays open with the draft intact and the error is returned.
func (m *Machine) Confirm(ctx context.Context, r Repository) error {
	switch m.state.Kind {
	case AddOpen:
		if _, err := r.Add(ctx, m.draft.Title, m.draft.Summary); err != nil {
			return err
		}
	case EditOpen:
		if err := r.Update(ctx, m.state.TaskID, m.draft); err != nil {
			return err
		}
	default:
		return ErrNoDialog
	}
	m.close()
	return nil
}

func (m *Machine) close() {
	m.state = State{Kind: Closed, Index: -1}
	m.draft = task.Fields{}
}

func (m *Machine) editable() error {
	switch m.state.Kind {
	case EditOpen:
		return nil
	case AddOpen:
		return ErrFieldDisabled
	default:
		return ErrNoDialog
	}
}

func (m *Machine) transition(to Kind) error {
	if !isAllowedTransition(m.state.Kind, to) {
		if m.IsOpen() {
			return fmt.Errorf("%w: %s", ErrDialogOpen, m.state.Kind)
		}
		return fmt.Errorf("disallowed dialog transition: %s -> %s", m.state.Kind, to)
	}
	return nil
}

func isAllowedTransition(from, to Kind) bool {
	switch from {
	case Closed:
		return to == AddOpen || to == EditOpen
	case AddOpen, EditOpen:
		return to == Closed
	default:
		return false
	}
}
