package repo

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman-go/internal/logging"
	"github.com/nibzard/taskman-go/internal/task"
)

// Store is the persistence the repository writes through to.
type Store interface {
	// Load returns the persisted list; it never fails.
	Load(ctx context.Context) []task.Task
	// Save overwrites the persisted list.
	Save(ctx context.Context, tasks []task.Task) error
}

// Repository holds the authoritative task list.
type Repository struct {
	store       Store
	tasks       []task.Task
	initialized bool
	logger      *log.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns an uninitialized repository over store.
func New(store Store, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize loads the persisted list. It must be called exactly once,
// before any other operation.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.initialized {
		return ErrAlreadyInitialized
	}
	r.tasks = r.store.Load(ctx)
	if r.tasks == nil {
		r.tasks = []task.Task{}
	}
	r.initialized = true
	r.logger.Debug("Repository initialized", "count", len(r.tasks))
	return nil
}

// Tasks returns a copy of the current list.
func (r *Repository) Tasks() []task.Task {
	return clone(r.tasks)
}

// Len returns the number of tasks.
func (r *Repository) Len() int {
	return len(r.tasks)
}

// Get returns the task with the given id.
func (r *Repository) Get(id string) (task.Task, bool) {
	i := r.IndexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return r.tasks[i], true
}

// At returns the task at position index.
func (r *Repository) At(index int) (task.Task, error) {
	if err := r.ready(); err != nil {
		return task.Task{}, err
	}
	if index < 0 || index >= len(r.tasks) {
		return task.Task{}, &IndexError{Index: index, Len: len(r.tasks)}
	}
	return r.tasks[index], nil
}

// IndexOf returns the position of the task with the given id, or -1.
func (r *Repository) IndexOf(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a new task with status "Not done" and no deadline.
func (r *Repository) Add(ctx context.Context, title, summary string) (task.Task, error) {
	if err := r.ready(); err != nil {
		return task.Task{}, err
	}
	if err := task.ValidateTitle(title); err != nil {
		return task.Task{}, err
	}

	t := task.New(title, summary)
	next := make([]task.Task, 0, len(r.tasks)+1)
	next = append(next, r.tasks...)
	next = append(next, t)

	if err := r.commit(ctx, "add", next); err != nil {
		return task.Task{}, err
	}
	r.logger.Debug("Task added", "id", t.ID, "title", t.Title)
	return t, nil
}

// Remove deletes the task with the given id.
func (r *Repository) Remove(ctx context.Context, id string) error {
	if err := r.ready(); err != nil {
		return err
	}
	i := r.IndexOf(id)
	if i < 0 {
		return &IndexError{Index: -1, ID: id, Len: len(r.tasks)}
	}
	return r.removeAt(ctx, i)
}

// RemoveAt deletes the task at position index; later tasks shift down by one.
func (r *Repository) RemoveAt(ctx context.Context, index int) error {
	if _, err := r.At(index); err != nil {
		return err
	}
	return r.removeAt(ctx, index)
}

func (r *Repository) removeAt(ctx context.Context, i int) error {
	id := r.tasks[i].ID
	next := make([]task.Task, 0, len(r.tasks)-1)
	next = append(next, r.tasks[:i]...)
	next = append(next, r.tasks[i+1:]...)

	if err := r.commit(ctx, "remove", next); err != nil {
		return err
	}
	r.logger.Debug("Task removed", "id", id, "index", i)
	return nil
}

// Update replaces every editable field of the task with the given id.
func (r *Repository) Update(ctx context.Context, id string, f task.Fields) error {
	if err := r.ready(); err != nil {
		return err
	}
	i := r.IndexOf(id)
	if i < 0 {
		return &IndexError{Index: -1, ID: id, Len: len(r.tasks)}
	}
	return r.updateAt(ctx, i, f)
}

// UpdateAt replaces every editable field of the task at position index.
func (r *Repository) UpdateAt(ctx context.Context, index int, f task.Fields) error {
	if _, err := r.At(index); err != nil {
		return err
	}
	return r.updateAt(ctx, index, f)
}

func (r *Repository) updateAt(ctx context.Context, i int, f task.Fields) error {
	if err := f.Validate(); err != nil {
		return err
	}

	next := clone(r.tasks)
	next[i] = next[i].WithFields(f)

	if err := r.commit(ctx, "update", next); err != nil {
		return err
	}
	r.logger.Debug("Task updated", "id", next[i].ID, "index", i, "status", f.Status)
	return nil
}

// SortByStatus moves every task whose status is target ahead of the rest.
// Relative order within both groups is kept.
func (r *Repository) SortByStatus(ctx context.Context, target task.Status) error {
	if err := r.ready(); err != nil {
		return err
	}
	next := PartitionByStatus(r.tasks, target)
	if err := r.commit(ctx, "sort by status", next); err != nil {
		return err
	}
	r.logger.Debug("Sorted by status", "target", target)
	return nil
}

// SortByDeadline orders tasks by ascending deadline. Tasks without a deadline
// go last and keep their relative order.
func (r *Repository) SortByDeadline(ctx context.Context) error {
	if err := r.ready(); err != nil {
		return err
	}
	next := SortedByDeadline(r.tasks)
	if err := r.commit(ctx, "sort by deadline", next); err != nil {
		return err
	}
	r.logger.Debug("Sorted by deadline")
	return nil
}

// FilterByStatus returns the persisted tasks whose status is s. The list is
// read fresh from the store; nothing is persisted and the in-memory list is
// not changed.
func (r *Repository) FilterByStatus(ctx context.Context, s task.Status) ([]task.Task, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	all := r.store.Load(ctx)
	out := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.Status == s {
			out = append(out, t)
		}
	}
	return out, nil
}

// commit saves next and, only if that succeeds, installs it as the current
// list.
func (r *Repository) commit(ctx context.Context, op string, next []task.Task) error {
	if err := r.store.Save(ctx, next); err != nil {
		r.logger.Error("Persist failed; list unchanged", "op", op, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	r.tasks = next
	return nil
}

func (r *Repository) ready() error {
	if !r.initialized {
		return ErrNotInitialized
	}
	return nil
}

// PartitionByStatus returns a copy of tasks with every task whose status is
// target first. It is a stable partition.
func PartitionByStatus(tasks []task.Task, target task.Status) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == target {
			out = append(out, t)
		}
	}
	for _, t := range tasks {
		if t.Status != target {
			out = append(out, t)
		}
	}
	return out
}

// SortedByDeadline returns a copy of tasks stably sorted by ascending
// deadline with undated tasks last.
func SortedByDeadline(tasks []task.Task) []task.Task {
	out := clone(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.HasDeadline() {
			return false
		}
		if !b.HasDeadline() {
			return true
		}
		return a.Deadline.Before(b.Deadline)
	})
	return out
}

func clone(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	return out
}
