package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman-go/internal/logging"
	"github.com/nibzard/taskman-go/internal/task"
)

// Fixed keys.
const (
	TasksKey = "tasks"
	ThemeKey = "theme-mode"
)

// Theme is the persisted color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("invalid theme %q, must be light or dark", s)
}

// Adapter reads and writes the task list at TasksKey.
type Adapter struct {
	kv           KV
	schema       *task.Schema
	logger       *log.Logger
	defaultTheme Theme
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithSchema sets the schema used to validate loaded documents. A nil schema
// disables schema validation.
func WithSchema(s *task.Schema) Option {
	return func(a *Adapter) {
		a.schema = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDefaultTheme sets the theme returned when none is stored.
func WithDefaultTheme(t Theme) Option {
	return func(a *Adapter) {
		if t != "" {
			a.defaultTheme = t
		}
	}
}

// NewAdapter returns an Adapter over kv. The embedded task schema is used
// unless WithSchema overrides it.
func NewAdapter(kv KV, opts ...Option) *Adapter {
	a := &Adapter{
		kv:           kv,
		logger:       logging.Discard(),
		defaultTheme: ThemeLight,
	}
	if s, err := task.DefaultSchema(); err == nil {
		a.schema = s
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load returns the persisted task list. A missing, unreadable, or invalid
// value yields an empty list.
func (a *Adapter) Load(ctx context.Context) []task.Task {
	tasks, err := a.LoadStrict(ctx)
	if err != nil {
		a.logger.Warn("Discarding stored task list", "key", TasksKey, "err", err)
		return []task.Task{}
	}
	return tasks
}

// LoadStrict is like Load but reports why the stored value could not be
// used. A missing key is not an error.
func (a *Adapter) LoadStrict(ctx context.Context) ([]task.Task, error) {
	data, ok, err := a.kv.Get(ctx, TasksKey)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: TasksKey, Err: err}
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return []task.Task{}, nil
	}
	tasks, err := task.Decode(data, a.schema)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", TasksKey, err)
	}
	a.logger.Debug("Loaded task list", "count", len(tasks))
	return tasks, nil
}

// Save overwrites the persisted task list.
func (a *Adapter) Save(ctx context.Context, tasks []task.Task) error {
	data, err := task.Encode(tasks)
	if err != nil {
		return &StorageError{Op: "encode", Key: TasksKey, Err: err}
	}
	if err := a.kv.Set(ctx, TasksKey, data); err != nil {
		return &StorageError{Op: "set", Key: TasksKey, Err: err}
	}
	a.logger.Debug("Saved task list", "count", len(tasks), "bytes", len(data))
	return nil
}

// Theme returns the stored theme, or the default when none is stored or the
// stored value is invalid.
func (a *Adapter) Theme(ctx context.Context) Theme {
	data, ok, err := a.kv.Get(ctx, ThemeKey)
	if err != nil || !ok {
		return a.defaultTheme
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		a.logger.Warn("Ignoring stored theme", "err", err)
		return a.defaultTheme
	}
	t, err := ParseTheme(s)
	if err != nil {
		a.logger.Warn("Ignoring stored theme", "err", err)
		return a.defaultTheme
	}
	return t
}

// SetTheme persists the theme.
func (a *Adapter) SetTheme(ctx context.Context, t Theme) error {
	data, err := json.Marshal(string(t))
	if err != nil {
		return &StorageError{Op: "encode", Key: ThemeKey, Err: err}
	}
	if err := a.kv.Set(ctx, ThemeKey, data); err != nil {
		return &StorageError{Op: "set", Key: ThemeKey, Err: err}
	}
	return nil
}
