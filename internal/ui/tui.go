// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman-go/internal/dialog"
	"github.com/nibzard/taskman-go/internal/logging"
	"github.com/nibzard/taskman-go/internal/repo"
	"github.com/nibzard/taskman-go/internal/store"
	"github.com/nibzard/taskman-go/internal/task"
	"github.com/nibzard/taskman-go/internal/utils"
)

// Preferences persists the theme.
type Preferences interface {
	Theme(ctx context.Context) store.Theme
	SetTheme(ctx context.Context, t store.Theme) error
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	logger     *log.Logger
	storeLabel string
	now        func() time.Time
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStoreLabel sets the storage description shown in the footer.
func WithStoreLabel(label string) TUIOption {
	return func(c *tuiConfig) {
		c.storeLabel = label
	}
}

// RunTUI starts the TUI over an initialized repository.
func RunTUI(ctx context.Context, r *repo.Repository, prefs Preferences, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(ctx, r, prefs, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Dialog fields, in focus order.
const (
	fieldTitle = iota
	fieldSummary
	fieldStatus
	fieldDeadline
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Summary", "Status", "Deadline"}

type tuiModel struct {
	ctx    context.Context
	cfg    *tuiConfig
	repo   *repo.Repository
	dialog *dialog.Machine
	prefs  Preferences

	theme  store.Theme
	styles styles

	// filter is view state only; it never reorders or persists anything.
	filter task.Status
	view   []task.Task
	cursor int

	inputs      [fieldCount]textinput.Model
	focus       int
	draftStatus task.Status

	message  string
	err      error
	showHelp bool
	width    int
}

func newTUIModel(ctx context.Context, r *repo.Repository, prefs Preferences, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	m := &tuiModel{
		ctx:    ctx,
		cfg:    c,
		repo:   r,
		dialog: dialog.New(),
		prefs:  prefs,
	}
	m.theme = prefs.Theme(ctx)
	m.styles = newStyles(m.theme)
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Placeholder = "What needs doing?"
	m.inputs[fieldSummary].Placeholder = "Optional details"
	m.inputs[fieldDeadline].Placeholder = task.DateLayout
	m.inputs[fieldDeadline].CharLimit = len(task.DateLayout)
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(20, msg.Width-20)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.dialog.IsOpen() {
			return m.updateDialog(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, len(m.view)-1)
	case "a":
		return m, m.openAdd()
	case "e", "enter":
		return m, m.openEdit()
	case "x", "delete":
		m.deleteSelected()
	case "1":
		m.setFilter(task.StatusNotDone)
	case "2":
		m.setFilter(task.StatusInProgress)
	case "3":
		m.setFilter(task.StatusDone)
	case "0":
		m.setFilter("")
	case "N":
		m.prioritize(task.StatusNotDone)
	case "I":
		m.prioritize(task.StatusInProgress)
	case "D":
		m.prioritize(task.StatusDone)
	case "s":
		m.apply("Sorted by deadline", m.repo.SortByDeadline(m.ctx))
	case "ctrl+t":
		m.toggleTheme()
	}
	return m, nil
}

func (m *tuiModel) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		_ = m.dialog.Cancel()
		m.blurInputs()
		m.setMessage("Cancelled")
		return m, nil
	case "enter":
		return m, m.confirm()
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	}

	if m.focus == fieldStatus {
		switch msg.String() {
		case "left", "h":
			m.draftStatus = m.draftStatus.Prev()
		case "right", "l", " ":
			m.draftStatus = m.draftStatus.Next()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *tuiModel) openAdd() tea.Cmd {
	if err := m.dialog.OpenAdd(); err != nil {
		m.setError(err)
		return nil
	}
	m.loadDraft()
	return m.focusField(fieldTitle)
}

func (m *tuiModel) openEdit() tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	if err := m.dialog.OpenEdit(t, m.repo.IndexOf(t.ID)); err != nil {
		m.setError(err)
		return nil
	}
	m.loadDraft()
	return m.focusField(fieldTitle)
}

// loadDraft copies the machine's staged fields into the inputs.
func (m *tuiModel) loadDraft() {
	d := m.dialog.Draft()
	m.inputs[fieldTitle].SetValue(d.Title)
	m.inputs[fieldSummary].SetValue(d.Summary)
	m.inputs[fieldDeadline].SetValue(d.Deadline.String())
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
	m.draftStatus = d.Status
	m.err = nil
}

func (m *tuiModel) confirm() tea.Cmd {
	kind := m.dialog.State().Kind
	if err := m.stageInputs(kind); err != nil {
		m.setError(err)
		return nil
	}
	if err := m.dialog.Confirm(m.ctx, m.repo); err != nil {
		m.setError(err)
		return nil
	}
	m.blurInputs()
	if kind == dialog.AddOpen {
		m.setMessage("Added task")
	} else {
		m.setMessage("Saved task")
	}
	m.refresh()
	if kind == dialog.AddOpen && m.filter == "" {
		m.cursor = max(0, len(m.view)-1)
	}
	return nil
}

func (m *tuiModel) stageInputs(kind dialog.Kind) error {
	if err := m.dialog.SetTitle(m.inputs[fieldTitle].Value()); err != nil {
		return err
	}
	if err := m.dialog.SetSummary(m.inputs[fieldSummary].Value()); err != nil {
		return err
	}
	if kind != dialog.EditOpen {
		return nil
	}
	if err := m.dialog.SetStatus(m.draftStatus); err != nil {
		return err
	}
	return m.dialog.SetDeadline(strings.TrimSpace(m.inputs[fieldDeadline].Value()))
}

// enabledFields lists the fields the open dialog offers.
func (m *tuiModel) enabledFields() []int {
	if m.dialog.State().Kind == dialog.AddOpen {
		return []int{fieldTitle, fieldSummary}
	}
	return []int{fieldTitle, fieldSummary, fieldStatus, fieldDeadline}
}

func (m *tuiModel) moveFocus(delta int) tea.Cmd {
	fields := m.enabledFields()
	pos := 0
	for i, f := range fields {
		if f == m.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	return m.focusField(fields[pos])
}

func (m *tuiModel) focusField(field int) tea.Cmd {
	m.blurInputs()
	m.focus = field
	if field == fieldStatus {
		return nil
	}
	return m.inputs[field].Focus()
}

func (m *tuiModel) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *tuiModel) deleteSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	m.apply("Deleted "+utils.Truncate(t.Title, 30), m.repo.Remove(m.ctx, t.ID))
}

func (m *tuiModel) prioritize(s task.Status) {
	m.apply("Prioritized "+string(s), m.repo.SortByStatus(m.ctx, s))
}

func (m *tuiModel) setFilter(s task.Status) {
	m.filter = s
	m.cursor = 0
	m.refresh()
}

func (m *tuiModel) toggleTheme() {
	next := m.theme.Toggle()
	if err := m.prefs.SetTheme(m.ctx, next); err != nil {
		m.setError(err)
		return
	}
	m.theme = next
	m.styles = newStyles(next)
	m.setMessage("Theme: " + string(next))
}

// apply reports the outcome of a repository mutation and re-derives the view.
func (m *tuiModel) apply(success string, err error) {
	if err != nil {
		m.setError(err)
		return
	}
	m.setMessage(success)
	m.refresh()
}

// refresh re-derives the visible list from the repository and the filter.
func (m *tuiModel) refresh() {
	if m.filter == "" {
		m.view = m.repo.Tasks()
	} else {
		filtered, err := m.repo.FilterByStatus(m.ctx, m.filter)
		if err != nil {
			m.setError(err)
			filtered = nil
		}
		m.view = filtered
	}
	m.cursor = clampCursor(m.cursor, len(m.view))
}

func (m *tuiModel) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return task.Task{}, false
	}
	return m.view[m.cursor], true
}

func (m *tuiModel) moveCursor(delta int) {
	m.cursor = clampCursor(m.cursor+delta, len(m.view))
}

func (m *tuiModel) setMessage(s string) {
	m.message = s
	m.err = nil
}

func (m *tuiModel) setError(err error) {
	m.cfg.logger.Warn("Action failed", "err", err)
	m.err = err
	m.message = ""
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	m.writeFilter(&b)
	m.writeTasks(&b)
	if m.dialog.IsOpen() {
		m.writeDialog(&b)
	}
	m.writeMessage(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	title := "Task Manager"
	b.WriteString(m.styles.title.Render(title) + "\n")
	b.WriteString(m.styles.dim.Render(strings.Repeat("=", len(title))) + "\n\n")
}

func (m *tuiModel) writeFilter(b *strings.Builder) {
	if m.filter == "" {
		return
	}
	b.WriteString(m.styles.info.Render(fmt.Sprintf("Filter: %s (0 to clear)", m.filter)) + "\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.view) == 0 {
		if m.filter == "" {
			b.WriteString(m.styles.dim.Render("  No tasks yet. Press a to add one.") + "\n\n")
		} else {
			b.WriteString(m.styles.dim.Render(fmt.Sprintf("  No %q tasks.", m.filter)) + "\n\n")
		}
		return
	}

	now := m.cfg.now()
	today := task.NewDate(now.Year(), now.Month(), now.Day())
	for i, t := range m.view {
		line := m.formatTask(t, today)
		if i == m.cursor && !m.dialog.IsOpen() {
			b.WriteString(m.styles.selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")
}

// statusWidth fits the longest status label, "[In Progress]".
const statusWidth = 13

func (m *tuiModel) formatTask(t task.Task, today task.Date) string {
	statusStyle, ok := m.styles.status[t.Status]
	if !ok {
		statusStyle = m.styles.normal
	}
	label := fmt.Sprintf("%-*s", statusWidth, "["+string(t.Status)+"]")
	line := statusStyle.Render(label) + " " + utils.Truncate(t.Title, 50)
	if t.HasDeadline() {
		due := "due " + t.Deadline.String()
		if t.Deadline.Before(today) && t.Status != task.StatusDone {
			line += "  " + m.styles.overdue.Render(due+" (overdue)")
		} else {
			line += "  " + m.styles.dim.Render(due)
		}
	}
	if t.Summary != "" {
		line += "\n      " + m.styles.dim.Render(utils.Truncate(t.Summary, 60))
	}
	return line
}

func (m *tuiModel) writeDialog(b *strings.Builder) {
	state := m.dialog.State()
	var body strings.Builder
	if state.Kind == dialog.AddOpen {
		body.WriteString(m.styles.header.Render("Add task") + "\n\n")
	} else {
		body.WriteString(m.styles.header.Render(fmt.Sprintf("Edit task #%d", state.Index+1)) + "\n\n")
	}

	for f := 0; f < fieldCount; f++ {
		label := m.styles.label.Render(fieldLabels[f])
		marker := "  "
		if f == m.focus {
			marker = "> "
		}
		disabled := state.Kind == dialog.AddOpen && (f == fieldStatus || f == fieldDeadline)
		var value string
		switch {
		case disabled && f == fieldStatus:
			value = m.styles.dim.Render(string(task.StatusNotDone) + " (set when editing)")
		case disabled:
			value = m.styles.dim.Render("none (set when editing)")
		case f == fieldStatus:
			value = "< " + m.styles.status[m.draftStatus].Render(string(m.draftStatus)) + " >"
		default:
			value = m.inputs[f].View()
		}
		body.WriteString(marker + label + value + "\n")
	}
	body.WriteString("\n" + m.styles.dim.Render("tab next field | enter save | esc cancel"))

	b.WriteString(m.styles.dialog.Render(body.String()) + "\n\n")
}

func (m *tuiModel) writeMessage(b *strings.Builder) {
	switch {
	case m.err != nil:
		b.WriteString(m.styles.errorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	case m.message != "":
		b.WriteString(m.styles.info.Render(m.message) + "\n\n")
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  j/k, arrows  Move selection\n")
	b.WriteString("  a            Add task\n")
	b.WriteString("  e, enter     Edit selected task\n")
	b.WriteString("  x, delete    Delete selected task\n")
	b.WriteString("  N / I / D    Prioritize Not done / In Progress / Done\n")
	b.WriteString("  s            Sort by deadline\n")
	b.WriteString("  1 / 2 / 3    Filter Not done / In Progress / Done\n")
	b.WriteString("  0            Clear filter\n")
	b.WriteString("  ctrl+t       Toggle light/dark theme\n\n")
	b.WriteString("In a dialog: tab/shift+tab move between fields, left/right change\n")
	b.WriteString("the status, enter saves, esc cancels.\n\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	parts := []string{"h help", "q quit", fmt.Sprintf("%d tasks", m.repo.Len())}
	if m.cfg.storeLabel != "" {
		parts = append(parts, m.cfg.storeLabel)
	}
	b.WriteString(m.styles.dim.Render(strings.Join(parts, " | ")) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
