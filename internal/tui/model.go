package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tasks/internal/cli"
	"github.com/Makepad-fr/tasks/internal/model"
	"github.com/Makepad-fr/tasks/internal/tasklist"
	"github.com/Makepad-fr/tasks/internal/ui"
)

// statusFadeDelay is how long a status message stays before the help line
// comes back.
const statusFadeDelay = 5 * time.Second

type focus int

const (
	focusInput focus = iota
	focusList
)

// storeChangedMsg tells the model the store changed. Notifications may
// arrive out of order, so the model re-reads the store instead of trusting a
// payload.
type storeChangedMsg struct{}

// statusFadeMsg clears the status line if it still shows message seq.
type statusFadeMsg struct{ seq int }

// Model is the Bubble Tea model for the task list.
type Model struct {
	store     *tasklist.Store
	validator tasklist.Validator
	snap      tasklist.Snapshot

	input textinput.Model
	keys  KeyMap
	help  help.Model
	focus focus

	// cursor indexes rows(): uncompleted tasks first, then completed.
	cursor int

	// width is the terminal width, 0 until the first WindowSizeMsg.
	width int

	status      string
	statusLevel slog.Level
	statusSeq   int
}

// NewModel returns a model over s with the input focused.
func NewModel(s *tasklist.Store) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a task name"
	ti.CharLimit = 200
	ti.Focus()

	return Model{
		store: s,
		snap:  s.Snapshot(),
		input: ti,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		focus: focusInput,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, nil

	case logRecordMsg:
		return m, m.setStatus(msg.Summary, msg.Level)

	case statusFadeMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.FocusToggle) {
			return m, m.toggleFocus()
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.validator.Set(m.input.Value())
		if _, err := m.store.Submit(&m.validator); err != nil {
			if errors.Is(err, tasklist.ErrValidationRejected) {
				return m, nil
			}
			return m, m.setStatus(err.Error(), slog.LevelError)
		}
		m.input.SetValue(m.validator.Value())
		return m, m.afterMutation()

	case msg.Type == tea.KeyEsc:
		return m, m.toggleFocus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if strings.TrimSpace(m.input.Value()) != "" {
		m.validator.Set(m.input.Value())
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NewTask):
		return m, m.toggleFocus()

	case key.Matches(msg, m.keys.Complete):
		if m.cursor >= len(rows) || rows[m.cursor].IsCompleted {
			return m, nil
		}
		if _, err := m.store.MarkCompleted(rows[m.cursor].ID); err != nil {
			m.refresh()
			return m, m.setStatus(err.Error(), slog.LevelWarn)
		}
		return m, m.afterMutation()

	case key.Matches(msg, m.keys.Remove):
		if m.cursor >= len(rows) {
			return m, nil
		}
		if _, err := m.store.Remove(rows[m.cursor].ID); err != nil {
			m.refresh()
			return m, m.setStatus(err.Error(), slog.LevelWarn)
		}
		return m, m.afterMutation()
	}
	return m, nil
}

// afterMutation re-reads the views and reports a failed write.
func (m *Model) afterMutation() tea.Cmd {
	m.refresh()
	if err := m.store.Err(); err != nil {
		return m.setStatus(err.Error(), slog.LevelError)
	}
	return nil
}

func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.snap.Uncompleted) + len(m.snap.Completed)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return nil
	}
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) setStatus(text string, level slog.Level) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusLevel = level
	seq := m.statusSeq
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg { return statusFadeMsg{seq: seq} })
}

func (m Model) rows() []model.Task {
	rows := make([]model.Task, 0, len(m.snap.Uncompleted)+len(m.snap.Completed))
	rows = append(rows, m.snap.Uncompleted...)
	return append(rows, m.snap.Completed...)
}

func (m Model) View() string {
	var b strings.Builder

	done, pending := len(m.snap.Completed), len(m.snap.Uncompleted)
	fmt.Fprintf(&b, "%s   %s %d  %s %d\n\n",
		titleStyle.Render("Tasks"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
	)

	b.WriteString(inputBox(m.input.View(), m.focus == focusInput))
	b.WriteString("\n")
	if errors.Is(m.validator.Err(), tasklist.ErrValidationRejected) {
		b.WriteString(errorStyle.Render("Title cannot be empty"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(headingStyle.Render(cli.HeadingToDo))
	b.WriteString("\n")
	m.writeSection(&b, m.snap.Uncompleted, m.snap.HasUncompleted(), 0)
	b.WriteString("\n")

	b.WriteString(headingStyle.Render(cli.HeadingCompleted))
	b.WriteString("\n")
	m.writeSection(&b, m.snap.Completed, m.snap.HasCompleted(), pending)
	b.WriteString("\n")

	b.WriteString(m.footer())
	return panelString(b.String())
}

// writeSection renders tasks, or the empty-state line when has is false;
// offset is the row index of the first task.
func (m Model) writeSection(b *strings.Builder, tasks []model.Task, has bool, offset int) {
	if !has {
		b.WriteString(mutedStyle.Render(cli.NoTasks))
		b.WriteString("\n")
		return
	}
	for i, t := range tasks {
		title := t.Title
		if m.width > 0 {
			title = ui.Truncate(title, max(m.width-8, 10))
		}
		box := mutedStyle.Render(boxUnchecked)
		if t.IsCompleted {
			box, title = successStyle.Render(boxChecked), doneStyle.Render(title)
		}
		prefix := "  "
		if m.focus == focusList && offset+i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		fmt.Fprintf(b, "%s%s %s\n", prefix, box, title)
	}
}

func (m Model) footer() string {
	if m.status != "" {
		style := warnStyle
		if m.statusLevel >= slog.LevelError {
			style = errorStyle
		}
		return style.Render(m.status)
	}
	if m.focus == focusInput {
		return m.help.View(inputHelp{m.keys})
	}
	return m.help.View(listHelp{m.keys})
}
