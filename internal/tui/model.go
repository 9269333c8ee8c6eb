// Package tui provides the terminal front-end.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todolist/internal/controller"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

const helpText = "enter add • tab switch • ↑/↓ move • space toggle • d delete • 1/2/3 filter • q quit"

// opDoneMsg is sent when a controller operation settles.
type opDoneMsg struct{}

// Model is the bubbletea model. Every remote call runs as a tea.Cmd, so
// several may be in flight at once.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	queue   *controller.Queue
	input   textinput.Model
	focus   focus
	cursor  int
	notices []string
	width   int
}

// New creates a Model. queue must be the notifier ctrl was constructed with.
func New(ctx context.Context, ctrl *controller.Controller, queue *controller.Queue) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 512
	ti.Width = 40
	ti.SetValue(ctrl.Draft())
	ti.Focus()

	return Model{
		ctx:   ctx,
		ctrl:  ctrl,
		queue: queue,
		input: ti,
		focus: focusInput,
	}
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, ctrl *controller.Controller, queue *controller.Queue) error {
	program := tea.NewProgram(New(ctx, ctrl, queue), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.run(m.ctrl.Load))
}

// run wraps a controller operation as a command. Failures reach the
// user through the queue, so the error is dropped here.
func (m Model) run(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = op(ctx)
		return opDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		m.notices = append(m.notices, m.queue.Drain()...)
		if draft := m.ctrl.Draft(); draft != m.input.Value() {
			m.input.SetValue(draft)
		}
		m.clampCursor()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if len(m.notices) > 0 {
			m.notices = m.notices[1:]
			return m, nil
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctrl.SetDraft(m.input.Value())
		return m, m.run(m.ctrl.AddTask)
	case "tab", "esc":
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.ctrl.Visible()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "i", "a":
		m.focus = focusInput
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case " ", "x":
		if m.cursor >= len(visible) {
			return m, nil
		}
		id := visible[m.cursor].ID
		return m, m.run(func(ctx context.Context) error {
			return m.ctrl.ToggleComplete(ctx, id)
		})
	case "d":
		if m.cursor >= len(visible) {
			return m, nil
		}
		id := visible[m.cursor].ID
		return m, m.run(func(ctx context.Context) error {
			return m.ctrl.DeleteTask(ctx, id)
		})
	case "1", "2", "3":
		m.ctrl.SetFilter(controller.Filters[msg.String()[0]-'1'])
		m.clampCursor()
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	if len(m.notices) > 0 {
		return m.viewNotice()
	}

	state := m.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("My To-Do List"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	visible := state.Visible()
	switch {
	case state.Loading:
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(visible) == 0:
		b.WriteString(mutedStyle.Render("No tasks yet. Add one!"))
		b.WriteString("\n")
	default:
		for i, task := range visible {
			b.WriteString(m.renderTask(i, task))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(renderFilters(state.Filter))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(helpText))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTask(i int, task controller.Task) string {
	prefix := "  "
	if m.focus == focusList && i == m.cursor {
		prefix = cursorStyle.Render("> ")
	}

	box := "[ ]"
	text := task.Text
	if task.Completed {
		box = "[x]"
		text = completedStyle.Render(text)
	}
	return fmt.Sprintf("%s%s %s", prefix, box, text)
}

func renderFilters(active controller.Filter) string {
	parts := make([]string, 0, len(controller.Filters))
	for i, f := range controller.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == active {
			parts = append(parts, activeFilterStyle.Render(label))
		} else {
			parts = append(parts, filterStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) viewNotice() string {
	body := m.notices[0] + "\n\n" + mutedStyle.Render("press any key")
	box := modalStyle.Render(body)
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
	}
	return box
}
