// Package tui is the interactive terminal frontend. It publishes user
// intents onto the controller's bus and renders whatever the components
// have drawn on the Board.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pix-xip/taskline/internal/app"
	"github.com/pix-xip/taskline/internal/events"
)

type focusArea int

const (
	focusList focusArea = iota
	focusAdd
	focusEdit
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	toastStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type (
	loadedMsg struct{ err error }
	opDoneMsg struct{}
)

type model struct {
	ctx   context.Context
	ctrl  *app.Controller
	board *Board

	input   textinput.Model
	spin    spinner.Model
	loading bool
	focus   focusArea
	cursor  int
	editing int // task id currently being edited
}

func newModel(ctx context.Context, ctrl *app.Controller, board *Board) model {
	in := textinput.New()
	in.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Pulse

	return model{
		ctx:     ctx,
		ctrl:    ctrl,
		board:   board,
		input:   in,
		spin:    sp,
		loading: true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.ctrl.Load(m.ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)

		return m, cmd

	case loadedMsg:
		m.loading = false
		m.cursor = 0

		if msg.err != nil {
			m.board.Toast("could not load tasks: " + msg.err.Error())
		}

		return m, nil

	case opDoneMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusAdd:
		return m.handleAddKey(msg)
	case focusEdit:
		return m.handleEditKey(msg)
	}

	tasks := m.ctrl.Tasks()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a", "n":
		m.board.clearToast()
		m.focus = focusAdd
		m.input.Reset()
		m.input.Placeholder = "what needs doing?"
		m.input.Focus()
	case "e":
		if m.cursor < len(tasks) {
			id := tasks[m.cursor].ID()
			m.ctrl.Emit(events.IntentEdit, id, nil)

			m.board.clearToast()
			m.focus = focusEdit
			m.editing = id
			m.input.Reset()
			m.input.Placeholder = ""

			if comp := m.ctrl.Component(id); comp != nil {
				m.input.SetValue(comp.Buffer())
			}

			m.input.Focus()
		}
	case "enter", " ", "c":
		if m.cursor < len(tasks) {
			id := tasks[m.cursor].ID()

			return m, func() tea.Msg {
				m.ctrl.Emit(events.IntentComplete, id, nil)
				return opDoneMsg{}
			}
		}
	}

	return m, nil
}

func (m model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		m.focus = focusList
		m.input.Blur()

		return m, func() tea.Msg {
			// Create failures surface through the Toaster.
			_, _ = m.ctrl.Add(m.ctx, value)
			return opDoneMsg{}
		}
	case "esc":
		m.focus = focusList
		m.input.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		id := m.editing
		value := m.input.Value()
		m.focus = focusList
		m.editing = 0
		m.input.Blur()

		return m, func() tea.Msg {
			m.ctrl.Emit(events.IntentSave, id, map[string]any{"input": value})
			return opDoneMsg{}
		}
	case "esc":
		m.ctrl.Emit(events.IntentCancel, m.editing, nil)
		m.focus = focusList
		m.editing = 0
		m.input.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *model) clampCursor() {
	if n := m.ctrl.Len(); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taskline") + "\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + " loading tasks...\n")
		return b.String()
	}

	tasks := m.ctrl.Tasks()
	if len(tasks) == 0 && m.focus != focusAdd {
		b.WriteString(helpStyle.Render("no tasks — press a to add one") + "\n")
	}

	for i, t := range tasks {
		marker := "  "
		if i == m.cursor && m.focus == focusList {
			marker = cursorStyle.Render("▸ ")
		}

		if m.focus == focusEdit && t.ID() == m.editing {
			b.WriteString(marker + m.input.View() + "\n")
			continue
		}

		b.WriteString(marker + m.board.View(t.ID()) + "\n")
	}

	if m.focus == focusAdd {
		b.WriteString("\n+ " + m.input.View() + "\n")
	}

	if toast := m.board.LastToast(); toast != "" {
		b.WriteString("\n" + toastStyle.Render("⚠ "+toast) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("a add · e edit · enter complete · q quit") + "\n")

	return b.String()
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, ctrl *app.Controller, board *Board) error {
	p := tea.NewProgram(newModel(ctx, ctrl, board))

	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()

	select {
	case <-ctx.Done():
		p.Quit()
		return ctx.Err()
	case err := <-done:
		return err
	}
}
