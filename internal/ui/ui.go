// Package ui holds the per-task view/edit component and the collaborator
// surfaces it renders against.
package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pix-xip/taskline/internal/task"
)

// Screen hosts rendered task views, keyed by task id. Detaching an id
// that is not attached is a no-op.
type Screen interface {
	Attach(id int, view string)
	Detach(id int)
}

// Renderer produces the view and edit fragments for a task.
type Renderer interface {
	TaskView(t *task.Task) string
	TaskEdit(t *task.Task, buffer string) string
}

// Toaster surfaces messages that have no task to attach to, such as
// failed creations or missing collaborators at startup.
type Toaster interface {
	Toast(msg string)
}

// Theme is the default lipgloss Renderer.
type Theme struct {
	Box   lipgloss.Style
	Text  lipgloss.Style
	Stamp lipgloss.Style
	Edit  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Box:   lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		Text:  lipgloss.NewStyle(),
		Stamp: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Edit:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	}
}

func (th Theme) TaskView(t *task.Task) string {
	var b strings.Builder
	b.WriteString(th.Box.Render("☐"))
	b.WriteString(" ")
	b.WriteString(th.Text.Render(t.Description()))
	b.WriteString("  ")
	b.WriteString(th.Stamp.Render(t.Timestamp().Local().Format(time.Kitchen)))

	return b.String()
}

func (th Theme) TaskEdit(t *task.Task, buffer string) string {
	return th.Edit.Render("✎ [ "+buffer+" ]") + th.Stamp.Render("  (enter saves, esc cancels)")
}
