package tui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pix-xip/taskline/internal/app"
	"github.com/pix-xip/taskline/internal/devserver"
	"github.com/pix-xip/taskline/internal/rest"
	"github.com/pix-xip/taskline/internal/task"
	"github.com/pix-xip/taskline/internal/ui"
)

func fixture(t *testing.T) (model, *app.Controller, *devserver.Server) {
	t.Helper()

	ds := devserver.New()
	srv := httptest.NewServer(ds.Router())
	t.Cleanup(srv.Close)

	board := NewBoard()

	ctrl, err := app.New(context.Background(), app.Options{
		Store:  task.NewStore(rest.New(srv.URL + "/api")),
		Screen: board,
		Toast:  board,
	})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}

	m := newModel(context.Background(), ctrl, board)
	m.loading = false

	return m, ctrl, ds
}

func press(t *testing.T, m model, key string) (model, tea.Cmd) {
	t.Helper()

	var msg tea.KeyMsg

	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}

	next, cmd := m.Update(msg)

	return next.(model), cmd
}

// settle runs a returned command and feeds its message back in.
func settle(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()

	if cmd == nil {
		return m
	}

	next, _ := m.Update(cmd())

	return next.(model)
}

func TestAddFlowCreatesTask(t *testing.T) {
	m, ctrl, ds := fixture(t)

	m, _ = press(t, m, "a")
	if m.focus != focusAdd {
		t.Fatalf("focus = %v after a", m.focus)
	}

	m.input.SetValue("Buy milk")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if ds.Len() != 1 {
		t.Fatalf("server tasks = %d, want 1", ds.Len())
	}
	if got := ctrl.Tasks(); len(got) != 1 || got[0].Description() != "Buy milk" {
		t.Fatalf("controller tasks = %+v", got)
	}
	if m.focus != focusList {
		t.Fatalf("focus = %v after submit", m.focus)
	}
}

func TestAddEscCancels(t *testing.T) {
	m, _, ds := fixture(t)

	m, _ = press(t, m, "a")
	m.input.SetValue("half")
	m, _ = press(t, m, "esc")

	if m.focus != focusList {
		t.Fatalf("focus = %v after esc", m.focus)
	}
	if ds.Len() != 0 {
		t.Fatalf("esc created a task")
	}
}

func TestEditFlowSavesDescription(t *testing.T) {
	m, ctrl, _ := fixture(t)

	if _, err := ctrl.Add(context.Background(), "Buy milk"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	m, _ = press(t, m, "e")
	if m.focus != focusEdit {
		t.Fatalf("focus = %v after e", m.focus)
	}
	if m.input.Value() != "Buy milk" {
		t.Fatalf("edit input prefill = %q", m.input.Value())
	}

	m.input.SetValue("Buy oat milk")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if got := ctrl.Tasks()[0].Description(); got != "Buy oat milk" {
		t.Fatalf("description = %q", got)
	}
}

func TestEditEscRestoresView(t *testing.T) {
	m, ctrl, _ := fixture(t)

	tk, _ := ctrl.Add(context.Background(), "Buy milk")

	m, _ = press(t, m, "e")
	m.input.SetValue("scrapped")
	m, _ = press(t, m, "esc")

	if got := ctrl.Component(tk.ID()).Mode(); got != ui.ModeViewing {
		t.Fatalf("component mode = %v, want viewing", got)
	}
	if tk.Description() != "Buy milk" {
		t.Fatalf("description = %q", tk.Description())
	}
}

func TestCompleteRemovesTask(t *testing.T) {
	m, ctrl, ds := fixture(t)

	ctrl.Add(context.Background(), "Buy milk")

	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if ctrl.Len() != 0 || ds.Len() != 0 {
		t.Fatalf("registry=%d server=%d after complete", ctrl.Len(), ds.Len())
	}
	if m.cursor != 0 {
		t.Fatalf("cursor = %d", m.cursor)
	}
}

func TestViewShowsTasksAndHelp(t *testing.T) {
	m, ctrl, _ := fixture(t)

	ctrl.Add(context.Background(), "Buy milk")

	out := m.View()
	if !strings.Contains(out, "Buy milk") {
		t.Fatalf("view missing task text:\n%s", out)
	}
	if !strings.Contains(out, "a add") {
		t.Fatalf("view missing help line:\n%s", out)
	}
}

func TestBoardDetachIsIdempotent(t *testing.T) {
	b := NewBoard()
	b.Attach(1, "x")
	b.Detach(1)
	b.Detach(1)

	if b.View(1) != "" {
		t.Fatalf("view survived detach")
	}
}
