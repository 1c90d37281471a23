package ui

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pix-xip/taskline/internal/events"
	"github.com/pix-xip/taskline/internal/task"
)

type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

// Component is the per-task view/edit state machine. It owns every
// binding it registers on the shared intent bus and tears them down
// before detaching its view, so no intent can fire against a disposed
// view. Domain events go out on the component's own hub (composition,
// not inheritance).
//
// Intents may settle on different goroutines (the frontend dispatches
// remote-touching ones as commands), so mode and buffer are guarded.
type Component struct {
	entity *task.Task
	store  *task.Store
	screen Screen
	render Renderer
	hub    *events.Bus
	log    *log.Logger

	ctx context.Context // lifecycle context for remote calls

	mu     sync.Mutex
	mode   Mode
	buffer string

	bindings  []*events.Binding // written only during construction
	destroyed atomic.Bool
	teardown  sync.Once
}

// NewComponent mounts the task's view and wires the component to the
// intents addressed to its task id.
func NewComponent(ctx context.Context, entity *task.Task, store *task.Store, intents *events.Bus, screen Screen, render Renderer) *Component {
	c := &Component{
		entity: entity,
		store:  store,
		screen: screen,
		render: render,
		hub:    events.NewBus(),
		log:    log.WithPrefix("component").With("task", entity.ID()),
		ctx:    ctx,
	}

	c.bind(intents, events.IntentEdit, func(events.Event) { c.Edit() })
	c.bind(intents, events.IntentSave, func(e events.Event) {
		// A save without an input field commits the buffer; a supplied
		// input is taken as-is, even when cleared.
		input := c.Buffer()
		if v, ok := e.Fields["input"].(string); ok {
			input = v
		}

		c.Save(input)
	})
	c.bind(intents, events.IntentCancel, func(events.Event) { c.Cancel() })
	c.bind(intents, events.IntentComplete, func(events.Event) { c.Complete() })

	c.refresh()

	return c
}

// bind registers a handler scoped to this component's task id.
func (c *Component) bind(intents *events.Bus, t events.Type, h events.Handler) {
	b := events.Bind(intents, t, func(e events.Event) {
		if e.Int("task") != c.entity.ID() {
			return
		}

		h(e)
	})

	c.bindings = append(c.bindings, b)
}

// Events exposes the component's domain-event hub for subscribers.
func (c *Component) Events() *events.Bus { return c.hub }

func (c *Component) Entity() *task.Task { return c.entity }

func (c *Component) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Buffer returns the current edit input, pre-filled on Edit.
func (c *Component) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// Edit reveals the input pre-filled with the current description.
func (c *Component) Edit() {
	c.mu.Lock()

	if c.mode != ModeViewing {
		c.mu.Unlock()
		return
	}

	c.mode = ModeEditing
	c.buffer = c.entity.Description()
	c.mu.Unlock()

	c.refresh()
}

// SetBuffer replaces the edit input's contents.
func (c *Component) SetBuffer(input string) {
	c.mu.Lock()

	if c.mode != ModeEditing {
		c.mu.Unlock()
		return
	}

	c.buffer = input
	c.mu.Unlock()

	c.refresh()
}

// Save trims the input and attempts the remote update. A blank input is
// silently ignored with no remote call; a failed update is logged, never
// propagated. Either way the component returns to Viewing, rendered from
// whatever state the entity actually holds.
func (c *Component) Save(input string) {
	c.mu.Lock()

	if c.mode != ModeEditing {
		c.mu.Unlock()
		return
	}

	c.mode = ModeViewing
	c.buffer = ""
	c.mu.Unlock()

	if trimmed := strings.TrimSpace(input); trimmed != "" {
		if err := c.store.Update(c.ctx, c.entity, trimmed); err != nil {
			c.log.Error("update failed", "err", err)
		} else {
			c.hub.Emit(events.Event{
				Type:   events.TaskUpdated,
				Time:   time.Now(),
				Fields: map[string]any{"task": c.entity.ID()},
			})
		}
	}

	c.refresh()
}

// Cancel discards the input and restores the view, with no remote call.
func (c *Component) Cancel() {
	c.mu.Lock()

	if c.mode != ModeEditing {
		c.mu.Unlock()
		return
	}

	c.mode = ModeViewing
	c.buffer = ""
	c.mu.Unlock()

	c.refresh()
}

// Complete announces the task as done. Destruction is the subscriber's
// job, after it has performed the remote delete.
func (c *Component) Complete() {
	c.mu.Lock()
	viewing := c.mode == ModeViewing
	c.mu.Unlock()

	if !viewing || c.destroyed.Load() {
		return
	}

	c.hub.Emit(events.Event{
		Type:   events.TaskCompleted,
		Time:   time.Now(),
		Fields: map[string]any{"task": c.entity.ID()},
	})
}

// Destroy releases every owned binding, then detaches the view. Safe to
// call from any state, and more than once.
func (c *Component) Destroy() {
	c.teardown.Do(func() {
		c.destroyed.Store(true)

		for _, b := range c.bindings {
			b.Release()
		}

		c.screen.Detach(c.entity.ID())
	})
}

// refresh re-renders from the entity's current state. A settlement that
// lands after Destroy must not touch the screen.
func (c *Component) refresh() {
	if c.destroyed.Load() {
		return
	}

	c.mu.Lock()
	mode, buffer := c.mode, c.buffer
	c.mu.Unlock()

	if mode == ModeEditing {
		c.screen.Attach(c.entity.ID(), c.render.TaskEdit(c.entity, buffer))
		return
	}

	c.screen.Attach(c.entity.ID(), c.render.TaskView(c.entity))
}
