// Package app orchestrates task components: creation, initial load, and
// the completed-event wiring that turns a user's "done" into a remote
// delete plus a teardown.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pix-xip/taskline/internal/events"
	"github.com/pix-xip/taskline/internal/notify"
	"github.com/pix-xip/taskline/internal/task"
	"github.com/pix-xip/taskline/internal/ui"
)

// entry pairs one live entity with its owning component. Entries are
// removed atomically with component teardown, never one without the
// other.
type entry struct {
	task      *task.Task
	comp      *ui.Component
	completed *events.Binding
}

type Controller struct {
	ctx      context.Context
	store    *task.Store
	screen   ui.Screen
	render   ui.Renderer
	toast    ui.Toaster
	intents  *events.Bus
	notifier notify.Notifier // nil disables notifications
	log      *log.Logger

	mu      sync.Mutex
	entries []*entry
}

type Options struct {
	Store    *task.Store
	Screen   ui.Screen
	Render   ui.Renderer
	Toast    ui.Toaster
	Notifier notify.Notifier
}

func New(ctx context.Context, opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, errors.New("controller: missing task store")
	}

	if opts.Screen == nil {
		return nil, errors.New("controller: missing screen")
	}

	if opts.Render == nil {
		opts.Render = ui.DefaultTheme()
	}

	c := &Controller{
		ctx:      ctx,
		store:    opts.Store,
		screen:   opts.Screen,
		render:   opts.Render,
		toast:    opts.Toast,
		intents:  events.NewBus(),
		notifier: opts.Notifier,
		log:      log.WithPrefix("controller"),
	}

	c.observe()

	return c, nil
}

// observe traces every intent crossing the bus.
func (c *Controller) observe() {
	for _, t := range []events.Type{
		events.IntentEdit,
		events.IntentSave,
		events.IntentCancel,
		events.IntentComplete,
	} {
		t := t
		c.intents.Subscribe(t, func(e events.Event) {
			c.log.Debug("intent", "type", t, "task", e.Int("task"))
		})
	}
}

// Intents is the bus user actions are published on; components bind to
// the intents addressed to their task.
func (c *Controller) Intents() *events.Bus { return c.intents }

// Load replaces the registry with the remote store's current contents.
// A load failure is logged and returned; the view is simply left empty.
func (c *Controller) Load(ctx context.Context) error {
	tasks, err := c.store.List(ctx)
	if err != nil {
		c.log.Error("initial load failed", "err", err)
		return err
	}

	c.mu.Lock()
	old := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, e := range old {
		e.completed.Release()
		e.comp.Destroy()
	}

	for _, t := range tasks {
		c.mount(t)
	}

	c.log.Debug("loaded tasks", "count", len(tasks))

	return nil
}

// Add creates a task remotely and, only once the store has confirmed it,
// mounts its component. A blank description is silently ignored. A
// create failure leaves no local trace and is returned to the caller.
func (c *Controller) Add(ctx context.Context, description string) (*task.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil
	}

	t := task.New(description)

	if err := c.store.Create(ctx, t); err != nil {
		c.log.Error("create failed", "description", description, "err", err)

		if c.toast != nil {
			c.toast.Toast("could not create task: " + err.Error())
		}

		return nil, err
	}

	c.mount(t)

	return t, nil
}

func (c *Controller) mount(t *task.Task) {
	comp := ui.NewComponent(c.ctx, t, c.store, c.intents, c.screen, c.render)

	e := &entry{task: t, comp: comp}
	e.completed = events.Bind(comp.Events(), events.TaskCompleted, func(events.Event) {
		c.complete(t)
	})

	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()
}

// complete performs the remote delete and, only on success, tears the
// task down. On failure the task stays fully live and visible.
func (c *Controller) complete(t *task.Task) {
	if err := c.store.Delete(c.ctx, t); err != nil {
		c.log.Error("delete failed", "task", t.ID(), "err", err)

		if c.toast != nil {
			c.toast.Toast("could not complete task: " + err.Error())
		}

		return
	}

	c.remove(t.ID())

	if c.notifier != nil {
		if err := c.notifier.Notify("taskline", "completed: "+t.Description()); err != nil {
			c.log.Debug("notification failed", "err", err)
		}
	}
}

func (c *Controller) remove(id int) {
	c.mu.Lock()

	var victim *entry

	for i, e := range c.entries {
		if e.task.ID() == id {
			victim = e
			c.entries = append(c.entries[:i], c.entries[i+1:]...)

			break
		}
	}

	c.mu.Unlock()

	if victim != nil {
		victim.completed.Release()
		victim.comp.Destroy()
	}
}

// Tasks returns the live entities in registry order.
func (c *Controller) Tasks() []*task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*task.Task, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.task)
	}

	return out
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Component looks up the live component for a task id.
func (c *Controller) Component(id int) *ui.Component {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.task.ID() == id {
			return e.comp
		}
	}

	return nil
}

// Emit publishes a user intent addressed to a task.
func (c *Controller) Emit(t events.Type, id int, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}

	fields["task"] = id

	c.intents.Emit(events.Event{Type: t, Time: time.Now(), Fields: fields})
}

// Close destroys every component without touching the remote store.
func (c *Controller) Close() {
	c.mu.Lock()
	old := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, e := range old {
		e.completed.Release()
		e.comp.Destroy()
	}
}
