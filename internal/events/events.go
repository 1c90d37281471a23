package events

import "time"

type Type string

// Type Enums:
const (
	// Domain events.
	TaskCompleted Type = "task_completed"
	TaskUpdated   Type = "task_updated"

	// User intents, addressed to the component owning a task.
	IntentEdit     Type = "intent_edit"
	IntentSave     Type = "intent_save"
	IntentCancel   Type = "intent_cancel"
	IntentComplete Type = "intent_complete"
)

type Event struct {
	Type   Type
	Time   time.Time
	Fields map[string]any
}

type Handler func(Event)

type Emitter interface {
	Emit(e Event)
	Subscribe(t Type, h Handler) (unsubscribe func())
}

// Int reads an integer field, tolerating absent or mistyped values.
func (e Event) Int(key string) int {
	if v, ok := e.Fields[key]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}

	return 0
}

// Str reads a string field, tolerating absent or mistyped values.
func (e Event) Str(key string) string {
	if v, ok := e.Fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}
