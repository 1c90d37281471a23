// Package task holds the in-memory task entity and its remote-backed
// store. The remote store is authoritative: local state changes only in
// the success branch of a remote call.
package task

import "time"

type Task struct {
	id          int // zero until the store confirms creation
	description string
	timestamp   time.Time
}

// DTO is the wire form of a task. ID marshals as null while the task
// has never been persisted.
type DTO struct {
	ID          *int      `json:"id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// New builds an unpersisted task with a provisional local timestamp.
func New(description string) *Task {
	return &Task{
		description: description,
		timestamp:   time.Now().UTC(),
	}
}

func fromDTO(d DTO) *Task {
	t := &Task{
		description: d.Description,
		timestamp:   d.Timestamp,
	}
	if d.ID != nil {
		t.id = *d.ID
	}

	return t
}

func (t *Task) ID() int              { return t.id }
func (t *Task) Description() string  { return t.description }
func (t *Task) Timestamp() time.Time { return t.timestamp }
func (t *Task) Persisted() bool      { return t.id != 0 }

func (t *Task) DTO() DTO {
	d := DTO{
		Description: t.description,
		Timestamp:   t.timestamp,
	}
	if t.Persisted() {
		id := t.id
		d.ID = &id
	}

	return d
}
