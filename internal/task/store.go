package task

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pix-xip/taskline/internal/rest"
)

// Store performs create/update/delete against the remote task store.
// Every method mutates the entity only after the remote call succeeds,
// so an entity always reflects the last confirmed remote state.
type Store struct {
	client *rest.Client
}

func NewStore(client *rest.Client) *Store {
	return &Store{client: client}
}

// Create sends the task for persistence. On success the server-assigned
// id and timestamp overwrite the local values; on failure the task stays
// unpersisted and the error is returned to the caller.
func (s *Store) Create(ctx context.Context, t *Task) error {
	if t.Persisted() {
		return fmt.Errorf("task %d already persisted", t.id)
	}

	var created DTO

	if err := s.client.Post(ctx, "task", t.DTO(), &created); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	if created.ID != nil {
		t.id = *created.ID
	}

	t.timestamp = created.Timestamp

	return nil
}

// Update sends only the changed description. The local description
// changes only on success; on failure the entity is untouched.
func (s *Store) Update(ctx context.Context, t *Task, description string) error {
	if !t.Persisted() {
		return fmt.Errorf("cannot update an unpersisted task")
	}

	body := map[string]string{"description": description}

	if err := s.client.Put(ctx, "task/"+strconv.Itoa(t.id), body, nil); err != nil {
		return fmt.Errorf("update task %d: %w", t.id, err)
	}

	t.description = description

	return nil
}

// Delete removes the task from the remote store. Callers drop the task
// from registries and views only after this returns nil.
func (s *Store) Delete(ctx context.Context, t *Task) error {
	if !t.Persisted() {
		return fmt.Errorf("cannot delete an unpersisted task")
	}

	if err := s.client.Delete(ctx, "task/"+strconv.Itoa(t.id), nil); err != nil {
		return fmt.Errorf("delete task %d: %w", t.id, err)
	}

	return nil
}

// List fetches every task currently in the remote store.
func (s *Store) List(ctx context.Context) ([]*Task, error) {
	var out struct {
		Results []DTO `json:"results"`
	}

	if err := s.client.Get(ctx, "tasks", nil, &out); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*Task, 0, len(out.Results))
	for _, d := range out.Results {
		tasks = append(tasks, fromDTO(d))
	}

	return tasks, nil
}
