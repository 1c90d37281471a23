// Package devserver is an in-memory reference implementation of the task
// store's REST surface, for local development and integration tests.
package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/pix-xip/taskline/internal/events"
)

type record struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type Server struct {
	mu    sync.Mutex
	seq   events.Sequence
	tasks []*record
	log   *log.Logger
}

func New() *Server {
	return &Server{log: log.WithPrefix("devserver")}
}

// Router mounts the REST surface under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.list)
		r.Post("/task", s.create)
		r.Put("/task/{id}", s.update)
		r.Delete("/task/{id}", s.remove)
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]record, 0, len(s.tasks))

	for _, t := range s.tasks {
		out = append(out, *t)
	}

	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Description string    `json:"description"`
		Timestamp   time.Time `json:"timestamp"`
	}

	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if strings.TrimSpace(in.Description) == "" {
		writeError(w, http.StatusBadRequest, "description required")
		return
	}

	s.mu.Lock()
	t := &record{
		ID:          s.seq.Next(),
		Description: in.Description,
		Timestamp:   time.Now().UTC(),
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.log.Debug("created task", "id", t.ID)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var in struct {
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if strings.TrimSpace(in.Description) == "" {
		writeError(w, http.StatusBadRequest, "description required")
		return
	}

	s.mu.Lock()
	t := s.find(id)
	if t != nil {
		t.Description = in.Description
	}
	s.mu.Unlock()

	if t == nil {
		writeError(w, http.StatusNotFound, "no such task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	found := false

	s.mu.Lock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			found = true

			break
		}
	}
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "no such task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{})
}

// find expects s.mu to be held.
func (s *Server) find(id int) *record {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}

	return nil
}

// Len reports how many tasks the store currently holds.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
