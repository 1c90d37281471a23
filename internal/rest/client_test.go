package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJoinPathNormalizesSlashes(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"/api/", "/task/1"}, "api/task/1"},
		{[]string{"api", "task/1"}, "api/task/1"},
		{[]string{"api/", "tasks"}, "api/tasks"},
		{[]string{"//api//", "//tasks//"}, "api/tasks"},
		{[]string{"", "tasks"}, "tasks"},
	}

	for _, tc := range cases {
		if got := JoinPath(tc.parts...); got != tc.want {
			t.Fatalf("JoinPath(%v) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}

func TestBuildQueryEscapesAndFlags(t *testing.T) {
	got := buildQuery(Query{"order": "desc by", "archived": ""})
	want := "?archived&order=desc+by"
	if got != want {
		t.Fatalf("buildQuery = %q, want %q", got, want)
	}
}

func TestGetDecodesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("bodyless request carried a content type")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":1}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/")

	var out struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	if err := c.Get(context.Background(), "/tasks", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].ID != 1 {
		t.Fatalf("decoded %+v", out)
	}
}

func TestPostSetsJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Post(context.Background(), "task", map[string]any{"description": "x"}, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
}

func TestSuccessStatusNonJSONIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)

	err := c.Get(context.Background(), "tasks", nil, nil)
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
}

func TestErrorStatusCarriesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such task"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	err := c.Delete(context.Background(), "task/9", nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Status != http.StatusNotFound {
		t.Fatalf("status = %d", se.Status)
	}
	if len(se.JSON) == 0 || se.Raw != "" {
		t.Fatalf("expected JSON body, got JSON=%q Raw=%q", se.JSON, se.Raw)
	}
}

func TestErrorStatusCarriesRawText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL)

	err := c.Get(context.Background(), "tasks", nil, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Raw != "boom" || len(se.JSON) != 0 {
		t.Fatalf("expected raw body, got JSON=%q Raw=%q", se.JSON, se.Raw)
	}
}
