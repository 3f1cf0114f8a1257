package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:3560", "")
	if c.BaseURL != "http://localhost:3560" || c.APIKey != "" {
		t.Errorf("New: %+v", c)
	}
	c2 := New("http://localhost:3560", "secret")
	if c2.APIKey != "secret" {
		t.Errorf("New with key: %+v", c2)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ctx := context.Background()
	ok, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if !ok {
		t.Fatal("Health: expected ok true")
	}
}

func TestHealth_error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"down"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ctx := context.Background()
	_, err := c.Health(ctx)
	if err == nil {
		t.Fatal("expected error from 503")
	}
}

func TestClient_setsAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "mykey")
	ctx := context.Background()
	_, _ = c.Health(ctx)
	if gotKey != "mykey" {
		t.Errorf("X-API-Key: got %q", gotKey)
	}
}

func TestCreateAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/agents" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"name":"A","type":"information","status":"active"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	a, err := c.CreateAgent(context.Background(), CreateAgentRequest{Name: "A", Type: "information"})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if a.ID != 1 || a.Status != "active" {
		t.Errorf("agent: %+v", a)
	}
}

func TestCreateAgent_apiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"name: must not be empty"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.CreateAgent(context.Background(), CreateAgentRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "api POST /agents: name: must not be empty" {
		t.Errorf("error: %q", got)
	}
}

func TestListAgents_filterQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.ListAgents(context.Background(), AgentFilter{Search: "writ", Status: "active"})
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if gotQuery != "search=writ&status=active" {
		t.Errorf("query: %q", gotQuery)
	}
}

func TestLayout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/layout" {
			t.Errorf("path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"positions":{"1":{"x":600,"y":300}},"edges":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	l, err := c.Layout(context.Background(), AgentFilter{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if p, ok := l.Positions[1]; !ok || p.X != 600 {
		t.Errorf("layout: %+v", l)
	}
}
