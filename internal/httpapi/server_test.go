package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestServerSmoke(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	app, err := NewApp(ServerOptions{Home: home, Addr: "127.0.0.1:0", SeedDemo: true})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	ts := httptest.NewServer(app.Server.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = app.Provider.Close() })

	// health
	r1, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_ = r1.Body.Close()
	if r1.StatusCode != 200 {
		t.Fatalf("/health status=%d", r1.StatusCode)
	}

	// demo roster seeded and loaded into the engine
	r2, err := http.Get(ts.URL + "/agents")
	if err != nil {
		t.Fatalf("GET /agents: %v", err)
	}
	var agents []any
	if err := json.NewDecoder(r2.Body).Decode(&agents); err != nil {
		t.Fatalf("decode /agents: %v", err)
	}
	_ = r2.Body.Close()
	if len(agents) == 0 {
		t.Fatalf("expected seeded agents")
	}

	// fallback /metrics exposition
	mResp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	sc := bufio.NewScanner(mResp.Body)
	foundGauge := false
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "lumina_agents_total") {
			foundGauge = true
			break
		}
	}
	_ = mResp.Body.Close()
	if !foundGauge {
		t.Fatalf("expected lumina_agents_total in /metrics")
	}

	// JSON error on not found
	r3, err := http.Get(ts.URL + "/teams/9999")
	if err != nil {
		t.Fatalf("GET /teams/9999: %v", err)
	}
	if r3.StatusCode != 404 {
		t.Fatalf("GET /teams/9999 status=%d", r3.StatusCode)
	}
	var errBody struct{ Error string }
	if err := json.NewDecoder(r3.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	_ = r3.Body.Close()
	if errBody.Error == "" {
		t.Fatalf("expected error message in JSON")
	}

	// SSE should produce initial connected event quickly.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL+"/stream", nil)
	sseResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /stream: %v", err)
	}
	defer func() { _ = sseResp.Body.Close() }()

	sc = bufio.NewScanner(sseResp.Body)
	found := false
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "data: ") && strings.Contains(line, `"type":"connected"`) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("did not see connected event")
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	app, err := NewApp(ServerOptions{Home: t.TempDir(), Addr: "127.0.0.1:0", APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	ts := httptest.NewServer(app.Server.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = app.Provider.Close() })

	// /health bypasses the key check.
	r, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_ = r.Body.Close()
	if r.StatusCode != 200 {
		t.Fatalf("/health status=%d", r.StatusCode)
	}

	// No key: 401.
	r, err = http.Get(ts.URL + "/agents")
	if err != nil {
		t.Fatalf("GET /agents: %v", err)
	}
	_ = r.Body.Close()
	if r.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no key status=%d", r.StatusCode)
	}

	// Header key.
	req, _ := http.NewRequest("GET", ts.URL+"/agents", nil)
	req.Header.Set("X-API-Key", "secret")
	r, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with key: %v", err)
	}
	_ = r.Body.Close()
	if r.StatusCode != 200 {
		t.Fatalf("header key status=%d", r.StatusCode)
	}

	// Query key.
	r, err = http.Get(ts.URL + "/agents?api_key=secret")
	if err != nil {
		t.Fatalf("GET with query key: %v", err)
	}
	_ = r.Body.Close()
	if r.StatusCode != 200 {
		t.Fatalf("query key status=%d", r.StatusCode)
	}
}

func TestCommandEventsReachStream(t *testing.T) {
	t.Parallel()

	app, err := NewApp(ServerOptions{Home: t.TempDir(), Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	ts := httptest.NewServer(app.Server.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = app.Provider.Close() })

	ch := app.Hub.Subscribe()
	defer app.Hub.Unsubscribe(ch)

	resp, err := http.Post(ts.URL+"/agents", "application/json", strings.NewReader(`{"name":"A","type":"information"}`))
	if err != nil {
		t.Fatalf("POST /agents: %v", err)
	}
	_ = resp.Body.Close()

	select {
	case msg := <-ch:
		if !strings.Contains(string(msg), "agent_created") {
			t.Fatalf("stream message = %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event on stream after create")
	}

	// Failed commands are not broadcast.
	resp, err = http.Post(ts.URL+"/agents", "application/json", strings.NewReader(`{"name":"","type":"information"}`))
	if err != nil {
		t.Fatalf("POST /agents: %v", err)
	}
	_ = resp.Body.Close()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected stream message for failed command: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
