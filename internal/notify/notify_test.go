package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
)

type countingSink struct {
	name string
	n    int
}

func (s *countingSink) Name() string                           { return s.name }
func (s *countingSink) Notify(_ context.Context, _ core.Event) { s.n++ }

func TestRegistry_RegisterGet(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	s := &countingSink{name: "test"}
	reg.Register("test", s)
	if got := reg.Get("test"); got != Sink(s) {
		t.Fatalf("Get(test): got %+v", got)
	}
	if reg.Get("nonexistent") != nil {
		t.Fatal("Get(nonexistent) should be nil")
	}
}

func TestRegistry_NotifyFansOut(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	a := &countingSink{name: "a"}
	b := &countingSink{name: "b"}
	reg.Register("a", a)
	reg.Register("b", b)

	reg.Notify(context.Background(), core.Event{Kind: core.EventAgentCreated, AgentID: 1})
	if a.n != 1 || b.n != 1 {
		t.Fatalf("fanout: a=%d b=%d, want 1 each", a.n, b.n)
	}
}

func TestFanout(t *testing.T) {
	t.Parallel()
	a := &countingSink{name: "a"}
	f := Fanout{a, nil, a}
	f.Notify(context.Background(), core.Event{Kind: core.EventTeamCreated})
	if a.n != 2 {
		t.Fatalf("fanout notified %d times, want 2", a.n)
	}
}

func TestWebhook_Notify_mockHTTP(t *testing.T) {
	t.Parallel()
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := Webhook{URL: srv.URL, Channel: "#ops"}
	w.Notify(context.Background(), core.Event{Kind: core.EventAgentDeleted, AgentID: 4})

	text, _ := payload["text"].(string)
	if !strings.Contains(text, core.EventAgentDeleted) || !strings.Contains(text, "agent=4") {
		t.Fatalf("payload text: %q", text)
	}
	if payload["channel"] != "#ops" {
		t.Fatalf("channel: %v", payload["channel"])
	}
}

func TestWebhook_clientHasTimeout(t *testing.T) {
	t.Parallel()
	// A dead endpoint must give up on its own; delivery runs inline with the
	// command that triggered it.
	if webhookClient.Timeout <= 0 {
		t.Fatal("webhook client must have a timeout")
	}
}

func TestWebhook_post_emptyURL(t *testing.T) {
	t.Parallel()
	w := Webhook{}
	if err := w.post(context.Background(), "msg"); err == nil {
		t.Fatal("expected error when webhook URL empty")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LUMINA_WEBHOOK_URL", "https://example.com/hook")
	reg := NewRegistry()
	LoadFromEnv(reg)
	if reg.Get("webhook") == nil {
		t.Fatal("webhook sink not registered from env")
	}
}

func TestFormatMessage(t *testing.T) {
	t.Parallel()
	ev := core.Event{Kind: core.EventEdgeUpserted, Source: 1, Target: 2, Err: "boom"}
	got := FormatMessage(ev)
	for _, want := range []string{core.EventEdgeUpserted, "edge=1->2", `error="boom"`} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatMessage: %q missing %q", got, want)
		}
	}
}
