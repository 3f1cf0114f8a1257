// Package notify delivers command outcome events to external sinks (webhooks,
// the SSE hub, the journal). The core engine only sees the Notifier port;
// everything here is host-side plumbing.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
)

// webhookClient bounds outbound delivery; an unresponsive endpoint must not
// hold a command open indefinitely.
var webhookClient = &http.Client{Timeout: 10 * time.Second}

// Sink is a named event destination.
type Sink interface {
	Name() string
	Notify(ctx context.Context, ev core.Event)
}

// Fanout forwards every event to each wrapped notifier in order.
type Fanout []core.Notifier

// Notify implements core.Notifier.
func (f Fanout) Notify(ctx context.Context, ev core.Event) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}

// Registry holds loaded sinks by name.
type Registry struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

func NewRegistry() *Registry {
	return &Registry{sinks: make(map[string]Sink)}
}

func (r *Registry) Register(name string, s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[name] = s
}

func (r *Registry) Get(name string) Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sinks[name]
}

// Notify implements core.Notifier by fanning out to every registered sink.
func (r *Registry) Notify(ctx context.Context, ev core.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sinks {
		s.Notify(ctx, ev)
	}
}

// LoadFromEnv registers sinks configured via environment variables
// (currently LUMINA_WEBHOOK_URL for an outbound incoming-webhook post).
func LoadFromEnv(r *Registry) {
	if url := os.Getenv("LUMINA_WEBHOOK_URL"); url != "" {
		r.Register("webhook", Webhook{URL: url})
	}
}

// Webhook posts a short event summary to an incoming-webhook URL
// (Slack-compatible payload: {"text": ...}).
type Webhook struct {
	URL      string
	Channel  string // optional override
	Username string // optional
}

func (w Webhook) Name() string { return "webhook" }

// Notify implements Sink. Delivery failures are logged, never propagated;
// a slow or dead webhook must not reject commands.
func (w Webhook) Notify(ctx context.Context, ev core.Event) {
	if err := w.post(ctx, FormatMessage(ev)); err != nil {
		slog.Warn("webhook notify failed", "kind", ev.Kind, "err", err)
	}
}

func (w Webhook) post(ctx context.Context, message string) error {
	if w.URL == "" {
		return fmt.Errorf("webhook URL not set")
	}
	payload := map[string]any{"text": message}
	if w.Channel != "" {
		payload["channel"] = w.Channel
	}
	if w.Username != "" {
		payload["username"] = w.Username
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := webhookClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// FormatMessage renders an event as a one-line human-readable summary.
func FormatMessage(ev core.Event) string {
	var b strings.Builder
	b.WriteString(ev.Kind)
	if ev.AgentID != 0 {
		fmt.Fprintf(&b, " agent=%d", ev.AgentID)
	}
	if ev.TeamID != 0 {
		fmt.Fprintf(&b, " team=%d", ev.TeamID)
	}
	if ev.Source != 0 || ev.Target != 0 {
		fmt.Fprintf(&b, " edge=%d->%d", ev.Source, ev.Target)
	}
	if ev.Status != "" {
		fmt.Fprintf(&b, " status=%s", ev.Status)
	}
	if ev.Err != "" {
		fmt.Fprintf(&b, " error=%q", ev.Err)
	}
	return b.String()
}
