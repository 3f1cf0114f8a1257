package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
)

func TestAppendAndTail(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	j := Open(home)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		ev := core.Event{Kind: core.EventAgentCreated, AgentID: int64(i), At: at}
		if err := j.Append(ctx, ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := j.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(all) != 3 || all[0].AgentID != 1 || all[2].AgentID != 3 {
		t.Fatalf("Tail(0): got %+v", all)
	}

	last, err := j.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("Tail(2): %v", err)
	}
	if len(last) != 2 || last[0].AgentID != 2 {
		t.Fatalf("Tail(2): got %+v", last)
	}
}

func TestTail_missingFile(t *testing.T) {
	t.Parallel()
	j := Open(t.TempDir())
	events, err := j.Tail(context.Background(), 10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestTail_skipsCorruptLines(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	j := Open(home)
	ctx := context.Background()

	if err := j.Append(ctx, core.Event{Kind: core.EventTeamCreated, TeamID: 1}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	f, err := os.OpenFile(filepath.Join(j.Dir, "events.jsonl"), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("{not json\n")
	_ = f.Close()
	if err := j.Append(ctx, core.Event{Kind: core.EventTeamDeleted, TeamID: 1}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := j.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("corrupt line should be skipped: got %d events", len(events))
	}
}

func TestNotify_doesNotPanic(t *testing.T) {
	t.Parallel()
	j := Open(t.TempDir())
	j.Notify(context.Background(), core.Event{Kind: core.EventEdgeUpserted, Source: 1, Target: 2})
	events, _ := j.Tail(context.Background(), 0)
	if len(events) != 1 {
		t.Fatalf("Notify should append: got %d events", len(events))
	}
}
