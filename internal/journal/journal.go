// Package journal persists command outcome events as an append-only JSONL
// audit log under the lumina home directory.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
)

const fileName = "events.jsonl"

// Journal appends events to <Dir>/events.jsonl, one JSON object per line.
type Journal struct {
	Dir string
}

// Path returns the journal file path under home.
func Path(home string) string {
	return filepath.Join(home, "journal", fileName)
}

// Open returns a journal rooted at home's journal directory.
func Open(home string) *Journal {
	return &Journal{Dir: filepath.Join(home, "journal")}
}

// Append adds one event to the journal. Creates the directory and file if
// they do not exist.
func (j *Journal) Append(ctx context.Context, ev core.Event) error {
	if err := os.MkdirAll(j.Dir, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(j.Dir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = f.Close() }()
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Notify implements core.Notifier. Append failures are logged, not
// propagated; the journal must never reject a command.
func (j *Journal) Notify(ctx context.Context, ev core.Event) {
	if err := j.Append(ctx, ev); err != nil {
		slog.Warn("journal append failed", "kind", ev.Kind, "err", err)
	}
}

// Tail returns up to limit events from the end of the journal, oldest first.
// A limit of 0 returns all events. A missing journal yields no events.
func (j *Journal) Tail(ctx context.Context, limit int) ([]core.Event, error) {
	f, err := os.Open(filepath.Join(j.Dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var events []core.Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev core.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			// Skip torn or corrupt lines rather than failing the read.
			continue
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
