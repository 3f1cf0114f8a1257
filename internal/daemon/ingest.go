package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/httpapi"
	"github.com/kimhons/lumina-ai-sub000/internal/otel"
)

// spoolEvent is one line of a telemetry drop: an observed interaction between
// two agents. Collectors append these to *.jsonl files in the spool dir.
type spoolEvent struct {
	Source        int64   `json:"source"`
	Target        int64   `json:"target"`
	StrengthDelta float64 `json:"strength_delta"`
	CountDelta    int     `json:"count_delta"`
}

// runIngestLoop scans the spool dir on an interval and folds each drop file
// into the graph through the edge command path, so ingested events get the
// same validation, notifications, and metrics as API writes.
func runIngestLoop(ctx context.Context, opts StartOptions, app *httpapi.App) {
	interval := time.Duration(opts.IngestIntervalSec * float64(time.Second))
	if interval <= 0 {
		interval = 2 * time.Second
	}

	dir := spoolDir(opts.Home)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ingestSpool(ctx, dir, app)
		}
	}
}

// ingestSpool processes every *.jsonl file in dir, oldest name first, and
// removes each file once applied. Corrupt lines and rejected events are
// logged and skipped; a bad line must not wedge the spool.
func ingestSpool(ctx context.Context, dir string, app *httpapi.App) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("spool scan failed", "dir", dir, "err", err)
		}
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		applied, err := ingestFile(ctx, path, app)
		if err != nil {
			slog.Error("spool file failed", "file", name, "err", err)
			continue
		}
		if applied > 0 {
			otel.RecordEdgeIngest(ctx, applied)
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("spool file remove failed", "file", name, "err", err)
		}
	}
}

func ingestFile(ctx context.Context, path string, app *httpapi.App) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	var applied int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev spoolEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			slog.Warn("spool line skipped", "file", filepath.Base(path), "err", err)
			continue
		}
		if _, err := app.Engine.UpsertEdge(ctx, ev.Source, ev.Target, ev.StrengthDelta, ev.CountDelta); err != nil {
			slog.Warn("spool event rejected", "file", filepath.Base(path), "source", ev.Source, "target", ev.Target, "err", err)
			continue
		}
		applied++
	}
	return applied, sc.Err()
}
