package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/httpapi"
)

// runPersistLoop writes the engine snapshot to the store on an interval. The
// server also saves once more on shutdown, so a crash loses at most one
// interval of changes.
func runPersistLoop(ctx context.Context, opts StartOptions, app *httpapi.App) {
	interval := time.Duration(opts.PersistIntervalSec * float64(time.Second))
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.Provider.SaveSnapshot(ctx, app.Engine.Snapshot()); err != nil {
				slog.Error("snapshot persist failed", "err", err)
			}
		}
	}
}
