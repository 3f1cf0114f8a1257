// Command lumina is the collaboration-graph CLI and daemon entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version is stamped at build time: -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	// SIGINT/SIGTERM cancel the root context so the daemon loops and the
	// HTTP server drain instead of dying mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(Run(ctx, os.Args[1:]))
}
