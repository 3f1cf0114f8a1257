// Package httpapi exposes the collaboration graph over HTTP: CRUD for agents
// and teams, membership, interaction edges, layout, snapshot export, and an
// SSE stream of command events.
package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
	"github.com/kimhons/lumina-ai-sub000/internal/journal"
	"github.com/kimhons/lumina-ai-sub000/internal/notify"
	"github.com/kimhons/lumina-ai-sub000/internal/otel"
	"github.com/kimhons/lumina-ai-sub000/internal/store"
	"github.com/kimhons/lumina-ai-sub000/internal/store/postgres"
	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// limitBody wraps r.Body with http.MaxBytesReader so handlers cannot read more
// than maxBytes. Call this for requests that have a body before decoding JSON.
func limitBody(w http.ResponseWriter, r *http.Request, maxBytes int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
}

// bodyLimitMiddleware limits request body size for POST, PUT, PATCH to prevent OOM.
func bodyLimitMiddleware(maxBytes int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			limitBody(w, r, maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware sets CORS headers for dev mode (frontend on a different origin).
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ServerOptions configures the HTTP server (home dir, listen addr, API key, DB, metrics).
type ServerOptions struct {
	Home           string
	Addr           string
	Dev            bool
	APIKey         string       // if set, require X-API-Key header or query api_key
	DBDriver       string       // "sqlite" (default) or "postgres"
	DBURL          string       // for postgres: connection string (or set DATABASE_URL env)
	MetricsHandler http.Handler // if set, used for /metrics (e.g. OTel Prometheus handler)
	UseOtelHTTP    bool         // if true, wrap handler with otelhttp for request metrics
	SeedDemo       bool         // seed the stock roster when the store is empty
	Sink           core.Notifier
}

// App holds the HTTP server, SSE hub, graph engine, store provider, notifier
// registry, and home path.
type App struct {
	Server    *http.Server
	Hub       *SSEHub
	Engine    *core.Engine
	Provider  store.Provider
	Notifiers *notify.Registry
	Home      string
}

// NewApp creates the HTTP app (server, hub, engine, store, notifiers) and
// registers all routes. The engine is loaded from the store; every command
// event is fanned out to the SSE hub, the journal, OTel counters, and any
// notification sinks from the environment.
func NewApp(opts ServerOptions) (*App, error) {
	hub := NewSSEHub()
	mux := http.NewServeMux()

	var provider store.Provider
	var err error
	if opts.DBDriver == "postgres" {
		provider, err = postgres.Open(opts.DBURL)
	} else {
		provider, err = store.Open(opts.Home)
	}
	if err != nil {
		return nil, err
	}
	if opts.SeedDemo {
		if err := provider.SeedDemo(context.Background()); err != nil {
			_ = provider.Close()
			return nil, err
		}
	}
	init, err := provider.LoadInitialState(context.Background())
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	reg := notify.NewRegistry()
	notify.LoadFromEnv(reg)

	sinks := notify.Fanout{hub, reg, core.NotifierFunc(func(ctx context.Context, ev core.Event) {
		otel.RecordCommand(ctx, ev.Kind, ev.Err != "")
	})}
	if opts.Home != "" {
		sinks = append(sinks, journal.Open(opts.Home))
	}
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}

	engine, err := core.New(core.Options{Initial: init, Sink: sinks})
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	app := &App{Hub: hub, Engine: engine, Provider: provider, Notifiers: reg, Home: opts.Home}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})

	if opts.MetricsHandler != nil {
		mux.Handle("/metrics", opts.MetricsHandler)
	} else {
		mux.HandleFunc("/metrics", app.handleMetricsFallback)
	}

	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"home":         opts.Home,
			"db_driver":    driverName(opts.DBDriver),
			"bootstrap_id": getBootstrapID(opts.Home),
		})
	})

	mux.HandleFunc("/snapshot", app.handleSnapshot)
	mux.HandleFunc("/layout", app.handleLayout)
	mux.HandleFunc("/agents", app.handleAgents)
	mux.HandleFunc("/agents/", app.handleAgentByID)
	mux.HandleFunc("/teams", app.handleTeams)
	mux.HandleFunc("/teams/", app.handleTeamByID)
	mux.HandleFunc("/edges", app.handleEdges)
	mux.HandleFunc("/stream", hub.Handler())

	var handler http.Handler = mux
	handler = bodyLimitMiddleware(models.DefaultMaxRequestBodyBytes, handler)
	if opts.Dev {
		handler = corsMiddleware(handler)
	}
	if opts.APIKey != "" {
		handler = apiKeyMiddleware(opts.APIKey, handler)
	}
	handler = requestLogMiddleware(handler)
	if opts.UseOtelHTTP {
		handler = otelhttp.NewHandler(handler, "lumina")
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	srv.RegisterOnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.SaveSnapshot(ctx, engine.Snapshot()); err != nil {
			slog.Error("final snapshot failed", "error", err)
		}
		_ = provider.Close()
	})
	app.Server = srv
	return app, nil
}

func driverName(d string) string {
	if d == "" {
		return "sqlite"
	}
	return d
}

// handleMetricsFallback serves a minimal Prometheus text exposition when no
// OTel handler is wired (e.g. metrics disabled in config).
func (a *App) handleMetricsFallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	counts := map[string]int{}
	for _, ag := range a.Engine.Agents() {
		counts[ag.Status]++
	}
	_, _ = fmt.Fprintf(w, "# TYPE lumina_agents_total gauge\n")
	for _, status := range []string{models.AgentStatusActive, models.AgentStatusInactive} {
		_, _ = fmt.Fprintf(w, "lumina_agents_total{status=%q} %d\n", status, counts[status])
	}
	_, _ = fmt.Fprintf(w, "# TYPE lumina_teams_total gauge\n")
	_, _ = fmt.Fprintf(w, "lumina_teams_total %d\n", len(a.Engine.Teams()))
	_, _ = fmt.Fprintf(w, "# TYPE lumina_edges_total gauge\n")
	_, _ = fmt.Fprintf(w, "lumina_edges_total %d\n", len(a.Engine.AllEdges()))
}

// responseRecorder captures status code for logging and forwards Flusher if supported.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func apiKeyMiddleware(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/health" || path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get("X-API-Key")
		if key == "" {
			key = r.URL.Query().Get("api_key")
		}
		if key != apiKey {
			writeJSONError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		slog.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func getBootstrapID(home string) string {
	if home == "" {
		return ""
	}
	protected := filepath.Join(home, "protected")
	_ = os.MkdirAll(protected, 0o755)
	path := filepath.Join(protected, "bootstrap_id")
	if b, err := os.ReadFile(path); err == nil {
		if s := string(bytesTrimSpace(b)); s != "" {
			return s
		}
	}
	id := randomHex(16)
	_ = os.WriteFile(path, []byte(id+"\n"), 0o644)
	return id
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// fallback: time-based
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(b)
}

func bytesTrimSpace(b []byte) []byte {
	i := 0
	j := len(b)
	for i < j && (b[i] == ' ' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	for j > i && (b[j-1] == ' ' || b[j-1] == '\n' || b[j-1] == '\r' || b[j-1] == '\t') {
		j--
	}
	return b[i:j]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeJSONError sends a JSON body {"error": "message"} with the given status code.
func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}

// writeEngineError maps engine errors to HTTP status codes: validation
// failures are 400, unknown ids are 404, everything else is 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case core.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case core.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
