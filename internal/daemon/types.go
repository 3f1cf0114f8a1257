package daemon

// StartOptions configures the daemon (home, port, persist/ingest intervals, DB, metrics).
type StartOptions struct {
	Home               string
	Port               int
	PersistIntervalSec float64 // seconds between snapshot writes (0 = default 30s)
	IngestIntervalSec  float64 // seconds between spool scans (0 = default 2s)
	Dev                bool
	PprofAddr          string
	DBDriver           string // "sqlite" (default) or "postgres"
	DBURL              string // for postgres: connection string (or DATABASE_URL env)
	SeedDemo           bool   // seed the stock roster when the store is empty
	EnableOtel         bool   // enable OpenTelemetry metrics (Prometheus exporter + HTTP/SSE instrumentation)
}

// StatusInfo is the result of Status (running or not, PID, listen addr).
type StatusInfo struct {
	Running bool
	PID     int
	Addr    string
}
