package otel

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
)

var (
	initMetricsOnce     sync.Once
	commandsCounter     metric.Int64Counter
	layoutDuration      metric.Float64Histogram
	edgeIngestCounter   metric.Int64Counter
	sseEventsCounter    metric.Int64Counter
	sseConnectionsGauge metric.Int64ObservableGauge
	sseConnections      int64
	sseConnectionsMu    sync.Mutex
)

// InitMetrics creates the meter instruments. Safe to call multiple times; only runs once.
// Call after InitMeterProvider.
func InitMetrics(ctx context.Context) error {
	var err error
	initMetricsOnce.Do(func() {
		m := Meter()
		commandsCounter, err = m.Int64Counter("lumina_commands_total", metric.WithDescription("Total commands processed, by kind and outcome"))
		if err != nil {
			return
		}
		layoutDuration, err = m.Float64Histogram("lumina_layout_duration_seconds", metric.WithDescription("Layout recomputation duration in seconds"))
		if err != nil {
			return
		}
		edgeIngestCounter, err = m.Int64Counter("lumina_edge_events_ingested_total", metric.WithDescription("Interaction telemetry events ingested from the spool"))
		if err != nil {
			return
		}
		sseEventsCounter, err = m.Int64Counter("lumina_sse_events_total", metric.WithDescription("Total SSE events published"))
		if err != nil {
			return
		}
		sseConnectionsGauge, err = m.Int64ObservableGauge("lumina_sse_connections", metric.WithDescription("Current SSE subscriber count"))
		if err != nil {
			return
		}
		_, err = m.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			sseConnectionsMu.Lock()
			n := sseConnections
			sseConnectionsMu.Unlock()
			o.ObserveInt64(sseConnectionsGauge, n)
			return nil
		}, sseConnectionsGauge)
		if err != nil {
			return
		}
	})
	return err
}

// RecordCommand records one processed command with its outcome ("ok" or "error").
func RecordCommand(ctx context.Context, kind string, failed bool) {
	if commandsCounter == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	commandsCounter.Add(ctx, 1, metric.WithAttributes(
		AttrCommand.String(kind),
		AttrOutcome.String(outcome),
	))
}

// RecordLayout records one layout recomputation and its duration.
func RecordLayout(ctx context.Context, duration time.Duration) {
	if layoutDuration != nil {
		layoutDuration.Record(ctx, duration.Seconds())
	}
}

// RecordEdgeIngest records n interaction events consumed from the telemetry spool.
func RecordEdgeIngest(ctx context.Context, n int64) {
	if edgeIngestCounter != nil {
		edgeIngestCounter.Add(ctx, n)
	}
}

// RecordSSEEvent records one SSE event published.
func RecordSSEEvent(ctx context.Context) {
	if sseEventsCounter != nil {
		sseEventsCounter.Add(ctx, 1)
	}
}

// AddSSEConnection adds 1 to the SSE connection gauge (call on subscribe).
func AddSSEConnection() {
	sseConnectionsMu.Lock()
	sseConnections++
	sseConnectionsMu.Unlock()
}

// RemoveSSEConnection subtracts 1 from the SSE connection gauge (call on unsubscribe).
func RemoveSSEConnection() {
	sseConnectionsMu.Lock()
	sseConnections--
	if sseConnections < 0 {
		sseConnections = 0
	}
	sseConnectionsMu.Unlock()
}

// AgentCountFunc returns (active, inactive) agent counts for the registry gauge.
type AgentCountFunc func() (active, inactive int64)

// InitMetricsWithAgentCount creates instruments and optionally registers a callback
// for the agent gauge. Call after InitMeterProvider. If agentCount is nil, the
// gauge is not reported.
func InitMetricsWithAgentCount(ctx context.Context, agentCount AgentCountFunc) error {
	if err := InitMetrics(ctx); err != nil {
		return err
	}
	if agentCount == nil {
		return nil
	}
	m := Meter()
	agentsGauge, err := m.Float64ObservableGauge("lumina_agents_total", metric.WithDescription("Number of agents by status"))
	if err != nil {
		return err
	}
	_, err = m.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		active, inactive := agentCount()
		o.ObserveFloat64(agentsGauge, float64(active), metric.WithAttributes(AttrStatus.String("active")))
		o.ObserveFloat64(agentsGauge, float64(inactive), metric.WithAttributes(AttrStatus.String("inactive")))
		return nil
	}, agentsGauge)
	return err
}
