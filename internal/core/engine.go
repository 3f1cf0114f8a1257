// Package core implements the in-memory agent/team collaboration registry:
// canonical Agent and Team collections, the weighted interaction graph
// between agents, and the command facade external callers use to mutate and
// query them. All state is owned by Engine; commands run one at a time to
// completion so multi-collection mutations (e.g. cascade delete) appear
// atomic to readers. The engine performs no I/O itself — persistence and
// presentation are host concerns.
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/layout"
	"github.com/kimhons/lumina-ai-sub000/internal/query"
	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

type edgeKey struct {
	source int64
	target int64
}

// Engine is the single entry point for all mutations and queries. It is safe
// for concurrent use; an internal mutex serializes commands.
type Engine struct {
	mu   sync.Mutex
	now  func() time.Time
	sink Notifier

	agents     map[int64]*models.Agent
	agentOrder []int64
	teams      map[int64]*models.Team
	teamOrder  []int64

	edgeIndex map[edgeKey]*models.Interaction
	edgeOrder []edgeKey

	// High-water marks so ids are never recycled after deletion.
	lastAgentID int64
	lastTeamID  int64

	layoutOpts layout.Options
}

// InitialState is the data loaded from a persistence provider at startup.
type InitialState struct {
	Agents []models.Agent
	Teams  []models.Team
	Edges  []models.Interaction
}

// Options configures a new Engine. Zero values pick sensible defaults.
type Options struct {
	Now     func() time.Time // defaults to time.Now
	Sink    Notifier         // defaults to a no-op sink
	Initial *InitialState    // optional preloaded state
	Layout  layout.Options   // zero value uses the default radius/center
}

// New builds an engine, validating any initial state for referential
// integrity (teams and edges must only reference existing agents).
func New(opts Options) (*Engine, error) {
	e := &Engine{
		now:        opts.Now,
		sink:       opts.Sink,
		agents:     make(map[int64]*models.Agent),
		teams:      make(map[int64]*models.Team),
		edgeIndex:  make(map[edgeKey]*models.Interaction),
		layoutOpts: opts.Layout,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.sink == nil {
		e.sink = nopNotifier{}
	}
	if e.layoutOpts.Radius <= 0 {
		e.layoutOpts = layout.DefaultOptions()
	}
	if opts.Initial != nil {
		if err := e.load(opts.Initial); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) load(init *InitialState) error {
	for i := range init.Agents {
		a := init.Agents[i]
		if a.ID <= 0 {
			return fmt.Errorf("load agent %q: non-positive id %d", a.Name, a.ID)
		}
		if _, ok := e.agents[a.ID]; ok {
			return fmt.Errorf("load agent %q: duplicate id %d", a.Name, a.ID)
		}
		c := copyAgent(&a)
		e.agents[a.ID] = &c
		e.agentOrder = append(e.agentOrder, a.ID)
		if a.ID > e.lastAgentID {
			e.lastAgentID = a.ID
		}
	}
	for i := range init.Teams {
		t := init.Teams[i]
		if t.ID <= 0 {
			return fmt.Errorf("load team %q: non-positive id %d", t.Name, t.ID)
		}
		if _, ok := e.teams[t.ID]; ok {
			return fmt.Errorf("load team %q: duplicate id %d", t.Name, t.ID)
		}
		for _, m := range t.Members {
			if _, ok := e.agents[m]; !ok {
				return fmt.Errorf("load team %q: member agent %d not found", t.Name, m)
			}
		}
		c := copyTeam(&t)
		c.Members = dedupIDs(c.Members)
		e.teams[t.ID] = &c
		e.teamOrder = append(e.teamOrder, t.ID)
		if t.ID > e.lastTeamID {
			e.lastTeamID = t.ID
		}
	}
	for _, edge := range init.Edges {
		if _, ok := e.agents[edge.Source]; !ok {
			return fmt.Errorf("load edge %d->%d: source agent not found", edge.Source, edge.Target)
		}
		if _, ok := e.agents[edge.Target]; !ok {
			return fmt.Errorf("load edge %d->%d: target agent not found", edge.Source, edge.Target)
		}
		k := edgeKey{edge.Source, edge.Target}
		if _, ok := e.edgeIndex[k]; ok {
			return fmt.Errorf("load edge %d->%d: duplicate edge", edge.Source, edge.Target)
		}
		c := edge
		c.Strength = clamp01(c.Strength)
		e.edgeIndex[k] = &c
		e.edgeOrder = append(e.edgeOrder, k)
	}
	return nil
}

// notify publishes a command outcome. Callers must not hold e.mu: sinks do
// I/O (journal, webhooks) and may query the engine. err of nil means success.
func (e *Engine) notify(ctx context.Context, ev Event, err error) {
	ev.At = e.now().UTC()
	if err != nil {
		ev.Err = err.Error()
	}
	e.sink.Notify(ctx, ev)
}

// Agents returns all agents in creation order.
func (e *Engine) Agents() []models.Agent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.agentsLocked()
}

func (e *Engine) agentsLocked() []models.Agent {
	out := make([]models.Agent, 0, len(e.agentOrder))
	for _, id := range e.agentOrder {
		out = append(out, copyAgent(e.agents[id]))
	}
	return out
}

// Teams returns all teams in creation order.
func (e *Engine) Teams() []models.Team {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.teamsLocked()
}

func (e *Engine) teamsLocked() []models.Team {
	out := make([]models.Team, 0, len(e.teamOrder))
	for _, id := range e.teamOrder {
		out = append(out, copyTeam(e.teams[id]))
	}
	return out
}

// Agent returns a single agent by id.
func (e *Engine) Agent(id int64) (models.Agent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.agents[id]
	if !ok {
		return models.Agent{}, errAgentNotFound(id)
	}
	return copyAgent(a), nil
}

// Team returns a single team by id.
func (e *Engine) Team(id int64) (models.Team, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.teams[id]
	if !ok {
		return models.Team{}, errTeamNotFound(id)
	}
	return copyTeam(t), nil
}

// FilterAgents returns the agents matching f, preserving creation order.
func (e *Engine) FilterAgents(f query.AgentFilter) []models.Agent {
	return query.FilterAgents(e.Agents(), f)
}

// FilterTeams returns the teams matching f, preserving creation order.
func (e *Engine) FilterTeams(f query.TeamFilter) []models.Team {
	return query.FilterTeams(e.Teams(), f)
}

// ComputeLayout filters the agent set with f and lays out the visible agents
// on a circle. Edges with a hidden endpoint are skipped, not errors.
func (e *Engine) ComputeLayout(f query.AgentFilter) models.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	visible := query.FilterAgents(e.agentsLocked(), f)
	return layout.Compute(visible, e.edgesLocked(), e.layoutOpts)
}

// Snapshot returns an immutable view of the full state, including the layout
// of all agents. Callers may retain it freely; it shares no memory with the
// engine.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	agents := e.agentsLocked()
	edges := e.edgesLocked()
	return models.Snapshot{
		Agents: agents,
		Teams:  e.teamsLocked(),
		Edges:  edges,
		Layout: layout.Compute(agents, edges, e.layoutOpts),
	}
}

func copyAgent(a *models.Agent) models.Agent {
	c := *a
	if a.Skills != nil {
		c.Skills = append([]string(nil), a.Skills...)
	}
	return c
}

func copyTeam(t *models.Team) models.Team {
	c := *t
	if t.Members != nil {
		c.Members = append([]int64(nil), t.Members...)
	}
	return c
}

func dedupIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
