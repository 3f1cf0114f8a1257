// Package query provides stateless, order-preserving predicate filters for
// agents and teams. Filters AND-compose: a row must match every constraint.
// An empty search and a status/type of "" or "all" impose no constraint.
package query

import (
	"strings"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// AgentFilter selects agents by name substring, status, and type.
type AgentFilter struct {
	Search string
	Status string
	Type   string
}

// Match reports whether a satisfies every constraint of f.
// The name match is a case-insensitive substring test.
func (f AgentFilter) Match(a models.Agent) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.Search)) {
		return false
	}
	if !wildcard(f.Status) && a.Status != f.Status {
		return false
	}
	if !wildcard(f.Type) && a.Type != f.Type {
		return false
	}
	return true
}

// FilterAgents returns the agents matching f in their original order.
func FilterAgents(agents []models.Agent, f AgentFilter) []models.Agent {
	out := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// TeamFilter selects teams by name substring and status.
type TeamFilter struct {
	Search string
	Status string
}

// Match reports whether t satisfies every constraint of f.
func (f TeamFilter) Match(t models.Team) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Search)) {
		return false
	}
	if !wildcard(f.Status) && t.Status != f.Status {
		return false
	}
	return true
}

// FilterTeams returns the teams matching f in their original order.
func FilterTeams(teams []models.Team, f TeamFilter) []models.Team {
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func wildcard(s string) bool {
	return s == "" || s == models.FilterAll
}
