package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
	"github.com/kimhons/lumina-ai-sub000/internal/otel"
	"github.com/kimhons/lumina-ai-sub000/internal/query"
)

func agentFilterFromQuery(r *http.Request) query.AgentFilter {
	q := r.URL.Query()
	return query.AgentFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
	}
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

func (a *App) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, a.Engine.Snapshot())
}

func (a *App) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	start := time.Now()
	l := a.Engine.ComputeLayout(agentFilterFromQuery(r))
	otel.RecordLayout(r.Context(), time.Since(start))
	writeJSON(w, l)
}

// --- Agents ---

func (a *App) handleAgents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, a.Engine.FilterAgents(agentFilterFromQuery(r)))
	case http.MethodPost:
		var body struct {
			Name        string   `json:"name"`
			Type        string   `json:"type"`
			Skills      []string `json:"skills"`
			Description string   `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		agent, err := a.Engine.CreateAgent(r.Context(), core.CreateAgentParams{
			Name: body.Name, Type: body.Type, Skills: body.Skills, Description: body.Description,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, agent)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleAgentByID routes /agents/{id}, /agents/{id}/status, /agents/{id}/teams,
// and /agents/{id}/edges.
func (a *App) handleAgentByID(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/agents/"), "/")
	id, ok := parseID(parts[0])
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	if len(parts) >= 2 && parts[1] != "" {
		switch parts[1] {
		case "status":
			if r.Method != http.MethodPost {
				writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid json")
				return
			}
			agent, err := a.Engine.SetAgentStatus(r.Context(), id, body.Status)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			writeJSON(w, agent)
		case "teams":
			if r.Method != http.MethodGet {
				writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
			teams, err := a.Engine.TeamsForAgent(id)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			writeJSON(w, teams)
		case "edges":
			if r.Method != http.MethodGet {
				writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
			edges, err := a.Engine.EdgesOf(id)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			writeJSON(w, edges)
		default:
			writeJSONError(w, http.StatusNotFound, "not found")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		agent, err := a.Engine.Agent(id)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, agent)
	case http.MethodPatch:
		var body struct {
			Name           *string   `json:"name"`
			Type           *string   `json:"type"`
			Skills         *[]string `json:"skills"`
			Description    *string   `json:"description"`
			CompletedTasks *int      `json:"completed_tasks"`
			SuccessRate    *float64  `json:"success_rate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		agent, err := a.Engine.UpdateAgent(r.Context(), id, core.AgentPatch{
			Name: body.Name, Type: body.Type, Skills: body.Skills,
			Description: body.Description, CompletedTasks: body.CompletedTasks,
			SuccessRate: body.SuccessRate,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, agent)
	case http.MethodDelete:
		if err := a.Engine.DeleteAgent(r.Context(), id); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- Teams ---

func (a *App) handleTeams(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		writeJSON(w, a.Engine.FilterTeams(query.TeamFilter{
			Search: q.Get("search"),
			Status: q.Get("status"),
		}))
	case http.MethodPost:
		var body struct {
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Members     []int64 `json:"members"`
			Tasks       int     `json:"tasks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		team, err := a.Engine.CreateTeam(r.Context(), core.CreateTeamParams{
			Name: body.Name, Description: body.Description,
			Members: body.Members, Tasks: body.Tasks,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, team)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTeamByID routes /teams/{id}, /teams/{id}/status, /teams/{id}/members,
// and /teams/{id}/members/{agentID}.
func (a *App) handleTeamByID(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/teams/"), "/")
	id, ok := parseID(parts[0])
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	if len(parts) >= 2 && parts[1] != "" {
		switch parts[1] {
		case "status":
			if r.Method != http.MethodPost {
				writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid json")
				return
			}
			team, err := a.Engine.SetTeamStatus(r.Context(), id, body.Status)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			writeJSON(w, team)
		case "members":
			a.handleTeamMembers(w, r, id, parts)
		default:
			writeJSONError(w, http.StatusNotFound, "not found")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		team, err := a.Engine.Team(id)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, team)
	case http.MethodPatch:
		var body struct {
			Name           *string `json:"name"`
			Description    *string `json:"description"`
			Tasks          *int    `json:"tasks"`
			CompletedTasks *int    `json:"completed_tasks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		team, err := a.Engine.UpdateTeam(r.Context(), id, core.TeamPatch{
			Name: body.Name, Description: body.Description,
			Tasks: body.Tasks, CompletedTasks: body.CompletedTasks,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, team)
	case http.MethodDelete:
		if err := a.Engine.DeleteTeam(r.Context(), id); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *App) handleTeamMembers(w http.ResponseWriter, r *http.Request, teamID int64, parts []string) {
	// /teams/{id}/members
	if len(parts) == 2 || parts[2] == "" {
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		agents, err := a.Engine.MembersOf(teamID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, agents)
		return
	}

	// /teams/{id}/members/{agentID}
	agentID, ok := parseID(parts[2])
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid agent id")
		return
	}
	switch r.Method {
	case http.MethodPut:
		team, err := a.Engine.AddAgentToTeam(r.Context(), teamID, agentID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, team)
	case http.MethodDelete:
		team, err := a.Engine.RemoveAgentFromTeam(r.Context(), teamID, agentID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, team)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- Edges ---

func (a *App) handleEdges(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, a.Engine.AllEdges())
	case http.MethodPost:
		var body struct {
			Source        int64   `json:"source"`
			Target        int64   `json:"target"`
			StrengthDelta float64 `json:"strength_delta"`
			CountDelta    int     `json:"count_delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		edge, err := a.Engine.UpsertEdge(r.Context(), body.Source, body.Target, body.StrengthDelta, body.CountDelta)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, edge)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
