// Package client provides a Go SDK for the Lumina HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// Client calls the Lumina HTTP API. It is safe for concurrent use.
type Client struct {
	BaseURL    string       // e.g. "http://localhost:3560"
	APIKey     string       // optional; set for X-API-Key / api_key
	HTTPClient *http.Client // optional; nil uses http.DefaultClient
}

// New returns a client for the given base URL (e.g. "http://localhost:3560").
// APIKey is optional; when set, requests use the X-API-Key header.
func New(baseURL, apiKey string) *Client {
	return &Client{BaseURL: baseURL, APIKey: apiKey}
}

func (c *Client) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(b)
	}
	u := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	return c.client().Do(req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error != "" {
			return fmt.Errorf("api %s %s: %s", method, path, errBody.Error)
		}
		return fmt.Errorf("api %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Health returns the /health response (ok: true).
func (c *Client) Health(ctx context.Context) (ok bool, err error) {
	var out struct {
		OK bool `json:"ok"`
	}
	err = c.doJSON(ctx, http.MethodGet, "/health", nil, &out)
	return out.OK, err
}

// Config returns the /config response.
func (c *Client) Config(ctx context.Context) (*models.Config, error) {
	var out models.Config
	err := c.doJSON(ctx, http.MethodGet, "/config", nil, &out)
	return &out, err
}

// Snapshot returns the full graph state including the layout of all agents.
func (c *Client) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	var out models.Snapshot
	err := c.doJSON(ctx, http.MethodGet, "/snapshot", nil, &out)
	return &out, err
}

// AgentFilter narrows ListAgents and Layout. Empty fields and "all" match everything.
type AgentFilter struct {
	Search string
	Status string
	Type   string
}

func (f AgentFilter) encode() string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListAgents returns agents matching the filter, in creation order.
func (c *Client) ListAgents(ctx context.Context, f AgentFilter) ([]models.Agent, error) {
	var out []models.Agent
	err := c.doJSON(ctx, http.MethodGet, "/agents"+f.encode(), nil, &out)
	return out, err
}

// CreateAgentRequest is the POST /agents body.
type CreateAgentRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Skills      []string `json:"skills,omitempty"`
	Description string   `json:"description,omitempty"`
}

// CreateAgent creates an agent and returns it.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*models.Agent, error) {
	var out models.Agent
	err := c.doJSON(ctx, http.MethodPost, "/agents", req, &out)
	return &out, err
}

// GetAgent returns one agent by id.
func (c *Client) GetAgent(ctx context.Context, id int64) (*models.Agent, error) {
	var out models.Agent
	err := c.doJSON(ctx, http.MethodGet, "/agents/"+strconv.FormatInt(id, 10), nil, &out)
	return &out, err
}

// UpdateAgentRequest is the PATCH /agents/{id} body; nil fields are left unchanged.
type UpdateAgentRequest struct {
	Name           *string   `json:"name,omitempty"`
	Type           *string   `json:"type,omitempty"`
	Skills         *[]string `json:"skills,omitempty"`
	Description    *string   `json:"description,omitempty"`
	CompletedTasks *int      `json:"completed_tasks,omitempty"`
	SuccessRate    *float64  `json:"success_rate,omitempty"`
}

// UpdateAgent applies a partial update and returns the updated agent.
func (c *Client) UpdateAgent(ctx context.Context, id int64, req UpdateAgentRequest) (*models.Agent, error) {
	var out models.Agent
	err := c.doJSON(ctx, http.MethodPatch, "/agents/"+strconv.FormatInt(id, 10), req, &out)
	return &out, err
}

// DeleteAgent deletes an agent; its memberships and edges go with it.
func (c *Client) DeleteAgent(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/agents/"+strconv.FormatInt(id, 10), nil, nil)
}

// SetAgentStatus sets an agent's status (active or inactive).
func (c *Client) SetAgentStatus(ctx context.Context, id int64, status string) (*models.Agent, error) {
	var out models.Agent
	err := c.doJSON(ctx, http.MethodPost, "/agents/"+strconv.FormatInt(id, 10)+"/status",
		map[string]string{"status": status}, &out)
	return &out, err
}

// AgentTeams returns the teams an agent belongs to.
func (c *Client) AgentTeams(ctx context.Context, id int64) ([]models.Team, error) {
	var out []models.Team
	err := c.doJSON(ctx, http.MethodGet, "/agents/"+strconv.FormatInt(id, 10)+"/teams", nil, &out)
	return out, err
}

// AgentEdges returns the edges touching an agent.
func (c *Client) AgentEdges(ctx context.Context, id int64) ([]models.Interaction, error) {
	var out []models.Interaction
	err := c.doJSON(ctx, http.MethodGet, "/agents/"+strconv.FormatInt(id, 10)+"/edges", nil, &out)
	return out, err
}

// ListTeams returns teams matching search/status; empty values match everything.
func (c *Client) ListTeams(ctx context.Context, search, status string) ([]models.Team, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if status != "" {
		q.Set("status", status)
	}
	path := "/teams"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Team
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CreateTeamRequest is the POST /teams body.
type CreateTeamRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Members     []int64 `json:"members,omitempty"`
	Tasks       int     `json:"tasks,omitempty"`
}

// CreateTeam creates a team and returns it.
func (c *Client) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	var out models.Team
	err := c.doJSON(ctx, http.MethodPost, "/teams", req, &out)
	return &out, err
}

// GetTeam returns one team by id.
func (c *Client) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	var out models.Team
	err := c.doJSON(ctx, http.MethodGet, "/teams/"+strconv.FormatInt(id, 10), nil, &out)
	return &out, err
}

// DeleteTeam deletes a team; member agents are kept.
func (c *Client) DeleteTeam(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/teams/"+strconv.FormatInt(id, 10), nil, nil)
}

// SetTeamStatus sets a team's status (active, inactive, or idle).
func (c *Client) SetTeamStatus(ctx context.Context, id int64, status string) (*models.Team, error) {
	var out models.Team
	err := c.doJSON(ctx, http.MethodPost, "/teams/"+strconv.FormatInt(id, 10)+"/status",
		map[string]string{"status": status}, &out)
	return &out, err
}

// TeamMembers returns a team's members resolved to full agents.
func (c *Client) TeamMembers(ctx context.Context, id int64) ([]models.Agent, error) {
	var out []models.Agent
	err := c.doJSON(ctx, http.MethodGet, "/teams/"+strconv.FormatInt(id, 10)+"/members", nil, &out)
	return out, err
}

// AddTeamMember adds an agent to a team (idempotent) and returns the team.
func (c *Client) AddTeamMember(ctx context.Context, teamID, agentID int64) (*models.Team, error) {
	var out models.Team
	err := c.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("/teams/%d/members/%d", teamID, agentID), nil, &out)
	return &out, err
}

// RemoveTeamMember removes an agent from a team and returns the team.
func (c *Client) RemoveTeamMember(ctx context.Context, teamID, agentID int64) (*models.Team, error) {
	var out models.Team
	err := c.doJSON(ctx, http.MethodDelete,
		fmt.Sprintf("/teams/%d/members/%d", teamID, agentID), nil, &out)
	return &out, err
}

// ListEdges returns all interaction edges in creation order.
func (c *Client) ListEdges(ctx context.Context) ([]models.Interaction, error) {
	var out []models.Interaction
	err := c.doJSON(ctx, http.MethodGet, "/edges", nil, &out)
	return out, err
}

// UpsertEdge folds an interaction observation into the edge between two agents.
func (c *Client) UpsertEdge(ctx context.Context, source, target int64, strengthDelta float64, countDelta int) (*models.Interaction, error) {
	var out models.Interaction
	err := c.doJSON(ctx, http.MethodPost, "/edges", map[string]any{
		"source": source, "target": target,
		"strength_delta": strengthDelta, "count_delta": countDelta,
	}, &out)
	return &out, err
}

// Layout returns the circular layout for the filtered agent set.
func (c *Client) Layout(ctx context.Context, f AgentFilter) (*models.Layout, error) {
	var out models.Layout
	err := c.doJSON(ctx, http.MethodGet, "/layout"+f.encode(), nil, &out)
	return &out, err
}
