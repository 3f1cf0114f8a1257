package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// CreateAgentParams are the caller-supplied fields for a new agent.
// Status defaults to active; counters start at zero.
type CreateAgentParams struct {
	Name        string
	Type        string
	Skills      []string
	Description string
}

// AgentPatch is a partial update; nil fields are left unchanged.
type AgentPatch struct {
	Name           *string
	Type           *string
	Skills         *[]string
	Description    *string
	CompletedTasks *int
	SuccessRate    *float64
}

// CreateAgent validates params, assigns the next id, and stores the agent.
func (e *Engine) CreateAgent(ctx context.Context, params CreateAgentParams) (models.Agent, error) {
	e.mu.Lock()
	a, err := e.createAgentLocked(params)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventAgentCreated, AgentID: a.ID}, err)
	if err != nil {
		return models.Agent{}, err
	}
	return a, nil
}

func (e *Engine) createAgentLocked(params CreateAgentParams) (models.Agent, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return models.Agent{}, errField("name", "must not be empty")
	}
	if !models.ValidAgentType(params.Type) {
		return models.Agent{}, errField("type", fmt.Sprintf("unknown agent type %q", params.Type))
	}

	now := e.now().UTC()
	e.lastAgentID++
	a := &models.Agent{
		ID:          e.lastAgentID,
		Name:        name,
		Type:        params.Type,
		Status:      models.AgentStatusActive,
		Skills:      dedupSkills(params.Skills),
		Description: params.Description,
		CreatedAt:   now,
		LastActive:  now,
	}
	e.agents[a.ID] = a
	e.agentOrder = append(e.agentOrder, a.ID)
	return copyAgent(a), nil
}

// UpdateAgent applies a partial field update and refreshes last_active.
func (e *Engine) UpdateAgent(ctx context.Context, id int64, patch AgentPatch) (models.Agent, error) {
	e.mu.Lock()
	a, err := e.updateAgentLocked(id, patch)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventAgentUpdated, AgentID: id}, err)
	if err != nil {
		return models.Agent{}, err
	}
	return a, nil
}

func (e *Engine) updateAgentLocked(id int64, patch AgentPatch) (models.Agent, error) {
	a, ok := e.agents[id]
	if !ok {
		return models.Agent{}, errAgentNotFound(id)
	}

	// Validate the full patch before touching the agent so a rejected
	// command leaves state unchanged.
	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Agent{}, errField("name", "must not be empty")
		}
	}
	if patch.Type != nil && !models.ValidAgentType(*patch.Type) {
		return models.Agent{}, errField("type", fmt.Sprintf("unknown agent type %q", *patch.Type))
	}
	if patch.CompletedTasks != nil && *patch.CompletedTasks < 0 {
		return models.Agent{}, errField("completed_tasks", "must not be negative")
	}
	if patch.SuccessRate != nil && (*patch.SuccessRate < 0 || *patch.SuccessRate > 100) {
		return models.Agent{}, errField("success_rate", "must be between 0 and 100")
	}

	if patch.Name != nil {
		a.Name = name
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.Skills != nil {
		a.Skills = dedupSkills(*patch.Skills)
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.CompletedTasks != nil {
		a.CompletedTasks = *patch.CompletedTasks
	}
	if patch.SuccessRate != nil {
		a.SuccessRate = *patch.SuccessRate
	}
	a.LastActive = e.now().UTC()
	return copyAgent(a), nil
}

// DeleteAgent removes the agent and cascades: membership in every team is
// stripped and every interaction touching the agent is removed.
func (e *Engine) DeleteAgent(ctx context.Context, id int64) error {
	e.mu.Lock()
	err := e.deleteAgentLocked(id)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventAgentDeleted, AgentID: id}, err)
	return err
}

func (e *Engine) deleteAgentLocked(id int64) error {
	if _, ok := e.agents[id]; !ok {
		return errAgentNotFound(id)
	}
	delete(e.agents, id)
	e.agentOrder = removeID(e.agentOrder, id)
	e.cascadeMembershipLocked(id)
	e.removeEdgesTouchingLocked(id)
	return nil
}

// SetAgentStatus transitions the agent between active and inactive.
// Setting the current status is a no-op: last_active is not touched.
func (e *Engine) SetAgentStatus(ctx context.Context, id int64, status string) (models.Agent, error) {
	e.mu.Lock()
	a, err := e.setAgentStatusLocked(id, status)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventAgentStatus, AgentID: id, Status: status}, err)
	if err != nil {
		return models.Agent{}, err
	}
	return a, nil
}

func (e *Engine) setAgentStatusLocked(id int64, status string) (models.Agent, error) {
	if !models.ValidAgentStatus(status) {
		return models.Agent{}, errField("status", fmt.Sprintf("unknown agent status %q", status))
	}
	a, ok := e.agents[id]
	if !ok {
		return models.Agent{}, errAgentNotFound(id)
	}
	if a.Status == status {
		return copyAgent(a), nil
	}
	a.Status = status
	a.LastActive = e.now().UTC()
	return copyAgent(a), nil
}

func dedupSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
