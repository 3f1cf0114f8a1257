package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// CreateTeamParams are the caller-supplied fields for a new team.
// Members must reference existing agents; duplicates are collapsed.
type CreateTeamParams struct {
	Name        string
	Description string
	Members     []int64
	Tasks       int
}

// TeamPatch is a partial update; nil fields are left unchanged.
type TeamPatch struct {
	Name           *string
	Description    *string
	Tasks          *int
	CompletedTasks *int
}

// CreateTeam validates params, assigns the next id, and stores the team.
func (e *Engine) CreateTeam(ctx context.Context, params CreateTeamParams) (models.Team, error) {
	e.mu.Lock()
	t, err := e.createTeamLocked(params)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventTeamCreated, TeamID: t.ID}, err)
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (e *Engine) createTeamLocked(params CreateTeamParams) (models.Team, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return models.Team{}, errField("name", "must not be empty")
	}
	if params.Tasks < 0 {
		return models.Team{}, errField("tasks", "must not be negative")
	}
	members := dedupIDs(append([]int64(nil), params.Members...))
	for _, id := range members {
		if _, ok := e.agents[id]; !ok {
			return models.Team{}, errAgentNotFound(id)
		}
	}

	now := e.now().UTC()
	e.lastTeamID++
	t := &models.Team{
		ID:          e.lastTeamID,
		Name:        name,
		Status:      models.TeamStatusActive,
		Members:     members,
		Tasks:       params.Tasks,
		Description: params.Description,
		CreatedAt:   now,
		LastActive:  now,
	}
	e.teams[t.ID] = t
	e.teamOrder = append(e.teamOrder, t.ID)
	return copyTeam(t), nil
}

// UpdateTeam applies a partial field update and refreshes last_active.
func (e *Engine) UpdateTeam(ctx context.Context, id int64, patch TeamPatch) (models.Team, error) {
	e.mu.Lock()
	t, err := e.updateTeamLocked(id, patch)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventTeamUpdated, TeamID: id}, err)
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (e *Engine) updateTeamLocked(id int64, patch TeamPatch) (models.Team, error) {
	t, ok := e.teams[id]
	if !ok {
		return models.Team{}, errTeamNotFound(id)
	}

	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Team{}, errField("name", "must not be empty")
		}
	}
	tasks := t.Tasks
	if patch.Tasks != nil {
		tasks = *patch.Tasks
		if tasks < 0 {
			return models.Team{}, errField("tasks", "must not be negative")
		}
	}
	completed := t.CompletedTasks
	if patch.CompletedTasks != nil {
		completed = *patch.CompletedTasks
		if completed < 0 {
			return models.Team{}, errField("completed_tasks", "must not be negative")
		}
	}
	if completed > tasks {
		return models.Team{}, errField("completed_tasks", "must not exceed tasks")
	}

	if patch.Name != nil {
		t.Name = name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	t.Tasks = tasks
	t.CompletedTasks = completed
	t.LastActive = e.now().UTC()
	return copyTeam(t), nil
}

// DeleteTeam removes the team. Agents are untouched; only the grouping goes.
func (e *Engine) DeleteTeam(ctx context.Context, id int64) error {
	e.mu.Lock()
	err := e.deleteTeamLocked(id)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventTeamDeleted, TeamID: id}, err)
	return err
}

func (e *Engine) deleteTeamLocked(id int64) error {
	if _, ok := e.teams[id]; !ok {
		return errTeamNotFound(id)
	}
	delete(e.teams, id)
	e.teamOrder = removeID(e.teamOrder, id)
	return nil
}

// SetTeamStatus transitions the team between active, inactive, and idle.
// Idle is always assigned explicitly; the core never derives it from task
// counters. Setting the current status is a no-op.
func (e *Engine) SetTeamStatus(ctx context.Context, id int64, status string) (models.Team, error) {
	e.mu.Lock()
	t, err := e.setTeamStatusLocked(id, status)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventTeamStatus, TeamID: id, Status: status}, err)
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (e *Engine) setTeamStatusLocked(id int64, status string) (models.Team, error) {
	if !models.ValidTeamStatus(status) {
		return models.Team{}, errField("status", fmt.Sprintf("unknown team status %q", status))
	}
	t, ok := e.teams[id]
	if !ok {
		return models.Team{}, errTeamNotFound(id)
	}
	if t.Status == status {
		return copyTeam(t), nil
	}
	t.Status = status
	t.LastActive = e.now().UTC()
	return copyTeam(t), nil
}
