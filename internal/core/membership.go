package core

import (
	"context"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// AddAgentToTeam adds the agent to the team's member set. Adding an agent
// that is already a member is a no-op, not an error.
func (e *Engine) AddAgentToTeam(ctx context.Context, teamID, agentID int64) (models.Team, error) {
	e.mu.Lock()
	t, err := e.addMemberLocked(teamID, agentID)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventMemberAdded, TeamID: teamID, AgentID: agentID}, err)
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (e *Engine) addMemberLocked(teamID, agentID int64) (models.Team, error) {
	t, ok := e.teams[teamID]
	if !ok {
		return models.Team{}, errTeamNotFound(teamID)
	}
	if _, ok := e.agents[agentID]; !ok {
		return models.Team{}, errAgentNotFound(agentID)
	}
	for _, m := range t.Members {
		if m == agentID {
			return copyTeam(t), nil
		}
	}
	t.Members = append(t.Members, agentID)
	t.LastActive = e.now().UTC()
	return copyTeam(t), nil
}

// RemoveAgentFromTeam removes the agent from the team's member set.
// Removing an absent member is a no-op, not an error.
func (e *Engine) RemoveAgentFromTeam(ctx context.Context, teamID, agentID int64) (models.Team, error) {
	e.mu.Lock()
	t, err := e.removeMemberLocked(teamID, agentID)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventMemberRemoved, TeamID: teamID, AgentID: agentID}, err)
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (e *Engine) removeMemberLocked(teamID, agentID int64) (models.Team, error) {
	t, ok := e.teams[teamID]
	if !ok {
		return models.Team{}, errTeamNotFound(teamID)
	}
	for i, m := range t.Members {
		if m == agentID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			t.LastActive = e.now().UTC()
			break
		}
	}
	return copyTeam(t), nil
}

// cascadeMembershipLocked strips agentID from every team's member set.
// Called by DeleteAgent.
func (e *Engine) cascadeMembershipLocked(agentID int64) {
	for _, id := range e.teamOrder {
		t := e.teams[id]
		for i, m := range t.Members {
			if m == agentID {
				t.Members = append(t.Members[:i], t.Members[i+1:]...)
				break
			}
		}
	}
}

// MembersOf resolves a team's member ids to agents, in membership order.
func (e *Engine) MembersOf(teamID int64) ([]models.Agent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.teams[teamID]
	if !ok {
		return nil, errTeamNotFound(teamID)
	}
	out := make([]models.Agent, 0, len(t.Members))
	for _, id := range t.Members {
		a, ok := e.agents[id]
		if !ok {
			// Cascade delete keeps membership consistent; a dangling id
			// here is a programming defect.
			panic("core: dangling member id in team")
		}
		out = append(out, copyAgent(a))
	}
	return out, nil
}

// TeamsForAgent returns every team the agent belongs to, in creation order.
func (e *Engine) TeamsForAgent(agentID int64) ([]models.Team, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[agentID]; !ok {
		return nil, errAgentNotFound(agentID)
	}
	out := make([]models.Team, 0, len(e.teamOrder))
	for _, id := range e.teamOrder {
		t := e.teams[id]
		for _, m := range t.Members {
			if m == agentID {
				out = append(out, copyTeam(t))
				break
			}
		}
	}
	return out, nil
}
