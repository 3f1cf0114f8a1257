package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// LoadInitialState reads the full agent/team/interaction graph. Result
// ordering matches the engine's creation order (ascending ids, member and
// edge positions).
func (s *sqliteStore) LoadInitialState(ctx context.Context) (*core.InitialState, error) {
	init := &core.InitialState{}

	rows, err := s.DB.QueryContext(ctx, `SELECT agent_id, name, type, status, skills, description, completed_tasks, success_rate, created_at, last_active FROM agents ORDER BY agent_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var a models.Agent
		var skillsJSON string
		var created, active int64
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Status, &skillsJSON, &a.Description, &a.CompletedTasks, &a.SuccessRate, &created, &active); err != nil {
			return nil, err
		}
		if skillsJSON != "" && skillsJSON != "[]" {
			if err := json.Unmarshal([]byte(skillsJSON), &a.Skills); err != nil {
				return nil, fmt.Errorf("agent %d skills: %w", a.ID, err)
			}
		}
		a.CreatedAt = time.Unix(created, 0).UTC()
		a.LastActive = time.Unix(active, 0).UTC()
		init.Agents = append(init.Agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	teamRows, err := s.DB.QueryContext(ctx, `SELECT team_id, name, status, tasks, completed_tasks, description, created_at, last_active FROM teams ORDER BY team_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = teamRows.Close() }()
	byID := make(map[int64]int)
	for teamRows.Next() {
		var t models.Team
		var created, active int64
		if err := teamRows.Scan(&t.ID, &t.Name, &t.Status, &t.Tasks, &t.CompletedTasks, &t.Description, &created, &active); err != nil {
			return nil, err
		}
		t.CreatedAt = time.Unix(created, 0).UTC()
		t.LastActive = time.Unix(active, 0).UTC()
		byID[t.ID] = len(init.Teams)
		init.Teams = append(init.Teams, t)
	}
	if err := teamRows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := s.DB.QueryContext(ctx, `SELECT team_id, agent_id FROM team_members ORDER BY team_id, position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = memberRows.Close() }()
	for memberRows.Next() {
		var teamID, agentID int64
		if err := memberRows.Scan(&teamID, &agentID); err != nil {
			return nil, err
		}
		i, ok := byID[teamID]
		if !ok {
			return nil, fmt.Errorf("membership references unknown team %d", teamID)
		}
		init.Teams[i].Members = append(init.Teams[i].Members, agentID)
	}
	if err := memberRows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.DB.QueryContext(ctx, `SELECT source, target, strength, count FROM interactions ORDER BY position, source, target`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = edgeRows.Close() }()
	for edgeRows.Next() {
		var e models.Interaction
		if err := edgeRows.Scan(&e.Source, &e.Target, &e.Strength, &e.Count); err != nil {
			return nil, err
		}
		init.Edges = append(init.Edges, e)
	}
	return init, edgeRows.Err()
}

// SaveSnapshot replaces the stored state with snap, atomically. The host
// decides when a snapshot is worth keeping; this is a full rewrite, which at
// registry scale (tens to hundreds of rows) is cheaper than diffing.
func (s *sqliteStore) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"team_members", "interactions", "teams", "agents"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, a := range snap.Agents {
		skills, err := json.Marshal(a.Skills)
		if err != nil {
			return err
		}
		if a.Skills == nil {
			skills = []byte("[]")
		}
		if _, err := tx.StmtContext(ctx, s.stmtInsertAgent).ExecContext(ctx,
			a.ID, a.Name, a.Type, a.Status, string(skills), a.Description,
			a.CompletedTasks, a.SuccessRate, a.CreatedAt.Unix(), a.LastActive.Unix()); err != nil {
			return fmt.Errorf("insert agent %d: %w", a.ID, err)
		}
	}
	for _, t := range snap.Teams {
		if _, err := tx.StmtContext(ctx, s.stmtInsertTeam).ExecContext(ctx,
			t.ID, t.Name, t.Status, t.Tasks, t.CompletedTasks, t.Description,
			t.CreatedAt.Unix(), t.LastActive.Unix()); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
		for pos, agentID := range t.Members {
			if _, err := tx.StmtContext(ctx, s.stmtInsertMember).ExecContext(ctx, t.ID, agentID, pos); err != nil {
				return fmt.Errorf("insert member %d of team %d: %w", agentID, t.ID, err)
			}
		}
	}
	for pos, e := range snap.Edges {
		if _, err := tx.StmtContext(ctx, s.stmtInsertEdge).ExecContext(ctx, e.Source, e.Target, e.Strength, e.Count, pos); err != nil {
			return fmt.Errorf("insert edge %d->%d: %w", e.Source, e.Target, err)
		}
	}
	return tx.Commit()
}

// SeedDemo populates the stock roster when the store is empty, so a fresh
// install renders a meaningful collaboration network. No-op otherwise.
func (s *sqliteStore) SeedDemo(ctx context.Context) error {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.SaveSnapshot(ctx, DemoSnapshot(time.Now().UTC()))
}

// DemoSnapshot is the stock roster used by SeedDemo (shared with the
// Postgres provider).
func DemoSnapshot(now time.Time) models.Snapshot {
	agent := func(id int64, name, typ, status string, skills []string, done int, rate float64) models.Agent {
		return models.Agent{
			ID: id, Name: name, Type: typ, Status: status, Skills: skills,
			CompletedTasks: done, SuccessRate: rate,
			CreatedAt: now, LastActive: now,
		}
	}
	team := func(id int64, name, status string, members []int64, tasks, done int) models.Team {
		return models.Team{
			ID: id, Name: name, Status: status, Members: members,
			Tasks: tasks, CompletedTasks: done,
			CreatedAt: now, LastActive: now,
		}
	}
	return models.Snapshot{
		Agents: []models.Agent{
			agent(1, "Research Agent", models.AgentTypeInformation, models.AgentStatusActive, []string{"web search", "summarization", "fact checking"}, 156, 94.5),
			agent(2, "Writing Agent", models.AgentTypeContent, models.AgentStatusActive, []string{"copywriting", "editing", "seo"}, 89, 91.2),
			agent(3, "Code Agent", models.AgentTypeDevelopment, models.AgentStatusActive, []string{"go", "typescript", "code review"}, 203, 88.7),
			agent(4, "Analysis Agent", models.AgentTypeAnalysis, models.AgentStatusInactive, []string{"statistics", "forecasting"}, 67, 92.3),
			agent(5, "Design Agent", models.AgentTypeDesign, models.AgentStatusActive, []string{"ui", "illustration"}, 45, 89.9),
			agent(6, "QA Agent", models.AgentTypeQuality, models.AgentStatusActive, []string{"test planning", "regression"}, 134, 95.1),
			agent(7, "Coordinator Agent", models.AgentTypeCoordination, models.AgentStatusActive, []string{"scheduling", "delegation"}, 78, 90.4),
		},
		Teams: []models.Team{
			team(1, "Content Team", models.TeamStatusActive, []int64{1, 2, 5}, 24, 18),
			team(2, "Engineering Team", models.TeamStatusIdle, []int64{3, 6}, 31, 31),
			team(3, "Insights Team", models.TeamStatusInactive, []int64{4, 7}, 12, 5),
		},
		Edges: []models.Interaction{
			{Source: 1, Target: 2, Strength: 0.8, Count: 42},
			{Source: 2, Target: 5, Strength: 0.6, Count: 17},
			{Source: 3, Target: 6, Strength: 0.9, Count: 58},
			{Source: 7, Target: 1, Strength: 0.5, Count: 12},
			{Source: 7, Target: 3, Strength: 0.7, Count: 23},
			{Source: 4, Target: 1, Strength: 0.4, Count: 9},
		},
	}
}
