package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
	"github.com/kimhons/lumina-ai-sub000/internal/store"
	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// LoadInitialState reads the full agent/team/interaction graph in creation
// order, same contract as the SQLite provider.
func (s *Store) LoadInitialState(ctx context.Context) (*core.InitialState, error) {
	init := &core.InitialState{}

	rows, err := s.Pool.Query(ctx, `SELECT agent_id, name, type, status, skills, description, completed_tasks, success_rate, created_at, last_active FROM agents ORDER BY agent_id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var a models.Agent
		var skillsJSON string
		var created, active int64
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Status, &skillsJSON, &a.Description, &a.CompletedTasks, &a.SuccessRate, &created, &active); err != nil {
			rows.Close()
			return nil, err
		}
		if skillsJSON != "" && skillsJSON != "[]" {
			if err := json.Unmarshal([]byte(skillsJSON), &a.Skills); err != nil {
				rows.Close()
				return nil, fmt.Errorf("agent %d skills: %w", a.ID, err)
			}
		}
		a.CreatedAt = time.Unix(created, 0).UTC()
		a.LastActive = time.Unix(active, 0).UTC()
		init.Agents = append(init.Agents, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	teamRows, err := s.Pool.Query(ctx, `SELECT team_id, name, status, tasks, completed_tasks, description, created_at, last_active FROM teams ORDER BY team_id`)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]int)
	for teamRows.Next() {
		var t models.Team
		var created, active int64
		if err := teamRows.Scan(&t.ID, &t.Name, &t.Status, &t.Tasks, &t.CompletedTasks, &t.Description, &created, &active); err != nil {
			teamRows.Close()
			return nil, err
		}
		t.CreatedAt = time.Unix(created, 0).UTC()
		t.LastActive = time.Unix(active, 0).UTC()
		byID[t.ID] = len(init.Teams)
		init.Teams = append(init.Teams, t)
	}
	teamRows.Close()
	if err := teamRows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := s.Pool.Query(ctx, `SELECT team_id, agent_id FROM team_members ORDER BY team_id, position`)
	if err != nil {
		return nil, err
	}
	for memberRows.Next() {
		var teamID, agentID int64
		if err := memberRows.Scan(&teamID, &agentID); err != nil {
			memberRows.Close()
			return nil, err
		}
		i, ok := byID[teamID]
		if !ok {
			memberRows.Close()
			return nil, fmt.Errorf("membership references unknown team %d", teamID)
		}
		init.Teams[i].Members = append(init.Teams[i].Members, agentID)
	}
	memberRows.Close()
	if err := memberRows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.Pool.Query(ctx, `SELECT source, target, strength, count FROM interactions ORDER BY position, source, target`)
	if err != nil {
		return nil, err
	}
	for edgeRows.Next() {
		var e models.Interaction
		if err := edgeRows.Scan(&e.Source, &e.Target, &e.Strength, &e.Count); err != nil {
			edgeRows.Close()
			return nil, err
		}
		init.Edges = append(init.Edges, e)
	}
	edgeRows.Close()
	return init, edgeRows.Err()
}

// SaveSnapshot replaces the stored state with snap in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range []string{"team_members", "interactions", "teams", "agents"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
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
		if _, err := tx.Exec(ctx,
			`INSERT INTO agents(agent_id, name, type, status, skills, description, completed_tasks, success_rate, created_at, last_active)
			 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			a.ID, a.Name, a.Type, a.Status, string(skills), a.Description,
			a.CompletedTasks, a.SuccessRate, a.CreatedAt.Unix(), a.LastActive.Unix()); err != nil {
			return fmt.Errorf("insert agent %d: %w", a.ID, err)
		}
	}
	for _, t := range snap.Teams {
		if _, err := tx.Exec(ctx,
			`INSERT INTO teams(team_id, name, status, tasks, completed_tasks, description, created_at, last_active)
			 VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, t.Name, t.Status, t.Tasks, t.CompletedTasks, t.Description,
			t.CreatedAt.Unix(), t.LastActive.Unix()); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
		for pos, agentID := range t.Members {
			if _, err := tx.Exec(ctx,
				`INSERT INTO team_members(team_id, agent_id, position) VALUES($1, $2, $3)`,
				t.ID, agentID, pos); err != nil {
				return fmt.Errorf("insert member %d of team %d: %w", agentID, t.ID, err)
			}
		}
	}
	for pos, e := range snap.Edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO interactions(source, target, strength, count, position) VALUES($1, $2, $3, $4, $5)`,
			e.Source, e.Target, e.Strength, e.Count, pos); err != nil {
			return fmt.Errorf("insert edge %d->%d: %w", e.Source, e.Target, err)
		}
	}
	return tx.Commit(ctx)
}

// SeedDemo populates the stock roster when the store is empty.
func (s *Store) SeedDemo(ctx context.Context) error {
	var n int
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.SaveSnapshot(ctx, store.DemoSnapshot(time.Now().UTC()))
}
