package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

func openTestStore(t *testing.T) Provider {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatal(err)
	}
	st, err := Open(home)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestMigrationsAndRoundTrip(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	// Fresh store is empty.
	init, err := st.LoadInitialState(ctx)
	if err != nil {
		t.Fatalf("LoadInitialState: %v", err)
	}
	if len(init.Agents) != 0 || len(init.Teams) != 0 || len(init.Edges) != 0 {
		t.Fatalf("fresh store should be empty: %+v", init)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := models.Snapshot{
		Agents: []models.Agent{
			{ID: 1, Name: "Research Agent", Type: models.AgentTypeInformation, Status: models.AgentStatusActive,
				Skills: []string{"web search", "summarization"}, CompletedTasks: 9, SuccessRate: 94.5,
				CreatedAt: now, LastActive: now},
			{ID: 2, Name: "Writing Agent", Type: models.AgentTypeContent, Status: models.AgentStatusInactive,
				CreatedAt: now, LastActive: now},
		},
		Teams: []models.Team{
			{ID: 1, Name: "Content Team", Status: models.TeamStatusActive, Members: []int64{2, 1},
				Tasks: 5, CompletedTasks: 3, CreatedAt: now, LastActive: now},
		},
		Edges: []models.Interaction{
			{Source: 2, Target: 1, Strength: 0.7, Count: 4},
			{Source: 1, Target: 2, Strength: 0.3, Count: 1},
		},
	}
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := st.LoadInitialState(ctx)
	if err != nil {
		t.Fatalf("LoadInitialState after save: %v", err)
	}
	if len(got.Agents) != 2 {
		t.Fatalf("agents: got %d, want 2", len(got.Agents))
	}
	a := got.Agents[0]
	if a.Name != "Research Agent" || a.SuccessRate != 94.5 || a.CompletedTasks != 9 {
		t.Fatalf("agent round-trip: %+v", a)
	}
	if len(a.Skills) != 2 || a.Skills[0] != "web search" {
		t.Fatalf("skills round-trip: %+v", a.Skills)
	}
	if !a.CreatedAt.Equal(now) {
		t.Fatalf("created_at round-trip: %v", a.CreatedAt)
	}
	if got.Agents[1].Skills != nil {
		t.Fatalf("empty skills should stay nil: %+v", got.Agents[1].Skills)
	}

	if len(got.Teams) != 1 {
		t.Fatalf("teams: got %d, want 1", len(got.Teams))
	}
	// Member ordering preserved (2 before 1).
	members := got.Teams[0].Members
	if len(members) != 2 || members[0] != 2 || members[1] != 1 {
		t.Fatalf("member order round-trip: %v", members)
	}

	if len(got.Edges) != 2 {
		t.Fatalf("edges: got %d, want 2", len(got.Edges))
	}
	if got.Edges[0].Source != 2 || got.Edges[0].Count != 4 {
		t.Fatalf("edge order round-trip: %+v", got.Edges)
	}
}

func TestSaveSnapshot_replaces(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := models.Snapshot{Agents: []models.Agent{
		{ID: 1, Name: "a", Type: models.AgentTypeAnalysis, Status: models.AgentStatusActive, CreatedAt: now, LastActive: now},
		{ID: 2, Name: "b", Type: models.AgentTypeAnalysis, Status: models.AgentStatusActive, CreatedAt: now, LastActive: now},
	}}
	if err := st.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	second := models.Snapshot{Agents: []models.Agent{
		{ID: 5, Name: "c", Type: models.AgentTypeDesign, Status: models.AgentStatusActive, CreatedAt: now, LastActive: now},
	}}
	if err := st.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("SaveSnapshot second: %v", err)
	}
	got, err := st.LoadInitialState(ctx)
	if err != nil {
		t.Fatalf("LoadInitialState: %v", err)
	}
	if len(got.Agents) != 1 || got.Agents[0].ID != 5 {
		t.Fatalf("save should replace, not merge: %+v", got.Agents)
	}
}

func TestSeedDemo(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	got, err := st.LoadInitialState(ctx)
	if err != nil {
		t.Fatalf("LoadInitialState: %v", err)
	}
	if len(got.Agents) == 0 || len(got.Teams) == 0 || len(got.Edges) == 0 {
		t.Fatalf("seed should populate all collections: %d/%d/%d",
			len(got.Agents), len(got.Teams), len(got.Edges))
	}
	// Seeded data satisfies the engine's referential invariants.
	agents := make(map[int64]bool)
	for _, a := range got.Agents {
		agents[a.ID] = true
	}
	for _, tm := range got.Teams {
		for _, m := range tm.Members {
			if !agents[m] {
				t.Errorf("team %q references unknown agent %d", tm.Name, m)
			}
		}
	}
	for _, e := range got.Edges {
		if !agents[e.Source] || !agents[e.Target] {
			t.Errorf("edge %d->%d references unknown agent", e.Source, e.Target)
		}
	}

	// Seeding twice must not duplicate.
	before := len(got.Agents)
	if err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("SeedDemo again: %v", err)
	}
	got, _ = st.LoadInitialState(ctx)
	if len(got.Agents) != before {
		t.Fatalf("second seed changed agent count: %d -> %d", before, len(got.Agents))
	}
}
