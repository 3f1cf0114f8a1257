package query

import (
	"testing"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

func sampleAgents() []models.Agent {
	return []models.Agent{
		{ID: 1, Name: "Research Agent", Type: models.AgentTypeInformation, Status: models.AgentStatusActive},
		{ID: 2, Name: "Writing Agent", Type: models.AgentTypeContent, Status: models.AgentStatusActive},
		{ID: 3, Name: "Code Agent", Type: models.AgentTypeDevelopment, Status: models.AgentStatusInactive},
	}
}

func idsOf(agents []models.Agent) []int64 {
	out := make([]int64, len(agents))
	for i, a := range agents {
		out[i] = a.ID
	}
	return out
}

func TestFilterAgents(t *testing.T) {
	t.Parallel()
	agents := sampleAgents()

	cases := []struct {
		name   string
		filter AgentFilter
		want   []int64
	}{
		{"no constraints", AgentFilter{Search: "", Status: "all", Type: "all"}, []int64{1, 2, 3}},
		{"empty strings are wildcards", AgentFilter{}, []int64{1, 2, 3}},
		{"search case-insensitive", AgentFilter{Search: "writ"}, []int64{2}},
		{"search uppercase", AgentFilter{Search: "RESEARCH"}, []int64{1}},
		{"status", AgentFilter{Status: models.AgentStatusInactive}, []int64{3}},
		{"type", AgentFilter{Type: models.AgentTypeContent}, []int64{2}},
		{"combined", AgentFilter{Search: "agent", Status: models.AgentStatusActive, Type: models.AgentTypeInformation}, []int64{1}},
		{"combined no match", AgentFilter{Search: "code", Status: models.AgentStatusActive}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := idsOf(FilterAgents(agents, tc.filter))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

// Combining filters is equivalent to intersecting each filter applied alone.
func TestFilterAgents_composition(t *testing.T) {
	t.Parallel()
	agents := sampleAgents()

	combined := FilterAgents(agents, AgentFilter{Search: "agent", Status: models.AgentStatusActive})
	bySearch := FilterAgents(agents, AgentFilter{Search: "agent"})
	intersect := FilterAgents(bySearch, AgentFilter{Status: models.AgentStatusActive})

	if len(combined) != len(intersect) {
		t.Fatalf("combined %v vs intersected %v", idsOf(combined), idsOf(intersect))
	}
	for i := range combined {
		if combined[i].ID != intersect[i].ID {
			t.Fatalf("combined %v vs intersected %v", idsOf(combined), idsOf(intersect))
		}
	}
}

func TestFilterAgents_preservesOrder(t *testing.T) {
	t.Parallel()
	agents := sampleAgents()
	got := FilterAgents(agents, AgentFilter{Search: "agent"})
	if len(got) != 3 {
		t.Fatalf("got %d agents", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ID < got[i-1].ID {
			t.Fatalf("order not preserved: %v", idsOf(got))
		}
	}
}

func TestFilterTeams(t *testing.T) {
	t.Parallel()
	teams := []models.Team{
		{ID: 1, Name: "Content Team", Status: models.TeamStatusActive},
		{ID: 2, Name: "Dev Team", Status: models.TeamStatusIdle},
		{ID: 3, Name: "Research Group", Status: models.TeamStatusInactive},
	}

	if got := FilterTeams(teams, TeamFilter{}); len(got) != 3 {
		t.Fatalf("wildcard: got %d teams", len(got))
	}
	got := FilterTeams(teams, TeamFilter{Search: "team", Status: models.TeamStatusIdle})
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("combined: got %+v", got)
	}
	if got := FilterTeams(teams, TeamFilter{Status: "all"}); len(got) != 3 {
		t.Fatalf("status all: got %d teams", len(got))
	}
}
