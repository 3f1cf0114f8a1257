package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

func newTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	app, err := NewApp(ServerOptions{Home: t.TempDir(), Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	ts := httptest.NewServer(app.Server.Handler)
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = app.Provider.Close() })
	return app, ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return resp, b
}

func TestAgentLifecycle(t *testing.T) {
	t.Parallel()
	_, ts := newTestApp(t)

	resp, body := postJSON(t, ts.URL+"/agents", `{"name":"Research Agent","type":"information","skills":["search"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /agents: status=%d body=%s", resp.StatusCode, body)
	}
	var created models.Agent
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode agent: %v", err)
	}
	if created.ID != 1 || created.Status != models.AgentStatusActive {
		t.Fatalf("created agent = %+v", created)
	}

	// Validation failure maps to 400.
	resp, _ = postJSON(t, ts.URL+"/agents", `{"name":"","type":"information"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("POST /agents empty name: status=%d", resp.StatusCode)
	}

	// Unknown id maps to 404.
	getResp, err := http.Get(ts.URL + "/agents/999")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /agents/999: status=%d", getResp.StatusCode)
	}

	// PATCH updates only the provided fields.
	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/agents/1", strings.NewReader(`{"description":"finds things"}`))
	req.Header.Set("Content-Type", "application/json")
	patchResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	var patched models.Agent
	if err := json.NewDecoder(patchResp.Body).Decode(&patched); err != nil {
		t.Fatalf("decode patched: %v", err)
	}
	_ = patchResp.Body.Close()
	if patched.Description != "finds things" || patched.Name != "Research Agent" {
		t.Fatalf("patched agent = %+v", patched)
	}

	// Status change.
	resp, body = postJSON(t, ts.URL+"/agents/1/status", `{"status":"inactive"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status: %d %s", resp.StatusCode, body)
	}

	// DELETE then GET is 404.
	delReq, _ := http.NewRequest(http.MethodDelete, ts.URL+"/agents/1", nil)
	delResp, err := http.DefaultClient.Do(delReq)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	_ = delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE /agents/1: %d", delResp.StatusCode)
	}
	getResp, err = http.Get(ts.URL + "/agents/1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET deleted agent: %d", getResp.StatusCode)
	}
}

func TestTeamMembershipRoutes(t *testing.T) {
	t.Parallel()
	_, ts := newTestApp(t)

	postJSON(t, ts.URL+"/agents", `{"name":"A","type":"information"}`)
	postJSON(t, ts.URL+"/agents", `{"name":"B","type":"content"}`)

	resp, body := postJSON(t, ts.URL+"/teams", `{"name":"Content Team","members":[1]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /teams: %d %s", resp.StatusCode, body)
	}
	var team models.Team
	if err := json.Unmarshal(body, &team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if team.ID != 1 || len(team.Members) != 1 {
		t.Fatalf("team = %+v", team)
	}

	// PUT member, twice; second is an idempotent no-op.
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/teams/1/members/2", nil)
		putResp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("PUT member: %v", err)
		}
		if err := json.NewDecoder(putResp.Body).Decode(&team); err != nil {
			t.Fatalf("decode: %v", err)
		}
		_ = putResp.Body.Close()
		if len(team.Members) != 2 {
			t.Fatalf("pass %d: members = %v", i, team.Members)
		}
	}

	// Member list resolves to full agents.
	membersResp, err := http.Get(ts.URL + "/teams/1/members")
	if err != nil {
		t.Fatalf("GET members: %v", err)
	}
	var members []models.Agent
	if err := json.NewDecoder(membersResp.Body).Decode(&members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	_ = membersResp.Body.Close()
	if len(members) != 2 || members[0].Name != "A" {
		t.Fatalf("members = %+v", members)
	}

	// DELETE member.
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/teams/1/members/1", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE member: %v", err)
	}
	if err := json.NewDecoder(delResp.Body).Decode(&team); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_ = delResp.Body.Close()
	if len(team.Members) != 1 || team.Members[0] != 2 {
		t.Fatalf("members after remove = %v", team.Members)
	}

	// Team status including idle.
	resp, body = postJSON(t, ts.URL+"/teams/1/status", `{"status":"idle"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST team status: %d %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &team); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if team.Status != models.TeamStatusIdle {
		t.Fatalf("status = %q", team.Status)
	}
}

func TestEdgeRoutes(t *testing.T) {
	t.Parallel()
	_, ts := newTestApp(t)

	postJSON(t, ts.URL+"/agents", `{"name":"A","type":"information"}`)
	postJSON(t, ts.URL+"/agents", `{"name":"B","type":"content"}`)

	resp, body := postJSON(t, ts.URL+"/edges", `{"source":1,"target":2,"strength_delta":0.4,"count_delta":3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /edges: %d %s", resp.StatusCode, body)
	}
	var edge models.Interaction
	if err := json.Unmarshal(body, &edge); err != nil {
		t.Fatalf("decode edge: %v", err)
	}
	if edge.Strength != 0.4 || edge.Count != 3 {
		t.Fatalf("edge = %+v", edge)
	}

	// Self-edge is rejected.
	resp, _ = postJSON(t, ts.URL+"/edges", `{"source":1,"target":1,"strength_delta":0.1,"count_delta":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self edge: status=%d", resp.StatusCode)
	}

	// Unknown endpoint is 404.
	resp, _ = postJSON(t, ts.URL+"/edges", `{"source":1,"target":99,"strength_delta":0.1,"count_delta":1}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing endpoint: status=%d", resp.StatusCode)
	}

	edgesResp, err := http.Get(ts.URL + "/agents/1/edges")
	if err != nil {
		t.Fatalf("GET edges: %v", err)
	}
	var edges []models.Interaction
	if err := json.NewDecoder(edgesResp.Body).Decode(&edges); err != nil {
		t.Fatalf("decode edges: %v", err)
	}
	_ = edgesResp.Body.Close()
	if len(edges) != 1 {
		t.Fatalf("edges = %+v", edges)
	}

	// An agent with no edges yields [], not null.
	postJSON(t, ts.URL+"/agents", `{"name":"C","type":"design"}`)
	emptyResp, err := http.Get(ts.URL + "/agents/3/edges")
	if err != nil {
		t.Fatalf("GET edges: %v", err)
	}
	raw, _ := io.ReadAll(emptyResp.Body)
	_ = emptyResp.Body.Close()
	if got := strings.TrimSpace(string(raw)); got != "[]" {
		t.Fatalf("edges of agent with none: %q, want []", got)
	}
}

func TestLayoutAndSnapshotRoutes(t *testing.T) {
	t.Parallel()
	_, ts := newTestApp(t)

	postJSON(t, ts.URL+"/agents", `{"name":"Research Agent","type":"information"}`)
	postJSON(t, ts.URL+"/agents", `{"name":"Writing Agent","type":"content"}`)
	postJSON(t, ts.URL+"/edges", `{"source":1,"target":2,"strength_delta":0.5,"count_delta":1}`)

	layoutResp, err := http.Get(ts.URL + "/layout?search=writ")
	if err != nil {
		t.Fatalf("GET layout: %v", err)
	}
	var l models.Layout
	if err := json.NewDecoder(layoutResp.Body).Decode(&l); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	_ = layoutResp.Body.Close()
	if len(l.Positions) != 1 {
		t.Fatalf("positions = %+v", l.Positions)
	}
	if len(l.Edges) != 0 {
		t.Fatalf("filtered layout should hide edges, got %+v", l.Edges)
	}

	snapResp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatalf("GET snapshot: %v", err)
	}
	var snap models.Snapshot
	if err := json.NewDecoder(snapResp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	_ = snapResp.Body.Close()
	if len(snap.Agents) != 2 || len(snap.Edges) != 1 || len(snap.Layout.Positions) != 2 {
		t.Fatalf("snapshot = %d agents, %d edges, %d positions",
			len(snap.Agents), len(snap.Edges), len(snap.Layout.Positions))
	}
}

func TestAgentListFilters(t *testing.T) {
	t.Parallel()
	_, ts := newTestApp(t)

	postJSON(t, ts.URL+"/agents", `{"name":"Research Agent","type":"information"}`)
	postJSON(t, ts.URL+"/agents", `{"name":"Writing Agent","type":"content"}`)
	postJSON(t, ts.URL+"/agents/2/status", `{"status":"inactive"}`)

	for _, tc := range []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?status=active", 1},
		{"?type=content", 1},
		{"?search=research", 1},
		{"?status=all&type=all", 2},
		{"?search=nomatch", 0},
	} {
		resp, err := http.Get(ts.URL + "/agents" + tc.query)
		if err != nil {
			t.Fatalf("GET %s: %v", tc.query, err)
		}
		var agents []models.Agent
		if err := json.NewDecoder(resp.Body).Decode(&agents); err != nil {
			t.Fatalf("decode %s: %v", tc.query, err)
		}
		_ = resp.Body.Close()
		if len(agents) != tc.want {
			t.Errorf("GET /agents%s: got %d, want %d", tc.query, len(agents), tc.want)
		}
	}
}
