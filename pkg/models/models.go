// Package models provides shared types for the Lumina HTTP API and external tools.
// These types mirror the API JSON and are stable for use by pkg/client and other consumers.
package models

import "time"

// Agent is a specialized capability unit with a status, skill set, and task counters.
type Agent struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Skills         []string  `json:"skills,omitempty"`
	Description    string    `json:"description,omitempty"`
	CompletedTasks int       `json:"completed_tasks"`
	SuccessRate    float64   `json:"success_rate"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	LastActive     time.Time `json:"last_active,omitempty"`
}

// Team is a named group of agents with aggregate task counters.
// Members holds agent ids; every id must reference an existing agent.
type Team struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	Members        []int64   `json:"members,omitempty"`
	Tasks          int       `json:"tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	LastActive     time.Time `json:"last_active,omitempty"`
}

// Interaction is a weighted, directed collaboration edge between two agents.
type Interaction struct {
	Source   int64   `json:"source"`
	Target   int64   `json:"target"`
	Strength float64 `json:"strength"`
	Count    int     `json:"count"`
}

// Point is a 2D render coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenderedEdge is an interaction annotated with endpoint coordinates and
// rendering weight, ready for the host's drawing layer.
type RenderedEdge struct {
	Source int64   `json:"source"`
	Target int64   `json:"target"`
	From   Point   `json:"from"`
	To     Point   `json:"to"`
	Weight float64 `json:"weight"`
}

// Layout maps visible agent ids to coordinates plus the drawable edge list.
type Layout struct {
	Positions map[int64]Point `json:"positions"`
	Edges     []RenderedEdge  `json:"edges"`
}

// Snapshot is the immutable state view returned after each command.
type Snapshot struct {
	Agents []Agent       `json:"agents"`
	Teams  []Team        `json:"teams"`
	Edges  []Interaction `json:"edges"`
	Layout Layout        `json:"layout"`
}

// Config is the /config API response.
type Config struct {
	Home        string `json:"home,omitempty"`
	DBDriver    string `json:"db_driver,omitempty"`
	BootstrapID string `json:"bootstrap_id,omitempty"`
}
