package core

import (
	"context"
	"time"
)

// Event kinds published to the notification sink after each command.
const (
	EventAgentCreated  = "agent_created"
	EventAgentUpdated  = "agent_updated"
	EventAgentDeleted  = "agent_deleted"
	EventAgentStatus   = "agent_status"
	EventTeamCreated   = "team_created"
	EventTeamUpdated   = "team_updated"
	EventTeamDeleted   = "team_deleted"
	EventTeamStatus    = "team_status"
	EventMemberAdded   = "member_added"
	EventMemberRemoved = "member_removed"
	EventEdgeUpserted  = "edge_upserted"
)

// Event describes the outcome of one command. Err is empty on success.
type Event struct {
	Kind    string    `json:"kind"`
	At      time.Time `json:"at"`
	AgentID int64     `json:"agent_id,omitempty"`
	TeamID  int64     `json:"team_id,omitempty"`
	Source  int64     `json:"source,omitempty"`
	Target  int64     `json:"target,omitempty"`
	Status  string    `json:"status,omitempty"`
	Err     string    `json:"error,omitempty"`
}

// Notifier receives command outcome events. Events are delivered after the
// engine lock is released, so a sink may query the engine from Notify; a
// slow sink delays only the calling command's return, never other callers.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, ev Event)

// Notify calls f(ctx, ev).
func (f NotifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}
