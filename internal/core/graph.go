package core

import (
	"context"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// UpsertEdge records a collaboration between two agents. An existing edge
// accumulates: count += countDelta, strength moves by strengthDelta and is
// clamped to [0, 1]. A new edge starts at the clamped deltas. Both endpoints
// must exist; self-edges are rejected.
func (e *Engine) UpsertEdge(ctx context.Context, source, target int64, strengthDelta float64, countDelta int) (models.Interaction, error) {
	e.mu.Lock()
	edge, err := e.upsertEdgeLocked(source, target, strengthDelta, countDelta)
	e.mu.Unlock()

	e.notify(ctx, Event{Kind: EventEdgeUpserted, Source: source, Target: target}, err)
	if err != nil {
		return models.Interaction{}, err
	}
	return edge, nil
}

func (e *Engine) upsertEdgeLocked(source, target int64, strengthDelta float64, countDelta int) (models.Interaction, error) {
	if source == target {
		return models.Interaction{}, errField("target", "self-edges are not allowed")
	}
	if countDelta < 0 {
		return models.Interaction{}, errField("count", "must not be negative")
	}
	if _, ok := e.agents[source]; !ok {
		return models.Interaction{}, errAgentNotFound(source)
	}
	if _, ok := e.agents[target]; !ok {
		return models.Interaction{}, errAgentNotFound(target)
	}

	k := edgeKey{source, target}
	if edge, ok := e.edgeIndex[k]; ok {
		edge.Count += countDelta
		edge.Strength = clamp01(edge.Strength + strengthDelta)
		return *edge, nil
	}
	edge := &models.Interaction{
		Source:   source,
		Target:   target,
		Strength: clamp01(strengthDelta),
		Count:    countDelta,
	}
	e.edgeIndex[k] = edge
	e.edgeOrder = append(e.edgeOrder, k)
	return *edge, nil
}

// removeEdgesTouchingLocked drops every edge whose source or target is
// agentID. Called by DeleteAgent.
func (e *Engine) removeEdgesTouchingLocked(agentID int64) {
	kept := e.edgeOrder[:0]
	for _, k := range e.edgeOrder {
		if k.source == agentID || k.target == agentID {
			delete(e.edgeIndex, k)
			continue
		}
		kept = append(kept, k)
	}
	e.edgeOrder = kept
}

// EdgesOf returns every interaction where the agent is source or target.
// The result is an empty slice, never nil, when the agent has no edges.
func (e *Engine) EdgesOf(agentID int64) ([]models.Interaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[agentID]; !ok {
		return nil, errAgentNotFound(agentID)
	}
	out := make([]models.Interaction, 0, len(e.edgeOrder))
	for _, k := range e.edgeOrder {
		if k.source == agentID || k.target == agentID {
			out = append(out, *e.edgeIndex[k])
		}
	}
	return out, nil
}

// AllEdges returns every interaction in insertion order.
func (e *Engine) AllEdges() []models.Interaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.edgesLocked()
}

func (e *Engine) edgesLocked() []models.Interaction {
	out := make([]models.Interaction, 0, len(e.edgeOrder))
	for _, k := range e.edgeOrder {
		out = append(out, *e.edgeIndex[k])
	}
	return out
}
