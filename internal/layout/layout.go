// Package layout computes deterministic 2D render coordinates for agents
// from the interaction graph. The baseline is a circular layout: agent i of
// n sits at angle 2πi/n on a circle of fixed radius around a fixed center.
// Compute is a pure function of its inputs, so re-rendering is idempotent;
// a force-directed variant could replace it without changing the contract.
package layout

import (
	"math"

	"github.com/kimhons/lumina-ai-sub000/pkg/models"
)

// Options control the circle the agents are placed on.
type Options struct {
	Radius float64
	Center models.Point
}

// DefaultOptions returns the stock radius and canvas center.
func DefaultOptions() Options {
	return Options{
		Radius: models.DefaultLayoutRadius,
		Center: models.Point{X: models.DefaultLayoutCenterX, Y: models.DefaultLayoutCenterY},
	}
}

// Compute places the visible agents evenly on a circle and annotates each
// edge whose endpoints are both visible with its coordinates and rendering
// weight. Edges touching a hidden agent are skipped silently: filters may
// legitimately hide endpoints, so a degenerate edge is not an error.
func Compute(visible []models.Agent, edges []models.Interaction, opts Options) models.Layout {
	if opts.Radius <= 0 {
		opts = Options{Radius: models.DefaultLayoutRadius, Center: opts.Center}
	}

	positions := make(map[int64]models.Point, len(visible))
	n := len(visible)
	for i, a := range visible {
		theta := 2 * math.Pi * float64(i) / float64(n)
		positions[a.ID] = models.Point{
			X: opts.Center.X + opts.Radius*math.Cos(theta),
			Y: opts.Center.Y + opts.Radius*math.Sin(theta),
		}
	}

	rendered := make([]models.RenderedEdge, 0, len(edges))
	for _, e := range edges {
		from, ok := positions[e.Source]
		if !ok {
			continue
		}
		to, ok := positions[e.Target]
		if !ok {
			continue
		}
		rendered = append(rendered, models.RenderedEdge{
			Source: e.Source,
			Target: e.Target,
			From:   from,
			To:     to,
			Weight: e.Strength,
		})
	}

	return models.Layout{Positions: positions, Edges: rendered}
}
