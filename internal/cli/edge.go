package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
)

func newEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage interaction edges",
	}
	cmd.AddCommand(newEdgeAddCmd())
	cmd.AddCommand(newEdgeListCmd())
	return cmd
}

func newEdgeAddCmd() *cobra.Command {
	var (
		source   int64
		target   int64
		strength float64
		count    int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record interactions between two agents (accumulates onto the existing edge)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == 0 || target == 0 {
				return errors.New("--source and --target are required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				e, err := eng.UpsertEdge(ctx, source, target, strength, count)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Edge %d->%d (strength=%.2f count=%d)\n", e.Source, e.Target, e.Strength, e.Count)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&source, "source", 0, "Source agent id")
	cmd.Flags().Int64Var(&target, "target", 0, "Target agent id")
	cmd.Flags().Float64Var(&strength, "strength", 0, "Strength delta (edge strength is clamped to [0, 1])")
	cmd.Flags().IntVar(&count, "count", 1, "Interaction count delta")
	return cmd
}

func newEdgeListCmd() *cobra.Command {
	var agent int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List edges (all, or those touching --agent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := readEngine(cmd)
			if err != nil {
				return err
			}
			edges := eng.AllEdges()
			if agent != 0 {
				edges, err = eng.EdgesOf(agent)
				if err != nil {
					return err
				}
			}
			if len(edges) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No edges.")
				return nil
			}
			for _, e := range edges {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %d->%d strength=%.2f count=%d\n", e.Source, e.Target, e.Strength, e.Count)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&agent, "agent", 0, "Only edges touching this agent id")
	return cmd
}
