package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kimhons/lumina-ai-sub000/internal/query"
)

func newLayoutCmd() *cobra.Command {
	var (
		search    string
		status    string
		agentType string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the network layout for the (filtered) agent set",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := readEngine(cmd)
			if err != nil {
				return err
			}
			l := eng.ComputeLayout(query.AgentFilter{Search: search, Status: status, Type: agentType})

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			}

			ids := make([]int64, 0, len(l.Positions))
			for id := range l.Positions {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			for _, id := range ids {
				p := l.Positions[id]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "agent %d at (%.1f, %.1f)\n", id, p.X, p.Y)
			}
			for _, e := range l.Edges {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "edge %d->%d weight=%.2f\n", e.Source, e.Target, e.Weight)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by name substring")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&agentType, "type", "", "Filter by type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the layout as JSON")
	return cmd
}
