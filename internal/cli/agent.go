package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
	"github.com/kimhons/lumina-ai-sub000/internal/query"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage agents",
	}
	cmd.AddCommand(newAgentAddCmd())
	cmd.AddCommand(newAgentListCmd())
	cmd.AddCommand(newAgentRemoveCmd())
	cmd.AddCommand(newAgentStatusCmd())
	return cmd
}

func newAgentAddCmd() *cobra.Command {
	var (
		name        string
		agentType   string
		skills      []string
		description string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			if agentType == "" {
				return errors.New("--type is required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				a, err := eng.CreateAgent(ctx, core.CreateAgentParams{
					Name: name, Type: agentType, Skills: skills, Description: description,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created agent %q (id=%d, type=%s)\n", a.Name, a.ID, a.Type)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Agent name")
	cmd.Flags().StringVar(&agentType, "type", "", "Agent type (information, content, development, analysis, coordination, design, quality)")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Agent skills")
	cmd.Flags().StringVar(&description, "description", "", "Agent description")
	return cmd
}

func newAgentListCmd() *cobra.Command {
	var (
		search    string
		status    string
		agentType string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents (optionally filtered)",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := readEngine(cmd)
			if err != nil {
				return err
			}
			agents := eng.FilterAgents(query.AgentFilter{Search: search, Status: status, Type: agentType})
			if len(agents) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No agents.")
				return nil
			}
			for _, a := range agents {
				line := fmt.Sprintf("- %d %s (type=%s status=%s", a.ID, a.Name, a.Type, a.Status)
				if len(a.Skills) > 0 {
					line += " skills=" + strings.Join(a.Skills, ",")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line+")")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by name substring")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, inactive, all)")
	cmd.Flags().StringVar(&agentType, "type", "", "Filter by type")
	return cmd
}

func newAgentRemoveCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete an agent (removes its memberships and edges)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return errors.New("--id is required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				if err := eng.DeleteAgent(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted agent %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Agent id")
	return cmd
}

func newAgentStatusCmd() *cobra.Command {
	var (
		id     int64
		status string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Set an agent's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return errors.New("--id is required")
			}
			if status == "" {
				return errors.New("--status is required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				a, err := eng.SetAgentStatus(ctx, id, status)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Agent %d is now %s\n", a.ID, a.Status)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Agent id")
	cmd.Flags().StringVar(&status, "status", "", "New status (active or inactive)")
	return cmd
}
