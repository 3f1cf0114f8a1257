package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
	"github.com/kimhons/lumina-ai-sub000/internal/query"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	cmd.AddCommand(newTeamAddCmd())
	cmd.AddCommand(newTeamListCmd())
	cmd.AddCommand(newTeamRemoveCmd())
	cmd.AddCommand(newTeamJoinCmd())
	cmd.AddCommand(newTeamLeaveCmd())
	cmd.AddCommand(newTeamStatusCmd())
	return cmd
}

func newTeamAddCmd() *cobra.Command {
	var (
		name        string
		description string
		members     []int64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a team (optionally with --members 1,2,3)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				t, err := eng.CreateTeam(ctx, core.CreateTeamParams{
					Name: name, Description: description, Members: members,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created team %q (id=%d, members=%d)\n", t.Name, t.ID, len(t.Members))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Team name")
	cmd.Flags().StringVar(&description, "description", "", "Team description")
	cmd.Flags().Int64SliceVar(&members, "members", nil, "Initial member agent ids")
	return cmd
}

func newTeamListCmd() *cobra.Command {
	var (
		search string
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams (optionally filtered)",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := readEngine(cmd)
			if err != nil {
				return err
			}
			teams := eng.FilterTeams(query.TeamFilter{Search: search, Status: status})
			if len(teams) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No teams.")
				return nil
			}
			for _, t := range teams {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %d %s (status=%s members=%d tasks=%d/%d)\n",
					t.ID, t.Name, t.Status, len(t.Members), t.CompletedTasks, t.Tasks)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by name substring")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, inactive, idle, all)")
	return cmd
}

func newTeamRemoveCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete a team (member agents are kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return errors.New("--id is required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				if err := eng.DeleteTeam(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted team %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Team id")
	return cmd
}

func newTeamJoinCmd() *cobra.Command {
	var (
		id    int64
		agent int64
	)
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Add an agent to a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 || agent == 0 {
				return errors.New("--id and --agent are required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				t, err := eng.AddAgentToTeam(ctx, id, agent)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Agent %d joined %q (members=%d)\n", agent, t.Name, len(t.Members))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Team id")
	cmd.Flags().Int64Var(&agent, "agent", 0, "Agent id")
	return cmd
}

func newTeamLeaveCmd() *cobra.Command {
	var (
		id    int64
		agent int64
	)
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Remove an agent from a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 || agent == 0 {
				return errors.New("--id and --agent are required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				t, err := eng.RemoveAgentFromTeam(ctx, id, agent)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Agent %d left %q (members=%d)\n", agent, t.Name, len(t.Members))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Team id")
	cmd.Flags().Int64Var(&agent, "agent", 0, "Agent id")
	return cmd
}

func newTeamStatusCmd() *cobra.Command {
	var (
		id     int64
		status string
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Set a team's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return errors.New("--id is required")
			}
			if status == "" {
				return errors.New("--status is required")
			}
			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				t, err := eng.SetTeamStatus(ctx, id, status)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Team %d is now %s\n", t.ID, t.Status)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Team id")
	cmd.Flags().StringVar(&status, "status", "", "New status (active, inactive, or idle)")
	return cmd
}
