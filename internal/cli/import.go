package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kimhons/lumina-ai-sub000/internal/core"
)

// topologyFile is the YAML import format. Teams and edges reference agents by
// name, which keeps hand-written files readable; names are resolved to ids
// after the agents are created.
type topologyFile struct {
	Agents []struct {
		Name        string   `yaml:"name"`
		Type        string   `yaml:"type"`
		Skills      []string `yaml:"skills"`
		Description string   `yaml:"description"`
	} `yaml:"agents"`
	Teams []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Members     []string `yaml:"members"`
	} `yaml:"teams"`
	Edges []struct {
		Source   string  `yaml:"source"`
		Target   string  `yaml:"target"`
		Strength float64 `yaml:"strength"`
		Count    int     `yaml:"count"`
	} `yaml:"edges"`
}

func newImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a topology (agents, teams, edges) from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var topo topologyFile
			if err := yaml.Unmarshal(raw, &topo); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			return withEngine(cmd, func(ctx context.Context, eng *core.Engine) error {
				ids := make(map[string]int64)
				for _, a := range eng.Agents() {
					ids[a.Name] = a.ID
				}

				for _, a := range topo.Agents {
					created, err := eng.CreateAgent(ctx, core.CreateAgentParams{
						Name: a.Name, Type: a.Type, Skills: a.Skills, Description: a.Description,
					})
					if err != nil {
						return fmt.Errorf("agent %q: %w", a.Name, err)
					}
					ids[created.Name] = created.ID
				}

				resolve := func(name string) (int64, error) {
					id, ok := ids[name]
					if !ok {
						return 0, fmt.Errorf("unknown agent %q", name)
					}
					return id, nil
				}

				for _, t := range topo.Teams {
					members := make([]int64, 0, len(t.Members))
					for _, m := range t.Members {
						id, err := resolve(m)
						if err != nil {
							return fmt.Errorf("team %q: %w", t.Name, err)
						}
						members = append(members, id)
					}
					if _, err := eng.CreateTeam(ctx, core.CreateTeamParams{
						Name: t.Name, Description: t.Description, Members: members,
					}); err != nil {
						return fmt.Errorf("team %q: %w", t.Name, err)
					}
				}

				for _, e := range topo.Edges {
					src, err := resolve(e.Source)
					if err != nil {
						return err
					}
					dst, err := resolve(e.Target)
					if err != nil {
						return err
					}
					count := e.Count
					if count == 0 {
						count = 1
					}
					if _, err := eng.UpsertEdge(ctx, src, dst, e.Strength, count); err != nil {
						return fmt.Errorf("edge %s->%s: %w", e.Source, e.Target, err)
					}
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d agents, %d teams, %d edges\n",
					len(topo.Agents), len(topo.Teams), len(topo.Edges))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Topology YAML file")
	return cmd
}
