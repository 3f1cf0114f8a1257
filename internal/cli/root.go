// Package cli wires the lumina command tree: daemon lifecycle commands plus
// offline graph commands that operate on the local store.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kimhons/lumina-ai-sub000/internal/config"
	"github.com/kimhons/lumina-ai-sub000/internal/core"
	"github.com/kimhons/lumina-ai-sub000/internal/store"
)

func NewRootCmd(version string) *cobra.Command {
	var homeOverride string

	cmd := &cobra.Command{
		Use:          "lumina",
		Short:        "Lumina — agent collaboration graph with network visualization",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			home, err := config.ResolveHome(homeOverride)
			if err != nil {
				return err
			}
			cmd.SetContext(config.WithHome(cmd.Context(), home))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&homeOverride, "home", "", "Override Lumina home directory (default: ~/.lumina, env: LUMINA_HOME)")

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())

	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newTeamCmd())
	cmd.AddCommand(newEdgeCmd())
	cmd.AddCommand(newLayoutCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newApikeyCmd())

	// Hidden internal subcommand used by `lumina start` for background mode.
	cmd.AddCommand(newDaemonCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetVersionTemplate("{{.Version}}\n")
	if version != "" {
		cmd.Version = version
	} else {
		cmd.Version = "dev"
	}

	return cmd
}

// withEngine runs fn against an engine loaded from the local store and writes
// the resulting snapshot back. Offline commands share the daemon's command
// semantics this way instead of poking at rows directly.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, eng *core.Engine) error) error {
	ctx := cmd.Context()
	home := config.MustHomeFrom(ctx)
	st, err := store.Open(home)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	init, err := st.LoadInitialState(ctx)
	if err != nil {
		return err
	}
	eng, err := core.New(core.Options{Initial: init})
	if err != nil {
		return err
	}
	if err := fn(ctx, eng); err != nil {
		return err
	}
	return st.SaveSnapshot(ctx, eng.Snapshot())
}

// readEngine is withEngine without the write-back, for list/inspect commands.
func readEngine(cmd *cobra.Command) (*core.Engine, error) {
	ctx := cmd.Context()
	home := config.MustHomeFrom(ctx)
	st, err := store.Open(home)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	init, err := st.LoadInitialState(ctx)
	if err != nil {
		return nil, err
	}
	return core.New(core.Options{Initial: init})
}
