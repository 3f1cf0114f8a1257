package cli

import (
	"github.com/spf13/cobra"

	"github.com/kimhons/lumina-ai-sub000/internal/config"
	"github.com/kimhons/lumina-ai-sub000/internal/daemon"
)

func newDaemonCmd() *cobra.Command {
	var (
		port            int
		persistInterval float64
		ingestInterval  float64
		dev             bool
		pprofAddr       string
		dbDriver        string
		dbURL           string
		seedDemo        bool
		enableOtel      bool
	)

	cmd := &cobra.Command{
		Use:    "daemon",
		Short:  "Internal: run daemon process",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			home := config.MustHomeFrom(cmd.Context())
			return daemon.StartForeground(cmd.Context(), daemon.StartOptions{
				Home:               home,
				Port:               port,
				PersistIntervalSec: persistInterval,
				IngestIntervalSec:  ingestInterval,
				Dev:                dev,
				PprofAddr:          pprofAddr,
				DBDriver:           dbDriver,
				DBURL:              dbURL,
				SeedDemo:           seedDemo,
				EnableOtel:         enableOtel,
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", daemon.DefaultPort, "Port for the HTTP API")
	cmd.Flags().Float64Var(&persistInterval, "persist-interval", 30.0, "Snapshot persist interval (seconds)")
	cmd.Flags().Float64Var(&ingestInterval, "ingest-interval", 2.0, "Telemetry spool scan interval (seconds)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable dev mode")
	cmd.Flags().StringVar(&pprofAddr, "pprof", "", "Enable pprof on address (e.g. 127.0.0.1:6060)")
	cmd.Flags().StringVar(&dbDriver, "db-driver", "sqlite", "Store driver: sqlite or postgres")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "DB connection string (for postgres)")
	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "Seed the stock roster when the store is empty")
	cmd.Flags().BoolVar(&enableOtel, "otel", true, "Enable OpenTelemetry metrics")

	return cmd
}
