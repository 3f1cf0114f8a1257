package cli

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kimhons/lumina-ai-sub000/internal/config"
	"github.com/kimhons/lumina-ai-sub000/internal/daemon"
)

func newStartCmd() *cobra.Command {
	var (
		port            int
		foreground      bool
		persistInterval float64
		ingestInterval  float64
		dev             bool
		pprofAddr       string
		envFile         string
		dbDriver        string
		dbURL           string
		seedDemo        bool
		enableOtel      bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the Lumina daemon (HTTP API + persist/ingest loops)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := loadEnvFile(envFile); err != nil {
					return err
				}
			}
			home := config.MustHomeFrom(cmd.Context())

			opts := daemon.StartOptions{
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
			}

			api := (&url.URL{Scheme: "http", Host: fmt.Sprintf("localhost:%d", port)}).String()

			if foreground {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting Lumina in foreground on %s\n", api)
				return daemon.StartForeground(cmd.Context(), opts)
			}

			pid, err := daemon.StartBackground(cmd.Context(), opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Lumina started (pid %d)\n", pid)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "API: %s\n", api)
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", daemon.DefaultPort, "Port for the HTTP API")
	cmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground (do not daemonize)")
	cmd.Flags().Float64Var(&persistInterval, "persist-interval", 30.0, "Snapshot persist interval (seconds)")
	cmd.Flags().Float64Var(&ingestInterval, "ingest-interval", 2.0, "Telemetry spool scan interval (seconds)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable dev mode (CORS for a local frontend)")
	cmd.Flags().StringVar(&pprofAddr, "pprof", "", "Enable pprof on address (e.g. 127.0.0.1:6060)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load env vars from file (KEY=VALUE per line) before starting")
	cmd.Flags().StringVar(&dbDriver, "db-driver", "sqlite", "Store driver: sqlite or postgres")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "DB connection string (for postgres; or set DATABASE_URL)")
	cmd.Flags().BoolVar(&seedDemo, "seed-demo", true, "Seed the stock roster when the store is empty")
	cmd.Flags().BoolVar(&enableOtel, "otel", true, "Enable OpenTelemetry metrics (Prometheus exporter, HTTP/SSE instrumentation)")

	return cmd
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])
		if key != "" {
			_ = os.Setenv(key, value)
		}
	}
	return sc.Err()
}
