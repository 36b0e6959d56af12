package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/server"
	"github.com/jackzampolin/freestyle/version"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Freestyle server",
	Long: `Start the Freestyle HTTP server.

The database is SQLite under ~/.freestyle/data by default. With
database.managed.enabled set, a Postgres container is started with the
server and stopped again on shutdown (Ctrl+C or SIGTERM).

The server provides:
  - /health  - Basic server health check
  - /ready   - Readiness check (includes a database ping)
  - /api/... - The prompt, auth, favorites, admin and advice API
  - /swagger - API documentation

Examples:
  freestyle serve                    # Start on the configured port (default 8080)
  freestyle serve --port 3000        # Start on custom port
  freestyle serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}

		cfgMgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		logger := newLogger(cfgMgr.Get())
		logger.Info("starting", "version", version.Get().String())
		if f := cfgMgr.ConfigFile(); f != "" {
			logger.Info("using config file", "path", f)
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cfgMgr,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port)")

	rootCmd.AddCommand(serveCmd)
}
