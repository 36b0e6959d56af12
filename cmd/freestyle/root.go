package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/config"
	"github.com/jackzampolin/freestyle/internal/home"
	"github.com/jackzampolin/freestyle/internal/server"
	"github.com/jackzampolin/freestyle/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string

	// session is the saved CLI session, loaded before every command.
	session = &api.Session{}
)

var rootCmd = &cobra.Command{
	Use:   "freestyle",
	Short: "Dance practice prompts: browse, submit, moderate and practice",
	Long: `Freestyle serves a catalog of dance practice prompts.

Dancers browse approved prompts, submit their own for moderation, keep
favorites and ask a language model for practice advice. Admins approve,
edit and remove submissions and watch aggregate stats.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.freestyle/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "freestyle home directory (default: ~/.freestyle)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Load .env, set output format and attach the saved session before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		api.SetOutputFormat(outputFormat)

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		path := h.SessionPath()
		loaded, err := api.LoadSession(path)
		if err != nil {
			slog.Warn("ignoring unreadable session", "path", path, "error", err)
			loaded = &api.Session{}
		}
		session = loaded
		cmd.SetContext(api.WithSession(cmd.Context(), session, path))
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// getHome returns the home directory manager.
func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return h, nil
}

// loadConfig reads --config, falling back to the home config file when it
// exists.
func loadConfig(h *home.Dir) (*config.Manager, error) {
	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	return config.NewManager(path)
}

// newLogger builds the process logger from the log section.
func newLogger(c *config.Config) *slog.Logger {
	return server.NewLogger(os.Stdout, c)
}
