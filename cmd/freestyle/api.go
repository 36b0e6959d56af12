package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/server/endpoints"
)

const defaultServerURL = "http://localhost:8080"

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing). An
// explicit --server wins, then the server the session was created against.
func getServerURL() string {
	if !apiCmd.PersistentFlags().Changed("server") && session.Server != "" {
		return session.Server
	}
	return serverURL
}

var apiCmd *cobra.Command

func buildAPICommand() *cobra.Command {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		registry.Register(ep)
	}
	cmd := registry.BuildCommands(getServerURL)

	for _, child := range cmd.Commands() {
		if child.Name() == "auth" {
			child.AddCommand(endpoints.LogoutCommand())
		}
	}
	return cmd
}

func init() {
	apiCmd = buildAPICommand()

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", defaultServerURL, "Server URL",
	)

	rootCmd.AddCommand(apiCmd)
}
