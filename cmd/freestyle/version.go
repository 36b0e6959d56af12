package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information (release, commit, date, Go runtime)",
	Long: `Print the release, commit and Go runtime this binary was built
with. Honors -o yaml|json like the api commands, so scripts can read it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.Output(version.Get())
	},
}
