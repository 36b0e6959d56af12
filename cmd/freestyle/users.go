package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts directly in the database",
}

var promoteRevoke bool

var usersPromoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant (or with --revoke, remove) admin rights",
	Long: `Grant admin rights to the account with the given email. There is no
API route that changes roles, so this runs against the database directly.
The user must sign in again for the new role to appear in their session.

Examples:
  freestyle users promote admin@example.com
  freestyle users promote admin@example.com --revoke`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, cleanup, err := openLocalStore()
		if err != nil {
			return err
		}
		defer cleanup()

		u, err := st.SetAdmin(cmd.Context(), args[0], !promoteRevoke)
		if err != nil {
			return err
		}
		return api.Output(u)
	},
}

func init() {
	usersPromoteCmd.Flags().BoolVar(&promoteRevoke, "revoke", false, "Remove admin rights instead")

	usersCmd.AddCommand(usersPromoteCmd)
	rootCmd.AddCommand(usersCmd)
}
