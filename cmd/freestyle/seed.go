package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/freestyle/internal/api"
	"github.com/jackzampolin/freestyle/internal/catalog"
	"github.com/jackzampolin/freestyle/internal/server"
	"github.com/jackzampolin/freestyle/internal/store"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load starter prompts into the database",
	Long: `Insert the built-in starter prompts as approved, skipping any whose
label already exists. Runs directly against the configured database, so
the server does not need to be running.

Examples:
  freestyle seed                      # Load the built-in prompt set
  freestyle seed --file prompts.yaml  # Load prompts from a file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		prompts, err := catalog.StarterPrompts()
		if err != nil {
			return err
		}
		if seedFile != "" {
			if prompts, err = readSeedFile(seedFile); err != nil {
				return err
			}
		}

		st, logger, cleanup, err := openLocalStore()
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := catalog.NewService(st, logger).Seed(ctx, prompts)
		if err != nil {
			return err
		}
		return api.Output(res)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML file with a top-level prompts list")
	rootCmd.AddCommand(seedCmd)
}

func readSeedFile(path string) ([]catalog.PromptInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return catalog.ParsePrompts(f)
}

// openLocalStore opens the configured database for commands that work
// without a running server. The managed container must already be up.
func openLocalStore() (*store.Store, *slog.Logger, func(), error) {
	h, err := getHome()
	if err != nil {
		return nil, nil, nil, err
	}
	cfgMgr, err := loadConfig(h)
	if err != nil {
		return nil, nil, nil, err
	}
	c := cfgMgr.Get()
	logger := newLogger(c)

	mgr, err := server.NewDBManager(c, h)
	if err != nil {
		return nil, nil, nil, err
	}

	st, err := server.OpenStore(c, h, mgr, logger)
	if err != nil {
		if mgr != nil {
			mgr.Close()
		}
		return nil, nil, nil, err
	}
	return st, logger, func() {
		st.Close()
		if mgr != nil {
			mgr.Close()
		}
	}, nil
}
