package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/varmap/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize varmap configuration and storage",
		Long:  "Create the configuration and data directories, write a default config.yaml\nif none exists, and create the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return systemErr("create config directory: %w", err)
			}
			// A --data-dir given here is recorded absolute so later runs from
			// other directories find the same store.
			dataDir := a.dataDir
			if dataDir != "" {
				abs, err := paths.ResolveDataDir(dataDir, "")
				if err != nil {
					return systemErr("resolve data dir: %w", err)
				}
				dataDir = abs
			}
			if _, err := writeConfigIfMissing(a.configDir, defaultConfig(dataDir)); err != nil {
				return systemErr("write config: %w", err)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return systemErr("close store: %w", err)
			}

			return a.print(cmd, "varmap initialized", map[string]string{
				"status":     "initialized",
				"config_dir": a.configDir,
			})
		},
	}
}
