// Package cli implements the varmap command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/varmap/internal/paths"
	"github.com/mesh-intelligence/varmap/internal/sqlite"
	"github.com/mesh-intelligence/varmap/pkg/variant"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the loaded configuration shared by all
// subcommands of one root command.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	cfg      Config
	registry *variant.Registry
}

// sysError marks failures of the environment (files, database) rather than
// of the user's input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemErr(format string, args ...any) error {
	return &sysError{err: fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "varmap" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{registry: variant.Default()}

	root := &cobra.Command{
		Use:   "varmap",
		Short: "Typed variant maps with text coercions",
		Long: "varmap stores string-keyed maps whose values are variants over a fixed set of kinds,\n" +
			"and reads them back exactly or through the cast rules.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/varmap)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.varmap-db)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCastCmd(a))
	root.AddCommand(newSetCmd(a, false))
	root.AddCommand(newSetCmd(a, true))
	root.AddCommand(newGetCmd(a, false))
	root.AddCommand(newGetCmd(a, true))
	root.AddCommand(newIndexCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newDeleteCmd(a))

	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:]))
}

func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(root.ErrOrStderr(), "varmap:", err)
	var serr *sysError
	if errors.As(err, &serr) {
		return exitSysError
	}
	return exitUserError
}

// load resolves the configuration directory and reads config.yaml.
func (a *app) load() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return systemErr("resolve config dir: %w", err)
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// openStore resolves the data directory and opens the store. The caller
// must Close it.
func (a *app) openStore() (*sqlite.Store, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.DataDir)
	if err != nil {
		return nil, systemErr("resolve data dir: %w", err)
	}
	store, err := sqlite.Open(dataDir, sqlite.WithRegistry(a.registry))
	if err != nil {
		return nil, systemErr("open store: %w", err)
	}
	return store, nil
}

// print writes v as indented JSON in JSON mode and as text otherwise.
func (a *app) print(cmd *cobra.Command, text string, v any) error {
	if !a.jsonMode {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemErr("marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
