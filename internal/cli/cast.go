package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/varmap/internal/kinds"
)

func newCastCmd(a *app) *cobra.Command {
	var def string

	cmd := &cobra.Command{
		Use:   "cast <to-kind> <from-kind> <text>",
		Short: "Cast a literal from one kind to another",
		Long: `Cast reads text as a value of from-kind, then casts that value to to-kind
using the same rules as the library.

Kinds: int, int64, uint, float32, float64, bool, string

Example:
  varmap cast string int 42
  varmap cast int string 12abc
  varmap cast int string true --default 0`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, from, text := args[0], args[1], args[2]

			ops, err := lookupOps(to)
			if err != nil {
				return err
			}
			names := []string{from}
			if to != from {
				names = append(names, to)
			}
			set, err := kinds.Set(names...)
			if err != nil {
				return err
			}
			v, err := kinds.Parse(a.registry, set, from, text)
			if err != nil {
				return err
			}

			var out string
			if cmd.Flags().Changed("default") {
				out, err = ops.castOr(a.registry, v, def)
			} else {
				out, err = ops.cast(a.registry, v)
			}
			if err != nil {
				return err
			}
			return a.print(cmd, out, map[string]string{"kind": to, "value": out})
		},
	}
	cmd.Flags().StringVar(&def, "default", "", "value returned when the cast fails")
	return cmd
}
