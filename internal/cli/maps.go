package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/varmap/internal/kinds"
	"github.com/mesh-intelligence/varmap/internal/sqlite"
	"github.com/mesh-intelligence/varmap/pkg/typedmap"
)

// entryView is the JSON form of one map entry.
type entryView struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Value string `json:"value"`
}

// loadMap loads name from store. When create is set, a missing map is
// returned empty over the configured kinds.
func (a *app) loadMap(store *sqlite.Store, name string, create bool) (*typedmap.Map, error) {
	m, err := store.Load(name)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sqlite.ErrMapNotFound) {
		return nil, systemErr("load map: %w", err)
	}
	if !create {
		return nil, err
	}
	set, err := kinds.Set(a.cfg.Kinds...)
	if err != nil {
		return nil, err
	}
	return typedmap.New(set, typedmap.WithRegistry(a.registry)), nil
}

func newSetCmd(a *app, emplace bool) *cobra.Command {
	use, short := "set", "Store a value, replacing any existing entry"
	if emplace {
		use, short = "emplace", "Store a value only if the key is absent"
	}

	return &cobra.Command{
		Use:   use + " <map> <key> <kind> <text>",
		Short: short,
		Long: short + `.

The map is created over the configured kinds if it does not exist.
The text is read as a value of the given kind with the cast rules.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, key, kind, text := args[0], args[1], args[2], args[3]

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := a.loadMap(store, name, true)
			if err != nil {
				return err
			}
			v, err := kinds.Parse(a.registry, m.Alternatives(), kind, text)
			if err != nil {
				return err
			}

			status := "stored"
			if emplace && m.Has(key) {
				status = "exists"
			} else if err := m.Put(key, v); err != nil {
				return err
			}

			if status == "stored" {
				if _, err := store.Save(name, m); err != nil {
					return systemErr("save map: %w", err)
				}
			}
			return a.print(cmd, status, map[string]string{"status": status, "map": name, "key": key})
		},
	}
}

func newGetCmd(a *app, withCast bool) *cobra.Command {
	var def string

	use, short := "get", "Read a value held exactly as the given kind"
	if withCast {
		use, short = "cast-get", "Read a value, casting it to the given kind"
	}

	cmd := &cobra.Command{
		Use:   use + " <map> <key> <kind>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, key, kind := args[0], args[1], args[2]
			hasDefault := cmd.Flags().Changed("default")

			ops, err := lookupOps(kind)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := a.loadMap(store, name, hasDefault)
			if err != nil {
				return err
			}

			var out string
			switch {
			case withCast && hasDefault:
				out, err = ops.castGetOr(m, key, def)
			case withCast:
				out, err = ops.castGet(m, key)
			case hasDefault:
				out, err = ops.getOr(m, key, def)
			default:
				var ok bool
				out, ok, err = ops.get(m, key)
				if err == nil && !ok {
					err = fmt.Errorf("key %q does not hold a %s", key, kind)
				}
			}
			if err != nil {
				return err
			}
			return a.print(cmd, out, map[string]string{"key": key, "kind": kind, "value": out})
		},
	}
	cmd.Flags().StringVar(&def, "default", "", "value returned when the key is absent or the read fails")
	return cmd
}

func newIndexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index <map> <key>",
		Short: "Print the alternative index and kind of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, key := args[0], args[1]

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := a.loadMap(store, name, false)
			if err != nil {
				return err
			}
			idx, err := m.IndexAt(key)
			if err != nil {
				return err
			}
			kind := kinds.Name(m.Alternatives().At(idx))
			return a.print(cmd, fmt.Sprintf("%d %s", idx, kind), map[string]any{"key": key, "index": idx, "kind": kind})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [map]",
		Short: "List saved maps, or the entries of one map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				infos, err := store.List()
				if err != nil {
					return systemErr("list maps: %w", err)
				}
				lines := make([]string, len(infos))
				for i, info := range infos {
					lines[i] = fmt.Sprintf("%s\t%s\t%d", info.Name, strings.Join(info.Kinds, ","), info.Entries)
				}
				return a.print(cmd, strings.Join(lines, "\n"), infos)
			}

			m, err := a.loadMap(store, args[0], false)
			if err != nil {
				return err
			}
			entries := make([]entryView, 0, m.Len())
			lines := make([]string, 0, m.Len())
			for _, key := range m.Keys() {
				v, _ := m.Lookup(key)
				text, err := kinds.Format(m.Registry(), v)
				if err != nil {
					return err
				}
				e := entryView{Key: key, Kind: kinds.Name(v.Type()), Index: v.Index(), Value: text}
				entries = append(entries, e)
				lines = append(lines, fmt.Sprintf("%s\t%s\t%s", e.Key, e.Kind, e.Value))
			}
			return a.print(cmd, strings.Join(lines, "\n"), entries)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <map>",
		Short: "Delete a saved map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(args[0]); err != nil {
				if errors.Is(err, sqlite.ErrMapNotFound) {
					return err
				}
				return systemErr("delete map: %w", err)
			}
			return a.print(cmd, "deleted", map[string]string{"status": "deleted", "map": args[0]})
		},
	}
}
