package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/udisondev/hearth/internal/config"
	"github.com/udisondev/hearth/internal/db"
	"github.com/udisondev/hearth/internal/db/local"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/saves"
	"github.com/udisondev/hearth/internal/snapshot"
)

func openStore(ctx context.Context, flags *storeFlags) (saves.Store, error) {
	cfg, err := config.LoadHearth(config.Path(flags.configPath))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	backend := cfg.Storage.Backend
	if flags.backend != "" {
		backend = flags.backend
	}

	switch backend {
	case config.BackendSQLite:
		path := cfg.Storage.SQLitePath
		if flags.sqlitePath != "" {
			path = flags.sqlitePath
		}
		return local.Open(path)
	case config.BackendPostgres:
		dsn := cfg.Storage.Database.DSN()
		if flags.dsn != "" {
			dsn = flags.dsn
		}
		return db.Open(ctx, dsn)
	default:
		return nil, fmt.Errorf("backend %q has no persistent slots", backend)
	}
}

// withStore opens the store for the duration of fn.
func withStore(cmd *cobra.Command, flags *storeFlags, fn func(ctx context.Context, st saves.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(ctx, flags)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}

func newListCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List save slots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, st saves.Store) error {
				list, err := st.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SLOT\tSNAPSHOT\tCLOCK\tAGENTS\tSIZE\tUPDATED")
				for _, info := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
						info.Slot, info.SnapshotID, policy.FormatClock(info.Clock), info.Agents, info.Size,
						info.UpdatedAt.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
}

func newShowCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slot>",
		Short: "Print a slot's summary and its agents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, st saves.Store) error {
				s, err := saves.Load(ctx, st, args[0])
				if err != nil {
					return err
				}
				printSave(cmd, s)
				return nil
			})
		},
	}
}

func newExportCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <slot> <file>",
		Short: "Write a slot to a file (.json for plain JSON, compressed otherwise)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, st saves.Store) error {
				s, err := saves.Load(ctx, st, args[0])
				if err != nil {
					return err
				}
				if err := writeSave(args[1], s); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newImportCmd(flags *storeFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <file> <slot>",
		Short: "Store a save file in a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, flags, func(ctx context.Context, st saves.Store) error {
				if !force {
					_, err := st.Get(ctx, args[1])
					if err == nil {
						return fmt.Errorf("slot %q exists, use --force to replace it", args[1])
					}
					if !errors.Is(err, saves.ErrSlotNotFound) {
						return err
					}
				}
				if err := saves.Save(ctx, st, args[1], s); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s into %s (%d agents)\n", args[0], args[1], len(s.Agents))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing slot")
	return cmd
}

func newDeleteCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slot>",
		Short: "Remove a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, st saves.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newValidateCmd() *cobra.Command {
	var policyFile string
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that save files decode and restore",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := policy.Load(policyFile)
			if err != nil {
				return err
			}
			failed := 0
			for _, path := range args {
				if err := validateFile(path, tables); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d saves invalid", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&policyFile, "policy", "", "policy tables used for the restore check")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema saves are checked against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), snapshot.Schema())
			return nil
		},
	}
}

func validateFile(path string, tables policy.Tables) error {
	s, err := snapshot.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := s.Restore(snapshot.RestoreOptions{Tables: tables}); err != nil {
		return err
	}
	return nil
}

func writeSave(path string, s *snapshot.Save) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return snapshot.WriteFile(path, s)
	}
	data, err := snapshot.EncodeJSON(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func printSave(cmd *cobra.Command, s *snapshot.Save) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "snapshot  %s (v%d)\n", s.SnapshotID, s.Version)
	fmt.Fprintf(out, "clock     %s\n", policy.FormatClock(s.Clock))
	fmt.Fprintf(out, "map       %vx%v, %d rooms, %d interactables\n",
		s.World.Width, s.World.Height, len(s.Rooms), len(s.Interactables))
	fmt.Fprintf(out, "agents    %d\n", len(s.Agents))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tROLE\tHOME\tINTENT")
	for _, a := range s.Agents {
		age := "-"
		if a.Age != nil {
			age = fmt.Sprint(*a.Age)
		}
		intent := a.Intent
		if intent == "" {
			intent = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", a.ID, a.Name, age, a.Role, a.HomeID, intent)
	}
	_ = tw.Flush()
}
