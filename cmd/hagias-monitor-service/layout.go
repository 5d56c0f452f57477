package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/trolleyman/hagias-monitor-service/internal/config"
	"github.com/trolleyman/hagias-monitor-service/internal/layouts"
	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

// newLayoutCmd groups the registry management subcommands. They operate on
// the same layouts file as the server, so edits show up on the dashboard
// the next time it reloads.
func newLayoutCmd(opts *options) *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Manage stored monitor layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("layout requires a subcommand: list|apply|store|hide|unhide|remove")
		},
	}

	openStore := func(cmd *cobra.Command) (*layouts.Store, config.Config, error) {
		cfg, err := resolveConfig(cmd, opts)
		if err != nil {
			return nil, config.Config{}, err
		}
		store, err := layouts.NewStore(cfg.LayoutsPath)
		if err != nil {
			return nil, config.Config{}, err
		}
		if err := store.Reload(); err != nil {
			return nil, config.Config{}, err
		}
		return store, cfg, nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			all := store.List()
			if len(all) == 0 {
				fmt.Println("no layouts stored in", store.Path())
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMOJI\tDISPLAYS\tHIDDEN")
			for _, l := range all {
				hidden := ""
				if l.Hidden {
					hidden = "hidden"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", l.ID, l.Name, l.Emoji, len(l.Displays), hidden)
			}
			return w.Flush()
		},
	}

	apply := &cobra.Command{
		Use:   "apply <id>",
		Short: "Apply a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openStore(cmd)
			if err != nil {
				return err
			}
			applier := &layouts.ExecApplier{
				Command: cfg.ApplyCommand,
				Timeout: time.Duration(cfg.ApplyTimeoutMS) * time.Millisecond,
			}
			svc := layouts.NewService(store, applier, newLogger(cfg.LogLevel))
			l, err := svc.Apply(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Configuration %s %q applied successfully\n", l.ID, l.Name)
			return nil
		},
	}

	var storeFile, storeName, storeEmoji string
	storeCmd := &cobra.Command{
		Use:   "store <id>",
		Short: "Store or replace a layout from a displays JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			id := args[0]
			l := types.Layout{ID: id, Name: storeName, Emoji: storeEmoji}
			if prev, ok := store.Get(id); ok {
				if l.Name == "" {
					l.Name = prev.Name
				}
				if l.Emoji == "" {
					l.Emoji = prev.Emoji
				}
				l.Hidden = prev.Hidden
				l.Displays = prev.Displays
			}
			if l.Name == "" {
				l.Name = id
			}
			if storeFile != "" {
				b, err := os.ReadFile(storeFile)
				if err != nil {
					return fmt.Errorf("read displays file: %w", err)
				}
				if err := json.Unmarshal(b, &l.Displays); err != nil {
					return fmt.Errorf("parse displays file %s: %w", storeFile, err)
				}
			}
			store.Add(l)
			if err := store.Save(); err != nil {
				return err
			}
			fmt.Printf("stored layout %s %q (%d displays)\n", l.ID, l.Name, len(l.Displays))
			return nil
		},
	}
	storeCmd.Flags().StringVar(&storeFile, "displays", "", "JSON file containing the layout's display array")
	storeCmd.Flags().StringVar(&storeName, "name", "", "Human-readable layout name (defaults to id)")
	storeCmd.Flags().StringVar(&storeEmoji, "emoji", "", "Emoji shown on the dashboard card")

	setHidden := func(use, short string, hidden bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, _, err := openStore(cmd)
				if err != nil {
					return err
				}
				if !store.SetHidden(args[0], hidden) {
					return fmt.Errorf("layout not found: %s", args[0])
				}
				return store.Save()
			},
		}
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("layout not found: %s", args[0])
			}
			return store.Save()
		},
	}

	layoutCmd.AddCommand(
		list,
		apply,
		storeCmd,
		setHidden("hide", "Hide a layout from the dashboard", true),
		setHidden("unhide", "Show a hidden layout on the dashboard again", false),
		remove,
	)
	return layoutCmd
}
