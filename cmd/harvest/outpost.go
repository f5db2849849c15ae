package main

import (
	"fmt"
	"strconv"

	"eveanchor/internal/adapter/manager/filestore"
	"eveanchor/internal/domain/manager"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newOutpostCmd(root *rootOptions) *cobra.Command {
	var managerPath string
	cmd := &cobra.Command{
		Use:   "outpost",
		Short: "Manage the outpost book of an alliance, corporation or member",
	}
	cmd.PersistentFlags().StringVarP(&managerPath, "manager", "m", "", "alliance[/corporation[/member]]")
	_ = cmd.MarkPersistentFlagRequired("manager")

	load := func(cmd *cobra.Command) (manager.Manager, filestore.Store, error) {
		m, err := manager.Parse(managerPath)
		if err != nil {
			return nil, filestore.Store{}, err
		}
		store := filestore.New(root.root)
		if err := store.Load(cmd.Context(), m); err != nil {
			return nil, filestore.Store{}, err
		}
		return m, store, nil
	}

	var o manager.Outpost
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an outpost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, store, err := load(cmd)
			if err != nil {
				return err
			}
			if err := m.AddOutpost(o); err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), m); err != nil {
				return err
			}
			_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added %s in %s to %s\n", o.Name, o.System, m.Name())
			return nil
		},
	}
	add.Flags().StringVar(&o.Name, "name", "", "outpost name")
	add.Flags().StringVar(&o.System, "system", "", "solar system")
	add.Flags().StringVar(&o.Capsuleer, "capsuleer", "", "capsuleer running it")
	add.Flags().IntVar(&o.Planets, "planets", 0, "planets in range")
	add.Flags().IntVar(&o.Arrays, "arrays", 0, "extraction arrays available")
	for _, name := range []string{"name", "system"} {
		_ = add.MarkFlagRequired(name)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List outposts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = color.New(color.FgCyan, color.Bold).Fprintf(out, "%s (%s)\n", m.Name(), m.Kind())
			outposts := m.Outposts()
			if len(outposts) == 0 {
				fmt.Fprintln(out, "no outposts")
				return nil
			}
			table := tablewriter.NewTable(out, tablewriter.WithHeader([]string{"Name", "System", "Capsuleer", "Planets", "Arrays"}))
			for _, p := range outposts {
				_ = table.Append([]string{p.Name, p.System, p.Capsuleer, strconv.Itoa(p.Planets), strconv.Itoa(p.Arrays)})
			}
			return table.Render()
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an outpost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, store, err := load(cmd)
			if err != nil {
				return err
			}
			if err := m.DeleteOutpost(args[0]); err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
