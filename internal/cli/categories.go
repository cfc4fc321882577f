package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List and manage transaction categories",
		Args:  cobra.NoArgs,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer closeBackend(b, a.logger)

			reg, err := a.openRegistry(ctx, b)
			if err != nil {
				return err
			}
			custom := map[string]bool{}
			for _, name := range reg.Custom() {
				custom[name] = true
			}
			for _, name := range reg.List() {
				if custom[name] {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (custom)\n", name)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("category name cannot be empty")
			}
			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer closeBackend(b, a.logger)

			reg, err := a.openRegistry(ctx, b)
			if err != nil {
				return err
			}
			added, err := reg.Add(ctx, name)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "Category %q already exists\n", name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %q\n", name)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer closeBackend(b, a.logger)

			reg, err := a.openRegistry(ctx, b)
			if err != nil {
				return err
			}
			removed, err := reg.Remove(ctx, args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no custom category named %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed category %q\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}
