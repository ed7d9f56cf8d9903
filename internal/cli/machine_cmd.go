package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/shopfloor/internal/cli/formatter"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/spf13/cobra"
)

func newMachineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine",
		Short: "Manage machines and their setup times",
	}

	cmd.AddCommand(
		newMachineAddCmd(app),
		newMachineListCmd(app),
		newMachineRemoveCmd(app),
		newMachineSetupCmd(app),
	)

	return cmd
}

func newMachineAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &domain.Machine{Name: name}
			if err := app.Machines.Create(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created machine %s %s\n", m.Name, formatter.TruncID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Machine name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newMachineListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			machines, err := app.Machines.List(ctx)
			if err != nil {
				return err
			}
			setups := make(map[string][]domain.MachineProduct, len(machines))
			for _, m := range machines {
				if setups[m.ID], err = app.Machines.ListSetups(ctx, m.ID); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMachines(machines, setups))
			return nil
		},
	}
}

func newMachineRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|name>",
		Aliases: []string{"rm"},
		Short:   "Remove a machine with its setup times and requests",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveMachineID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Machines.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed machine %s\n", args[0])
			return nil
		},
	}
}

func newMachineSetupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "setup <machine> [<item> <minutes>]",
		Short: "Show or set changeover times",
		Long: `Show a machine's setup matrix, or set the changeover time needed before
producing an item on it. Requests without their own setup time take it
from this matrix.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected <machine> or <machine> <item> <minutes>, got %d args", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveMachineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if len(args) == 3 {
				minutes, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("invalid minutes %q: %w", args[2], err)
				}
				if err := app.Machines.SetSetup(ctx, id, args[1], minutes); err != nil {
					return err
				}
			}

			m, err := app.Machines.GetByID(ctx, id)
			if err != nil {
				return err
			}
			setups, err := app.Machines.ListSetups(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSetups(m, setups))
			return nil
		},
	}
}
