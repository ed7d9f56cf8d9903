package cli

import (
	"fmt"

	"github.com/alexanderramin/shopfloor/internal/cli/formatter"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRequestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"req"},
		Short:   "Manage production requests",
	}

	cmd.AddCommand(
		newRequestAddCmd(app),
		newRequestListCmd(app),
		newRequestRemoveCmd(app),
	)

	return cmd
}

func newRequestAddCmd(app *App) *cobra.Command {
	var (
		r                 domain.ProductionRequest
		machine, itemType string
		rate              string
		qty, minB, stepB  int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a production request",
		Long: `Add a production request. Quantities are rounded up to satisfy
--min-batch and --interval-batch. A request without --start is stored
but left out of every schedule until it gets one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			machineID, err := resolveMachineID(ctx, app, machine)
			if err != nil {
				return err
			}
			perUnit, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", rate, err)
			}

			r.MachineID = machineID
			r.ItemType = domain.ItemType(itemType)
			r.ProductionTimePerUnit = perUnit
			r.Quantity = domain.Quantity(qty)
			r.MinBatch = domain.Quantity(minB)
			r.IntervalBatch = domain.Quantity(stepB)
			if err := app.Requests.Create(ctx, &r); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created request %s for %s\n", formatter.TruncID(r.ID), r.DisplayName())
			if r.RequestedStart == nil {
				fmt.Fprintln(out, formatter.StyleYellow.Render("No --start given; the request will not be scheduled."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&machine, "machine", "", "Machine ID or name")
	cmd.Flags().StringVar(&r.ItemID, "item", "", "Item ID")
	cmd.Flags().StringVar(&r.ItemName, "item-name", "", "Item display name")
	cmd.Flags().StringVar(&itemType, "type", string(domain.ItemProduct), "Item type (product|semiproduct)")
	cmd.Flags().Int64Var(&qty, "qty", 0, "Quantity")
	cmd.Flags().StringVar(&rate, "rate", "", "Production minutes per unit (decimal)")
	cmd.Flags().IntVar(&r.SetupTimeMin, "setup", 0, "Changeover minutes (0 uses the machine setup matrix)")
	cmd.Flags().Int64Var(&minB, "min-batch", 0, "Minimum lot size")
	cmd.Flags().Int64Var(&stepB, "interval-batch", 0, "Lot size increment")
	cmd.Flags().Var(&instantValue{t: &r.RequestedStart}, "start", "Requested start")
	_ = cmd.MarkFlagRequired("machine")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("rate")

	return cmd
}

func newRequestListCmd(app *App) *cobra.Command {
	var machine string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List production requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			names, err := machineNames(ctx, app)
			if err != nil {
				return err
			}

			var reqs []*domain.ProductionRequest
			if machine != "" {
				id, err := resolveMachineID(ctx, app, machine)
				if err != nil {
					return err
				}
				if reqs, err = app.Requests.ListByMachine(ctx, id); err != nil {
					return err
				}
			} else if reqs, err = app.Requests.List(ctx); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRequests(reqs, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&machine, "machine", "", "Only requests of this machine")

	return cmd
}

func newRequestRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a production request",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveRequestID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Requests.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed request %s\n", args[0])
			return nil
		},
	}
}
