package cli

import (
	"fmt"

	"github.com/alexanderramin/shopfloor/internal/cli/formatter"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/spf13/cobra"
)

func newShiftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Manage the shift calendar",
		Long: `Manage the shift calendar.

Shifts repeat every day. When shifts overlap, the one listed first wins,
so add them in priority order. A shift ending before it starts runs past
midnight; 00:00-24:00 covers the whole day.`,
	}

	cmd.AddCommand(
		newShiftAddCmd(app),
		newShiftListCmd(app),
		newShiftRemoveCmd(app),
	)

	return cmd
}

func newShiftAddCmd(app *App) *cobra.Command {
	var (
		s     domain.Shift
		off   bool
		start = newTimeOfDayValue(&s.Start)
		end   = newTimeOfDayValue(&s.End)
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a shift to the calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Working = !off
			if err := app.Shifts.Create(cmd.Context(), &s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created shift %s %s-%s (%s working) %s\n",
				s.Name, s.Start, s.End, formatter.FormatMinutes(s.WorkingMinutes()), formatter.TruncID(s.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&s.Name, "name", "", "Shift name")
	cmd.Flags().Var(start, "start", "Start time")
	cmd.Flags().Var(end, "end", "End time")
	cmd.Flags().Var(&pauseListValue{pauses: &s.Pauses}, "pause", "Break inside the shift (repeatable)")
	cmd.Flags().BoolVar(&off, "off", false, "Mark the window as non-working")
	cmd.Flags().StringVar(&s.Color, "color", "", "Display color (#rrggbb)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newShiftListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shifts in resolution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			shifts, err := app.Shifts.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatShifts(shifts))
			return nil
		},
	}
}

func newShiftRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|name>",
		Aliases: []string{"rm"},
		Short:   "Remove a shift",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveShiftID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Shifts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed shift %s\n", args[0])
			return nil
		},
	}
}
