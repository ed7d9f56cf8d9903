package cli

import (
	"fmt"

	"github.com/alexanderramin/shopfloor/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import shifts, machines and requests from a JSON or YAML plan file",
		Long: `Import a plan file. Everything in the file is written in one transaction.
Shifts and machines whose names already exist are updated or reused;
requests are always added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s\n", formatter.Bold(args[0]))
			fmt.Fprintf(out, "  shifts    %d (%d updated)\n", res.ShiftCount, res.UpdatedShifts)
			fmt.Fprintf(out, "  machines  %d (%d reused)\n", res.MachineCount, res.ReusedMachines)
			fmt.Fprintf(out, "  setups    %d\n", res.SetupCount)
			fmt.Fprintf(out, "  requests  %d\n", res.RequestCount)
			return nil
		},
	}
}
