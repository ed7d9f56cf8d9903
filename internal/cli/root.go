package cli

import (
	"context"
	"errors"

	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/spf13/cobra"
)

// Services are the use cases the commands run against.
type Services struct {
	Shifts    service.ShiftService
	Machines  service.MachineService
	Requests  service.RequestService
	Import    service.ImportService
	Schedules service.ScheduleService

	// Serve runs the HTTP API on addr until ctx is done.
	Serve func(ctx context.Context, addr string) error
	// Addr is the configured listen address used when --addr is not given.
	Addr string
}

// GlobalFlags are the persistent root flags.
type GlobalFlags struct {
	ConfigFile string
	DBPath     string
}

// App holds the services used by CLI commands. When Bootstrap is set it
// is called once before any command runs to fill Services from the
// global flags; tests set Services directly instead.
type App struct {
	Services

	Bootstrap func(ctx context.Context, flags GlobalFlags) (Services, func() error, error)

	// IsInteractive reports whether output goes to a terminal. It picks
	// the default schedule format.
	IsInteractive func() bool

	closer func() error
}

// Close releases whatever Bootstrap opened.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "shopfloor" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var flags GlobalFlags

	root := &cobra.Command{
		Use:           "shopfloor",
		Short:         "Shift-aware production scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Bootstrap == nil || app.closer != nil {
				return nil
			}
			svcs, closer, err := app.Bootstrap(cmd.Context(), flags)
			if err != nil {
				return err
			}
			app.Services = svcs
			app.closer = closer
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Config file (default ./shopfloor.yaml or ~/.shopfloor/shopfloor.yaml)")
	root.PersistentFlags().StringVar(&flags.DBPath, "db", "", "SQLite database path (overrides db_path)")

	root.AddCommand(
		newShiftCmd(app),
		newMachineCmd(app),
		newRequestCmd(app),
		newImportCmd(app),
		newScheduleCmd(app),
		newServeCmd(app),
	)

	return root
}

var errServeUnavailable = errors.New("serve is not available in this build")
