package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/shopfloor/internal/api"
	"github.com/alexanderramin/shopfloor/internal/cli"
	"github.com/alexanderramin/shopfloor/internal/config"
	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/logging"
	"github.com/alexanderramin/shopfloor/internal/metrics"
	"github.com/alexanderramin/shopfloor/internal/repository"
	"github.com/alexanderramin/shopfloor/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{Bootstrap: bootstrap}
	defer app.Close()

	// Detect a terminal on stdout to pick the default schedule format.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// bootstrap loads configuration and wires storage, services and the HTTP
// API. The returned closer flushes the logger and closes the database.
func bootstrap(ctx context.Context, flags cli.GlobalFlags) (cli.Services, func() error, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return cli.Services{}, nil, err
	}
	if flags.DBPath != "" {
		cfg.DBPath = flags.DBPath
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("building logger: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return cli.Services{}, nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("database_opened", zap.String("path", cfg.DBPath))

	calOpts, err := cfg.CalendarOptions()
	if err != nil {
		database.Close()
		return cli.Services{}, nil, err
	}

	// Wire repositories
	shiftRepo := repository.NewSQLiteShiftRepo(database)
	machineRepo := repository.NewSQLiteMachineRepo(database)
	requestRepo := repository.NewSQLiteRequestRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	m := metrics.New()
	observer := service.NewZapUseCaseObserver(logger)

	svcs := cli.Services{
		Shifts:   service.NewShiftService(shiftRepo),
		Machines: service.NewMachineService(machineRepo),
		Requests: service.NewRequestService(requestRepo, machineRepo),
		Import:   service.NewImportService(uow, observer),
		Schedules: service.NewScheduleService(shiftRepo, machineRepo, requestRepo, planRepo, uow,
			service.ScheduleOptions{
				Calendar:       calOpts,
				Workers:        cfg.Scheduler.Workers,
				Metrics:        m,
				PushgatewayURL: cfg.Metrics.PushgatewayURL,
				PushJob:        cfg.Metrics.Job,
			},
			observer,
		),
		Addr: cfg.HTTP.Addr,
	}

	svcs.Serve = func(ctx context.Context, addr string) error {
		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := api.NewRouter(api.Deps{
			Shifts:    svcs.Shifts,
			Machines:  svcs.Machines,
			Requests:  svcs.Requests,
			Schedules: svcs.Schedules,
			Metrics:   m,
			Logger:    logger,
		})
		return api.Serve(ctx, addr, router, logger)
	}

	closer := func() error {
		_ = logger.Sync()
		return database.Close()
	}
	return svcs, closer, nil
}
