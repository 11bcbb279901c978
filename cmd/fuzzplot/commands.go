package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"fuzzplot/config"
	"fuzzplot/internal/plotjob"
	"fuzzplot/internal/render"
	"fuzzplot/pkg/database"
	"fuzzplot/pkg/logger"
	"fuzzplot/pkg/mq"
	"fuzzplot/pkg/telemetry"
	"fuzzplot/pkg/watchdog"
)

// jobFlags are the command line overrides shared by every job command
type jobFlags struct {
	Output     string
	Renderer   string
	Profile    string
	Hours      float64
	BinMinutes float64
	Source     string
	Watch      bool
}

var coverageCmd = &cobra.Command{
	Use:   "coverage [dir]",
	Short: "Compare *_fuzz_log.txt coverage timelines, annotating selected logs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  jobRunE("coverage"),
}

var tableCmd = &cobra.Command{
	Use:   "table [dir]",
	Short: "Plot every column of a side-by-side ce_log.txt",
	Args:  cobra.MaximumNArgs(1),
	RunE:  jobRunE("table"),
}

var runsCmd = &cobra.Command{
	Use:   "runs [root]",
	Short: "Plot the coverage of every run directory over the first hours",
	Args:  cobra.MaximumNArgs(1),
	RunE:  jobRunE("runs"),
}

var throughputCmd = &cobra.Command{
	Use:   "throughput [root]",
	Short: "Plot binned P25-P75 throughput bands with the median per run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  jobRunE("throughput"),
}

func jobRunE(name string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runJob(ctx, name, dir, verbose, flags)
	}
}

// runJob wires the application for a single job and renders it, or keeps
// re-rendering it in watch mode until ctx is cancelled
func runJob(ctx context.Context, name, dir string, verbose bool, f jobFlags) error {
	cfg := config.LoadConfig()
	if verbose {
		cfg.LogLevel = "debug"
	}
	if f.Renderer != "" {
		cfg.Renderer = f.Renderer
	}
	if f.Profile != "" {
		cfg.ProfilePath = f.Profile
	}
	binMinutes := f.BinMinutes
	if binMinutes <= 0 {
		binMinutes = float64(cfg.BinMinutes)
	}

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}
	job, err := plotjob.New(name, plotjob.Options{
		Dir:        dir,
		Hours:      f.Hours,
		BinMinutes: binMinutes,
		Source:     f.Source,
		Profile:    profile,
	})
	if err != nil {
		return err
	}

	var runner *plotjob.Runner
	app := fx.New(appOptions(cfg), fx.Populate(&runner))
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		app.Stop(stopCtx)
	}()

	req := plotjob.Request{Job: job, Renderer: cfg.Renderer, Output: f.Output}
	if f.Watch {
		return runner.Watch(ctx, req, cfg.WatchConfig.Debounce)
	}
	_, err = runner.Run(ctx, req)
	return err
}

func appOptions(cfg *config.AppConfig) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			logger.NewLogger,            // inject logger
			telemetry.NewTelemetry,      // inject telemetry, nil without a collector
			telemetry.NewTracerFactory,  // inject telemetry tracer factory
			database.NewDBConnection,    // inject sample archive, nil without DATABASE_URL
			database.NewRedisClient,     // inject redis client, nil without REDIS_URL
			database.NewSeriesCache,     // inject series cache
			mq.NewRabbitMQ,              // inject rabbitmq service, nil without RABBITMQ_URL
			mq.NewChartPublisher,        // inject chart notifications
			watchdog.NewWatchDogFactory, // inject watchdog factory
			plotjob.NewRunner,           // inject job runner
		),
		render.Module, // inject renderers
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			zlogger := fxevent.ZapLogger{Logger: log}
			zlogger.UseLogLevel(zap.DebugLevel)
			return &zlogger
		}),
	)
}
