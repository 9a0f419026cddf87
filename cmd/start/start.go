package start

import (
	"context"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/caesium-cloud/relay/api"
	"github.com/caesium-cloud/relay/api/rest/bind"
	"github.com/caesium-cloud/relay/internal/access"
	"github.com/caesium-cloud/relay/internal/ciconfig"
	"github.com/caesium-cloud/relay/internal/credential"
	"github.com/caesium-cloud/relay/internal/dispatch"
	"github.com/caesium-cloud/relay/internal/event"
	"github.com/caesium-cloud/relay/internal/fire"
	"github.com/caesium-cloud/relay/internal/gate"
	"github.com/caesium-cloud/relay/internal/metrics"
	"github.com/caesium-cloud/relay/internal/repository"
	"github.com/caesium-cloud/relay/internal/schedule"
	"github.com/caesium-cloud/relay/pkg/db"
	"github.com/caesium-cloud/relay/pkg/env"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/spf13/cobra"
)

const (
	usage   = "start"
	short   = "Start a relay server"
	long    = "This command starts the relay REST API and pipeline schedule runner"
	example = "relay start"
)

var (
	// Cmd is the start command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		Aliases:    []string{"s"},
		SuggestFor: []string{"launch", "boot", "up", "serve"},
		Example:    example,
		RunE:       start,
	}
)

var cancel context.CancelFunc

func start(cmd *cobra.Command, args []string) error {
	signalChan := make(chan os.Signal, 1)

	go func() {
		for s := range signalChan {
			switch s {
			case syscall.SIGUSR1:
				log.Info("dumping stack traces due to SIGUSR1 signal")
				if profile := pprof.Lookup("goroutine"); profile != nil {
					if err := profile.WriteTo(os.Stdout, 1); err != nil {
						log.Error("write goroutine profile", "error", err)
					}
				}
			case syscall.SIGINT, syscall.SIGTERM:
				log.Info("gracefully shutting down", "signal", s.String())
				shutdown()
				os.Exit(0)
			}
		}
	}()

	signal.Notify(signalChan, syscall.SIGUSR1, syscall.SIGINT, syscall.SIGTERM)

	var errs = make(chan error)
	ctx, cancelFunc := context.WithCancel(context.Background())
	cancel = cancelFunc

	log.Info("migrating database")
	if err := db.Migrate(); err != nil {
		log.Fatal("database migration failure", "error", err)
	}

	vars := env.Variables()
	if vars.AuthSecret == "" {
		log.Warn("RELAY_AUTH_SECRET is unset; trigger registry endpoints will reject every request")
	}

	metrics.Register()

	deps := dependencies(vars)

	go func() {
		log.Info("spinning up api", "port", vars.Port)
		errs <- api.Start(ctx, deps)
	}()

	go func() {
		log.Info("launching schedule runner")
		schedule.NewRunner(deps.DB, deps.Oracle, deps.Dispatcher, vars.SchedulerInterval).Run(ctx)
	}()

	defer shutdown()

	return <-errs
}

func dependencies(vars env.Environment) *bind.Dependencies {
	conn := db.Connection()
	bus := event.New()
	oracle := access.New(conn)
	resolver := credential.NewResolver(conn)

	dispatcher := dispatch.New(
		conn,
		repository.NewResolver(vars.RepositoryRoot),
		ciconfig.NewEvaluator(conn),
	).WithBus(bus)

	return &bind.Dependencies{
		DB:         conn,
		Bus:        bus,
		Oracle:     oracle,
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Fire:       fire.New(conn, resolver, gate.New(oracle), dispatcher),
		Secret:     []byte(vars.AuthSecret),
	}
}

func shutdown() {
	if cancel != nil {
		cancel()
	}
	if err := api.Shutdown(); err != nil {
		log.Error("api shutdown failure", "error", err)
	}
}
