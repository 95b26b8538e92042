package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jrazmi/eventhub/app/eventhub/config"
	"github.com/jrazmi/eventhub/app/eventhub/sweeper"
	"github.com/jrazmi/eventhub/bridge/repositories/eventsessionsrepobridge"
	"github.com/jrazmi/eventhub/bridge/repositories/eventsrepobridge"
	"github.com/jrazmi/eventhub/bridge/repositories/registrationsrepobridge"
	"github.com/jrazmi/eventhub/bridge/repositories/sessionparticipantsrepobridge"
	"github.com/jrazmi/eventhub/bridge/repositories/sponsorsrepobridge"
	"github.com/jrazmi/eventhub/bridge/repositories/usersrepobridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/metrics"
	"github.com/jrazmi/eventhub/bridge/scaffolding/mid"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/infrastructure/workers"
	"github.com/jrazmi/eventhub/sdk/environment"
	"github.com/jrazmi/eventhub/sdk/logger"
	"github.com/jrazmi/eventhub/sdk/telemetry"
)

var build = "develop"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
	}

	log, err := logger.NewFromEnv(config.AppName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuring logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// METRICS
	// ==============================================================================
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// DATABASES
	// ==============================================================================
	dbMetrics, err := postgresdb.NewMetricsQueryTracer(reg, "eventhub")
	if err != nil {
		return fmt.Errorf("database metrics: %w", err)
	}
	pg, err := postgresdb.NewFromEnv(config.AppName,
		postgresdb.WithLogger(log.Logger),
		postgresdb.WithTracer(dbMetrics),
	)
	if err != nil {
		return fmt.Errorf("configuring postgres support: %w", err)
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection")
		pg.Close()
	}()

	// REPOSITORIES
	// ==============================================================================
	repos := config.NewRepositories(log, pg)
	cfg := config.Eventhub{
		Build:        build,
		Logger:       log,
		Repositories: repos,
		UseCases:     config.NewUseCases(log, repos),
		Telemetry:    telemetry.NewTelemetry(),
	}

	// WEB
	// ==============================================================================
	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := postgresdb.StatusCheck(r.Context(), pg); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	server, err := web.NewServerFromEnv(config.AppName,
		web.WithHandler(router),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}
	if server.Config.EnableDebug {
		router.Mount("/debug", middleware.Profiler())
	}

	h, err := webHandler(cfg, metrics.New(reg, "eventhub"), server.Config.APIRoute)
	if err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}
	router.Mount("/", h)

	// WORKERS
	// ==============================================================================
	sweep, err := sweeper.NewFromEnv(config.AppName, log, repos.Sessions, repos.VerificationTokens)
	if err != nil {
		return fmt.Errorf("sweeper: %w", err)
	}
	sweepMetrics, err := workers.NewPrometheusMetrics(reg, "eventhub", "sweeper")
	if err != nil {
		return fmt.Errorf("sweeper metrics: %w", err)
	}
	pool, err := sweeper.NewPool(config.AppName, log, sweep,
		workers.WithMetrics(sweepMetrics),
		workers.WithMiddleware(workers.ConsecutiveErrorShutdown(10)),
	)
	if err != nil {
		return fmt.Errorf("sweeper pool: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		return server.Serve(ctx)
	})
	g.Go(func() error {
		return pool.Start(ctx)
	})

	err = g.Wait()
	log.InfoContext(ctx, "shutdown", "status", "shutdown complete")
	return err
}

func webHandler(cfg config.Eventhub, m *metrics.Metrics, apiRoute string) (http.Handler, error) {
	h, err := web.NewWebHandlerFromEnv(config.AppName,
		web.WithLogging(cfg.Logger.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger),
			mid.Errors(cfg.Logger),
			mid.Metrics(m),
			mid.Panics(),
		),
	)
	if err != nil {
		return nil, err
	}

	api := h.Group(apiRoute)
	repos := cfg.Repositories

	usersrepobridge.AddHttpRoutes(api, usersrepobridge.Config{
		Log:        cfg.Logger,
		Repository: repos.Users,
		UseCase:    cfg.UseCases.Events,
	})
	eventsrepobridge.AddHttpRoutes(api, eventsrepobridge.Config{
		Log:        cfg.Logger,
		Repository: repos.Events,
		UseCase:    cfg.UseCases.Events,
	})
	registrationsrepobridge.AddHttpRoutes(api, registrationsrepobridge.Config{
		Log:        cfg.Logger,
		Repository: repos.Registrations,
		UseCase:    cfg.UseCases.Events,
	})
	eventsessionsrepobridge.AddHttpRoutes(api, eventsessionsrepobridge.Config{
		Log:        cfg.Logger,
		Repository: repos.EventSessions,
	})
	sponsorsrepobridge.AddHttpRoutes(api, sponsorsrepobridge.Config{
		Log:        cfg.Logger,
		Repository: repos.Sponsors,
	})
	sessionparticipantsrepobridge.AddHttpRoutes(api, sessionparticipantsrepobridge.Config{
		Log:        cfg.Logger,
		Repository: repos.SessionParticipants,
	})

	return h, nil
}
