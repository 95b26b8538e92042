// eventhub-admin runs maintenance tasks against the eventhub database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrazmi/eventhub/app/eventhub/config"
	"github.com/jrazmi/eventhub/app/tooling/commands"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/environment"
	"github.com/jrazmi/eventhub/sdk/logger"
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

	if err := rootCommand(log).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// dbFlags override the database settings read from the environment.
type dbFlags struct {
	url        string
	logQueries bool
}

func rootCommand(log *logger.Logger) *cobra.Command {
	db := &dbFlags{}
	global := &commands.Global{
		Log:  log,
		Open: openDatabase(log, db),
	}

	app := &cobra.Command{}
	app.Use = "eventhub-admin"
	app.Short = "Maintenance commands for eventhub"
	app.Version = build
	app.SilenceUsage = true
	app.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	app.PersistentFlags().DurationVar(&global.Timeout, "timeout", 5*time.Minute, "Abort the command after this long")
	app.PersistentFlags().BoolVar(&global.JSON, "json", false, "Print results as JSON")
	app.PersistentFlags().StringVar(&db.url, "database-url", "", "Connect to this database instead of "+config.AppName+"_PG_DATABASE_URL")
	app.PersistentFlags().BoolVar(&db.logQueries, "log-queries", false, "Log every SQL statement")

	migrateCmd := commands.CmdMigrate{Global: global}
	app.AddCommand(migrateCmd.Command())

	sweepCmd := commands.CmdSweep{Global: global}
	app.AddCommand(sweepCmd.Command())

	statsCmd := commands.CmdStats{Global: global}
	app.AddCommand(statsCmd.Command())

	return app
}

func openDatabase(log *logger.Logger, flags *dbFlags) func(ctx context.Context) (commands.Deps, func(), error) {
	return func(ctx context.Context) (commands.Deps, func(), error) {
		opts := []postgresdb.Option{postgresdb.WithLogger(log.Logger)}
		if flags.url != "" {
			opts = append(opts, postgresdb.WithDatabaseURL(flags.url))
		}
		if flags.logQueries {
			opts = append(opts, postgresdb.WithLogQueries(true))
		}

		pg, err := postgresdb.NewFromEnv(config.AppName, opts...)
		if err != nil {
			return commands.Deps{}, nil, fmt.Errorf("configuring postgres support: %w", err)
		}
		log.InfoContext(ctx, "init", "service", "postgres")

		repos := config.NewRepositories(log, pg)
		deps := commands.Deps{
			Pool:               pg,
			Events:             repos.Events,
			Sessions:           repos.Sessions,
			VerificationTokens: repos.VerificationTokens,
		}
		return deps, pg.Close, nil
	}
}
