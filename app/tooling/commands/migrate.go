package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/schema"
)

type CmdMigrate struct {
	Global *Global
}

func (c *CmdMigrate) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "migrate"
	cmd.Short = "Apply pending schema migrations"
	cmd.Long = `Description:
  Apply pending schema migrations

  Migrations are embedded in the binary and applied in name order. An applied
  migration whose file changed is reported as an error.
`
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.run

	status := cmdMigrateStatus{global: c.Global}
	cmd.AddCommand(status.Command())

	return cmd
}

func (c *CmdMigrate) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := c.Global.context(cmd.Context())
	defer cancel()

	deps, closeFn, err := c.Global.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := postgresdb.Migrate(ctx, c.Global.slogger(), deps.Pool, schema.MigrationsFS, schema.MigrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

type cmdMigrateStatus struct {
	global *Global
}

func (c *cmdMigrateStatus) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "status"
	cmd.Short = "List applied migrations"
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.run
	return cmd
}

func (c *cmdMigrateStatus) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := c.global.context(cmd.Context())
	defer cancel()

	deps, closeFn, err := c.global.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	applied, err := postgresdb.AppliedMigrations(ctx, deps.Pool)
	if err != nil {
		return fmt.Errorf("applied migrations: %w", err)
	}

	if c.global.JSON {
		return writeJSON(cmd.OutOrStdout(), applied)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tAPPLIED AT\tCHECKSUM")
	for _, m := range applied {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"), m.Checksum)
	}
	return w.Flush()
}
