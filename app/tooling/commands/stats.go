package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
)

type CmdStats struct {
	Global *Global
}

func (c *CmdStats) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "stats <event id or slug>"
	cmd.Short = "Show registration and check-in counts for an event"
	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = c.run
	return cmd
}

func (c *CmdStats) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := c.Global.context(cmd.Context())
	defer cancel()

	deps, closeFn, err := c.Global.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var event eventsrepo.Event
	if _, perr := uuid.Parse(args[0]); perr == nil {
		event, err = deps.Events.Get(ctx, args[0])
	} else {
		event, err = deps.Events.GetBySlug(ctx, args[0])
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("event %q not found", args[0])
	}
	if err != nil {
		return err
	}

	stats, err := deps.Events.Stats(ctx, event.ID)
	if err != nil {
		return err
	}

	if c.Global.JSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "EVENT\t%s (%s)\n", event.Title, event.Slug)
	fmt.Fprintf(w, "REGISTRATIONS\t%d\n", stats.Registrations)
	fmt.Fprintf(w, "CHECKED IN\t%d\n", stats.CheckedIn)
	fmt.Fprintf(w, "SESSIONS\t%d\n", stats.Sessions)
	fmt.Fprintf(w, "SPONSORS\t%d\n", stats.Sponsors)
	return w.Flush()
}
