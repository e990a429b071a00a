package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
)

// newHistoryCmd creates the history command.
func (cli *CLI) newHistoryCmd() *cobra.Command {
	var newSince string

	cmd := &cobra.Command{
		Use:   "history BUG",
		Short: "Show the change history of a bug",
		Long: `Show who changed which fields of a bug, and when.

Examples:
  bugz history 35

  # Only changes made since the start of 2024
  bugz history 35 --new-since 2024-01-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBugID(args[0])
			if err != nil {
				return err
			}
			since, err := parseSince(newSince)
			if err != nil {
				return err
			}
			return cli.runHistory(cmd.Context(), id, since)
		},
	}

	cmd.Flags().StringVarP(&newSince, "new-since", "n", "", "Only show changes after this date (YYYY-MM-DD or RFC 3339)")

	return cmd
}

func (cli *CLI) runHistory(ctx context.Context, id int, since time.Time) error {
	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}
	cli.logger.Info("%s", l10n.T("Getting bug %d history ..", id))

	history, err := client.History(ctx, id, since)
	if err != nil {
		return err
	}
	if history == nil {
		history = []bugzilla.HistoryEntry{}
	}

	return cli.output.Write(history, func() {
		printHistory(cli.out, history, cli.settings.Columns)
	})
}

// parseSince accepts a date or a full timestamp. An empty string is the
// zero time.
func parseSince(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
}
