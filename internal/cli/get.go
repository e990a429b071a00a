package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/l10n"
)

// newGetCmd creates the get command.
func (cli *CLI) newGetCmd() *cobra.Command {
	var noComments, noAttachments bool

	cmd := &cobra.Command{
		Use:   "get BUG",
		Short: "Show a bug",
		Long: `Show the fields of a bug, its attachments and its comments.

Examples:
  # Everything about bug 35
  bugz get 35

  # Only the bug fields
  bugz get 35 --no-comments --no-attachments`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBugID(args[0])
			if err != nil {
				return err
			}
			return cli.runGet(cmd.Context(), id, !noAttachments, !noComments)
		},
	}

	cmd.Flags().BoolVarP(&noComments, "no-comments", "n", false, "Do not show comments")
	cmd.Flags().BoolVarP(&noAttachments, "no-attachments", "a", false, "Do not show attachments")

	return cmd
}

func (cli *CLI) runGet(ctx context.Context, id int, attachments, comments bool) error {
	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}
	cli.logger.Info("%s", l10n.T("Getting bug %d ..", id))

	bug, err := client.GetBug(ctx, id)
	if err != nil {
		return err
	}
	out := &bugOutput{Bug: *bug, withAttachments: attachments, withComments: comments}

	if attachments {
		if out.Attachments, err = client.Attachments(ctx, id); err != nil {
			return err
		}
	}
	if comments {
		if out.Comments, err = client.Comments(ctx, id); err != nil {
			return err
		}
	}

	return cli.output.Write(out, func() {
		printBug(cli.out, out, cli.settings.Columns)
	})
}

// parseBugID parses a positive bug number.
func parseBugID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid bug id %q", s)
	}
	return id, nil
}
