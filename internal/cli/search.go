package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
)

// searchOptions are the flags of the search command.
type searchOptions struct {
	query    bugzilla.SearchQuery
	statuses []string
	show     listColumns
}

// newSearchCmd creates the search command.
func (cli *CLI) newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [TERMS...]",
		Short: "Search for bugs",
		Long: `Search for bugs whose summary, or comments with --comments, contain the
given terms, narrowed by the options.

Without --status, the search_statuses of the configuration apply. A status of
"all" searches every status. When neither --product nor --component is given,
the product and component of the configuration apply together.

Examples:
  # Open bugs mentioning sparc
  bugz search sparc

  # Every bug assigned to someone, whatever its status
  bugz search --assigned-to dev@gentoo.org --status all

  # Search comment text and show the status column
  bugz search --comments segfault --show-status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.query.Terms = args
			return cli.runSearch(cmd.Context(), opts)
		},
	}

	q := &opts.query
	f := cmd.Flags()
	f.StringVar(&q.Alias, "alias", "", "Alias of the bug")
	f.StringVarP(&q.AssignedTo, "assigned-to", "a", "", "Email of the assignee")
	f.StringArrayVarP(&q.Component, "component", "C", nil, "Component (repeatable)")
	f.StringVarP(&q.Creator, "creator", "r", "", "Email of the reporter")
	f.IntVarP(&q.Limit, "limit", "l", 0, "Maximum number of bugs")
	f.IntVar(&q.Offset, "offset", 0, "Skip this many bugs")
	f.StringArrayVar(&q.OpSys, "op-sys", nil, "Operating system (repeatable)")
	f.StringArrayVar(&q.Platform, "platform", nil, "Hardware platform (repeatable)")
	f.StringArrayVar(&q.Priority, "priority", nil, "Priority (repeatable)")
	f.StringArrayVar(&q.Product, "product", nil, "Product (repeatable)")
	f.StringVar(&q.Resolution, "resolution", "", "Resolution")
	f.StringArrayVar(&q.Severity, "severity", nil, "Severity (repeatable)")
	f.StringArrayVarP(&opts.statuses, "status", "s", nil, `Status (repeatable, comma separated, "all" for any)`)
	f.StringArrayVarP(&q.Version, "version", "v", nil, "Version (repeatable)")
	f.StringVarP(&q.Whiteboard, "whiteboard", "w", "", "Status whiteboard")
	f.BoolVarP(&q.Comments, "comments", "c", false, "Search comment text instead of the summary")
	f.StringVar(&q.CreatedSince, "creation-time", "", "Bugs created at or after this time")
	f.StringVar(&q.ChangedSince, "last-change-time", "", "Bugs changed at or after this time")
	f.BoolVar(&opts.show.Status, "show-status", false, "Show the status column")
	f.BoolVar(&opts.show.Priority, "show-priority", false, "Show the priority column")
	f.BoolVar(&opts.show.Severity, "show-severity", false, "Show the severity column")

	return cmd
}

func (cli *CLI) runSearch(ctx context.Context, opts searchOptions) error {
	q, err := cli.searchQuery(opts)
	if err != nil {
		return err
	}
	if q.IsEmpty() {
		return bugzilla.ErrEmptySearch
	}

	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}
	if q.Status == nil {
		cli.logger.Info("%s", l10n.T("Searching bugs in any status ..."))
	}

	bugs, err := client.Search(ctx, q)
	if err != nil {
		return err
	}
	if bugs == nil {
		bugs = []bugzilla.Bug{}
	}
	cli.logger.Info("%s", l10n.TN("%d bug found.", "%d bugs found.", uint32(len(bugs)), len(bugs)))

	return cli.output.Write(bugs, func() {
		printBugList(cli.out, bugs, opts.show, cli.settings.Columns)
	})
}

// searchQuery fills in the configured statuses for a search without
// --status, and the configured product and component for one with neither
// --product nor --component.
func (cli *CLI) searchQuery(opts searchOptions) (bugzilla.SearchQuery, error) {
	q := opts.query

	statuses, err := cli.resolver.SearchStatuses(opts.statuses)
	if err != nil {
		return q, err
	}
	q.Status = statuses

	if len(q.Product) > 0 || len(q.Component) > 0 {
		return q, nil
	}
	product, component, err := cli.configuredProduct()
	if err != nil {
		return q, err
	}
	if product != "" {
		q.Product = []string{product}
	}
	if component != "" {
		q.Component = []string{component}
	}
	return q, nil
}
