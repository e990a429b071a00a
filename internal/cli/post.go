package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
)

// defaultVersion is offered when the version prompt is left empty.
const defaultVersion = "unspecified"

// postOptions are the flags of the post command.
type postOptions struct {
	bug             bugzilla.NewBug
	alias           []string
	cc              []string
	descriptionFrom string
	appendCommand   string
	defaultConfirm  string
	batch           bool
}

// submitOutput is printed for -o json and -o yaml after a submission.
type submitOutput struct {
	ID  int    `json:"id" yaml:"id"`
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// newPostCmd creates the post command.
func (cli *CLI) newPostCmd() *cobra.Command {
	var opts postOptions

	cmd := &cobra.Command{
		Use:   "post",
		Short: "File a new bug",
		Long: `File a new bug.

Values not given as options are asked for, unless --batch is set. When
neither --product nor --component is given, the product and component of the
configuration apply. The bug is shown before it is submitted and, without
--batch, has to be confirmed.

Examples:
  # Ask for everything
  bugz post

  # File a bug without questions
  bugz post --batch --product "Gentoo Linux" --component Kernel \
    -t "panic on boot" --description "Since 6.12 the kernel panics"

  # Attach the output of a command to the description
  bugz post -F report.txt --append-command "emerge --info"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runPost(cmd.Context(), cmd.InOrStdin(), opts, cmd.Flags().Changed("product") || cmd.Flags().Changed("component"))
		},
	}

	b := &opts.bug
	f := cmd.Flags()
	f.StringVar(&b.Product, "product", "", "Product")
	f.StringVar(&b.Component, "component", "", "Component")
	f.StringVar(&b.Version, "version", "", "Version of the product")
	f.StringVar(&b.Version, "prodversion", "", "Version of the product")
	f.StringVarP(&b.Summary, "title", "t", "", "Title of the bug")
	f.StringVar(&b.Description, "description", "", "Description of the bug")
	f.StringVarP(&opts.descriptionFrom, "description-from", "F", "", `Read the description from a file ("-" for stdin)`)
	f.StringVar(&opts.appendCommand, "append-command", "", "Append the output of a command to the description")
	f.StringVar(&b.OpSys, "op-sys", "", "Operating system")
	f.StringVar(&b.Platform, "platform", "", "Hardware platform")
	f.StringVar(&b.Priority, "priority", "", "Priority")
	f.StringVarP(&b.Severity, "severity", "S", "", "Severity")
	f.StringArrayVar(&opts.alias, "alias", nil, "Alias of the bug (repeatable)")
	f.StringVarP(&b.AssignedTo, "assigned-to", "a", "", "Assign the bug to someone other than the default assignee")
	f.StringArrayVar(&opts.cc, "cc", nil, "Emails to add to the CC list (repeatable, comma separated)")
	f.StringVarP(&b.URL, "url", "U", "", "URL field of the bug")
	f.BoolVar(&opts.batch, "batch", false, "Do not ask for anything")
	f.StringVar(&opts.defaultConfirm, "default-confirm", "y", "Answer taken when the confirmation is left empty (y or n)")
	_ = f.MarkDeprecated("prodversion", "use --version instead")
	_ = cmd.RegisterFlagCompletionFunc("default-confirm", cobra.FixedCompletions(
		[]string{"y", "n"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (cli *CLI) runPost(ctx context.Context, in io.Reader, opts postOptions, productGiven bool) error {
	def, err := parseConfirmDefault(opts.defaultConfirm)
	if err != nil {
		return err
	}

	bug := opts.bug
	bug.Alias = opts.alias
	bug.CC = splitList(opts.cc)

	if !productGiven {
		if bug.Product, bug.Component, err = cli.configuredProduct(); err != nil {
			return err
		}
	}
	if opts.descriptionFrom != "" {
		if bug.Description, err = readText(in, opts.descriptionFrom); err != nil {
			return err
		}
	}

	appendCommand := opts.appendCommand
	if !opts.batch {
		appendCommand = cli.askForBug(&bug, appendCommand)
	}

	for _, required := range []struct{ value, what string }{
		{bug.Product, "product"},
		{bug.Component, "component"},
		{bug.Summary, "title"},
		{bug.Description, "description"},
	} {
		if required.value == "" {
			return notSpecified(required.what)
		}
	}

	if appendCommand != "" {
		output, err := cli.shellOutput(ctx, appendCommand)
		if err != nil {
			return err
		}
		bug.Description += "\n\n$" + appendCommand + "\n" + output
	}

	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}

	if cli.output.IsText() {
		printNewBug(cli.out, &bug, cli.settings.Columns)
	}
	if !opts.batch {
		if err := cli.confirm(l10n.T("Confirm bug submission"), def); err != nil {
			return err
		}
	}

	id, err := client.CreateBug(ctx, bug)
	if err != nil {
		return err
	}
	cli.logger.Info("%s", l10n.T("Bug %d submitted", id))

	return cli.output.Write(submitOutput{ID: id, URL: client.BugURL(id)}, func() {
		fmt.Fprintf(cli.out, "Bug %d submitted\n", id)
	})
}

// askForBug asks for every value of bug that is still empty and returns
// the command whose output is appended to the description.
func (cli *CLI) askForBug(bug *bugzilla.NewBug, appendCommand string) string {
	fmt.Fprintln(cli.errOut, l10n.T("Press Ctrl+C at any time to abort."))

	required := func(v *string, label string) {
		if *v == "" {
			*v = cli.askRequired(label)
		}
	}
	optional := func(v *string, label string) {
		if *v == "" {
			*v = cli.ask(label)
		}
	}

	required(&bug.Product, l10n.T("Enter product: "))
	required(&bug.Component, l10n.T("Enter component: "))
	if bug.Version == "" {
		if bug.Version = cli.ask(l10n.T("Enter version (default: %s): ", defaultVersion)); bug.Version == "" {
			bug.Version = defaultVersion
		}
	}
	required(&bug.Summary, l10n.T("Enter title: "))
	required(&bug.Description, l10n.T("Enter bug description: "))
	optional(&bug.OpSys, l10n.T("Enter operating system where this bug occurs: "))
	optional(&bug.Platform, l10n.T("Enter hardware platform where this bug occurs: "))
	optional(&bug.Priority, l10n.T("Enter priority (eg. Normal) (optional): "))
	optional(&bug.Severity, l10n.T("Enter severity (eg. normal) (optional): "))
	if len(bug.Alias) == 0 {
		if alias := cli.ask(l10n.T("Enter an alias for this bug (optional): ")); alias != "" {
			bug.Alias = []string{alias}
		}
	}
	optional(&bug.AssignedTo, l10n.T("Enter assignee (eg. liquidx@gentoo.org) (optional): "))
	if len(bug.CC) == 0 {
		bug.CC = splitList([]string{cli.ask(l10n.T("Enter a CC list (comma separated) (optional): "))})
	}
	optional(&bug.URL, l10n.T("Enter a URL (optional): "))
	if appendCommand == "" {
		appendCommand = cli.ask(l10n.T("Append the output of the following command (leave blank for none): "))
	}
	return appendCommand
}

// printNewBug shows a bug about to be filed between two rules.
func printNewBug(w io.Writer, b *bugzilla.NewBug, columns int) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-*s: %s\n", labelWidth, label, value)
		}
	}

	fmt.Fprintln(w, rule(columns))
	field("Product", b.Product)
	field("Component", b.Component)
	field("Title", b.Summary)
	field("Version", b.Version)
	field("Description", b.Description)
	field("OpSystem", b.OpSys)
	field("Platform", b.Platform)
	field("Priority", b.Priority)
	field("Severity", b.Severity)
	field("Alias", strings.Join(b.Alias, ", "))
	field("Assigned to", b.AssignedTo)
	field("CC", strings.Join(b.CC, ", "))
	field("URL", b.URL)
	fmt.Fprintln(w, rule(columns))
}

// parseConfirmDefault accepts y, Y, n or N.
func parseConfirmDefault(s string) (byte, error) {
	switch s {
	case "y", "Y":
		return 'y', nil
	case "n", "N":
		return 'n', nil
	}
	return 0, fmt.Errorf("invalid --default-confirm value %q: choose from y, Y, n, N", s)
}
