package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
)

// errAssignConflict is returned for --assigned-to together with --unassign.
var errAssignConflict = errors.New("--assigned-to and --unassign cannot be used together")

// modifyOptions are the flags of the modify command.
type modifyOptions struct {
	update bugzilla.BugUpdate

	addBlocked, removeBlocked     []int
	addDependsOn, removeDependsOn []int
	addCC, removeCC               []string
	addGroup, removeGroup         []string
	addSeeAlso, removeSeeAlso     []string
	keywords                      []string

	comment       string
	commentFrom   string
	commentEditor bool

	estimatedTime, remainingTime, workTime float64

	fixed, invalid bool
}

// modifyOutput is printed for -o json and -o yaml.
type modifyOutput struct {
	ID        int                    `json:"id" yaml:"id"`
	Changes   []bugzilla.FieldChange `json:"changes" yaml:"changes"`
	Commented bool                   `json:"commented" yaml:"commented"`
}

// newModifyCmd creates the modify command.
func (cli *CLI) newModifyCmd() *cobra.Command {
	var opts modifyOptions

	cmd := &cobra.Command{
		Use:   "modify BUG",
		Short: "Change a bug",
		Long: `Change the fields of a bug and optionally add a comment.

The comment is taken from --comment, from a file with --comment-from, or
written in $VISUAL or $EDITOR with --comment-editor. --fixed and --invalid
resolve the bug. --duplicate marks it as a duplicate of another bug; status
and resolution options are then ignored.

Examples:
  # Take a bug and confirm it
  bugz modify 35 -a dev@gentoo.org -s CONFIRMED

  # Close a bug with a comment
  bugz modify 35 --fixed -c "Fixed in 1.2.3"

  # Mark a bug as a duplicate
  bugz modify 35 --duplicate 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBugID(args[0])
			if err != nil {
				return err
			}
			update, err := cli.bugUpdate(cmd.Context(), cmd.InOrStdin(), cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return cli.runModify(cmd.Context(), id, update)
		},
	}

	u := &opts.update
	f := cmd.Flags()
	f.StringVar(&u.Alias, "alias", "", "Change the alias")
	f.StringVarP(&u.AssignedTo, "assigned-to", "a", "", "Assign the bug to someone")
	f.BoolVar(&u.ResetAssignedTo, "unassign", false, "Reassign the bug to the default assignee")
	f.IntSliceVar(&opts.addBlocked, "add-blocked", nil, "Add bugs this bug blocks (repeatable)")
	f.IntSliceVar(&opts.removeBlocked, "remove-blocked", nil, "Remove bugs this bug blocks (repeatable)")
	f.IntSliceVar(&opts.addDependsOn, "add-dependson", nil, "Add bugs this bug depends on (repeatable)")
	f.IntSliceVar(&opts.removeDependsOn, "remove-dependson", nil, "Remove bugs this bug depends on (repeatable)")
	f.StringArrayVar(&opts.addCC, "add-cc", nil, "Add an email to the CC list (repeatable)")
	f.StringArrayVar(&opts.removeCC, "remove-cc", nil, "Remove an email from the CC list (repeatable)")
	f.StringVarP(&opts.comment, "comment", "c", "", "Add a comment")
	f.BoolVarP(&opts.commentEditor, "comment-editor", "C", false, "Write the comment in an editor")
	f.StringVarP(&opts.commentFrom, "comment-from", "F", "", `Read the comment from a file ("-" for stdin)`)
	f.StringVar(&u.Component, "component", "", "Change the component")
	f.StringVar(&u.Deadline, "deadline", "", "Set the deadline (YYYY-MM-DD)")
	f.IntVar(&u.DupeOf, "duplicate", 0, "Mark as a duplicate of this bug")
	f.Float64Var(&opts.estimatedTime, "estimated-time", 0, "Set the estimated time in hours")
	f.Float64Var(&opts.remainingTime, "remaining-time", 0, "Set the remaining time in hours")
	f.Float64Var(&opts.workTime, "work-time", 0, "Add hours worked")
	f.StringArrayVar(&opts.addGroup, "add-group", nil, "Add a group (repeatable)")
	f.StringArrayVar(&opts.removeGroup, "remove-group", nil, "Remove a group (repeatable)")
	f.StringArrayVar(&opts.keywords, "set-keywords", nil, "Replace the keywords (repeatable)")
	f.StringArrayVar(&opts.keywords, "keywords", nil, "Replace the keywords (repeatable)")
	f.StringVar(&u.OpSys, "op-sys", "", "Change the operating system")
	f.StringVar(&u.Platform, "platform", "", "Change the hardware platform")
	f.StringVar(&u.Priority, "priority", "", "Change the priority")
	f.StringVar(&u.Product, "product", "", "Change the product")
	f.StringVarP(&u.Resolution, "resolution", "r", "", "Change the resolution")
	f.StringArrayVar(&opts.addSeeAlso, "add-see-also", nil, "Add a See Also URL (repeatable)")
	f.StringArrayVar(&opts.removeSeeAlso, "remove-see-also", nil, "Remove a See Also URL (repeatable)")
	f.StringVarP(&u.Severity, "severity", "S", "", "Change the severity")
	f.StringVarP(&u.Status, "status", "s", "", "Change the status")
	f.StringVarP(&u.Summary, "title", "t", "", "Change the title")
	f.StringVarP(&u.URL, "url", "U", "", "Change the URL")
	f.StringVarP(&u.Version, "version", "v", "", "Change the version")
	f.StringVarP(&u.Whiteboard, "whiteboard", "w", "", "Change the status whiteboard")
	f.BoolVar(&opts.fixed, "fixed", false, "Resolve the bug as FIXED")
	f.BoolVar(&opts.invalid, "invalid", false, "Resolve the bug as INVALID")
	_ = f.MarkDeprecated("keywords", "use --set-keywords instead")

	return cmd
}

// bugUpdate turns the flags into the update to send. Optional numbers are
// only sent when their flag was given.
func (cli *CLI) bugUpdate(ctx context.Context, in io.Reader, flags *pflag.FlagSet, opts modifyOptions) (bugzilla.BugUpdate, error) {
	u := opts.update
	if u.AssignedTo != "" && u.ResetAssignedTo {
		return u, errAssignConflict
	}

	if opts.fixed {
		u.Status, u.Resolution = "RESOLVED", "FIXED"
	}
	if opts.invalid {
		u.Status, u.Resolution = "RESOLVED", "INVALID"
	}
	if u.DupeOf != 0 {
		u.Status, u.Resolution = "", ""
	}

	u.Blocks = intChange(opts.addBlocked, opts.removeBlocked)
	u.DependsOn = intChange(opts.addDependsOn, opts.removeDependsOn)
	u.CC = stringChange(opts.addCC, opts.removeCC)
	u.Groups = stringChange(opts.addGroup, opts.removeGroup)
	u.SeeAlso = stringChange(opts.addSeeAlso, opts.removeSeeAlso)
	if keywords := splitList(opts.keywords); len(keywords) > 0 {
		u.Keywords = &bugzilla.KeywordChange{Set: keywords}
	}

	hours := func(name string, v float64) *float64 {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}
	u.EstimatedTime = hours("estimated-time", opts.estimatedTime)
	u.RemainingTime = hours("remaining-time", opts.remainingTime)
	u.WorkTime = hours("work-time", opts.workTime)

	comment := opts.comment
	if opts.commentFrom != "" {
		text, err := readText(in, opts.commentFrom)
		if err != nil {
			return u, err
		}
		comment = text
	}
	if opts.commentEditor {
		text, err := cli.editText(ctx, comment)
		if err != nil {
			return u, err
		}
		comment = text
	}
	if comment != "" {
		u.Comment = &bugzilla.NewComment{Body: comment}
	}
	return u, nil
}

func intChange(add, remove []int) *bugzilla.IntChange {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	return &bugzilla.IntChange{Add: add, Remove: remove}
}

func stringChange(add, remove []string) *bugzilla.StringChange {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	return &bugzilla.StringChange{Add: add, Remove: remove}
}

func (cli *CLI) runModify(ctx context.Context, id int, u bugzilla.BugUpdate) error {
	if u.IsEmpty() {
		return bugzilla.ErrNoChanges
	}

	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}
	results, err := client.UpdateBug(ctx, id, u)
	if err != nil {
		return err
	}

	out := modifyOutput{ID: id, Changes: []bugzilla.FieldChange{}, Commented: u.Comment != nil}
	for _, r := range results {
		if r.ID == id {
			out.Changes = r.Changes
		}
	}

	if len(out.Changes) > 0 {
		cli.logger.Info("%s", l10n.T("Modified the following fields in bug %d", id))
		for _, ch := range out.Changes {
			if ch.Added != "" {
				cli.logger.Info("%-*s: added %s", labelWidth, ch.Field, ch.Added)
			}
			if ch.Removed != "" {
				cli.logger.Info("%-*s: removed %s", labelWidth, ch.Field, ch.Removed)
			}
		}
	}
	if out.Commented {
		cli.logger.Info("%s", l10n.T("Added comment to bug %d", id))
	}
	if u.WorkTime != nil {
		cli.logger.Info("%s", l10n.T("Updated work_time of bug %d", id))
	}

	// Text output is the log above.
	return cli.output.Write(out, func() {})
}
