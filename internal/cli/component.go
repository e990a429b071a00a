package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
)

// componentOptions are the flags of the component command.
type componentOptions struct {
	component bugzilla.NewComponent
	defaultCC []string
	batch     bool
}

// newComponentCmd creates the component command.
func (cli *CLI) newComponentCmd() *cobra.Command {
	var opts componentOptions

	cmd := &cobra.Command{
		Use:   "component",
		Short: "Add a component to a product",
		Long: `Add a component to a product. This needs the editcomponents permission
on the server.

Values not given as options are asked for, unless --batch is set.

Examples:
  bugz component --product "Gentoo Linux" --name Toolchain \
    --description "Compilers and linkers" -a toolchain@gentoo.org \
    --default-cc "dev1@gentoo.org, dev2@gentoo.org"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runComponent(cmd.Context(), opts)
		},
	}

	c := &opts.component
	f := cmd.Flags()
	f.StringVar(&c.Name, "name", "", "Name of the component")
	f.StringVar(&c.Product, "product", "", "Product the component belongs to")
	f.StringVar(&c.Description, "description", "", "Description of the component")
	f.StringVarP(&c.DefaultAssignee, "default-assignee", "a", "", "Email of the default assignee")
	f.StringArrayVar(&opts.defaultCC, "default-cc", nil, "Emails of the default CC list (repeatable, comma separated)")
	f.BoolVar(&opts.batch, "batch", false, "Do not ask for anything")

	return cmd
}

func (cli *CLI) runComponent(ctx context.Context, opts componentOptions) error {
	comp := opts.component
	comp.DefaultCC = splitList(opts.defaultCC)

	if !opts.batch {
		fmt.Fprintln(cli.errOut, l10n.T("Press Ctrl+C at any time to abort."))
		for _, q := range []struct {
			v     *string
			label string
		}{
			{&comp.Name, l10n.T("Enter component name: ")},
			{&comp.Product, l10n.T("Enter product: ")},
			{&comp.Description, l10n.T("Enter component description: ")},
			{&comp.DefaultAssignee, l10n.T("Enter default assignee: ")},
		} {
			if *q.v == "" {
				*q.v = cli.askRequired(q.label)
			}
		}
		if len(comp.DefaultCC) == 0 {
			comp.DefaultCC = splitList([]string{cli.ask(l10n.T("Enter a default CC list (optional): "))})
		}
	}

	for _, required := range []struct{ value, what string }{
		{comp.Name, "name"},
		{comp.Product, "product"},
		{comp.Description, "description"},
		{comp.DefaultAssignee, "default assignee"},
	} {
		if required.value == "" {
			return notSpecified(required.what)
		}
	}

	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}

	cli.logger.Info("%-*s: %s", labelWidth, "Name", comp.Name)
	cli.logger.Info("%-*s: %s", labelWidth, "Product", comp.Product)
	cli.logger.Info("%-*s: %s", labelWidth, "Description", comp.Description)
	cli.logger.Info("%-*s: %s", labelWidth, "Assignee", comp.DefaultAssignee)
	if len(comp.DefaultCC) > 0 {
		cli.logger.Info("%-*s: %s", labelWidth, "Default CC", strings.Join(comp.DefaultCC, ", "))
	}

	if !opts.batch {
		if err := cli.confirm(l10n.T("Confirm component submission"), 'y'); err != nil {
			return err
		}
	}

	id, err := client.CreateComponent(ctx, comp)
	if err != nil {
		return err
	}
	cli.logger.Info("%s", l10n.T("Component %d submitted", id))

	return cli.output.Write(submitOutput{ID: id}, func() {
		fmt.Fprintf(cli.out, "Component %d submitted\n", id)
	})
}
