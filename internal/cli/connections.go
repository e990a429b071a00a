package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/l10n"
	"github.com/xabinapal/bugz/internal/profile"
)

// newConnectionsCmd creates the connections command.
func (cli *CLI) newConnectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "List the connections usable with --connection",
		Long: `List every configuration section that resolves to a server.

A section without its own base URL borrows the one of the [default]
section, unless [default] redirects to another connection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runConnections()
		},
	}
}

func (cli *CLI) runConnections() error {
	conns := profile.Connections(cli.chain)
	if conns == nil {
		conns = []profile.Info{}
	}

	return cli.output.Write(conns, func() {
		if len(conns) == 0 {
			fmt.Fprintln(cli.out, l10n.T("No connections configured"))
			return
		}
		w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tBASE")
		for _, c := range conns {
			base := c.Base
			if c.Inherited {
				base += " " + l10n.T("(inherited)")
			}
			fmt.Fprintf(w, "%s\t%s\n", c.Name, base)
		}
		w.Flush()
	})
}
