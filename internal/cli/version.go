package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/version"
)

// newVersionCmd creates the version command.
func (cli *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print bugz version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.flags.output)
			if err != nil {
				return err
			}
			info := version.Get()
			return NewOutputWriter(format, cli.out).Write(info, func() {
				fmt.Fprintln(cli.out, info.String())
			})
		},
	}
}
