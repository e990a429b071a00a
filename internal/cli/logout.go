package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/keyring"
	"github.com/xabinapal/bugz/internal/l10n"
)

// newLogoutCmd creates the logout command.
func (cli *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored password for a Bugzilla server",
		Long: `Remove the password that 'bugz login' stored for the resolved server and
user from the system credential store.

Examples:
  bugz logout

  # For another connection
  bugz --connection gentoo logout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runLogout()
		},
	}
}

func (cli *CLI) runLogout() error {
	base, err := cli.resolver.Base()
	if err != nil {
		return err
	}
	cred, err := cli.resolver.Credential()
	if err != nil {
		return err
	}
	if cred == nil {
		return ErrAuthDisabled
	}
	if cred.User == "" {
		return errors.New("no user configured: give one with --user")
	}

	host := hostOf(base)
	key := keyring.Key(host, cred.User)
	if _, err := cli.Keyring.Get(key); err != nil {
		if errors.Is(err, keyring.ErrPasswordNotFound) {
			fmt.Fprintln(cli.out, l10n.T("No password stored for %s on %s.", cred.User, host))
			return nil
		}
		return err
	}

	if err := cli.Keyring.Delete(key); err != nil {
		return fmt.Errorf("failed to remove password: %w", err)
	}
	fmt.Fprintln(cli.out, l10n.T("Removed password for %s on %s.", cred.User, host))
	return nil
}
