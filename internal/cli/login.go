package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/auth"
	"github.com/xabinapal/bugz/internal/keyring"
	"github.com/xabinapal/bugz/internal/l10n"
)

// ErrAuthDisabled is returned by login and logout under --skip-auth.
var ErrAuthDisabled = errors.New("authentication is disabled with --skip-auth")

// newLoginCmd creates the login command.
func (cli *CLI) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the password for a Bugzilla server in the keyring",
		Long: `Store the password for the resolved server and user in the system
credential store (Keychain on macOS, Credential Manager on Windows, Secret
Service on Linux), so later commands do not ask for it.

The username comes from --user or the configuration, and is asked for when
neither gives one. The password comes from --password or is asked for.
Connections authenticating with an API key have nothing to store.

Examples:
  bugz login

  # For another connection and user
  bugz --connection gentoo --user alice@example.org login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runLogin()
		},
	}
}

func (cli *CLI) runLogin() error {
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
	if cred.IsKey() {
		fmt.Fprintln(cli.out, l10n.T("This connection uses an API key; nothing to store."))
		return nil
	}
	if err := cli.Keyring.IsAvailable(); err != nil {
		return err
	}

	user := cred.User
	if user == "" {
		if user, err = cli.Auth.Prompter.Prompt(auth.UsernamePrompt); err != nil || user == "" {
			return auth.ErrNoAuth
		}
	}

	password := cli.flags.password
	if password == "" {
		if password, err = cli.Auth.Prompter.PromptSecret(auth.PasswordPrompt); err != nil || password == "" {
			return auth.ErrNoAuth
		}
	}

	host := hostOf(base)
	if err := cli.Keyring.Set(keyring.Key(host, user), password); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, l10n.T("Stored password for %s on %s.", user, host))
	return nil
}
