// Package auth completes a resolved credential by asking for whatever is
// missing: the username, then a password from the password command, the
// keyring or an interactive prompt.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xabinapal/bugz/internal/keyring"
	"github.com/xabinapal/bugz/internal/profile"
	"github.com/xabinapal/bugz/internal/utils"
)

var (
	// ErrNoAuth is returned when no usable credential could be obtained.
	ErrNoAuth = errors.New("failed to get auth")
	// ErrPasswordCommand is returned when passwordcmd exits with an error.
	ErrPasswordCommand = errors.New("password command failed")
)

// Prompt labels.
const (
	UsernamePrompt = "Username:"
	PasswordPrompt = "Password:"
)

// Authenticator fills in credentials. Store may be nil to skip the
// keyring.
type Authenticator struct {
	Prompter Prompter
	Runner   CommandRunner
	Store    keyring.Store
}

// New returns an Authenticator using the terminal, real processes and the
// default keyring.
func New() *Authenticator {
	return &Authenticator{
		Prompter: NewTerminalPrompter(os.Stdin, os.Stderr),
		Runner:   NewCommandRunner(),
		Store:    keyring.DefaultStore(),
	}
}

// Complete returns a copy of cred with a username and password, or cred
// itself when it is nil (authentication skipped) or an API key. host is
// the server's hostname, used for the keyring lookup.
//
// A prompted username invalidates any configured password, since it
// belonged to someone else.
func (a *Authenticator) Complete(ctx context.Context, cred *profile.Credential, host string) (*profile.Credential, error) {
	if cred == nil || cred.IsKey() {
		return cred, nil
	}
	out := *cred

	if out.User == "" {
		user, err := a.prompt(UsernamePrompt, false)
		if err != nil || user == "" {
			return nil, ErrNoAuth
		}
		out.User = user
		out.Password = ""
		out.PasswordCmd = ""
	}

	if out.Password != "" {
		return &out, nil
	}

	if out.PasswordCmd != "" {
		password, err := a.RunPasswordCommand(ctx, out.PasswordCmd)
		if err != nil {
			return nil, err
		}
		out.PasswordCmd = ""
		if password != "" {
			out.Password = password
			return &out, nil
		}
	}

	if password, ok := a.stored(host, out.User); ok {
		out.Password = password
		return &out, nil
	}

	password, err := a.prompt(PasswordPrompt, true)
	if err != nil || password == "" {
		return nil, ErrNoAuth
	}
	out.Password = password
	return &out, nil
}

// RunPasswordCommand runs command through the shell and returns the first
// line it prints. The command shares the terminal so that agents such as
// gpg can ask for a passphrase.
func (a *Authenticator) RunPasswordCommand(ctx context.Context, command string) (string, error) {
	runner := a.Runner
	if runner == nil {
		runner = NewCommandRunner()
	}
	cmd := runner.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.SetStdin(os.Stdin)
	cmd.SetStderr(os.Stderr)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPasswordCommand, err)
	}
	return utils.FirstLine(string(output)), nil
}

func (a *Authenticator) stored(host, user string) (string, bool) {
	if a.Store == nil || host == "" {
		return "", false
	}
	password, err := a.Store.Get(keyring.Key(host, user))
	if err != nil || password == "" {
		return "", false
	}
	return password, true
}

func (a *Authenticator) prompt(label string, secret bool) (string, error) {
	if a.Prompter == nil {
		return "", ErrNotInteractive
	}
	if secret {
		return a.Prompter.PromptSecret(label)
	}
	return a.Prompter.Prompt(label)
}
