package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"al.essio.dev/pkg/shellescape"

	"github.com/xabinapal/bugz/internal/auth"
	"github.com/xabinapal/bugz/internal/l10n"
)

var (
	// ErrAborted is returned when a submission is not confirmed.
	ErrAborted = errors.New("submission aborted")
	// ErrNotSpecified is returned when a required value is missing.
	ErrNotSpecified = errors.New("not specified")
)

// notSpecified reports a missing required value, as in "product not
// specified".
func notSpecified(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotSpecified)
}

// ask shows label and returns the trimmed answer. Without a terminal the
// answer is empty.
func (cli *CLI) ask(label string) string {
	answer, _ := cli.prompt(label)
	return answer
}

// askRequired repeats the question until it is answered or input runs out.
func (cli *CLI) askRequired(label string) string {
	for {
		answer, err := cli.prompt(label)
		if err != nil || answer != "" {
			return answer
		}
	}
}

func (cli *CLI) prompt(label string) (string, error) {
	if cli.Auth == nil || cli.Auth.Prompter == nil {
		return "", auth.ErrNotInteractive
	}
	answer, err := cli.Auth.Prompter.Prompt(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// confirm asks a yes/no question. An empty answer takes def, which is 'y'
// or 'n'. Without an answer at all the submission is aborted.
func (cli *CLI) confirm(question string, def byte) error {
	hint := "(Y/n)"
	if def != 'y' {
		hint = "(y/N)"
	}
	answer, err := cli.prompt(fmt.Sprintf("%s %s? ", question, hint))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAborted, err)
	}
	if answer == "" {
		answer = string(def)
	}
	if answer[0] != 'y' && answer[0] != 'Y' {
		return ErrAborted
	}
	return nil
}

// readText returns the contents of path, or of in when path is "-".
func readText(in io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", path, err)
	}
	return string(data), nil
}

func (cli *CLI) runner() auth.CommandRunner {
	if cli.Auth != nil && cli.Auth.Runner != nil {
		return cli.Auth.Runner
	}
	return auth.NewCommandRunner()
}

// shellOutput runs command through the shell and returns what it prints.
func (cli *CLI) shellOutput(ctx context.Context, command string) (string, error) {
	c := cli.runner().CommandContext(ctx, "/bin/sh", "-c", command)
	c.SetStderr(cli.errOut)
	out, err := c.Output()
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w", command, err)
	}
	return string(out), nil
}

// editText opens initial in $VISUAL or $EDITOR, falling back to vi, and
// returns the saved text. The editor gets the terminal.
func (cli *CLI) editText(ctx context.Context, initial string) (string, error) {
	f, err := os.CreateTemp("", "bugz-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	_, err = f.WriteString(initial)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	cli.logger.Debug("editing %s with %s", name, editor)

	c := cli.runner().CommandContext(ctx, "/bin/sh", "-c", editor+" "+shellescape.Quote(name))
	c.SetStdin(os.Stdin)
	c.SetStdout(os.Stdout)
	c.SetStderr(os.Stderr)
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", editor, err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read edited text: %w", err)
	}
	text := strings.TrimRight(string(data), " \t\r\n")
	if text == "" {
		cli.logger.Warn("%s", l10n.T("Empty text, nothing added"))
	}
	return text, nil
}

// splitList splits values separated by commas or white space.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return out
}
