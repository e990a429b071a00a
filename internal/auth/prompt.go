package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a
// terminal and holds no more input.
var ErrNotInteractive = errors.New("cannot prompt: no input available")

// Prompter asks the user for input.
type Prompter interface {
	// Prompt shows label and reads one line.
	Prompt(label string) (string, error)
	// PromptSecret is Prompt without echo.
	PromptSecret(label string) (string, error)
}

// TerminalPrompter prompts on out and reads from in. Secrets are read with
// echo disabled when in is a terminal.
type TerminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter returns a prompter reading in and writing labels to
// out, normally os.Stdin and os.Stderr.
func NewTerminalPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// Prompt implements Prompter.
func (p *TerminalPrompter) Prompt(label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.readLine()
}

// PromptSecret implements Prompter.
func (p *TerminalPrompter) PromptSecret(label string) (string, error) {
	fmt.Fprint(p.out, label)

	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.readLine()
	}
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if line == "" {
			return "", ErrNotInteractive
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
