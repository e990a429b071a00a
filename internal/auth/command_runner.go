package auth

import (
	"context"
	"io"
	"os/exec"
)

// CommandRunner runs shell commands. Tests replace it to avoid spawning
// processes.
type CommandRunner interface {
	// CommandContext creates a command that can be executed.
	CommandContext(ctx context.Context, name string, args ...string) Command
}

// Command is a command ready to run.
type Command interface {
	// SetStdin sets the stdin reader
	SetStdin(stdin io.Reader)
	// SetStdout sets the stdout writer. Output ignores it.
	SetStdout(stdout io.Writer)
	// SetStderr sets the stderr writer
	SetStderr(stderr io.Writer)
	// Output runs the command and returns its stdout.
	Output() ([]byte, error)
	// Run runs the command and waits for it to finish.
	Run() error
}

// realCommandRunner is the real implementation using os/exec.
type realCommandRunner struct{}

// NewCommandRunner creates a runner that executes real processes.
func NewCommandRunner() CommandRunner {
	return &realCommandRunner{}
}

func (r *realCommandRunner) CommandContext(ctx context.Context, name string, args ...string) Command {
	return &realCommand{cmd: exec.CommandContext(ctx, name, args...)}
}

// realCommand wraps exec.Cmd to implement the Command interface.
type realCommand struct {
	cmd *exec.Cmd
}

func (c *realCommand) SetStdin(stdin io.Reader) {
	c.cmd.Stdin = stdin
}

func (c *realCommand) SetStdout(stdout io.Writer) {
	c.cmd.Stdout = stdout
}

func (c *realCommand) SetStderr(stderr io.Writer) {
	c.cmd.Stderr = stderr
}

func (c *realCommand) Output() ([]byte, error) {
	c.cmd.Stdout = nil
	return c.cmd.Output()
}

func (c *realCommand) Run() error {
	return c.cmd.Run()
}
