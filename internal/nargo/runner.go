package nargo

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Command is one invocation of an external program.
type Command struct {
	Dir  string
	Name string
	Args []string
	// Stream, when set, receives output as it is produced in addition to it
	// being captured.
	Stream io.Writer
}

//go:generate mockgen -destination=nargomock/runner.go -package=nargomock . Runner

// Runner executes commands and returns their combined output.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as subprocesses. Cancelling the context kills the
// process.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var buf bytes.Buffer
	var out io.Writer = &buf
	if c.Stream != nil {
		out = io.MultiWriter(&buf, c.Stream)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	return buf.Bytes(), err
}
