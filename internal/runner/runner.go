package runner

import (
	"context"
	"os"
	"os/exec"
	"time"
)

type Mode int

const (
	Capture Mode = iota
	Stream
)

// CommandRunner runs external programs; tests swap in MockRunner.
type CommandRunner interface {
	Run(ctx context.Context, timeout time.Duration, mode Mode,
		name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(
	parent context.Context,
	timeout time.Duration,
	mode Mode,
	name string,
	args ...string,
) ([]byte, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	if mode == Stream {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		return nil, cmd.Run()
	}
	return cmd.CombinedOutput()
}
