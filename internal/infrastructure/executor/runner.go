// Package executor holds the three execution strategies and the retry
// controller around the lightweight path. Command construction is separated
// from process spawning so it can be tested without running anything.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/switchboard-sh/switchboard/internal/ports"
)

// LocalRunner spawns commands on the local host via exec.CommandContext.
type LocalRunner struct{}

// NewLocalRunner builds a LocalRunner.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run implements ports.ProcessRunner. A non-zero exit is reported through the
// result's ExitCode, not as an error; the error return is reserved for spawn
// failures and context cancellation.
func (r *LocalRunner) Run(ctx context.Context, argv []string) (ports.ProcessResult, error) {
	if len(argv) == 0 {
		return ports.ProcessResult{}, errors.New("run: empty argv")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ports.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

var _ ports.ProcessRunner = (*LocalRunner)(nil)
