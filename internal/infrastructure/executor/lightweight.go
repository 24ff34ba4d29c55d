package executor

import (
	"context"
	"errors"
	"strings"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// Lightweight runs operations through an external CLI binary. It performs no
// retries of its own; the retry controller wraps it.
type Lightweight struct {
	bin    string
	runner ports.ProcessRunner
	logger ports.Logger
}

// NewLightweight builds a Lightweight executor around the given binary.
func NewLightweight(bin string, runner ports.ProcessRunner, logger ports.Logger) *Lightweight {
	return &Lightweight{bin: bin, runner: runner, logger: logger}
}

// Execute implements ports.Executor.
func (e *Lightweight) Execute(ctx context.Context, op domain.Operation, snap domain.Snapshot) (domain.Result, error) {
	argv, err := e.command(op)
	if err != nil {
		return domain.Result{}, err
	}

	e.logger.Debug("spawning lightweight command", map[string]interface{}{
		"type": string(op.Type),
		"argv": strings.Join(argv, " "),
	})

	procResult, err := e.runner.Run(ctx, argv)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Result{}, &domain.TimeoutError{Type: op.Type, Err: err}
		}
		return domain.Result{}, &domain.ExecutionError{Type: op.Type, Err: err}
	}
	if procResult.ExitCode != 0 {
		return domain.Result{}, &domain.ExecutionError{
			Type:     op.Type,
			ExitCode: procResult.ExitCode,
			Stderr:   strings.TrimSpace(procResult.Stderr),
		}
	}

	return domain.Result{
		Output: procResult.Stdout,
		Method: string(domain.StrategyLightweight),
	}, nil
}

// command validates the operation and maps it to an argv. Types without a
// dedicated subcommand fall back to a one-shot prompt invocation.
func (e *Lightweight) command(op domain.Operation) ([]string, error) {
	if op.Type == "" {
		return nil, &domain.ValidationError{Type: op.Type, Field: "type"}
	}

	switch op.Type {
	case domain.OpFileRead:
		if op.Path == "" {
			return nil, &domain.ValidationError{Type: op.Type, Field: "path"}
		}
		return []string{e.bin, "read", op.Path}, nil
	case domain.OpDirectoryList:
		return []string{e.bin, "ls", pathOrDot(op.Path)}, nil
	case domain.OpPatternSearch:
		if op.Pattern == "" {
			return nil, &domain.ValidationError{Type: op.Type, Field: "pattern"}
		}
		return []string{e.bin, "grep", op.Pattern, pathOrDot(op.Path)}, nil
	case domain.OpGitStatus:
		return []string{e.bin, "git", "status"}, nil
	case domain.OpGitCommit:
		return []string{e.bin, "git", "commit"}, nil
	}

	prompt := op.Description
	if prompt == "" {
		prompt = string(op.Type)
	}
	return []string{e.bin, "-p", prompt}, nil
}

func pathOrDot(path string) string {
	if path == "" {
		return "."
	}
	return path
}

var _ ports.Executor = (*Lightweight)(nil)
