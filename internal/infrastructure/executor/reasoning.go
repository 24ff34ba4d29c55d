package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// Reasoning delegates operations to the full-reasoning collaborator. It makes
// no assumptions about the collaborator beyond the ReasoningClient contract.
type Reasoning struct {
	client ports.ReasoningClient
}

// NewReasoning builds a Reasoning executor around a client.
func NewReasoning(client ports.ReasoningClient) *Reasoning {
	return &Reasoning{client: client}
}

// Execute implements ports.Executor.
func (e *Reasoning) Execute(ctx context.Context, op domain.Operation, snap domain.Snapshot) (domain.Result, error) {
	output, err := e.client.Complete(ctx, op, snap)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Result{}, &domain.TimeoutError{Type: op.Type, Err: err}
		}
		return domain.Result{}, &domain.ExecutionError{Type: op.Type, Err: err}
	}
	return domain.Result{
		Output: output,
		Method: string(domain.StrategyReasoning),
	}, nil
}

var _ ports.Executor = (*Reasoning)(nil)

// CommandClient fulfills ports.ReasoningClient by shelling out to a reasoning
// CLI in one-shot prompt mode. It is the default client when nothing richer is
// wired into the container.
type CommandClient struct {
	bin    string
	runner ports.ProcessRunner
}

// NewCommandClient builds a CommandClient around the given binary.
func NewCommandClient(bin string, runner ports.ProcessRunner) *CommandClient {
	return &CommandClient{bin: bin, runner: runner}
}

// Complete implements ports.ReasoningClient.
func (c *CommandClient) Complete(ctx context.Context, op domain.Operation, snap domain.Snapshot) (string, error) {
	result, err := c.runner.Run(ctx, []string{c.bin, "-p", buildPrompt(op, snap)})
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("reasoning command exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result.Stdout, nil
}

// buildPrompt flattens the operation and any groundwork into one prompt.
func buildPrompt(op domain.Operation, snap domain.Snapshot) string {
	var b strings.Builder
	if op.Description != "" {
		b.WriteString(op.Description)
	} else {
		b.WriteString(string(op.Type))
	}
	if op.Path != "" {
		fmt.Fprintf(&b, "\npath: %s", op.Path)
	}
	if op.Pattern != "" {
		fmt.Fprintf(&b, "\npattern: %s", op.Pattern)
	}
	if snap.Groundwork != "" {
		fmt.Fprintf(&b, "\n\ngroundwork from a prior pass:\n%s", snap.Groundwork)
	}
	return b.String()
}

var _ ports.ReasoningClient = (*CommandClient)(nil)
