package executor

import (
	"context"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// groundworkVariants maps a hybrid operation type to the cheap variant that
// gathers groundwork for its reasoning pass.
var groundworkVariants = map[domain.OperationType]domain.OperationType{
	domain.OpArchitectureDesign: domain.OpDirectoryList,
	domain.OpRefactor:           domain.OpPatternSearch,
	domain.OpTestGeneration:     domain.OpFileRead,
	domain.OpDocumentation:      domain.OpFileRead,
}

// Hybrid composes a lightweight groundwork pass with a reasoning pass. The
// groundwork output is handed to the reasoning pass through the snapshot and
// kept in the combined result. A failed groundwork pass degrades the
// composition to reasoning-only instead of failing the operation.
type Hybrid struct {
	lightweight ports.Executor
	reasoning   ports.Executor
	logger      ports.Logger
}

// NewHybrid builds a Hybrid composer over the two executors.
func NewHybrid(lightweight, reasoning ports.Executor, logger ports.Logger) *Hybrid {
	return &Hybrid{lightweight: lightweight, reasoning: reasoning, logger: logger}
}

// Execute implements ports.Executor.
func (e *Hybrid) Execute(ctx context.Context, op domain.Operation, snap domain.Snapshot) (domain.Result, error) {
	groundOp := op
	if variant, ok := groundworkVariants[op.Type]; ok {
		groundOp.Type = variant
	}

	ground, groundErr := e.lightweight.Execute(ctx, groundOp, snap)
	if groundErr != nil {
		e.logger.Warn("groundwork pass failed, degrading to reasoning-only", map[string]interface{}{
			"type":  string(op.Type),
			"error": groundErr.Error(),
		})
	} else {
		snap.Groundwork = ground.Output
	}

	reason, err := e.reasoning.Execute(ctx, op, snap)
	if err != nil {
		return domain.Result{}, err
	}

	result := domain.Result{
		Method:    string(domain.StrategyHybrid),
		Reasoning: reason.Output,
		Output:    reason.Output,
	}
	if groundErr == nil {
		result.Lightweight = ground.Output
		result.Output = reason.Output + "\n\n[groundwork]\n" + ground.Output
	}
	return result, nil
}

var _ ports.Executor = (*Hybrid)(nil)
