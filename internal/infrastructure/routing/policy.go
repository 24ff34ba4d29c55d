// Package routing decides which executor handles an operation. The policy is a
// fixed priority ladder: category defaults first, then a cheap-operation
// escalation, then an absolute risk override. Correctness dominates cost
// optimization; cost optimization dominates category defaults.
package routing

import (
	"fmt"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// lightweightOps are safe to hand to the external CLI when complexity allows.
var lightweightOps = map[domain.OperationType]bool{
	domain.OpFileRead:         true,
	domain.OpFileWrite:        true,
	domain.OpDirectoryList:    true,
	domain.OpPatternSearch:    true,
	domain.OpGitStatus:        true,
	domain.OpGitCommit:        true,
	domain.OpFormatCode:       true,
	domain.OpTemplateGenerate: true,
}

// reasoningOps always need the full-reasoning collaborator.
var reasoningOps = map[domain.OperationType]bool{
	domain.OpCodeReview:    true,
	domain.OpDebugSession:  true,
	domain.OpSecurityAudit: true,
}

// hybridOps benefit from a lightweight groundwork pass before reasoning.
var hybridOps = map[domain.OperationType]bool{
	domain.OpArchitectureDesign: true,
	domain.OpRefactor:           true,
	domain.OpTestGeneration:     true,
	domain.OpDocumentation:      true,
}

// Policy implements ports.RoutingPolicy.
type Policy struct {
	complexityThreshold int
	tokenThreshold      int
}

// NewPolicy builds a Policy from routing settings, hydrating zero values.
func NewPolicy(settings domain.RoutingSettings) *Policy {
	if settings.ComplexityThreshold <= 0 {
		settings.ComplexityThreshold = domain.DefaultComplexityThreshold
	}
	if settings.TokenThreshold <= 0 {
		settings.TokenThreshold = domain.DefaultTokenThreshold
	}
	return &Policy{
		complexityThreshold: settings.ComplexityThreshold,
		tokenThreshold:      settings.TokenThreshold,
	}
}

// Route implements ports.RoutingPolicy. Deterministic given the analysis.
func (p *Policy) Route(analysis domain.Analysis) domain.RoutingDecision {
	decision := domain.RoutingDecision{
		Strategy:   domain.StrategyReasoning,
		Confidence: 0.5,
		Reasoning:  "safety default: unrecognized operation goes to the reasoning path",
		Analysis:   analysis,
	}

	switch {
	case lightweightOps[analysis.Type] && analysis.Complexity <= p.complexityThreshold:
		decision.Strategy = domain.StrategyLightweight
		decision.Confidence = 0.9
		decision.Reasoning = fmt.Sprintf("%s is a lightweight operation within complexity threshold %d", analysis.Type, p.complexityThreshold)
		decision.EstimatedTokenSavings = analysis.TokenEstimate * 8 / 10
	case reasoningOps[analysis.Type]:
		decision.Strategy = domain.StrategyReasoning
		decision.Confidence = 0.9
		decision.Reasoning = fmt.Sprintf("%s requires full reasoning", analysis.Type)
		decision.EstimatedTokenSavings = 0
	case hybridOps[analysis.Type]:
		decision.Strategy = domain.StrategyHybrid
		decision.Confidence = 0.7
		decision.Reasoning = fmt.Sprintf("%s benefits from lightweight groundwork before reasoning", analysis.Type)
		decision.EstimatedTokenSavings = analysis.TokenEstimate * 4 / 10
	}

	// Small, cheap operations are pushed to the lightweight path even outside
	// its category, unless reasoning was chosen for a genuinely complex task.
	if analysis.TokenEstimate < p.tokenThreshold &&
		!(decision.Strategy == domain.StrategyReasoning && analysis.Complexity > 2) {
		decision.Strategy = domain.StrategyLightweight
		if decision.Confidence < 0.8 {
			decision.Confidence = 0.8
		}
		decision.Reasoning = fmt.Sprintf("token estimate %d below threshold %d, escalating to lightweight", analysis.TokenEstimate, p.tokenThreshold)
		decision.EstimatedTokenSavings = analysis.TokenEstimate * 9 / 10
	}

	// Risk override always wins: anything above risk 7 goes to reasoning with
	// no claimed savings.
	if analysis.RiskLevel > 7 {
		decision.Strategy = domain.StrategyReasoning
		decision.Confidence = 0.9
		decision.Reasoning = fmt.Sprintf("risk level %d exceeds safe delegation bound", analysis.RiskLevel)
		decision.EstimatedTokenSavings = 0
	}

	return decision
}

var _ ports.RoutingPolicy = (*Policy)(nil)
