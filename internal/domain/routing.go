package domain

// Strategy names which executor handles an operation.
type Strategy string

const (
	StrategyLightweight Strategy = "lightweight"
	StrategyReasoning   Strategy = "reasoning"
	StrategyHybrid      Strategy = "hybrid"
)

// RoutingDecision is the output of the routing policy for one analysis.
//
// Invariant: Strategy is StrategyLightweight only when Analysis.RiskLevel <= 7;
// any risk level above 7 forces StrategyReasoning with zero estimated savings.
type RoutingDecision struct {
	Strategy              Strategy `json:"strategy"`
	Confidence            float64  `json:"confidence"` // 0..1
	Reasoning             string   `json:"reasoning"`
	EstimatedTokenSavings int      `json:"estimated_token_savings"`
	Analysis              Analysis `json:"analysis"`
}
