package domain

import "time"

// Analysis is the computed profile of one operation: how complex it is, what it
// is expected to cost, how risky it is to delegate, and whether its result may
// be cached. Computed fresh per call; never persisted.
type Analysis struct {
	Type          OperationType `json:"type"`
	Complexity    int           `json:"complexity"`     // 1..10
	TokenEstimate int           `json:"token_estimate"` // proxy cost, >= 0
	Dependencies  []Dependency  `json:"dependencies,omitempty"`
	RiskLevel     int           `json:"risk_level"` // 1..10
	Cacheability  Cacheability  `json:"cacheability"`
}

// Cacheability describes whether and how an operation result may be cached.
type Cacheability struct {
	Cacheable bool          `json:"cacheable"`
	Reason    string        `json:"reason,omitempty"`
	TTL       time.Duration `json:"ttl,omitempty"`
	Key       string        `json:"key,omitempty"`
}
