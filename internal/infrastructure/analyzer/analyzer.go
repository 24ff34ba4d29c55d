// Package analyzer profiles incoming operations: complexity, estimated token
// cost, risk, and cacheability. The analysis is a pure function of its inputs
// and never fails; unknown operation types degrade to medium defaults so that
// analysis can never block routing.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

const (
	defaultComplexity = 5
	defaultRisk       = 2
	defaultBaseTokens = 400
	defaultCacheTTL   = time.Minute
)

// complexityTable scores the intrinsic difficulty of each operation type.
var complexityTable = map[domain.OperationType]int{
	domain.OpFileRead:           1,
	domain.OpDirectoryList:      1,
	domain.OpGitStatus:          1,
	domain.OpPatternSearch:      2,
	domain.OpFileWrite:          2,
	domain.OpFormatCode:         2,
	domain.OpGitCommit:          3,
	domain.OpStaticAnalysis:     3,
	domain.OpTemplateGenerate:   3,
	domain.OpDocumentation:      5,
	domain.OpTestGeneration:     6,
	domain.OpCodeReview:         7,
	domain.OpRefactor:           7,
	domain.OpDebugSession:       8,
	domain.OpSecurityAudit:      8,
	domain.OpArchitectureDesign: 9,
}

// tokenTable holds the base token cost per operation type.
var tokenTable = map[domain.OperationType]int{
	domain.OpFileRead:           50,
	domain.OpDirectoryList:      30,
	domain.OpGitStatus:          40,
	domain.OpPatternSearch:      80,
	domain.OpFileWrite:          100,
	domain.OpFormatCode:         120,
	domain.OpGitCommit:          150,
	domain.OpStaticAnalysis:     300,
	domain.OpTemplateGenerate:   250,
	domain.OpDocumentation:      800,
	domain.OpTestGeneration:     1200,
	domain.OpCodeReview:         1500,
	domain.OpRefactor:           1800,
	domain.OpDebugSession:       2000,
	domain.OpSecurityAudit:      2200,
	domain.OpArchitectureDesign: 2500,
}

// riskTable holds the base risk of delegating each operation type to the
// cheap path.
var riskTable = map[domain.OperationType]int{
	domain.OpFileRead:           1,
	domain.OpDirectoryList:      1,
	domain.OpGitStatus:          1,
	domain.OpPatternSearch:      1,
	domain.OpStaticAnalysis:     2,
	domain.OpTemplateGenerate:   2,
	domain.OpFormatCode:         3,
	domain.OpFileWrite:          4,
	domain.OpGitCommit:          4,
	domain.OpDocumentation:      3,
	domain.OpTestGeneration:     4,
	domain.OpCodeReview:         5,
	domain.OpRefactor:           6,
	domain.OpDebugSession:       6,
	domain.OpArchitectureDesign: 6,
	domain.OpSecurityAudit:      7,
}

// cacheTTLs maps cacheable operation types to their time-to-live. Volatile
// reads stay short; expensive-to-recompute results keep longer windows.
var cacheTTLs = map[domain.OperationType]time.Duration{
	domain.OpFileRead:         2 * time.Minute,
	domain.OpDirectoryList:    30 * time.Second,
	domain.OpGitStatus:        15 * time.Second,
	domain.OpPatternSearch:    5 * time.Minute,
	domain.OpStaticAnalysis:   10 * time.Minute,
	domain.OpTemplateGenerate: time.Hour,
}

// Analyzer implements ports.Analyzer from static lookup tables.
type Analyzer struct{}

// New builds an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze implements ports.Analyzer.
func (a *Analyzer) Analyze(op domain.Operation, snap domain.Snapshot) domain.Analysis {
	return domain.Analysis{
		Type:          op.Type,
		Complexity:    a.complexity(op, snap),
		TokenEstimate: a.tokenEstimate(op, snap),
		Dependencies:  deriveDependencies(op),
		RiskLevel:     a.riskLevel(op, snap),
		Cacheability:  a.cacheability(op, snap),
	}
}

func (a *Analyzer) complexity(op domain.Operation, snap domain.Snapshot) int {
	score, ok := complexityTable[op.Type]
	if !ok {
		score = defaultComplexity
	}
	if len(snap.Files) > 10 {
		score++
	}
	if snap.Urgency == domain.UrgencyHigh {
		score++
	}
	if len(op.Dependencies) > 3 {
		score += 2
	}
	return clamp(score, 1, 10)
}

func (a *Analyzer) tokenEstimate(op domain.Operation, snap domain.Snapshot) int {
	estimate, ok := tokenTable[op.Type]
	if !ok {
		estimate = defaultBaseTokens
	}
	estimate += 20 * len(snap.Files)
	if op.Content != "" {
		estimate += (len(op.Content) + 3) / 4
	}
	return estimate
}

func (a *Analyzer) riskLevel(op domain.Operation, snap domain.Snapshot) int {
	risk, ok := riskTable[op.Type]
	if !ok {
		risk = defaultRisk
	}
	if snap.Environment == domain.EnvProduction {
		risk += 3
	}
	if snap.NoBackup {
		risk += 2
	}
	return clamp(risk, 1, 10)
}

func (a *Analyzer) cacheability(op domain.Operation, snap domain.Snapshot) domain.Cacheability {
	ttl, allowed := cacheTTLs[op.Type]
	if !allowed {
		return domain.Cacheability{Cacheable: false, Reason: "operation type is not cache-safe"}
	}
	if snap.NoCache {
		return domain.Cacheability{Cacheable: false, Reason: "caller disabled caching"}
	}
	if snap.Realtime {
		return domain.Cacheability{Cacheable: false, Reason: "realtime context requires fresh results"}
	}
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return domain.Cacheability{
		Cacheable: true,
		TTL:       ttl,
		Key:       CacheKey(op, snap),
	}
}

// CacheKey derives the deterministic cache key for an operation within its
// context. Two calls with equal inputs always produce the same key.
func CacheKey(op domain.Operation, snap domain.Snapshot) string {
	payload := fmt.Sprintf("%s|%s|%s|%s", op.Type, op.Path, op.Pattern, snapshotHash(snap))
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:16]
}

func snapshotHash(snap domain.Snapshot) string {
	files := make([]string, len(snap.Files))
	copy(files, snap.Files)
	sort.Strings(files)
	sum := sha256.Sum256([]byte(snap.WorkingDir + "|" + snap.Environment + "|" + strings.Join(files, ",")))
	return hex.EncodeToString(sum[:])[:16]
}

func deriveDependencies(op domain.Operation) []domain.Dependency {
	deps := append([]domain.Dependency(nil), op.Dependencies...)
	if op.Path != "" {
		deps = append(deps, domain.Dependency{Type: "file", Path: op.Path})
	}
	return deps
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ ports.Analyzer = (*Analyzer)(nil)
