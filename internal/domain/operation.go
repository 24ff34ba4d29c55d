// Package domain defines core business entities and value objects for Switchboard.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures: operations, analysis results, routing
// decisions, and orchestration outcomes.
package domain

// OperationType is the primary dispatch key for an operation. The set is closed:
// routing and analysis work from lookup tables keyed by these constants, and any
// unknown type degrades to conservative defaults instead of failing.
type OperationType string

const (
	OpFileRead           OperationType = "file-read"
	OpFileWrite          OperationType = "file-write"
	OpDirectoryList      OperationType = "directory-list"
	OpPatternSearch      OperationType = "pattern-search"
	OpGitStatus          OperationType = "git-status"
	OpGitCommit          OperationType = "git-commit"
	OpFormatCode         OperationType = "format-code"
	OpStaticAnalysis     OperationType = "static-analysis"
	OpTemplateGenerate   OperationType = "template-generate"
	OpCodeReview         OperationType = "code-review"
	OpDebugSession       OperationType = "debug-session"
	OpSecurityAudit      OperationType = "security-audit"
	OpArchitectureDesign OperationType = "architecture-design"
	OpRefactor           OperationType = "refactor"
	OpTestGeneration     OperationType = "test-generation"
	OpDocumentation      OperationType = "documentation"
)

// Operation is a single unit of requested work. It is immutable input with no
// persistent identity beyond one orchestration call.
type Operation struct {
	Type         OperationType `json:"type"`
	Path         string        `json:"path,omitempty"`
	Pattern      string        `json:"pattern,omitempty"`
	Content      string        `json:"content,omitempty"`
	Description  string        `json:"description,omitempty"`
	Dependencies []Dependency  `json:"dependencies,omitempty"`
}

// Dependency is a derived reference to something an operation touches.
type Dependency struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// Snapshot holds ambient environment data supplied alongside an Operation.
// It is read-only during one orchestration call.
type Snapshot struct {
	WorkingDir  string   `json:"working_dir,omitempty"`
	Files       []string `json:"files,omitempty"`
	Urgency     string   `json:"urgency,omitempty"`
	Environment string   `json:"environment,omitempty"`
	// NoBackup marks environments without a restore path; it raises risk.
	NoBackup bool `json:"no_backup,omitempty"`
	NoCache  bool `json:"no_cache,omitempty"`
	Realtime bool `json:"realtime,omitempty"`
	// Groundwork carries a prior lightweight result into a reasoning pass.
	// Set only by the hybrid composer.
	Groundwork string `json:"groundwork,omitempty"`
}

// UrgencyHigh is the urgency value that raises operation complexity.
const UrgencyHigh = "high"

// EnvProduction is the environment tag that raises operation risk.
const EnvProduction = "production"
