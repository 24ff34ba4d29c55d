package domain

// Config mirrors ~/.switchboard/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Routing             RoutingSettings   `yaml:"routing"`
	Execution           ExecutionSettings `yaml:"execution"`
	Cache               CacheSettings     `yaml:"cache"`
	Metrics             MetricsSettings   `yaml:"metrics"`
	Learning            LearningSettings  `yaml:"learning"`
}

// RoutingSettings holds the routing policy thresholds.
type RoutingSettings struct {
	// ComplexityThreshold is the highest complexity still eligible for the
	// lightweight path via its category.
	ComplexityThreshold int `yaml:"complexity_threshold"`
	// TokenThreshold is the estimate below which cheap operations are pushed
	// to the lightweight path regardless of category.
	TokenThreshold int `yaml:"token_threshold"`
}

// ExecutionSettings controls executor binaries, retries and timeouts.
type ExecutionSettings struct {
	// LightweightCommand is the external CLI binary for the lightweight path.
	LightweightCommand string `yaml:"lightweight_command"`
	// ReasoningCommand is the external binary standing in for the reasoning
	// collaborator when no other client is wired.
	ReasoningCommand string `yaml:"reasoning_command"`
	MaxRetries       int    `yaml:"max_retries"`
	RetryBackoffMS   int    `yaml:"retry_backoff_ms"`
	TimeoutSeconds   int    `yaml:"timeout"`
}

// CacheSettings controls the in-memory result cache.
type CacheSettings struct {
	Enabled bool `yaml:"enabled"`
	// MaxEntries bounds the cache; 0 keeps it unbounded.
	MaxEntries int `yaml:"max_entries"`
}

// MetricsSettings bounds the raw metrics buffer.
type MetricsSettings struct {
	MaxOperations    int `yaml:"max_operations"`
	CleanupThreshold int `yaml:"cleanup_threshold"`
}

// LearningSettings controls the pattern learning tracker.
type LearningSettings struct {
	Enabled bool `yaml:"enabled"`
	// MemoryDir overrides ~/.switchboard/memory.
	MemoryDir string `yaml:"memory_dir,omitempty"`
}
