package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// FileLoader loads YAML configuration from ~/.switchboard/config.yaml
// (overridable via SWITCHBOARD_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is not an error: the
// default configuration is written in its place and returned.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Save writes the configuration back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	return writeDefault(path, cfg)
}

// Path returns the resolved configuration file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("SWITCHBOARD_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".switchboard", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Default returns the configuration written on first run.
func Default() domain.Config {
	return defaultConfig()
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Routing: domain.RoutingSettings{
			ComplexityThreshold: domain.DefaultComplexityThreshold,
			TokenThreshold:      domain.DefaultTokenThreshold,
		},
		Execution: domain.ExecutionSettings{
			LightweightCommand: "swb-agent",
			ReasoningCommand:   "swb-reasoner",
			MaxRetries:         domain.DefaultMaxRetries,
			RetryBackoffMS:     int(domain.DefaultRetryBackoff.Milliseconds()),
			TimeoutSeconds:     int(domain.DefaultExecutionTimeout.Seconds()),
		},
		Cache: domain.CacheSettings{
			Enabled: true,
		},
		Metrics: domain.MetricsSettings{
			MaxOperations:    domain.DefaultMaxOperations,
			CleanupThreshold: domain.DefaultCleanupThreshold,
		},
		Learning: domain.LearningSettings{
			Enabled: true,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Routing.ComplexityThreshold == 0 {
		cfg.Routing.ComplexityThreshold = domain.DefaultComplexityThreshold
	}
	if cfg.Routing.TokenThreshold == 0 {
		cfg.Routing.TokenThreshold = domain.DefaultTokenThreshold
	}
	if cfg.Execution.LightweightCommand == "" {
		cfg.Execution.LightweightCommand = "swb-agent"
	}
	if cfg.Execution.ReasoningCommand == "" {
		cfg.Execution.ReasoningCommand = "swb-reasoner"
	}
	if cfg.Execution.MaxRetries == 0 {
		cfg.Execution.MaxRetries = domain.DefaultMaxRetries
	}
	if cfg.Execution.RetryBackoffMS == 0 {
		cfg.Execution.RetryBackoffMS = int(domain.DefaultRetryBackoff.Milliseconds())
	}
	if cfg.Execution.TimeoutSeconds == 0 {
		cfg.Execution.TimeoutSeconds = int(domain.DefaultExecutionTimeout.Seconds())
	}
	if cfg.Metrics.MaxOperations == 0 {
		cfg.Metrics.MaxOperations = domain.DefaultMaxOperations
	}
	if cfg.Metrics.CleanupThreshold == 0 {
		cfg.Metrics.CleanupThreshold = domain.DefaultCleanupThreshold
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
