// internal/config/config.go
//
// This package handles configuration and the .casegen directory structure.
// Every project that uses casegen gets a .casegen/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectDirName is the name of the directory we create in each project
	ProjectDirName = ".casegen"

	defaultModulesDir = "modules"
	defaultExportDir  = "exports"
	defaultLogLevel   = "info"
	defaultSampleSize = 10
)

const defaultProjectConfigYAML = `# casegen project configuration
version: 1

# Directory of interpreted product modules (*.go, package main).
# Relative paths resolve against the project directory.
modules_dir: .casegen/modules

# Where generated workbooks are written.
export_dir: .casegen/exports

# debug, info, warn or error.
log_level: info

generation:
  # Upper bound for one generation run, e.g. 2m. Zero disables the bound.
  timeout: 0s

# Rows shown in the review sample.
sample_size: 10
`

// GenerationConfig tunes the orchestrator.
type GenerationConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// ProjectConfig models .casegen/config.yaml.
type ProjectConfig struct {
	Version    int              `yaml:"version"`
	ModulesDir string           `yaml:"modules_dir"`
	ExportDir  string           `yaml:"export_dir"`
	LogLevel   string           `yaml:"log_level"`
	Generation GenerationConfig `yaml:"generation"`
	SampleSize int              `yaml:"sample_size"`
}

// Config holds the runtime configuration for casegen.
type Config struct {
	// ProjectDir is the directory casegen was pointed at
	ProjectDir string

	// StateDir is ProjectDir/.casegen
	StateDir string

	Project ProjectConfig
}

// InitDir creates the .casegen directory structure in the given project
// directory and writes a default config.yaml when none exists.
//
// Structure created:
// .casegen/
// ├── config.yaml
// ├── logs/     <- casegen.log
// ├── modules/  <- interpreted product modules
// └── exports/  <- generated workbooks
func InitDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, ProjectDirName)

	dirs := []string{
		filepath.Join(stateDir, "logs"),
		filepath.Join(stateDir, defaultModulesDir),
		filepath.Join(stateDir, defaultExportDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
// A missing config.yaml yields the defaults.
func NewConfig(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", projectDir, err)
	}
	cfg := &Config{
		ProjectDir: abs,
		StateDir:   filepath.Join(abs, ProjectDirName),
		Project:    defaultProjectConfig(abs),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// ModulesDir returns the directory scanned for interpreted product modules.
func (c *Config) ModulesDir() string {
	return c.Project.ModulesDir
}

// ExportDir returns the directory generated workbooks are written to.
func (c *Config) ExportDir() string {
	return c.Project.ExportDir
}

// RunLogPath returns the generation run history file.
func (c *Config) RunLogPath() string {
	return filepath.Join(c.StateDir, "runs.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// GenerationTimeout returns the configured bound, zero when unbounded.
func (c *Config) GenerationTimeout() time.Duration {
	return c.Project.Generation.Timeout
}

// SampleSize returns the number of rows in a review sample.
func (c *Config) SampleSize() int {
	return c.Project.SampleSize
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string {
	return c.Project.LogLevel
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults(c.ProjectDir)
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig(base string) ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults(base)
	return pc
}

func (pc *ProjectConfig) applyDefaults(base string) {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.ModulesDir) == "" {
		pc.ModulesDir = filepath.Join(base, ProjectDirName, defaultModulesDir)
	}
	if strings.TrimSpace(pc.ExportDir) == "" {
		pc.ExportDir = filepath.Join(base, ProjectDirName, defaultExportDir)
	}
	if strings.TrimSpace(pc.LogLevel) == "" {
		pc.LogLevel = defaultLogLevel
	}
	if pc.SampleSize == 0 {
		pc.SampleSize = defaultSampleSize
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.ModulesDir = resolvePath(base, pc.ModulesDir)
	pc.ExportDir = resolvePath(base, pc.ExportDir)
	pc.LogLevel = strings.ToLower(strings.TrimSpace(pc.LogLevel))
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	if pc.Generation.Timeout < 0 {
		return fmt.Errorf("generation.timeout must be >= 0")
	}
	if pc.SampleSize < 0 {
		return fmt.Errorf("sample_size must be >= 0")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
