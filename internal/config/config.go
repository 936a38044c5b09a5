package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/speckit/internal/models"
)

// ProjectSettings describes the specification-driven project being scaffolded
type ProjectSettings struct {
	// Name is the project name used in generated documents
	Name string `yaml:"name"`

	// SpecificationFormat is the document format: markdown, yaml or json
	SpecificationFormat string `yaml:"specification_format"`

	// AIAgent is the target coding agent: claude, copilot, gemini or cursor
	AIAgent string `yaml:"ai_agent"`

	// OutputDirectory is where project documents are written
	OutputDirectory string `yaml:"output_directory"`

	// ValidationRules lists the rule sets applied to specifications
	ValidationRules []string `yaml:"validation_rules"`

	// IntegrationPatterns lists the agent integration patterns in use
	IntegrationPatterns []string `yaml:"integration_patterns"`
}

// ResearchConfig controls the research orchestrator
type ResearchConfig struct {
	// BaseURL is the chat-completions API root
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API credential
	APIKeyEnv string `yaml:"api_key_env"`

	// Timeout bounds each HTTP request
	Timeout time.Duration `yaml:"timeout"`

	// Pause is the delay between consecutive registry queries
	Pause time.Duration `yaml:"pause"`

	// HistoryDB is the SQLite archive path (empty disables archiving)
	HistoryDB string `yaml:"history_db"`

	// OutputFile is where generated research documentation is written
	OutputFile string `yaml:"output_file"`
}

// Config represents speckit configuration options
type Config struct {
	// Project contains project scaffolding settings
	Project ProjectSettings `yaml:"project"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// Research contains research orchestrator settings
	Research ResearchConfig `yaml:"research"`
}

var (
	validFormats = map[string]bool{
		models.FormatMarkdown: true,
		models.FormatYAML:     true,
		models.FormatJSON:     true,
	}
	validAgents = map[string]bool{
		"claude":  true,
		"copilot": true,
		"gemini":  true,
		"cursor":  true,
	}
	validLevels = map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
)

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectSettings{
			Name:                "speckit-project",
			SpecificationFormat: models.FormatMarkdown,
			AIAgent:             "claude",
			OutputDirectory:     "output",
			ValidationRules:     []string{"syntax", "completeness", "consistency"},
			IntegrationPatterns: []string{"sequential", "parallel"},
		},
		LogLevel: "info",
		LogDir:   ".speckit/logs",
		Research: ResearchConfig{
			BaseURL:    "https://api.perplexity.ai",
			APIKeyEnv:  "PERPLEXITY_API_KEY",
			Timeout:    120 * time.Second,
			Pause:      2 * time.Second,
			HistoryDB:  ".speckit/history.db",
			OutputFile: "comprehensive-research-analysis.md",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are read as strings so "90s" and "2m" both parse
	type yamlResearch struct {
		BaseURL    string `yaml:"base_url"`
		APIKeyEnv  string `yaml:"api_key_env"`
		Timeout    string `yaml:"timeout"`
		Pause      string `yaml:"pause"`
		HistoryDB  string `yaml:"history_db"`
		OutputFile string `yaml:"output_file"`
	}
	type yamlConfig struct {
		Project  ProjectSettings `yaml:"project"`
		LogLevel string          `yaml:"log_level"`
		LogDir   string          `yaml:"log_dir"`
		Research yamlResearch    `yaml:"research"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	p := yamlCfg.Project
	if p.Name != "" {
		cfg.Project.Name = p.Name
	}
	if p.SpecificationFormat != "" {
		cfg.Project.SpecificationFormat = strings.ToLower(p.SpecificationFormat)
	}
	if p.AIAgent != "" {
		cfg.Project.AIAgent = strings.ToLower(p.AIAgent)
	}
	if p.OutputDirectory != "" {
		cfg.Project.OutputDirectory = p.OutputDirectory
	}
	if len(p.ValidationRules) > 0 {
		cfg.Project.ValidationRules = p.ValidationRules
	}
	if len(p.IntegrationPatterns) > 0 {
		cfg.Project.IntegrationPatterns = p.IntegrationPatterns
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}

	r := yamlCfg.Research
	if r.BaseURL != "" {
		cfg.Research.BaseURL = strings.TrimRight(r.BaseURL, "/")
	}
	if r.APIKeyEnv != "" {
		cfg.Research.APIKeyEnv = r.APIKeyEnv
	}
	if r.Timeout != "" {
		timeout, err := time.ParseDuration(r.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid research.timeout format %q: %w", r.Timeout, err)
		}
		cfg.Research.Timeout = timeout
	}
	if r.Pause != "" {
		pause, err := time.ParseDuration(r.Pause)
		if err != nil {
			return nil, fmt.Errorf("invalid research.pause format %q: %w", r.Pause, err)
		}
		cfg.Research.Pause = pause
	}
	if r.HistoryDB != "" {
		cfg.Research.HistoryDB = r.HistoryDB
	}
	if r.OutputFile != "" {
		cfg.Research.OutputFile = r.OutputFile
	}

	return cfg, nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(projectName, outputDir, format, agent, logLevel *string) {
	if projectName != nil {
		c.Project.Name = *projectName
	}
	if outputDir != nil {
		c.Project.OutputDirectory = *outputDir
	}
	if format != nil {
		c.Project.SpecificationFormat = strings.ToLower(*format)
	}
	if agent != nil {
		c.Project.AIAgent = strings.ToLower(*agent)
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return fmt.Errorf("project.name cannot be empty")
	}
	if !validFormats[c.Project.SpecificationFormat] {
		return fmt.Errorf("invalid project.specification_format %q, must be one of: markdown, yaml, json", c.Project.SpecificationFormat)
	}
	if !validAgents[c.Project.AIAgent] {
		return fmt.Errorf("invalid project.ai_agent %q, must be one of: claude, copilot, gemini, cursor", c.Project.AIAgent)
	}
	if c.Project.OutputDirectory == "" {
		return fmt.Errorf("project.output_directory cannot be empty")
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}
	if c.Research.BaseURL == "" {
		return fmt.Errorf("research.base_url cannot be empty")
	}
	if c.Research.APIKeyEnv == "" {
		return fmt.Errorf("research.api_key_env cannot be empty")
	}
	if c.Research.Timeout < 0 {
		return fmt.Errorf("research.timeout must be >= 0, got %v", c.Research.Timeout)
	}
	if c.Research.Pause < 0 {
		return fmt.Errorf("research.pause must be >= 0, got %v", c.Research.Pause)
	}
	return nil
}
