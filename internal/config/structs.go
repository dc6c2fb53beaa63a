package config

import "time"

// Config represents the complete configuration for the remocr client.
// It supports loading from configuration files, environment variables,
// and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Remote server settings
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Prompt settings
	Prompt PromptConfig `mapstructure:"prompt" yaml:"prompt" json:"prompt"`

	// Input discovery settings
	Input InputConfig `mapstructure:"input" yaml:"input" json:"input"`

	// Output settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch run settings
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// ServerConfig describes the remote OpenAI-compatible endpoint.
type ServerConfig struct {
	URL       string        `mapstructure:"url" yaml:"url" json:"url"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	Model     string        `mapstructure:"model" yaml:"model" json:"model"`
	MaxTokens int           `mapstructure:"max_tokens" yaml:"max_tokens" json:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// PromptConfig carries the instruction sent with every request.
// File, when set, overrides Text.
type PromptConfig struct {
	Text string `mapstructure:"text" yaml:"text" json:"text"`
	File string `mapstructure:"file" yaml:"file" json:"file"`
}

// InputConfig controls image discovery.
type InputConfig struct {
	Images       []string `mapstructure:"images" yaml:"images" json:"images"`
	Dir          string   `mapstructure:"dir" yaml:"dir" json:"dir"`
	Glob         string   `mapstructure:"glob" yaml:"glob" json:"glob"`
	DefaultImage string   `mapstructure:"default_image" yaml:"default_image" json:"default_image"`
	MaxDimension int      `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// BatchConfig controls batch run behavior.
type BatchConfig struct {
	FailFast    bool   `mapstructure:"fail_fast" yaml:"fail_fast" json:"fail_fast"`
	Quiet       bool   `mapstructure:"quiet" yaml:"quiet" json:"quiet"`
	MetricsAddr string `mapstructure:"metrics_addr" yaml:"metrics_addr" json:"metrics_addr"`
}
