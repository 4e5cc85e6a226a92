package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/clumpscan/domain"
)

// ConfigFileName is the dedicated configuration file discovered by walking up from the target
const ConfigFileName = ".clumpscan.toml"

// Config represents the main configuration structure
type Config struct {
	// Detector holds detector options keyed by snake_case or camelCase option name.
	// Kept as a map so that unknown keys are reported instead of silently dropped.
	Detector map[string]any `mapstructure:"detector" toml:"detector" yaml:"detector"`

	// Input holds input collection configuration
	Input InputConfig `mapstructure:"input" toml:"input" yaml:"input"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output"`

	// Project holds metadata echoed in the report
	Project ProjectConfig `mapstructure:"project" toml:"project" yaml:"project"`
}

// InputConfig holds configuration for collecting parsed-AST documents
type InputConfig struct {
	// IncludePatterns specifies doublestar patterns of documents to include
	IncludePatterns []string `mapstructure:"include_patterns" toml:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies doublestar patterns of documents to skip
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether directories are walked recursively
	Recursive *bool `mapstructure:"recursive" toml:"recursive" yaml:"recursive"` // pointer to detect unset
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv, html
	Format string `mapstructure:"format" toml:"format" yaml:"format"`

	// Directory is where generated report files are written
	Directory string `mapstructure:"directory" toml:"directory" yaml:"directory"`

	// ShowDetails lists every matched member in text output
	ShowDetails *bool `mapstructure:"show_details" toml:"show_details" yaml:"show_details"` // pointer to detect unset
}

// ProjectConfig identifies the analyzed project
type ProjectConfig struct {
	Name           string         `mapstructure:"name" toml:"name" yaml:"name"`
	Version        string         `mapstructure:"version" toml:"version" yaml:"version"`
	Commit         string         `mapstructure:"commit" toml:"commit" yaml:"commit"`
	TargetLanguage string         `mapstructure:"target_language" toml:"target_language" yaml:"target_language"`
	Additional     map[string]any `mapstructure:"additional" toml:"additional" yaml:"additional"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Detector: map[string]any{},
		Input: InputConfig{
			IncludePatterns: []string{"**/*.json"},
			ExcludePatterns: []string{},
			Recursive:       domain.BoolPtr(true),
		},
		Output: OutputConfig{
			Format:      string(domain.OutputFormatText),
			ShowDetails: domain.BoolPtr(false),
		},
		Project: ProjectConfig{
			Additional: map[string]any{},
		},
	}
}

// LoadConfig loads an explicit configuration file of any format viper understands.
// .toml files are decoded with go-toml directly so that they behave exactly like
// a discovered .clumpscan.toml. Viper folds keys to lower case, which option
// lookup tolerates.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		return NewTomlConfigLoader().LoadFile(configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config := DefaultConfig()
	config.merge(&loaded)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// ParseTOML decodes .clumpscan.toml content on top of the defaults
func ParseTOML(data []byte) (*Config, error) {
	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.merge(&loaded)
	return config, nil
}

// merge copies every value set in other onto c
func (c *Config) merge(other *Config) {
	for k, v := range other.Detector {
		c.Detector[k] = v
	}

	if len(other.Input.IncludePatterns) > 0 {
		c.Input.IncludePatterns = other.Input.IncludePatterns
	}
	if len(other.Input.ExcludePatterns) > 0 {
		c.Input.ExcludePatterns = other.Input.ExcludePatterns
	}
	if other.Input.Recursive != nil {
		c.Input.Recursive = other.Input.Recursive
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Directory != "" {
		c.Output.Directory = other.Output.Directory
	}
	if other.Output.ShowDetails != nil {
		c.Output.ShowDetails = other.Output.ShowDetails
	}

	if other.Project.Name != "" {
		c.Project.Name = other.Project.Name
	}
	if other.Project.Version != "" {
		c.Project.Version = other.Project.Version
	}
	if other.Project.Commit != "" {
		c.Project.Commit = other.Project.Commit
	}
	if other.Project.TargetLanguage != "" {
		c.Project.TargetLanguage = other.Project.TargetLanguage
	}
	for k, v := range other.Project.Additional {
		c.Project.Additional[k] = v
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	opts, err := c.DetectorOptions()
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	if c.Output.Format != "" && !domain.OutputFormat(c.Output.Format).IsValid() {
		return domain.NewUnsupportedFormatError(c.Output.Format)
	}

	if _, err := c.AdditionalMetadata(); err != nil {
		return err
	}
	return nil
}

// DetectorOptions resolves the [detector] section against the option defaults
func (c *Config) DetectorOptions() (domain.DetectorOptions, error) {
	return domain.DetectorOptionsFromMap(c.Detector)
}

// AdditionalMetadata converts [project.additional] into report values.
// Only scalar values are accepted.
func (c *Config) AdditionalMetadata() (map[string]domain.PrimitiveValue, error) {
	out := make(map[string]domain.PrimitiveValue, len(c.Project.Additional))
	keys := make([]string, 0, len(c.Project.Additional))
	for k := range c.Project.Additional {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, ok := domain.PrimitiveFromAny(c.Project.Additional[k])
		if !ok {
			return nil, domain.NewConfigError(fmt.Sprintf("project.additional.%s must be a string, number or boolean", k), nil)
		}
		out[k] = v
	}
	return out, nil
}
