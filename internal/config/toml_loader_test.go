package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/clumpscan/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestLoadDetectorOptionsFromToml(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), `[detector]
shared_field_parameters_minimum = 4
type_variables_considered = true
analyseMethodsWithUnknownHierarchy = true

[project]
name = "shop"
target_language = "java"

[project.additional]
team = "core"
build = 17
`)

	config, err := NewTomlConfigLoader().LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	opts, err := config.DetectorOptions()
	if err != nil {
		t.Fatalf("Failed to resolve options: %v", err)
	}
	if opts.SharedFieldParametersMinimum != 4 {
		t.Errorf("Expected shared_field_parameters_minimum 4, got %d", opts.SharedFieldParametersMinimum)
	}
	if !opts.TypeVariablesConsidered || !opts.AnalyseMethodsWithUnknownHierarchy {
		t.Errorf("Expected boolean options to be enabled, got %+v", opts)
	}
	if opts.SharedMethodParametersMinimum != domain.DefaultSharedMethodParametersMinimum {
		t.Errorf("Expected default method minimum, got %d", opts.SharedMethodParametersMinimum)
	}

	if config.Project.Name != "shop" || config.Project.TargetLanguage != "java" {
		t.Errorf("Unexpected project section: %+v", config.Project)
	}
	additional, err := config.AdditionalMetadata()
	if err != nil {
		t.Fatalf("Failed to convert additional metadata: %v", err)
	}
	if additional["team"].String() != "core" || additional["build"].Value() != int64(17) {
		t.Errorf("Unexpected additional metadata: %v", additional)
	}
}

func TestLoadConfigWalksUp(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[output]\nformat = \"json\"\n")
	nested := filepath.Join(tempDir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	loader := NewTomlConfigLoader()
	path, err := loader.FindConfigFile(nested)
	if err != nil {
		t.Fatalf("Expected config to be found from nested dir: %v", err)
	}
	if filepath.Base(path) != ConfigFileName {
		t.Errorf("Unexpected config path %s", path)
	}

	config, err := loader.LoadConfig(nested)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected format json, got %s", config.Output.Format)
	}
	if config.Input.Recursive == nil || !*config.Input.Recursive {
		t.Error("Expected recursive default to survive a partial file")
	}
}

func TestLoadConfigWithoutFileReturnsDefaults(t *testing.T) {
	config, err := NewTomlConfigLoader().LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("Expected defaults, got error: %v", err)
	}
	if len(config.Input.IncludePatterns) != 1 || config.Input.IncludePatterns[0] != "**/*.json" {
		t.Errorf("Unexpected default include patterns: %v", config.Input.IncludePatterns)
	}
}

func TestLoadConfigRejectsUnknownOption(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[detector]\nno_such_option = 1\n")

	if _, err := NewTomlConfigLoader().LoadConfig(tempDir); err == nil {
		t.Error("Expected an error for an unknown detector option")
	}
}

func TestLoadConfigRejectsInvalidToml(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, filepath.Join(tempDir, ConfigFileName), "[detector\n")

	if _, err := NewTomlConfigLoader().LoadConfig(tempDir); err == nil {
		t.Error("Expected a parse error")
	}
}
