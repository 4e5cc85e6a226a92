package service

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/config"
)

// DataClumpsConfigurationLoaderImpl implements the DataClumpsConfigurationLoader interface
type DataClumpsConfigurationLoaderImpl struct{}

// NewDataClumpsConfigurationLoader creates a new configuration loader service
func NewDataClumpsConfigurationLoader() *DataClumpsConfigurationLoaderImpl {
	return &DataClumpsConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from path. A directory starts .clumpscan.toml
// discovery there; a file is loaded directly (toml, yaml or json).
func (cl *DataClumpsConfigurationLoaderImpl) LoadConfig(path string) (*domain.DataClumpsRequest, error) {
	var (
		cfg *config.Config
		err error
	)

	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		cfg, err = config.NewTomlConfigLoader().LoadConfig(path)
	} else {
		cfg, err = config.LoadConfig(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cl.configToRequest(cfg)
}

// LoadDefaultConfig discovers .clumpscan.toml from the working directory,
// falling back to the built-in defaults
func (cl *DataClumpsConfigurationLoaderImpl) LoadDefaultConfig() *domain.DataClumpsRequest {
	if req, err := cl.LoadConfig("."); err == nil {
		return req
	}
	return domain.DefaultDataClumpsRequest()
}

// MergeConfig overlays every non-zero override value on base
func (cl *DataClumpsConfigurationLoaderImpl) MergeConfig(base *domain.DataClumpsRequest, override *domain.DataClumpsRequest) *domain.DataClumpsRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.OutputDirectory != "" {
		merged.OutputDirectory = override.OutputDirectory
	}
	merged.NoOpen = override.NoOpen
	if override.ShowDetails {
		merged.ShowDetails = true
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if override.Recursive != nil {
		merged.Recursive = override.Recursive
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if override.Options != (domain.DetectorOptions{}) {
		merged.Options = override.Options
	}
	merged.ProjectName = preferKnown(override.ProjectName, base.ProjectName)
	merged.ProjectVersion = preferKnown(override.ProjectVersion, base.ProjectVersion)
	merged.ProjectCommit = preferKnown(override.ProjectCommit, base.ProjectCommit)
	merged.TargetLanguage = preferKnown(override.TargetLanguage, base.TargetLanguage)
	if override.DetectorVersion != "" {
		merged.DetectorVersion = override.DetectorVersion
	}
	merged.Additional = mergeAdditional(base.Additional, override.Additional)
	if override.ShowProgress {
		merged.ShowProgress = true
	}

	return &merged
}

// configToRequest converts a Config to a DataClumpsRequest
func (cl *DataClumpsConfigurationLoaderImpl) configToRequest(cfg *config.Config) (*domain.DataClumpsRequest, error) {
	req := domain.DefaultDataClumpsRequest()
	if cfg == nil {
		return req, nil
	}

	options, err := cfg.DetectorOptions()
	if err != nil {
		return nil, err
	}
	additional, err := cfg.AdditionalMetadata()
	if err != nil {
		return nil, err
	}

	req.Options = options
	req.Additional = additional
	if cfg.Output.Format != "" {
		req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	}
	req.OutputDirectory = cfg.Output.Directory
	req.ShowDetails = domain.BoolValue(cfg.Output.ShowDetails, false)
	if cfg.Input.Recursive != nil {
		req.Recursive = cfg.Input.Recursive
	}
	if len(cfg.Input.IncludePatterns) > 0 {
		req.IncludePatterns = cfg.Input.IncludePatterns
	}
	if cfg.Input.ExcludePatterns != nil {
		req.ExcludePatterns = cfg.Input.ExcludePatterns
	}
	req.ProjectName = preferKnown(cfg.Project.Name, req.ProjectName)
	req.ProjectVersion = preferKnown(cfg.Project.Version, req.ProjectVersion)
	req.ProjectCommit = preferKnown(cfg.Project.Commit, req.ProjectCommit)
	req.TargetLanguage = preferKnown(cfg.Project.TargetLanguage, req.TargetLanguage)

	return req, nil
}

// preferKnown returns value unless it is empty or "unknown"
func preferKnown(value, fallback string) string {
	if value == "" || value == domain.UnknownValue {
		return fallback
	}
	return value
}

// mergeAdditional returns a new map with override keys replacing base keys
func mergeAdditional(base, override map[string]domain.PrimitiveValue) map[string]domain.PrimitiveValue {
	out := make(map[string]domain.PrimitiveValue, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
