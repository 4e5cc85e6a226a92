package service

import (
	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/config"
)

// CLI flag names consulted when merging explicit flags over a config file
const (
	FlagTypeVariables    = "type-variables"
	FlagMinFields        = "min-fields"
	FlagFieldSubtypes    = "field-subtypes"
	FlagInheritAll       = "inherit-all"
	FlagMinParams        = "min-params"
	FlagHierarchy        = "hierarchy"
	FlagUnknownHierarchy = "unknown-hierarchy"
	FlagDetails          = "details"
	FlagRecursive        = "recursive"
	FlagInclude          = "include"
	FlagExclude          = "exclude"
	FlagProjectName      = "project-name"
	FlagProjectVersion   = "project-version"
	FlagProjectCommit    = "project-commit"
	FlagLanguage         = "language"
	FlagAdditional       = "additional"
	FlagProgress         = "progress"
	FlagOutputDir        = "output-dir"
)

// formatFlags select a non-text output format
var formatFlags = []string{"html", "json", "csv", "yaml"}

// DataClumpsConfigurationLoaderWithFlags wraps configuration loading with explicit flag tracking
type DataClumpsConfigurationLoaderWithFlags struct {
	loader      *DataClumpsConfigurationLoaderImpl
	flagTracker *config.FlagTracker
}

// NewDataClumpsConfigurationLoaderWithFlags creates a new configuration loader that tracks explicit flags
func NewDataClumpsConfigurationLoaderWithFlags(explicitFlags map[string]bool) *DataClumpsConfigurationLoaderWithFlags {
	return &DataClumpsConfigurationLoaderWithFlags{
		loader:      NewDataClumpsConfigurationLoader(),
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

// LoadConfig loads configuration from the specified path
func (c *DataClumpsConfigurationLoaderWithFlags) LoadConfig(path string) (*domain.DataClumpsRequest, error) {
	return c.loader.LoadConfig(path)
}

// LoadDefaultConfig loads the default configuration
func (c *DataClumpsConfigurationLoaderWithFlags) LoadDefaultConfig() *domain.DataClumpsRequest {
	return c.loader.LoadDefaultConfig()
}

// MergeConfig merges CLI flags with configuration file, respecting explicit flags.
// A flag that was not set on the command line never overrides a file value.
func (c *DataClumpsConfigurationLoaderWithFlags) MergeConfig(base *domain.DataClumpsRequest, override *domain.DataClumpsRequest) *domain.DataClumpsRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	ft := c.flagTracker
	merged := *base

	// Always override paths as they come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if override.OutputFormat != "" && ft.WasAnySet(formatFlags...) {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	// Output path and no-open are derived from format flags, never from the file
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	merged.NoOpen = override.NoOpen
	merged.OutputDirectory = ft.MergeString(merged.OutputDirectory, override.OutputDirectory, FlagOutputDir)
	merged.ShowDetails = ft.MergeBool(merged.ShowDetails, override.ShowDetails, FlagDetails)
	merged.ShowProgress = ft.MergeBool(merged.ShowProgress, override.ShowProgress, FlagProgress)
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	// Input collection
	merged.Recursive = ft.MergeBoolPtr(merged.Recursive, override.Recursive, FlagRecursive)
	merged.IncludePatterns = ft.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, FlagInclude)
	merged.ExcludePatterns = ft.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, FlagExclude)

	// Detector options
	opts := merged.Options
	opts.TypeVariablesConsidered = ft.MergeBool(opts.TypeVariablesConsidered, override.Options.TypeVariablesConsidered, FlagTypeVariables)
	opts.SharedFieldParametersMinimum = ft.MergeInt(opts.SharedFieldParametersMinimum, override.Options.SharedFieldParametersMinimum, FlagMinFields)
	opts.SharedFieldParametersCheckIfAreSubtypes = ft.MergeBool(opts.SharedFieldParametersCheckIfAreSubtypes, override.Options.SharedFieldParametersCheckIfAreSubtypes, FlagFieldSubtypes)
	opts.SubclassInheritsAllMembersFromSuperclass = ft.MergeBool(opts.SubclassInheritsAllMembersFromSuperclass, override.Options.SubclassInheritsAllMembersFromSuperclass, FlagInheritAll)
	opts.SharedMethodParametersMinimum = ft.MergeInt(opts.SharedMethodParametersMinimum, override.Options.SharedMethodParametersMinimum, FlagMinParams)
	opts.SharedMethodParametersHierarchyConsidered = ft.MergeBool(opts.SharedMethodParametersHierarchyConsidered, override.Options.SharedMethodParametersHierarchyConsidered, FlagHierarchy)
	opts.AnalyseMethodsWithUnknownHierarchy = ft.MergeBool(opts.AnalyseMethodsWithUnknownHierarchy, override.Options.AnalyseMethodsWithUnknownHierarchy, FlagUnknownHierarchy)
	merged.Options = opts

	// Project metadata
	merged.ProjectName = ft.MergeString(merged.ProjectName, override.ProjectName, FlagProjectName)
	merged.ProjectVersion = ft.MergeString(merged.ProjectVersion, override.ProjectVersion, FlagProjectVersion)
	merged.ProjectCommit = ft.MergeString(merged.ProjectCommit, override.ProjectCommit, FlagProjectCommit)
	merged.TargetLanguage = ft.MergeString(merged.TargetLanguage, override.TargetLanguage, FlagLanguage)
	if override.DetectorVersion != "" {
		merged.DetectorVersion = override.DetectorVersion
	}
	if ft.WasSet(FlagAdditional) {
		merged.Additional = mergeAdditional(merged.Additional, override.Additional)
	} else {
		merged.Additional = mergeAdditional(merged.Additional, nil)
	}

	return &merged
}
