package domain

import (
	"context"
	"io"
)

// ProgressFunc receives detection progress. stage is "methods" or "fields".
type ProgressFunc func(stage string, processed, total int)

// DataClumpsRequest represents a request for data clump detection
type DataClumpsRequest struct {
	// Input files or directories containing parsed-AST JSON documents
	Paths []string

	// Output configuration
	OutputFormat    OutputFormat
	OutputWriter    io.Writer
	OutputPath      string // Path to save output file (for non-text formats)
	OutputDirectory string // Directory for generated report files when OutputPath is unset
	NoOpen          bool   // Don't auto-open HTML in browser
	ShowDetails     bool

	// Configuration
	ConfigPath string

	// Input collection
	Recursive       *bool
	IncludePatterns []string
	ExcludePatterns []string

	// Detector options
	Options DetectorOptions

	// Project metadata echoed in the report
	ProjectName     string
	ProjectVersion  string
	ProjectCommit   string
	TargetLanguage  string
	DetectorVersion string
	Additional      map[string]PrimitiveValue

	// Show a progress bar on interactive terminals
	ShowProgress bool
}

// DefaultDataClumpsRequest returns a request populated with default values
func DefaultDataClumpsRequest() *DataClumpsRequest {
	return &DataClumpsRequest{
		OutputFormat:    OutputFormatText,
		Recursive:       BoolPtr(true),
		IncludePatterns: []string{"**/*.json"},
		ExcludePatterns: []string{},
		Options:         DefaultDetectorOptions(),
		ProjectName:     UnknownValue,
		ProjectVersion:  UnknownValue,
		ProjectCommit:   UnknownValue,
		TargetLanguage:  UnknownValue,
		Additional:      map[string]PrimitiveValue{},
	}
}

// DataClumpsService defines the interface for data clump detection
type DataClumpsService interface {
	// Analyze reads every document in req.Paths and detects data clumps across them
	Analyze(ctx context.Context, req DataClumpsRequest) (*DataClumpsReport, error)

	// AnalyzeEntities detects data clumps across already decoded entities
	AnalyzeEntities(ctx context.Context, entities []*ClassOrInterface, req DataClumpsRequest) (*DataClumpsReport, error)
}

// FileReader defines the interface for collecting and reading parsed-AST documents
type FileReader interface {
	// CollectInputFiles finds all JSON documents in the given paths
	CollectInputFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidInputFile checks if a file looks like a parsed-AST document
	IsValidInputFile(path string) bool

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)
}

// DataClumpsOutputFormatter defines the interface for formatting data clump reports
type DataClumpsOutputFormatter interface {
	// Format formats the report according to the specified format
	Format(report *DataClumpsReport, format OutputFormat) (string, error)

	// Write writes the formatted report to the writer
	Write(report *DataClumpsReport, format OutputFormat, writer io.Writer) error
}

// DataClumpsConfigurationLoader defines the interface for loading data clump configuration
type DataClumpsConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*DataClumpsRequest, error)

	// LoadDefaultConfig discovers .clumpscan.toml from the working directory, falling back to defaults
	LoadDefaultConfig() *DataClumpsRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *DataClumpsRequest, override *DataClumpsRequest) *DataClumpsRequest
}
