package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/clumpscan/app"
	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/version"
	"github.com/ludo-technologies/clumpscan/service"
)

// DetectCommand represents the detect command
type DetectCommand struct {
	// Detector options
	typeVariables    bool
	minFields        int
	fieldSubtypes    bool
	inheritAll       bool
	minParams        int
	hierarchy        bool
	unknownHierarchy bool

	// Output format flags
	json bool
	yaml bool
	csv  bool
	html bool

	outputPath string
	outputDir  string
	noOpen     bool
	details    bool
	progress   bool

	// File selection
	recursive       bool
	includePatterns []string
	excludePatterns []string
	configPath      string

	// Project metadata
	projectName    string
	projectVersion string
	projectCommit  string
	language       string
	additional     []string
}

// NewDetectCommand creates a new detect command with default flag values
func NewDetectCommand() *DetectCommand {
	defaults := domain.DefaultDataClumpsRequest()
	return &DetectCommand{
		minFields:       defaults.Options.SharedFieldParametersMinimum,
		minParams:       defaults.Options.SharedMethodParametersMinimum,
		recursive:       true,
		includePatterns: defaults.IncludePatterns,
		excludePatterns: []string{},
	}
}

// CreateCobraCommand creates the cobra command for data clump detection
func (c *DetectCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [paths...]",
		Short: "Detect data clumps in parsed-AST documents",
		Long: `Detect data clumps across parsed-AST JSON documents.

A field clump is reported when two classes share at least --min-fields
similar fields. A parameter clump is reported when two methods share at
least --min-params similar parameters.

Examples:
  clumpscan detect ast/                       # Text report on stdout
  clumpscan detect --min-fields 4 ast/        # Require four shared fields
  clumpscan detect --type-variables ast/      # Let generic types match
  clumpscan detect --json ast/                # JSON report file
  clumpscan detect --json --output - ast/     # JSON on stdout
  clumpscan detect --html --no-open ast/      # HTML report, no browser
  clumpscan detect --additional build=17 ast/ # Extra report metadata`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runDetect,
	}

	flags := cmd.Flags()

	// Detector options
	flags.BoolVar(&c.typeVariables, service.FlagTypeVariables, false, "Let types mentioning a type variable match")
	flags.IntVar(&c.minFields, service.FlagMinFields, c.minFields, "Minimum number of shared fields")
	flags.BoolVar(&c.fieldSubtypes, service.FlagFieldSubtypes, false, "Accept field types related by subtyping")
	flags.BoolVar(&c.inheritAll, service.FlagInheritAll, false, "Subclasses inherit all superclass fields")
	flags.IntVar(&c.minParams, service.FlagMinParams, c.minParams, "Minimum number of shared method parameters")
	flags.BoolVar(&c.hierarchy, service.FlagHierarchy, false, "Compare methods within one class hierarchy")
	flags.BoolVar(&c.unknownHierarchy, service.FlagUnknownHierarchy, false, "Analyze methods whose hierarchy is not fully known")

	// Output options
	flags.BoolVar(&c.json, "json", false, "Generate JSON report file")
	flags.BoolVar(&c.yaml, "yaml", false, "Generate YAML report file")
	flags.BoolVar(&c.csv, "csv", false, "Generate CSV report file")
	flags.BoolVar(&c.html, "html", false, "Generate HTML report file")
	flags.StringVarP(&c.outputPath, "output", "o", "", "Report file path ('-' for stdout)")
	flags.StringVar(&c.outputDir, service.FlagOutputDir, "", "Directory for generated report files")
	flags.BoolVar(&c.noOpen, "no-open", false, "Don't auto-open HTML in browser")
	flags.BoolVar(&c.details, service.FlagDetails, false, "List every matched member in text output")
	flags.BoolVar(&c.progress, service.FlagProgress, false, "Show a progress bar on interactive terminals")

	// File selection options
	flags.BoolVarP(&c.recursive, service.FlagRecursive, "r", true, "Recursively analyze subdirectories")
	flags.StringSliceVar(&c.includePatterns, service.FlagInclude, c.includePatterns, "Include file patterns")
	flags.StringSliceVar(&c.excludePatterns, service.FlagExclude, c.excludePatterns, "Exclude file patterns")
	flags.StringVarP(&c.configPath, "config", "c", "", "Configuration file path")

	// Project metadata
	flags.StringVar(&c.projectName, service.FlagProjectName, domain.UnknownValue, "Project name recorded in the report")
	flags.StringVar(&c.projectVersion, service.FlagProjectVersion, domain.UnknownValue, "Project version recorded in the report")
	flags.StringVar(&c.projectCommit, service.FlagProjectCommit, domain.UnknownValue, "Project commit recorded in the report")
	flags.StringVar(&c.language, service.FlagLanguage, domain.UnknownValue, "Target language recorded in the report")
	flags.StringArrayVar(&c.additional, service.FlagAdditional, nil, "Additional report metadata as key=value (repeatable)")

	return cmd
}

// runDetect executes the detect command
func (c *DetectCommand) runDetect(cmd *cobra.Command, args []string) error {
	request, err := c.buildRequest(cmd, args)
	if err != nil {
		return err
	}

	useCase, err := c.createUseCase(cmd)
	if err != nil {
		return fmt.Errorf("failed to create detect use case: %w", err)
	}

	return useCase.Execute(cmd.Context(), request)
}

// buildRequest creates the detection request from flags and arguments
func (c *DetectCommand) buildRequest(cmd *cobra.Command, args []string) (domain.DataClumpsRequest, error) {
	format, _, err := service.NewOutputFormatResolver().Determine(c.html, c.json, c.csv, c.yaml)
	if err != nil {
		return domain.DataClumpsRequest{}, err
	}

	additional, err := parseAdditional(c.additional)
	if err != nil {
		return domain.DataClumpsRequest{}, err
	}

	request := domain.DataClumpsRequest{
		Paths:           args,
		OutputFormat:    format,
		OutputPath:      c.outputPath,
		OutputDirectory: c.outputDir,
		NoOpen:          c.noOpen,
		ShowDetails:     c.details,
		ConfigPath:      c.configPath,
		Recursive:       domain.BoolPtr(c.recursive),
		IncludePatterns: c.includePatterns,
		ExcludePatterns: c.excludePatterns,
		Options: domain.DetectorOptions{
			TypeVariablesConsidered:                   c.typeVariables,
			SharedFieldParametersMinimum:              c.minFields,
			SharedFieldParametersCheckIfAreSubtypes:   c.fieldSubtypes,
			SubclassInheritsAllMembersFromSuperclass:  c.inheritAll,
			SharedMethodParametersMinimum:             c.minParams,
			SharedMethodParametersHierarchyConsidered: c.hierarchy,
			AnalyseMethodsWithUnknownHierarchy:        c.unknownHierarchy,
		},
		ProjectName:     c.projectName,
		ProjectVersion:  c.projectVersion,
		ProjectCommit:   c.projectCommit,
		TargetLanguage:  c.language,
		DetectorVersion: version.Short(),
		Additional:      additional,
		ShowProgress:    c.progress,
	}

	// Text and "-" stream to stdout; report formats go to a file
	switch {
	case c.outputPath == "-":
		request.OutputPath = ""
		request.OutputWriter = cmd.OutOrStdout()
	case c.outputPath == "" && format == domain.OutputFormatText:
		request.OutputWriter = cmd.OutOrStdout()
	}

	return request, nil
}

// createUseCase wires the detect use case
func (c *DetectCommand) createUseCase(cmd *cobra.Command) (*app.DataClumpsUseCase, error) {
	logger := newLogger(cmd.ErrOrStderr())

	detector, err := service.NewDataClumpsService()
	if err != nil {
		return nil, err
	}
	detector.SetLogger(logger)
	if c.progress {
		progress := service.NewProgressManager()
		progress.SetWriter(cmd.ErrOrStderr())
		detector.SetProgressManager(progress)
	}

	return app.NewDataClumpsUseCaseBuilder().
		WithService(detector).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewDataClumpsFormatter()).
		WithConfigLoader(service.NewDataClumpsConfigurationLoaderWithFlags(GetExplicitFlags(cmd))).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// GetExplicitFlags returns the names of the flags set on the command line
func GetExplicitFlags(cmd *cobra.Command) map[string]bool {
	explicitFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().Visit(func(f *pflag.Flag) {
			explicitFlags[f.Name] = true
		})
	}
	return explicitFlags
}

// parseAdditional converts key=value pairs into report metadata. Values are
// read as YAML scalars, so "17" is an integer and "true" a boolean.
func parseAdditional(pairs []string) (map[string]domain.PrimitiveValue, error) {
	additional := make(map[string]domain.PrimitiveValue, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid --additional value %q, expected key=value", pair), nil)
		}

		value := domain.StringValue(raw)
		var decoded any
		if err := yaml.Unmarshal([]byte(raw), &decoded); err == nil {
			if primitive, ok := domain.PrimitiveFromAny(decoded); ok {
				value = primitive
			}
		}
		additional[key] = value
	}
	return additional, nil
}

// NewDetectCmd creates and returns the detect cobra command
func NewDetectCmd() *cobra.Command {
	return NewDetectCommand().CreateCobraCommand()
}
