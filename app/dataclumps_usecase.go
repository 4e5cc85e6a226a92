package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/clumpscan/domain"
)

// DataClumpsUseCase orchestrates the data clump detection workflow
type DataClumpsUseCase struct {
	service      domain.DataClumpsService
	fileReader   domain.FileReader
	formatter    domain.DataClumpsOutputFormatter
	configLoader domain.DataClumpsConfigurationLoader
	output       domain.ReportWriter
	now          func() time.Time
}

// detailFormatter is implemented by formatters that can list every matched member
type detailFormatter interface {
	SetShowDetails(show bool)
}

// NewDataClumpsUseCase creates a new data clumps use case
func NewDataClumpsUseCase(
	service domain.DataClumpsService,
	fileReader domain.FileReader,
	formatter domain.DataClumpsOutputFormatter,
	configLoader domain.DataClumpsConfigurationLoader,
	output domain.ReportWriter,
) *DataClumpsUseCase {
	return &DataClumpsUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
		now:          time.Now,
	}
}

// Execute performs the complete detection workflow and writes the report
func (uc *DataClumpsUseCase) Execute(ctx context.Context, req domain.DataClumpsRequest) error {
	report, finalReq, err := uc.run(ctx, req)
	if err != nil {
		return err
	}

	outputPath, err := ResolveOutputPath(finalReq, uc.now())
	if err != nil {
		return domain.NewInvalidInputError("invalid output destination", err)
	}

	if df, ok := uc.formatter.(detailFormatter); ok {
		df.SetShowDetails(finalReq.ShowDetails)
	}

	var out io.Writer
	if outputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, outputPath, finalReq.OutputFormat, finalReq.NoOpen, func(w io.Writer) error {
		return uc.formatter.Write(report, finalReq.OutputFormat, w)
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}

	return nil
}

// AnalyzeAndReturn performs detection and returns the report without formatting
func (uc *DataClumpsUseCase) AnalyzeAndReturn(ctx context.Context, req domain.DataClumpsRequest) (*domain.DataClumpsReport, error) {
	report, _, err := uc.run(ctx, req)
	return report, err
}

func (uc *DataClumpsUseCase) run(ctx context.Context, req domain.DataClumpsRequest) (*domain.DataClumpsReport, domain.DataClumpsRequest, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, req, domain.NewInvalidInputError("invalid request", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, req, domain.NewConfigError("failed to load configuration", err)
	}

	if err := uc.validateMerged(finalReq); err != nil {
		return nil, finalReq, err
	}

	report, err := uc.service.Analyze(ctx, finalReq)
	if err != nil {
		return nil, finalReq, err
	}
	return report, finalReq, nil
}

// validateRequest validates the request as received from the caller
func (uc *DataClumpsUseCase) validateRequest(req domain.DataClumpsRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if req.OutputFormat != "" && !req.OutputFormat.IsValid() {
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}
	return nil
}

// validateMerged validates the request after configuration has been applied
func (uc *DataClumpsUseCase) validateMerged(req domain.DataClumpsRequest) error {
	if req.OutputFormat != "" && !req.OutputFormat.IsValid() {
		return domain.NewUnsupportedFormatError(string(req.OutputFormat))
	}
	return req.Options.Validate()
}

// loadAndMergeConfig loads configuration from file and merges with request.
// Without an explicit config path, discovery starts next to the first input path.
func (uc *DataClumpsUseCase) loadAndMergeConfig(req domain.DataClumpsRequest) (domain.DataClumpsRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	var (
		configReq *domain.DataClumpsRequest
		err       error
	)

	if req.ConfigPath != "" {
		configReq, err = uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigPath, err)
		}
	} else {
		searchDir := ResolveConfigSearchDir(uc.fileReader, req.Paths[0])
		configReq, err = uc.configLoader.LoadConfig(searchDir)
		if err != nil {
			return req, err
		}
	}

	if configReq != nil {
		merged := uc.configLoader.MergeConfig(configReq, &req)
		return *merged, nil
	}

	return req, nil
}

// DataClumpsUseCaseBuilder provides a builder pattern for creating DataClumpsUseCase
type DataClumpsUseCaseBuilder struct {
	service      domain.DataClumpsService
	fileReader   domain.FileReader
	formatter    domain.DataClumpsOutputFormatter
	configLoader domain.DataClumpsConfigurationLoader
	output       domain.ReportWriter
	now          func() time.Time
}

// NewDataClumpsUseCaseBuilder creates a new builder
func NewDataClumpsUseCaseBuilder() *DataClumpsUseCaseBuilder {
	return &DataClumpsUseCaseBuilder{}
}

// WithService sets the data clumps service
func (b *DataClumpsUseCaseBuilder) WithService(service domain.DataClumpsService) *DataClumpsUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *DataClumpsUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *DataClumpsUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *DataClumpsUseCaseBuilder) WithFormatter(formatter domain.DataClumpsOutputFormatter) *DataClumpsUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *DataClumpsUseCaseBuilder) WithConfigLoader(configLoader domain.DataClumpsConfigurationLoader) *DataClumpsUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *DataClumpsUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *DataClumpsUseCaseBuilder {
	b.output = output
	return b
}

// WithClock sets the clock used to name generated report files
func (b *DataClumpsUseCaseBuilder) WithClock(now func() time.Time) *DataClumpsUseCaseBuilder {
	b.now = now
	return b
}

// Build creates the DataClumpsUseCase with the configured dependencies
func (b *DataClumpsUseCaseBuilder) Build() (*DataClumpsUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("data clumps service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.output == nil {
		return nil, fmt.Errorf("report writer is required")
	}

	uc := NewDataClumpsUseCase(b.service, b.fileReader, b.formatter, b.configLoader, b.output)
	if b.now != nil {
		uc.now = b.now
	}
	return uc, nil
}
