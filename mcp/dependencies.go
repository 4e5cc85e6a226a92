package mcp

import (
	"io"
	"log/slog"

	"github.com/ludo-technologies/clumpscan/app"
	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/version"
	"github.com/ludo-technologies/clumpscan/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	configPath string
	logger     *slog.Logger
}

// NewDependencies constructs the dependency set with sane defaults.
// An empty configPath triggers .clumpscan.toml discovery from the analyzed path.
func NewDependencies(configPath string, logger *slog.Logger) *Dependencies {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dependencies{
		fileReader: service.NewFileReader(),
		configPath: configPath,
		logger:     logger,
	}
}

// NewTestDependencies builds a dependency set around a custom file reader
func NewTestDependencies(fr domain.FileReader, configPath string) *Dependencies {
	return &Dependencies{
		fileReader: fr,
		configPath: configPath,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// FileReader returns the reader used to collect and read documents
func (d *Dependencies) FileReader() domain.FileReader {
	return d.fileReader
}

// BuildUseCase assembles a fresh DataClumpsUseCase. explicit names the
// options the caller supplied so that only those override the config file.
func (d *Dependencies) BuildUseCase(explicit map[string]bool) (*app.DataClumpsUseCase, error) {
	svc, err := service.NewDataClumpsService()
	if err != nil {
		return nil, err
	}
	svc.SetFileReader(d.fileReader)
	svc.SetLogger(d.logger.With("tool", "detect_data_clumps", "version", version.Short()))

	return app.NewDataClumpsUseCaseBuilder().
		WithService(svc).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewDataClumpsFormatter()).
		WithConfigLoader(service.NewDataClumpsConfigurationLoaderWithFlags(explicit)).
		WithOutputWriter(service.NewFileOutputWriter(io.Discard)).
		Build()
}
