package analyzer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/version"
)

const tracerName = "github.com/ludo-technologies/clumpscan/internal/analyzer"

// DetectorState is the lifecycle state of a Detector
type DetectorState int

const (
	StateConstructed DetectorState = iota
	StateDetecting
	StateCompleted
)

// String returns the state name
func (s DetectorState) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateDetecting:
		return "detecting"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ProjectMetadata identifies the analyzed project in the report.
// Empty strings are reported as "unknown".
type ProjectMetadata struct {
	ProjectName     string
	ProjectVersion  string
	ProjectCommit   string
	TargetLanguage  string
	DetectorVersion string
	Additional      map[string]domain.PrimitiveValue
}

// DetectorConfig configures a Detector
type DetectorConfig struct {
	Options  domain.DetectorOptions
	Progress domain.ProgressFunc
	Logger   *slog.Logger
	Project  ProjectMetadata

	// Clock overrides time.Now for timestamps and timing
	Clock func() time.Time
}

// Detector runs both sub-detectors over an index and assembles the report.
// A Detector is not safe for concurrent use.
type Detector struct {
	index     *EntityIndex
	hierarchy *Hierarchy
	config    DetectorConfig
	logger    *slog.Logger
	clock     func() time.Time
	timer     *Timer
	state     DetectorState
}

// NewDetector validates the options and creates a detector over idx
func NewDetector(idx *EntityIndex, config DetectorConfig) (*Detector, error) {
	if idx == nil {
		return nil, domain.NewInvalidInputError("entity index is required", nil)
	}
	if err := config.Options.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = discardLogger()
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Detector{
		index:     idx,
		hierarchy: NewHierarchy(idx),
		config:    config,
		logger:    logger,
		clock:     clock,
		timer:     NewTimer(clock),
		state:     StateConstructed,
	}, nil
}

// State returns the current lifecycle state
func (d *Detector) State() DetectorState {
	return d.state
}

// Elapsed returns the duration of the last run
func (d *Detector) Elapsed() time.Duration {
	return d.timer.Elapsed()
}

// Detect runs method detection then field detection and merges both into a
// report. Records with equal keys overwrite earlier ones; the summary count is
// taken after both merges.
func (d *Detector) Detect(ctx context.Context) *domain.DataClumpsReport {
	tr := otel.Tracer(tracerName)
	ctx, span := tr.Start(ctx, "clumpscan.detect")
	defer span.End()

	d.state = StateDetecting
	d.timer.Start()
	d.logger.Info("detecting data clumps", "entities", len(d.index.ClassKeys()))

	report := d.newReport()

	methodClumps := d.runStage(ctx, "clumpscan.detect.methods", func() map[string]*domain.DataClump {
		return NewMethodDetector(d.index, d.hierarchy, d.config.Options, d.config.Progress, d.logger).Detect()
	})
	for key, clump := range methodClumps {
		report.DataClumps[key] = clump
	}

	fieldClumps := d.runStage(ctx, "clumpscan.detect.fields", func() map[string]*domain.DataClump {
		return NewFieldDetector(d.index, d.hierarchy, d.config.Options, d.config.Progress, d.logger).Detect()
	})
	for key, clump := range fieldClumps {
		report.DataClumps[key] = clump
	}

	report.ReportSummary.AmountDataClumps = len(report.DataClumps)

	d.timer.Stop()
	d.state = StateCompleted
	d.logger.Info("data clump detection done",
		"data_clumps", report.ReportSummary.AmountDataClumps,
		"elapsed", d.timer.Elapsed().String())

	span.SetAttributes(
		attribute.Int("clumpscan.data_clumps", report.ReportSummary.AmountDataClumps),
		attribute.Int64("clumpscan.elapsed_ms", d.timer.Elapsed().Milliseconds()),
	)
	return report
}

func (d *Detector) runStage(ctx context.Context, name string, run func() map[string]*domain.DataClump) map[string]*domain.DataClump {
	_, span := otel.Tracer(tracerName).Start(ctx, name)
	defer span.End()

	clumps := run()
	span.AddEvent("stage.done", trace.WithAttributes(attribute.Int("clumpscan.stage_clumps", len(clumps))))
	return clumps
}

func (d *Detector) newReport() *domain.DataClumpsReport {
	project := d.config.Project
	additional := make(map[string]domain.PrimitiveValue, len(project.Additional))
	for k, v := range project.Additional {
		additional[k] = v
	}

	return &domain.DataClumpsReport{
		ReportVersion:   domain.ReportVersion,
		ReportTimestamp: d.clock().UTC().Format(time.RFC3339Nano),
		TargetLanguage:  orUnknown(project.TargetLanguage),
		ProjectInfo: domain.ProjectInfo{
			ProjectName:    orUnknown(project.ProjectName),
			ProjectVersion: orUnknown(project.ProjectVersion),
			ProjectCommit:  orUnknown(project.ProjectCommit),
			Additional:     additional,
		},
		Detector: domain.DetectorInfo{
			Name:    domain.DetectorName,
			Version: orDefault(project.DetectorVersion, version.Short()),
			Options: d.config.Options.Snapshot(),
		},
		DataClumps: make(map[string]*domain.DataClump),
	}
}

func orUnknown(s string) string {
	return orDefault(s, domain.UnknownValue)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
