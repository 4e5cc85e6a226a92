package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/version"
)

func fixedClock() func() time.Time {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func sampleProject() []*domain.ClassOrInterface {
	customer := newClass("Customer", personFields()...)
	addMethod(customer, "relocate", addressParams()...)
	employee := newClass("Employee", personFields()...)
	addMethod(employee, "move", addressParams()...)
	return []*domain.ClassOrInterface{customer, employee}
}

func TestDetectorReportEnvelope(t *testing.T) {
	idx := BuildEntityIndex(sampleProject())
	detector, err := NewDetector(idx, DetectorConfig{
		Options: domain.DefaultDetectorOptions(),
		Clock:   fixedClock(),
		Project: ProjectMetadata{
			ProjectName: "demo",
			Additional:  map[string]domain.PrimitiveValue{"team": domain.StringValue("core")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StateConstructed, detector.State())

	report := detector.Detect(context.Background())

	assert.Equal(t, StateCompleted, detector.State())
	assert.Equal(t, domain.ReportVersion, report.ReportVersion)
	assert.Equal(t, "2024-05-01T12:00:00Z", report.ReportTimestamp)
	assert.Equal(t, domain.UnknownValue, report.TargetLanguage)
	assert.Equal(t, "demo", report.ProjectInfo.ProjectName)
	assert.Equal(t, domain.UnknownValue, report.ProjectInfo.ProjectVersion)
	assert.Equal(t, domain.UnknownValue, report.ProjectInfo.ProjectCommit)
	assert.Equal(t, "core", report.ProjectInfo.Additional["team"].String())
	assert.Equal(t, domain.DetectorName, report.Detector.Name)
	assert.Equal(t, version.Short(), report.Detector.Version)
	assert.Equal(t, domain.DefaultDetectorOptions().Snapshot(), report.Detector.Options)

	assert.Equal(t, 2, report.ReportSummary.AmountDataClumps)
	assert.Len(t, report.DataClumps, report.ReportSummary.AmountDataClumps)

	kinds := map[domain.DataClumpType]int{}
	for key, clump := range report.DataClumps {
		assert.Equal(t, key, clump.Key)
		kinds[clump.DataClumpType]++
	}
	assert.Equal(t, map[domain.DataClumpType]int{
		domain.DataClumpTypeFields:     1,
		domain.DataClumpTypeParameters: 1,
	}, kinds)
}

func TestDetectorEmptyAdditionalIsEmptyMap(t *testing.T) {
	detector, err := NewDetector(NewEntityIndex(), DetectorConfig{Options: domain.DefaultDetectorOptions()})
	require.NoError(t, err)

	report := detector.Detect(context.Background())
	assert.NotNil(t, report.ProjectInfo.Additional)
	assert.Empty(t, report.ProjectInfo.Additional)
	assert.NotNil(t, report.DataClumps)
	assert.Zero(t, report.ReportSummary.AmountDataClumps)
}

func TestDetectorIsIdempotent(t *testing.T) {
	idx := BuildEntityIndex(sampleProject())
	cfg := DetectorConfig{Options: domain.DefaultDetectorOptions(), Clock: fixedClock()}

	first, err := NewDetector(idx, cfg)
	require.NoError(t, err)
	second, err := NewDetector(idx, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Detect(context.Background()).DataClumps, second.Detect(context.Background()).DataClumps)
}

func TestDetectorProgressStages(t *testing.T) {
	idx := BuildEntityIndex(sampleProject())
	var stages []string
	detector, err := NewDetector(idx, DetectorConfig{
		Options: domain.DefaultDetectorOptions(),
		Progress: func(stage string, processed, total int) {
			if processed == total {
				stages = append(stages, stage)
			}
		},
	})
	require.NoError(t, err)

	detector.Detect(context.Background())
	assert.Equal(t, []string{ProgressStageMethods, ProgressStageFields}, stages)
}

func TestNewDetectorRejectsInvalidOptions(t *testing.T) {
	opts := domain.DefaultDetectorOptions()
	opts.SharedMethodParametersMinimum = 0

	_, err := NewDetector(NewEntityIndex(), DetectorConfig{Options: opts})
	assert.Error(t, err)

	_, err = NewDetector(nil, DetectorConfig{Options: domain.DefaultDetectorOptions()})
	assert.Error(t, err)
}

func TestDetectorStateString(t *testing.T) {
	assert.Equal(t, "detecting", StateDetecting.String())
	assert.Equal(t, "unknown", DetectorState(42).String())
}

func TestTimer(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timer := NewTimer(func() time.Time { return now })

	timer.Start()
	now = now.Add(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, timer.Elapsed())

	timer.Stop()
	now = now.Add(time.Hour)
	assert.Equal(t, 1500*time.Millisecond, timer.Elapsed())
}
