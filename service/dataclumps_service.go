package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/minio/highwayhash"

	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/analyzer"
	"github.com/ludo-technologies/clumpscan/internal/parser"
)

// Additional metadata keys recorded by the service
const (
	AdditionalInputDigest    = "input_digest"
	AdditionalInputDocuments = "input_documents"
)

// digestKey is the fixed HighwayHash key for input digests. Digests only need
// to be stable across runs, not secret.
var digestKey = []byte("clumpscan-input-digest-key-00001")

// DataClumpsServiceImpl implements the DataClumpsService interface
type DataClumpsServiceImpl struct {
	parser     *parser.Parser
	fileReader domain.FileReader
	progress   domain.ProgressManager
	logger     *slog.Logger
	clock      func() time.Time
}

// NewDataClumpsService creates a new data clumps service implementation
func NewDataClumpsService() (*DataClumpsServiceImpl, error) {
	p, err := parser.New()
	if err != nil {
		return nil, domain.NewAnalysisError("failed to initialize document parser", err)
	}
	return &DataClumpsServiceImpl{
		parser:     p,
		fileReader: NewFileReader(),
		progress:   NewNoOpProgressManager(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:      time.Now,
	}, nil
}

// SetFileReader replaces the reader used to collect and read documents
func (s *DataClumpsServiceImpl) SetFileReader(reader domain.FileReader) {
	s.fileReader = reader
}

// SetProgressManager injects the progress manager used when ShowProgress is set
func (s *DataClumpsServiceImpl) SetProgressManager(pm domain.ProgressManager) {
	s.progress = pm
}

// SetLogger injects a structured logger
func (s *DataClumpsServiceImpl) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetClock overrides the time source for report timestamps
func (s *DataClumpsServiceImpl) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// Analyze reads, validates and decodes every document in req.Paths and
// detects data clumps across all of them. Any unreadable or invalid document
// aborts the run.
func (s *DataClumpsServiceImpl) Analyze(ctx context.Context, req domain.DataClumpsRequest) (*domain.DataClumpsReport, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no input paths provided", nil)
	}

	files, err := s.fileReader.CollectInputFiles(req.Paths, domain.BoolValue(req.Recursive, true), req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewEmptyInputError("documents", "the given paths")
	}
	sort.Strings(files)
	s.logger.Debug("collected input documents", "count", len(files))

	progress := s.progressFor(req)
	defer progress.Close()

	entities, digest, err := s.readDocuments(ctx, files, progress)
	if err != nil {
		progress.Complete(false)
		return nil, err
	}
	progress.Complete(true)

	if len(entities) == 0 {
		return nil, domain.NewEmptyInputError("classes or interfaces", "the input documents")
	}

	additional := copyAdditional(req.Additional)
	additional[AdditionalInputDigest] = domain.StringValue(digest)
	additional[AdditionalInputDocuments] = domain.IntValue(int64(len(files)))

	return s.detect(ctx, entities, req, additional, progress)
}

// AnalyzeEntities detects data clumps across already decoded entities
func (s *DataClumpsServiceImpl) AnalyzeEntities(ctx context.Context, entities []*domain.ClassOrInterface, req domain.DataClumpsRequest) (*domain.DataClumpsReport, error) {
	progress := s.progressFor(req)
	defer progress.Close()

	return s.detect(ctx, entities, req, copyAdditional(req.Additional), progress)
}

// readDocuments decodes files in order, checking ctx between documents, and
// returns the entities together with a digest over the document contents
func (s *DataClumpsServiceImpl) readDocuments(ctx context.Context, files []string, progress domain.ProgressManager) ([]*domain.ClassOrInterface, string, error) {
	hasher, err := highwayhash.New64(digestKey)
	if err != nil {
		return nil, "", domain.NewAnalysisError("failed to initialize input digest", err)
	}

	progress.Initialize(len(files))
	progress.Start()

	var entities []*domain.ClassOrInterface
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, "", fmt.Errorf("reading documents cancelled: %w", err)
		}

		content, err := s.fileReader.ReadFile(file)
		if err != nil {
			return nil, "", err
		}
		parsed, err := s.parser.Parse(content)
		if err != nil {
			s.logger.Debug("rejected input document", "file", file, "error", err)
			return nil, "", domain.NewParseError(file, err)
		}
		for _, entity := range parsed {
			if entity.FilePath == "" {
				entity.FilePath = file
			}
		}
		entities = append(entities, parsed...)

		hasher.Write(content)
		hasher.Write([]byte{0})
		progress.Update(i+1, len(files))
	}

	return entities, fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (s *DataClumpsServiceImpl) detect(ctx context.Context, entities []*domain.ClassOrInterface, req domain.DataClumpsRequest, additional map[string]domain.PrimitiveValue, progress domain.ProgressManager) (*domain.DataClumpsReport, error) {
	idx := analyzer.BuildEntityIndex(entities)
	info := idx.Info()
	s.logger.Debug("built entity index",
		"classes", info.Classes,
		"interfaces", info.Interfaces,
		"fields", info.Fields,
		"methods", info.Methods,
		"parameters", info.Parameters,
	)

	detector, err := analyzer.NewDetector(idx, analyzer.DetectorConfig{
		Options:  req.Options,
		Progress: progress.UpdateStage,
		Logger:   s.logger,
		Clock:    s.clock,
		Project: analyzer.ProjectMetadata{
			ProjectName:     req.ProjectName,
			ProjectVersion:  req.ProjectVersion,
			ProjectCommit:   req.ProjectCommit,
			TargetLanguage:  req.TargetLanguage,
			DetectorVersion: req.DetectorVersion,
			Additional:      additional,
		},
	})
	if err != nil {
		return nil, err
	}

	return detector.Detect(ctx), nil
}

func (s *DataClumpsServiceImpl) progressFor(req domain.DataClumpsRequest) domain.ProgressManager {
	if req.ShowProgress && s.progress != nil {
		return s.progress
	}
	return NewNoOpProgressManager()
}

func copyAdditional(in map[string]domain.PrimitiveValue) map[string]domain.PrimitiveValue {
	out := make(map[string]domain.PrimitiveValue, len(in)+2)
	for k, v := range in {
		out[k] = v
	}
	return out
}
