package analyzer

import (
	"fmt"
	"log/slog"

	"github.com/ludo-technologies/clumpscan/domain"
)

// ProgressStageFields is the stage name reported by the field detector
const ProgressStageFields = "fields"

// FieldDetector finds groups of fields shared between pairs of classes
type FieldDetector struct {
	index     *EntityIndex
	hierarchy *Hierarchy
	options   domain.DetectorOptions
	matcher   *Matcher
	progress  domain.ProgressFunc
	logger    *slog.Logger
	scopes    map[string]map[string]struct{}
}

// NewFieldDetector creates a field detector over idx
func NewFieldDetector(idx *EntityIndex, hierarchy *Hierarchy, options domain.DetectorOptions, progress domain.ProgressFunc, logger *slog.Logger) *FieldDetector {
	if logger == nil {
		logger = discardLogger()
	}
	return &FieldDetector{
		index:     idx,
		hierarchy: hierarchy,
		options:   options,
		matcher: NewMatcher(hierarchy, MatchRules{
			CheckSubtypes:           options.SharedFieldParametersCheckIfAreSubtypes,
			TypeVariablesConsidered: options.TypeVariablesConsidered,
		}),
		progress: progress,
		logger:   logger,
		scopes:   make(map[string]map[string]struct{}),
	}
}

// Detect compares every unordered pair of classes once. The class with the
// lower key is the "from" side of each record.
func (d *FieldDetector) Detect() map[string]*domain.DataClump {
	classes := d.index.Classes(domain.KindClass)
	clumps := make(map[string]*domain.DataClump)

	for i, from := range classes {
		for _, to := range classes[i+1:] {
			if clump := d.detectPair(from, to); clump != nil {
				clumps[clump.Key] = clump
			}
		}
		if d.progress != nil {
			d.progress(ProgressStageFields, i+1, len(classes))
		}
	}

	d.logger.Debug("field clump detection finished", "classes", len(classes), "clumps", len(clumps))
	return clumps
}

func (d *FieldDetector) detectPair(from, to *domain.ClassOrInterface) *domain.DataClump {
	fromFields, toFields, ok := d.comparableFields(from, to)
	if !ok {
		return nil
	}

	fromCandidates := d.candidates(fromFields)
	toCandidates := d.candidates(toFields)
	pairs := d.matcher.CommonPairs(fromCandidates, toCandidates)
	if len(pairs) < d.options.SharedFieldParametersMinimum {
		return nil
	}

	variables, names := RebuildMatched(pairs, fromCandidates, toCandidates)
	return &domain.DataClump{
		Type:                     domain.DataClumpKind,
		Key:                      fmt.Sprintf("%s-%s-%s-%s-%s", domain.DataClumpTypeFields, from.FilePath, from.Key, to.Key, names),
		Probability:              1,
		FromFilePath:             from.FilePath,
		FromClassOrInterfaceName: from.Name,
		FromClassOrInterfaceKey:  from.Key,
		ToFilePath:               to.FilePath,
		ToClassOrInterfaceName:   to.Name,
		ToClassOrInterfaceKey:    to.Key,
		DataClumpType:            domain.DataClumpTypeFields,
		DataClumpData:            variables,
	}
}

// comparableFields selects the fields each side contributes. ok is false when
// the pair must be skipped.
func (d *FieldDetector) comparableFields(from, to *domain.ClassOrInterface) (fromFields, toFields []*domain.Field, ok bool) {
	if !d.options.SubclassInheritsAllMembersFromSuperclass {
		return ownFields(from), ownFields(to), true
	}

	switch {
	case d.hierarchy.IsAncestor(from, to):
		if !d.hierarchy.IsHierarchyKnown(to) {
			return nil, nil, false
		}
		return d.allFields(from), ownFields(to), true
	case d.hierarchy.IsAncestor(to, from):
		if !d.hierarchy.IsHierarchyKnown(from) {
			return nil, nil, false
		}
		return ownFields(from), d.allFields(to), true
	default:
		return d.allFields(from), d.allFields(to), true
	}
}

func (d *FieldDetector) allFields(c *domain.ClassOrInterface) []*domain.Field {
	return append(ownFields(c), d.hierarchy.InheritedFields(c)...)
}

func (d *FieldDetector) candidates(fields []*domain.Field) []Candidate {
	out := make([]Candidate, 0, len(fields))
	for _, f := range fields {
		out = append(out, Candidate{
			Member:        f.TypedMember,
			TypeVariables: d.scopeOf(f.ClassOrInterfaceKey),
		})
	}
	return out
}

func (d *FieldDetector) scopeOf(ownerKey string) map[string]struct{} {
	if scope, ok := d.scopes[ownerKey]; ok {
		return scope
	}
	var scope map[string]struct{}
	if owner, ok := d.index.Class(ownerKey); ok {
		scope = d.hierarchy.TypeScope(owner)
	}
	d.scopes[ownerKey] = scope
	return scope
}
