package analyzer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ludo-technologies/clumpscan/domain"
)

// ProgressStageMethods is the stage name reported by the method detector
const ProgressStageMethods = "methods"

// MethodDetector finds groups of parameters shared between pairs of methods
type MethodDetector struct {
	index     *EntityIndex
	hierarchy *Hierarchy
	options   domain.DetectorOptions
	matcher   *Matcher
	progress  domain.ProgressFunc
	logger    *slog.Logger
}

type methodCandidate struct {
	method     *domain.Method
	owner      *domain.ClassOrInterface
	parameters []Candidate
}

// NewMethodDetector creates a method detector over idx
func NewMethodDetector(idx *EntityIndex, hierarchy *Hierarchy, options domain.DetectorOptions, progress domain.ProgressFunc, logger *slog.Logger) *MethodDetector {
	if logger == nil {
		logger = discardLogger()
	}
	return &MethodDetector{
		index:     idx,
		hierarchy: hierarchy,
		options:   options,
		matcher: NewMatcher(hierarchy, MatchRules{
			TypeVariablesConsidered: options.TypeVariablesConsidered,
		}),
		progress: progress,
		logger:   logger,
	}
}

// Detect compares every unordered pair of eligible methods once. The method
// with the lower key is the "from" side of each record.
func (d *MethodDetector) Detect() map[string]*domain.DataClump {
	methods := d.eligibleMethods()
	clumps := make(map[string]*domain.DataClump)

	for i, from := range methods {
		for _, to := range methods[i+1:] {
			if clump := d.detectPair(from, to); clump != nil {
				clumps[clump.Key] = clump
			}
		}
		if d.progress != nil {
			d.progress(ProgressStageMethods, i+1, len(methods))
		}
	}

	d.logger.Debug("method clump detection finished", "methods", len(methods), "clumps", len(clumps))
	return clumps
}

func (d *MethodDetector) eligibleMethods() []*methodCandidate {
	var out []*methodCandidate
	for _, m := range d.index.Methods() {
		if len(m.Parameters) == 0 {
			continue
		}
		owner, ok := d.index.Class(m.ClassOrInterfaceKey)
		if !ok {
			continue
		}
		if !d.options.AnalyseMethodsWithUnknownHierarchy && !d.hierarchy.IsHierarchyKnown(owner) {
			continue
		}
		if !d.options.SharedMethodParametersHierarchyConsidered && d.isOverride(m, owner) {
			continue
		}
		out = append(out, &methodCandidate{
			method:     m,
			owner:      owner,
			parameters: d.candidates(m, owner),
		})
	}
	return out
}

func (d *MethodDetector) detectPair(from, to *methodCandidate) *domain.DataClump {
	if from.owner.Key == to.owner.Key {
		return nil
	}
	if !d.options.SharedMethodParametersHierarchyConsidered && d.hierarchy.Related(from.owner, to.owner) {
		return nil
	}

	pairs := d.matcher.CommonPairs(from.parameters, to.parameters)
	if len(pairs) < d.options.SharedMethodParametersMinimum {
		return nil
	}

	variables, names := RebuildMatched(pairs, from.parameters, to.parameters)
	return &domain.DataClump{
		Type: domain.DataClumpKind,
		Key: fmt.Sprintf("%s-%s-%s-%s-%s-%s-%s", domain.DataClumpTypeParameters,
			from.owner.FilePath, from.owner.Key, to.owner.Key, from.method.Key, to.method.Key, names),
		Probability:              1,
		FromFilePath:             from.owner.FilePath,
		FromClassOrInterfaceName: from.owner.Name,
		FromClassOrInterfaceKey:  from.owner.Key,
		FromMethodName:           domain.StrPtr(from.method.Name),
		FromMethodKey:            domain.StrPtr(from.method.Key),
		ToFilePath:               to.owner.FilePath,
		ToClassOrInterfaceName:   to.owner.Name,
		ToClassOrInterfaceKey:    to.owner.Key,
		ToMethodName:             domain.StrPtr(to.method.Name),
		ToMethodKey:              domain.StrPtr(to.method.Key),
		DataClumpType:            domain.DataClumpTypeParameters,
		DataClumpData:            variables,
	}
}

// isOverride reports whether m carries an override annotation or redeclares a
// method with the same name and parameter types from a resolvable ancestor.
func (d *MethodDetector) isOverride(m *domain.Method, owner *domain.ClassOrInterface) bool {
	if m.IsConstructor {
		return false
	}
	if m.OverrideAnnotation {
		return true
	}
	signature := parameterSignature(m)
	for _, ancestor := range d.hierarchy.Ancestors(owner) {
		for _, other := range ancestor.Methods {
			if other != nil && other.Name == m.Name && parameterSignature(other) == signature {
				return true
			}
		}
	}
	return false
}

func (d *MethodDetector) candidates(m *domain.Method, owner *domain.ClassOrInterface) []Candidate {
	scope := d.hierarchy.TypeScope(owner)
	for name := range TypeVariableSet(m.TypeParameters) {
		scope[name] = struct{}{}
	}
	out := make([]Candidate, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		if p == nil {
			continue
		}
		out = append(out, Candidate{Member: p.TypedMember, TypeVariables: scope})
	}
	return out
}

func parameterSignature(m *domain.Method) string {
	types := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		if p == nil {
			continue
		}
		types = append(types, EraseType(p.Type))
	}
	return strings.Join(types, ",")
}
