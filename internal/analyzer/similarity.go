package analyzer

import (
	"strings"

	"github.com/ludo-technologies/clumpscan/domain"
)

// MatchRules configures when two members count as similar
type MatchRules struct {
	// CheckSubtypes accepts types related by subtyping or equal erasure
	CheckSubtypes bool

	// TypeVariablesConsidered lets types that mention a type variable match
	TypeVariablesConsidered bool
}

// Candidate is a field or parameter together with the type variables in
// scope at its declaration
type Candidate struct {
	Member        domain.TypedMember
	TypeVariables map[string]struct{}
}

// MatchedPair links a member on the "from" side to a similar member on the "to" side
type MatchedPair struct {
	FromKey string
	ToKey   string
}

// Matcher compares members under a fixed set of rules
type Matcher struct {
	hierarchy *Hierarchy
	rules     MatchRules
}

// NewMatcher creates a matcher. hierarchy may be nil when subtype checks are off.
func NewMatcher(hierarchy *Hierarchy, rules MatchRules) *Matcher {
	return &Matcher{
		hierarchy: hierarchy,
		rules:     rules,
	}
}

// IsSimilarTo reports whether a and b have the same name and matching types
func (m *Matcher) IsSimilarTo(a, b Candidate) bool {
	if a.Member.Name != b.Member.Name {
		return false
	}
	if !m.rules.TypeVariablesConsidered {
		if ReferencesTypeVariable(a.Member.Type, a.TypeVariables) ||
			ReferencesTypeVariable(b.Member.Type, b.TypeVariables) {
			return false
		}
	}
	return m.typesMatch(a.Member.Type, b.Member.Type)
}

func (m *Matcher) typesMatch(a, b string) bool {
	na, nb := NormalizeType(a), NormalizeType(b)
	if na == nb {
		return true
	}
	if !m.rules.CheckSubtypes {
		return false
	}
	if ea, eb := EraseType(na), EraseType(nb); ea != "" && ea == eb {
		return true
	}
	if m.hierarchy != nil && (m.hierarchy.IsSubtype(na, nb) || m.hierarchy.IsSubtype(nb, na)) {
		return true
	}
	return false
}

// CommonPairs returns every (from, to) pair of similar members.
// Every combination is checked; one member may appear in several pairs.
func (m *Matcher) CommonPairs(from, to []Candidate) []MatchedPair {
	var pairs []MatchedPair
	for _, a := range from {
		for _, b := range to {
			if m.IsSimilarTo(a, b) {
				pairs = append(pairs, MatchedPair{FromKey: a.Member.Key, ToKey: b.Member.Key})
			}
		}
	}
	return pairs
}

// CountCommon returns the number of similar (from, to) pairs
func (m *Matcher) CountCommon(from, to []Candidate) int {
	return len(m.CommonPairs(from, to))
}

// RebuildMatched turns matched pairs into report variables keyed by the
// "from" member key. When a member is paired more than once the last
// counterpart wins. The second result concatenates the matched "from" names
// in pair order and serves as the de-duplication fingerprint.
func RebuildMatched(pairs []MatchedPair, from, to []Candidate) (map[string]*domain.DataClumpVariable, string) {
	fromByKey := make(map[string]domain.TypedMember, len(from))
	for _, c := range from {
		fromByKey[c.Member.Key] = c.Member
	}
	toByKey := make(map[string]domain.TypedMember, len(to))
	for _, c := range to {
		toByKey[c.Member.Key] = c.Member
	}

	variables := make(map[string]*domain.DataClumpVariable)
	var names strings.Builder
	for _, pair := range pairs {
		current, ok := fromByKey[pair.FromKey]
		if !ok {
			continue
		}
		names.WriteString(current.Name)

		var counterpart *domain.DataClumpVariableTo
		if other, ok := toByKey[pair.ToKey]; ok {
			counterpart = &domain.DataClumpVariableTo{
				Key:       other.Key,
				Name:      other.Name,
				Type:      other.Type,
				Modifiers: modifiersOrEmpty(other.Modifiers),
				Position:  positionOf(other.Position),
			}
		}

		variables[current.Key] = &domain.DataClumpVariable{
			Key:         current.Key,
			Name:        current.Name,
			Type:        current.Type,
			Probability: 1,
			Modifiers:   modifiersOrEmpty(current.Modifiers),
			Position:    positionOf(current.Position),
			ToVariable:  counterpart,
		}
	}
	return variables, names.String()
}

func positionOf(p *domain.Position) domain.Position {
	if p == nil {
		return domain.Position{}
	}
	return *p
}

func modifiersOrEmpty(mods []string) []string {
	if mods == nil {
		return []string{}
	}
	return mods
}
