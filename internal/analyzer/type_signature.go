package analyzer

import (
	"strings"
	"unicode"
)

const (
	arraySuffix   = "[]"
	varargsSuffix = "..."
)

// NormalizeType removes every whitespace rune from a declared type, so
// "Map<K, V>" and "Map<K,V>" compare equal.
func NormalizeType(t string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, t)
}

// EraseType drops generic arguments at every nesting depth and keeps array
// and varargs suffixes: "Map<K, List<T>>[]" erases to "Map[]".
func EraseType(t string) string {
	var b strings.Builder
	depth := 0
	for _, r := range NormalizeType(t) {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// SimpleTypeName returns the erased type without its package qualifier.
// Array and varargs suffixes are kept.
func SimpleTypeName(t string) string {
	base := EraseType(t)
	suffix := ""
	for {
		switch {
		case strings.HasSuffix(base, arraySuffix):
			base = strings.TrimSuffix(base, arraySuffix)
			suffix = arraySuffix + suffix
			continue
		case strings.HasSuffix(base, varargsSuffix):
			base = strings.TrimSuffix(base, varargsSuffix)
			suffix = varargsSuffix + suffix
			continue
		}
		break
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[i+1:]
	}
	return base + suffix
}

// wildcardBounds are the keywords of "? extends T" and "? super T"
var wildcardBounds = map[string]bool{"extends": true, "super": true}

// TypeTokens splits a declared type into its (possibly qualified) type names.
// "Map<K, List<T>>" yields Map, K, List and T.
func TypeTokens(t string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		if token := strings.Trim(current.String(), "."); token != "" && !wildcardBounds[token] {
			tokens = append(tokens, token)
		}
		current.Reset()
	}
	for _, r := range t {
		if isTypeNameRune(r) || r == '.' {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// ReferencesTypeVariable reports whether any type name in t is one of vars
func ReferencesTypeVariable(t string, vars map[string]struct{}) bool {
	if len(vars) == 0 {
		return false
	}
	for _, token := range TypeTokens(t) {
		if _, ok := vars[token]; ok {
			return true
		}
	}
	return false
}

// TypeVariableSet collects the variable names declared by type parameter
// lists. A bounded declaration such as "T extends Number" declares T.
// The result is never nil.
func TypeVariableSet(decls ...[]string) map[string]struct{} {
	vars := make(map[string]struct{})
	for _, list := range decls {
		for _, decl := range list {
			if name := typeVariableName(decl); name != "" {
				vars[name] = struct{}{}
			}
		}
	}
	return vars
}

func typeVariableName(decl string) string {
	decl = strings.TrimSpace(decl)
	end := strings.IndexFunc(decl, func(r rune) bool { return !isTypeNameRune(r) })
	if end < 0 {
		return decl
	}
	return decl[:end]
}

func isTypeNameRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
