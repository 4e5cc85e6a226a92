package analyzer

import (
	"github.com/ludo-technologies/clumpscan/domain"
)

// Hierarchy answers supertype questions over an EntityIndex.
// Supertype references are weak: a reference that does not resolve in the
// index marks the hierarchy of the referencing entity as unknown.
type Hierarchy struct {
	index    *EntityIndex
	known    map[string]bool
	resolved map[string]*domain.ClassOrInterface
}

// NewHierarchy creates a resolver over idx
func NewHierarchy(idx *EntityIndex) *Hierarchy {
	return &Hierarchy{
		index:    idx,
		known:    make(map[string]bool),
		resolved: make(map[string]*domain.ClassOrInterface),
	}
}

// Resolve finds the entity a type reference names. The reference is tried as
// a key first, then by simple name when exactly one entity carries it.
func (h *Hierarchy) Resolve(ref string) (*domain.ClassOrInterface, bool) {
	if c, ok := h.resolved[ref]; ok {
		return c, c != nil
	}
	c := h.resolve(ref)
	h.resolved[ref] = c
	return c, c != nil
}

func (h *Hierarchy) resolve(ref string) *domain.ClassOrInterface {
	if c, ok := h.index.Class(ref); ok {
		return c
	}
	erased := EraseType(ref)
	if c, ok := h.index.Class(erased); ok {
		return c
	}
	named := h.index.ClassesNamed(SimpleTypeName(erased))
	if len(named) == 1 {
		return named[0]
	}
	return nil
}

// Supertypes returns the resolvable direct supertypes of c
func (h *Hierarchy) Supertypes(c *domain.ClassOrInterface) []*domain.ClassOrInterface {
	var out []*domain.ClassOrInterface
	for _, ref := range c.Supertypes() {
		if s, ok := h.Resolve(ref); ok && s.Key != c.Key {
			out = append(out, s)
		}
	}
	return out
}

// IsAncestor reports whether ancestor is a transitive supertype of descendant
func (h *Hierarchy) IsAncestor(ancestor, descendant *domain.ClassOrInterface) bool {
	if ancestor == nil || descendant == nil || ancestor.Key == descendant.Key {
		return false
	}
	for _, s := range h.Ancestors(descendant) {
		if s.Key == ancestor.Key {
			return true
		}
	}
	return false
}

// Related reports whether either entity is an ancestor of the other
func (h *Hierarchy) Related(a, b *domain.ClassOrInterface) bool {
	return h.IsAncestor(a, b) || h.IsAncestor(b, a)
}

// IsHierarchyKnown reports whether every supertype reference reachable from c
// resolves in the index.
func (h *Hierarchy) IsHierarchyKnown(c *domain.ClassOrInterface) bool {
	if c == nil {
		return false
	}
	if known, ok := h.known[c.Key]; ok {
		return known
	}
	known := h.walkKnown(c, map[string]bool{})
	h.known[c.Key] = known
	return known
}

func (h *Hierarchy) walkKnown(c *domain.ClassOrInterface, visiting map[string]bool) bool {
	if visiting[c.Key] {
		return true
	}
	visiting[c.Key] = true
	for _, ref := range c.Supertypes() {
		s, ok := h.Resolve(ref)
		if !ok {
			return false
		}
		if !h.walkKnown(s, visiting) {
			return false
		}
	}
	return true
}

// InheritedFields returns the non-static fields c inherits through its
// resolvable superclass chain, nearest ancestor first. A field is shadowed by
// a field of the same name declared closer to c.
func (h *Hierarchy) InheritedFields(c *domain.ClassOrInterface) []*domain.Field {
	seenNames := make(map[string]bool)
	for _, f := range c.Fields {
		if f != nil {
			seenNames[f.Name] = true
		}
	}

	var out []*domain.Field
	visited := map[string]bool{c.Key: true}
	current := []*domain.ClassOrInterface{c}
	for len(current) > 0 {
		var next []*domain.ClassOrInterface
		for _, node := range current {
			for _, ref := range node.Extends {
				s, ok := h.Resolve(ref)
				if !ok || visited[s.Key] {
					continue
				}
				visited[s.Key] = true
				for _, f := range ownFields(s) {
					if seenNames[f.Name] {
						continue
					}
					seenNames[f.Name] = true
					out = append(out, f)
				}
				next = append(next, s)
			}
		}
		current = next
	}
	return out
}

// ownFields returns the non-static fields declared by c in key order
func ownFields(c *domain.ClassOrInterface) []*domain.Field {
	var out []*domain.Field
	for _, key := range sortedKeys(c.Fields) {
		f := c.Fields[key]
		if f == nil || f.IsStatic() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// TypeScope returns the type variables visible inside c, including those of
// its enclosing entities.
func (h *Hierarchy) TypeScope(c *domain.ClassOrInterface) map[string]struct{} {
	var decls [][]string
	visited := make(map[string]bool)
	for current := c; current != nil && !visited[current.Key]; {
		visited[current.Key] = true
		decls = append(decls, current.TypeParameters)
		if current.DefinedInKey == "" {
			break
		}
		parent, ok := h.index.Class(current.DefinedInKey)
		if !ok {
			break
		}
		current = parent
	}
	return TypeVariableSet(decls...)
}

// IsSubtype reports whether the type named by sub resolves to a descendant of
// the type named by super.
func (h *Hierarchy) IsSubtype(sub, super string) bool {
	subEntity, ok := h.Resolve(sub)
	if !ok {
		return false
	}
	superEntity, ok := h.Resolve(super)
	if !ok {
		return false
	}
	return h.IsAncestor(superEntity, subEntity)
}

// Ancestors returns every resolvable transitive supertype of c, nearest first
func (h *Hierarchy) Ancestors(c *domain.ClassOrInterface) []*domain.ClassOrInterface {
	var out []*domain.ClassOrInterface
	visited := map[string]bool{c.Key: true}
	queue := []*domain.ClassOrInterface{c}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, s := range h.Supertypes(current) {
			if visited[s.Key] {
				continue
			}
			visited[s.Key] = true
			out = append(out, s)
			queue = append(queue, s)
		}
	}
	return out
}
