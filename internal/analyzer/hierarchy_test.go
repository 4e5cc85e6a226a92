package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/clumpscan/domain"
)

func buildHierarchy(entities ...*domain.ClassOrInterface) (*EntityIndex, *Hierarchy) {
	idx := BuildEntityIndex(entities)
	return idx, NewHierarchy(idx)
}

func TestHierarchyAncestry(t *testing.T) {
	animal := newClass("zoo.Animal", m("name", "String"))
	dog := newClass("zoo.Dog", m("breed", "String"))
	dog.Extends = []string{"zoo.Animal"}
	puppy := newClass("zoo.Puppy")
	puppy.Extends = []string{"Dog"}
	cat := newClass("zoo.Cat")

	_, h := buildHierarchy(animal, dog, puppy, cat)

	assert.True(t, h.IsAncestor(animal, dog))
	assert.True(t, h.IsAncestor(animal, puppy), "resolution by simple name")
	assert.False(t, h.IsAncestor(dog, animal))
	assert.False(t, h.IsAncestor(animal, animal))
	assert.True(t, h.Related(puppy, animal))
	assert.False(t, h.Related(cat, dog))
	assert.True(t, h.IsSubtype("zoo.Puppy", "zoo.Animal"))
	assert.False(t, h.IsSubtype("zoo.Cat", "zoo.Animal"))
}

func TestHierarchyKnown(t *testing.T) {
	base := newClass("Base")
	base.Implements = []string{"external.Serializable"}
	child := newClass("Child")
	child.Extends = []string{"Base"}
	standalone := newClass("Standalone")

	_, h := buildHierarchy(base, child, standalone)

	assert.False(t, h.IsHierarchyKnown(base))
	assert.False(t, h.IsHierarchyKnown(child), "unknown references propagate to descendants")
	assert.True(t, h.IsHierarchyKnown(standalone))
	assert.False(t, h.IsHierarchyKnown(nil))
}

func TestHierarchyCycleTerminates(t *testing.T) {
	a := newClass("A")
	a.Extends = []string{"B"}
	b := newClass("B")
	b.Extends = []string{"A"}

	_, h := buildHierarchy(a, b)

	assert.True(t, h.IsHierarchyKnown(a))
	assert.True(t, h.IsAncestor(b, a))
	assert.Len(t, h.Ancestors(a), 1)
}

func TestInheritedFields(t *testing.T) {
	base := newClass("Base", m("id", "long"), m("name", "String"), m("COUNT", "int", "static"))
	mid := newClass("Mid", m("name", "String"))
	mid.Extends = []string{"Base"}
	leaf := newClass("Leaf", m("extra", "int"))
	leaf.Extends = []string{"Mid"}

	_, h := buildHierarchy(base, mid, leaf)

	var names []string
	for _, f := range h.InheritedFields(leaf) {
		names = append(names, f.Name+"@"+f.ClassOrInterfaceKey)
	}
	assert.Equal(t, []string{"name@Mid", "id@Base"}, names)
}

func TestTypeScopeIncludesEnclosing(t *testing.T) {
	outer := newClass("Outer")
	outer.TypeParameters = []string{"T"}
	inner := newClass("Outer.Inner")
	inner.TypeParameters = []string{"U"}
	outer.InnerDefinedClasses = map[string]*domain.ClassOrInterface{inner.Key: inner}

	idx, h := buildHierarchy(outer)
	got, _ := idx.Class("Outer.Inner")

	scope := h.TypeScope(got)
	assert.Contains(t, scope, "T")
	assert.Contains(t, scope, "U")
}
