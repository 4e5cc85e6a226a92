package analyzer

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/clumpscan/domain"
)

// IndexInfo summarizes the contents of an EntityIndex
type IndexInfo struct {
	Classes    int `json:"classes"`
	Interfaces int `json:"interfaces"`
	Fields     int `json:"fields"`
	Methods    int `json:"methods"`
	Parameters int `json:"parameters"`
}

// EntityIndex is a flat registry of every class, interface, field, method and
// parameter of a project, keyed by identity. It is built once and read-only
// afterwards.
type EntityIndex struct {
	classes    map[string]*domain.ClassOrInterface
	fields     map[string]*domain.Field
	methods    map[string]*domain.Method
	parameters map[string]*domain.Parameter
}

// NewEntityIndex creates an empty index
func NewEntityIndex() *EntityIndex {
	return &EntityIndex{
		classes:    make(map[string]*domain.ClassOrInterface),
		fields:     make(map[string]*domain.Field),
		methods:    make(map[string]*domain.Method),
		parameters: make(map[string]*domain.Parameter),
	}
}

// BuildEntityIndex loads every entity into a fresh index
func BuildEntityIndex(entities []*domain.ClassOrInterface) *EntityIndex {
	idx := NewEntityIndex()
	for _, e := range entities {
		idx.Load(e)
	}
	return idx
}

// Load registers a top-level entity and everything it owns, depth first.
// Re-registering a key overwrites the earlier entry.
func (idx *EntityIndex) Load(entity *domain.ClassOrInterface) {
	if entity == nil {
		return
	}
	idx.classes[entity.Key] = entity

	for _, key := range sortedKeys(entity.InnerDefinedClasses) {
		idx.loadInner(entity, entity.InnerDefinedClasses[key])
	}
	for _, key := range sortedKeys(entity.InnerDefinedInterfaces) {
		idx.loadInner(entity, entity.InnerDefinedInterfaces[key])
	}

	for _, key := range sortedKeys(entity.Fields) {
		field := entity.Fields[key]
		if field == nil {
			continue
		}
		if field.Key == "" {
			field.Key = key
		}
		if field.ClassOrInterfaceKey == "" {
			field.ClassOrInterfaceKey = entity.Key
		}
		idx.fields[field.Key] = field
	}

	for _, key := range sortedKeys(entity.Methods) {
		method := entity.Methods[key]
		if method == nil {
			continue
		}
		if method.Key == "" {
			method.Key = key
		}
		if method.ClassOrInterfaceKey == "" {
			method.ClassOrInterfaceKey = entity.Key
		}
		idx.methods[method.Key] = method

		for i, param := range method.Parameters {
			if param == nil {
				continue
			}
			if param.Key == "" {
				param.Key = fmt.Sprintf("%s/parameter/%d", method.Key, i)
			}
			if param.MethodKey == "" {
				param.MethodKey = method.Key
			}
			idx.parameters[param.Key] = param
		}
	}
}

func (idx *EntityIndex) loadInner(parent, inner *domain.ClassOrInterface) {
	if inner == nil {
		return
	}
	if inner.DefinedInKey == "" {
		inner.DefinedInKey = parent.Key
	}
	if inner.FilePath == "" {
		inner.FilePath = parent.FilePath
	}
	idx.Load(inner)
}

// Class looks up a class or interface by key
func (idx *EntityIndex) Class(key string) (*domain.ClassOrInterface, bool) {
	c, ok := idx.classes[key]
	return c, ok
}

// Field looks up a field by key
func (idx *EntityIndex) Field(key string) (*domain.Field, bool) {
	f, ok := idx.fields[key]
	return f, ok
}

// Method looks up a method by key
func (idx *EntityIndex) Method(key string) (*domain.Method, bool) {
	m, ok := idx.methods[key]
	return m, ok
}

// Parameter looks up a method parameter by key
func (idx *EntityIndex) Parameter(key string) (*domain.Parameter, bool) {
	p, ok := idx.parameters[key]
	return p, ok
}

// ClassKeys returns every class and interface key in sorted order
func (idx *EntityIndex) ClassKeys() []string {
	return sortedKeys(idx.classes)
}

// Classes returns every entity of the given kind in key order.
// An empty kind returns classes and interfaces alike.
func (idx *EntityIndex) Classes(kind domain.ClassOrInterfaceKind) []*domain.ClassOrInterface {
	var out []*domain.ClassOrInterface
	for _, key := range idx.ClassKeys() {
		c := idx.classes[key]
		if kind == "" || c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Methods returns every method in key order
func (idx *EntityIndex) Methods() []*domain.Method {
	out := make([]*domain.Method, 0, len(idx.methods))
	for _, key := range sortedKeys(idx.methods) {
		out = append(out, idx.methods[key])
	}
	return out
}

// ClassesNamed returns the entities whose simple name equals name, in key order
func (idx *EntityIndex) ClassesNamed(name string) []*domain.ClassOrInterface {
	var out []*domain.ClassOrInterface
	for _, key := range idx.ClassKeys() {
		if c := idx.classes[key]; c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Info returns entity counts
func (idx *EntityIndex) Info() IndexInfo {
	info := IndexInfo{
		Fields:     len(idx.fields),
		Methods:    len(idx.methods),
		Parameters: len(idx.parameters),
	}
	for _, c := range idx.classes {
		if c.IsClass() {
			info.Classes++
		} else {
			info.Interfaces++
		}
	}
	return info
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
