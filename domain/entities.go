package domain

import "strings"

// ClassOrInterfaceKind distinguishes classes from interfaces
type ClassOrInterfaceKind string

const (
	KindClass     ClassOrInterfaceKind = "class"
	KindInterface ClassOrInterfaceKind = "interface"
)

// Position is a source range reported by the parsing collaborator
type Position struct {
	StartLine   int `json:"startLine" yaml:"startLine"`
	StartColumn int `json:"startColumn" yaml:"startColumn"`
	EndLine     int `json:"endLine" yaml:"endLine"`
	EndColumn   int `json:"endColumn" yaml:"endColumn"`
}

// TypedMember holds the attributes shared by fields and method parameters
type TypedMember struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Modifiers []string  `json:"modifiers,omitempty"`
	Position  *Position `json:"position,omitempty"`
}

// HasModifier reports whether the member declares the given modifier.
// Comparison is case-insensitive because parsers disagree on casing.
func (m TypedMember) HasModifier(modifier string) bool {
	for _, mod := range m.Modifiers {
		if strings.EqualFold(mod, modifier) {
			return true
		}
	}
	return false
}

// Field is a member field declared by a class or interface
type Field struct {
	TypedMember
	ClassOrInterfaceKey string `json:"classOrInterfaceKey,omitempty"`
}

// IsStatic reports whether the field is a static (class-level) field
func (f *Field) IsStatic() bool {
	return f.HasModifier("static")
}

// Parameter is a single method parameter
type Parameter struct {
	TypedMember
	MethodKey string `json:"methodKey,omitempty"`
}

// Method is a method or constructor declared by a class or interface
type Method struct {
	Key                 string       `json:"key"`
	Name                string       `json:"name"`
	ReturnType          string       `json:"type,omitempty"`
	Modifiers           []string     `json:"modifiers,omitempty"`
	Position            *Position    `json:"position,omitempty"`
	ClassOrInterfaceKey string       `json:"classOrInterfaceKey,omitempty"`
	OverrideAnnotation  bool         `json:"overrideAnnotation,omitempty"`
	IsConstructor       bool         `json:"isConstructor,omitempty"`
	TypeParameters      []string     `json:"typeParameters,omitempty"`
	Parameters          []*Parameter `json:"parameters,omitempty"`
}

// ClassOrInterface is one parsed type declaration together with everything it owns
type ClassOrInterface struct {
	Key                    string                       `json:"key"`
	Name                   string                       `json:"name"`
	Kind                   ClassOrInterfaceKind         `json:"type"`
	FilePath               string                       `json:"file_path,omitempty"`
	Modifiers              []string                     `json:"modifiers,omitempty"`
	Position               *Position                    `json:"position,omitempty"`
	TypeParameters         []string                     `json:"typeParameters,omitempty"`
	Fields                 map[string]*Field            `json:"fields,omitempty"`
	Methods                map[string]*Method           `json:"methods,omitempty"`
	Extends                []string                     `json:"extends_,omitempty"`
	Implements             []string                     `json:"implements_,omitempty"`
	DefinedInKey           string                       `json:"definedInClassOrInterfaceTypeKey,omitempty"`
	InnerDefinedClasses    map[string]*ClassOrInterface `json:"innerDefinedClasses,omitempty"`
	InnerDefinedInterfaces map[string]*ClassOrInterface `json:"innerDefinedInterfaces,omitempty"`
}

// IsClass reports whether the entity is a class (as opposed to an interface)
func (c *ClassOrInterface) IsClass() bool {
	return c.Kind == KindClass
}

// Supertypes returns the extended and implemented type keys in declaration order
func (c *ClassOrInterface) Supertypes() []string {
	out := make([]string, 0, len(c.Extends)+len(c.Implements))
	out = append(out, c.Extends...)
	out = append(out, c.Implements...)
	return out
}
