package domain

import (
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// OptionGroup groups detector options by the sub-detector they affect
type OptionGroup string

const (
	OptionGroupAll    OptionGroup = "all"
	OptionGroupField  OptionGroup = "field"
	OptionGroupMethod OptionGroup = "method"
)

// OptionType is the value type of a detector option
type OptionType string

const (
	OptionTypeBoolean OptionType = "boolean"
	OptionTypeNumber  OptionType = "number"
)

// Detector option names as they appear in reports and partial option maps
const (
	OptionTypeVariablesConsidered                   = "typeVariablesConsidered"
	OptionSharedFieldParametersMinimum              = "sharedFieldParametersMinimum"
	OptionSharedFieldParametersCheckIfAreSubtypes   = "sharedFieldParametersCheckIfAreSubtypes"
	OptionSubclassInheritsAllMembersFromSuperclass  = "subclassInheritsAllMembersFromSuperclass"
	OptionSharedMethodParametersMinimum             = "sharedMethodParametersMinimum"
	OptionSharedMethodParametersHierarchyConsidered = "sharedMethodParametersHierarchyConsidered"
	OptionAnalyseMethodsWithUnknownHierarchy        = "analyseMethodsWithUnknownHierarchy"
)

// Default option values
const (
	DefaultSharedFieldParametersMinimum  = 3
	DefaultSharedMethodParametersMinimum = 3
)

// OptionDescriptor documents one detector option
type OptionDescriptor struct {
	Name         string      `json:"name" yaml:"name"`
	Label        string      `json:"label" yaml:"label"`
	Description  string      `json:"description" yaml:"description"`
	DefaultValue any         `json:"defaultValue" yaml:"defaultValue"`
	Group        OptionGroup `json:"group" yaml:"group"`
	Type         OptionType  `json:"type" yaml:"type"`
}

// SnakeName returns the option name in snake_case, as used in config files
func (d OptionDescriptor) SnakeName() string {
	return ToSnakeCase(d.Name)
}

var optionDescriptors = []OptionDescriptor{
	{
		Name:         OptionTypeVariablesConsidered,
		Label:        "Types Variables Considered",
		Description:  "In Java Generics like: List<T> have a variable Type. On the other hand List<Number> has not (type argument). Default value is false, so variable types will not be considered.",
		DefaultValue: false,
		Group:        OptionGroupAll,
		Type:         OptionTypeBoolean,
	},
	{
		Name:         OptionSharedFieldParametersMinimum,
		Label:        "Minimum Number of Shared Fields",
		Description:  "The minimum number of fields that two or more classes must share to be considered related. Default value is 3.",
		DefaultValue: DefaultSharedFieldParametersMinimum,
		Group:        OptionGroupField,
		Type:         OptionTypeNumber,
	},
	{
		Name:         OptionSharedFieldParametersCheckIfAreSubtypes,
		Label:        "Check Subtyping of Shared Fields",
		Description:  "If set to true, the detector will check if shared fields in related classes are subtypes of each other. Default value is false.",
		DefaultValue: false,
		Group:        OptionGroupField,
		Type:         OptionTypeBoolean,
	},
	{
		Name:         OptionSubclassInheritsAllMembersFromSuperclass,
		Label:        "Subclass Inherits All Members",
		Description:  "If set to true, the detector will consider a subclass related to its superclass only if it inherits all members fields from it. Default value is false.",
		DefaultValue: false,
		Group:        OptionGroupField,
		Type:         OptionTypeBoolean,
	},
	{
		Name:         OptionSharedMethodParametersMinimum,
		Label:        "Minimum Number of Shared Method Parameters",
		Description:  "The minimum number of method parameters that two or more classes must share to be considered related. Default value is 3.",
		DefaultValue: DefaultSharedMethodParametersMinimum,
		Group:        OptionGroupMethod,
		Type:         OptionTypeNumber,
	},
	{
		Name:         OptionSharedMethodParametersHierarchyConsidered,
		Label:        "Consider Hierarchy for Shared Method Parameters",
		Description:  "If set to true, the detector will consider the hierarchy of classes when checking for shared method parameters. Default value is false.",
		DefaultValue: false,
		Group:        OptionGroupMethod,
		Type:         OptionTypeBoolean,
	},
	{
		Name:         OptionAnalyseMethodsWithUnknownHierarchy,
		Label:        "Analyze Methods with Unknown Hierarchy",
		Description:  "If set to true, the detector will analyze methods that are not part of a known hierarchy of related classes. Default value is false.",
		DefaultValue: false,
		Group:        OptionGroupMethod,
		Type:         OptionTypeBoolean,
	},
}

// OptionDescriptors returns the detector option table in declaration order
func OptionDescriptors() []OptionDescriptor {
	out := make([]OptionDescriptor, len(optionDescriptors))
	copy(out, optionDescriptors)
	return out
}

// LookupOptionDescriptor finds a descriptor by camelCase or snake_case name, ignoring case
func LookupOptionDescriptor(name string) (OptionDescriptor, bool) {
	for _, d := range optionDescriptors {
		if strings.EqualFold(d.Name, name) || strings.EqualFold(d.SnakeName(), name) {
			return d, true
		}
	}
	return OptionDescriptor{}, false
}

// DetectorOptions configures both sub-detectors
type DetectorOptions struct {
	TypeVariablesConsidered                   bool `json:"typeVariablesConsidered" yaml:"typeVariablesConsidered"`
	SharedFieldParametersMinimum              int  `json:"sharedFieldParametersMinimum" yaml:"sharedFieldParametersMinimum"`
	SharedFieldParametersCheckIfAreSubtypes   bool `json:"sharedFieldParametersCheckIfAreSubtypes" yaml:"sharedFieldParametersCheckIfAreSubtypes"`
	SubclassInheritsAllMembersFromSuperclass  bool `json:"subclassInheritsAllMembersFromSuperclass" yaml:"subclassInheritsAllMembersFromSuperclass"`
	SharedMethodParametersMinimum             int  `json:"sharedMethodParametersMinimum" yaml:"sharedMethodParametersMinimum"`
	SharedMethodParametersHierarchyConsidered bool `json:"sharedMethodParametersHierarchyConsidered" yaml:"sharedMethodParametersHierarchyConsidered"`
	AnalyseMethodsWithUnknownHierarchy        bool `json:"analyseMethodsWithUnknownHierarchy" yaml:"analyseMethodsWithUnknownHierarchy"`
}

// DefaultDetectorOptions returns the options with every descriptor default applied
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		SharedFieldParametersMinimum:  DefaultSharedFieldParametersMinimum,
		SharedMethodParametersMinimum: DefaultSharedMethodParametersMinimum,
	}
}

// DetectorOptionsFromMap fills absent keys from the defaults and rejects
// unknown keys and values of the wrong type.
func DetectorOptionsFromMap(partial map[string]any) (DetectorOptions, error) {
	opts := DefaultDetectorOptions()
	if err := opts.Apply(partial); err != nil {
		return DefaultDetectorOptions(), err
	}
	return opts, nil
}

// Apply overrides the options present in partial. Keys may be camelCase or snake_case.
func (o *DetectorOptions) Apply(partial map[string]any) error {
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var unknown []string
	for _, key := range keys {
		if _, ok := LookupOptionDescriptor(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		return NewUnknownOptionError(unknown)
	}

	for _, key := range keys {
		desc, _ := LookupOptionDescriptor(key)
		if err := o.set(desc, partial[key]); err != nil {
			return NewOptionValueError(desc.Name, err)
		}
	}
	return nil
}

func (o *DetectorOptions) set(desc OptionDescriptor, raw any) error {
	switch desc.Type {
	case OptionTypeBoolean:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		*o.boolField(desc.Name) = v
	case OptionTypeNumber:
		v, err := cast.ToIntE(raw)
		if err != nil {
			return err
		}
		*o.intField(desc.Name) = v
	}
	return nil
}

func (o *DetectorOptions) boolField(name string) *bool {
	switch name {
	case OptionTypeVariablesConsidered:
		return &o.TypeVariablesConsidered
	case OptionSharedFieldParametersCheckIfAreSubtypes:
		return &o.SharedFieldParametersCheckIfAreSubtypes
	case OptionSubclassInheritsAllMembersFromSuperclass:
		return &o.SubclassInheritsAllMembersFromSuperclass
	case OptionSharedMethodParametersHierarchyConsidered:
		return &o.SharedMethodParametersHierarchyConsidered
	case OptionAnalyseMethodsWithUnknownHierarchy:
		return &o.AnalyseMethodsWithUnknownHierarchy
	}
	panic("domain: no boolean option " + name)
}

func (o *DetectorOptions) intField(name string) *int {
	switch name {
	case OptionSharedFieldParametersMinimum:
		return &o.SharedFieldParametersMinimum
	case OptionSharedMethodParametersMinimum:
		return &o.SharedMethodParametersMinimum
	}
	panic("domain: no numeric option " + name)
}

// Validate checks value ranges
func (o DetectorOptions) Validate() error {
	if o.SharedFieldParametersMinimum < 1 {
		return NewValidationError("sharedFieldParametersMinimum must be at least 1")
	}
	if o.SharedMethodParametersMinimum < 1 {
		return NewValidationError("sharedMethodParametersMinimum must be at least 1")
	}
	return nil
}

// Snapshot returns every option keyed by its camelCase name
func (o DetectorOptions) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(optionDescriptors))
	for _, d := range optionDescriptors {
		switch d.Type {
		case OptionTypeBoolean:
			snapshot[d.Name] = *o.boolField(d.Name)
		case OptionTypeNumber:
			snapshot[d.Name] = *o.intField(d.Name)
		}
	}
	return snapshot
}

// ToSnakeCase converts a camelCase identifier to snake_case
func ToSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if 'A' <= r && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
