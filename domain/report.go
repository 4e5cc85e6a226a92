package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Report envelope constants
const (
	ReportVersion = "0.1.93"
	DetectorName  = "clumpscan"
	UnknownValue  = "unknown"
	DataClumpKind = "data_clump"
)

// DataClumpType classifies a data clump by the kind of members involved
type DataClumpType string

const (
	DataClumpTypeFields     DataClumpType = "fields_to_fields_data_clump"
	DataClumpTypeParameters DataClumpType = "parameters_to_parameters_data_clump"
)

// Classification returns the short classification ("field" or "parameter")
func (t DataClumpType) Classification() string {
	switch t {
	case DataClumpTypeFields:
		return "field"
	case DataClumpTypeParameters:
		return "parameter"
	default:
		return string(t)
	}
}

// DataClumpVariableTo is the counterpart of a matched member
type DataClumpVariableTo struct {
	Key       string   `json:"key" yaml:"key"`
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Modifiers []string `json:"modifiers" yaml:"modifiers"`
	Position  Position `json:"position" yaml:"position"`
}

// DataClumpVariable is one matched member on the "from" side of a clump
type DataClumpVariable struct {
	Key         string               `json:"key" yaml:"key"`
	Name        string               `json:"name" yaml:"name"`
	Type        string               `json:"type" yaml:"type"`
	Probability float64              `json:"probability" yaml:"probability"`
	Modifiers   []string             `json:"modifiers" yaml:"modifiers"`
	Position    Position             `json:"position" yaml:"position"`
	ToVariable  *DataClumpVariableTo `json:"to_variable" yaml:"to_variable"`
}

// DataClump is a single detected data clump between two owning entities.
// Method name/key fields are nil for field clumps.
type DataClump struct {
	Type                     string                        `json:"type" yaml:"type"`
	Key                      string                        `json:"key" yaml:"key"`
	Probability              float64                       `json:"probability" yaml:"probability"`
	FromFilePath             string                        `json:"from_file_path" yaml:"from_file_path"`
	FromClassOrInterfaceName string                        `json:"from_class_or_interface_name" yaml:"from_class_or_interface_name"`
	FromClassOrInterfaceKey  string                        `json:"from_class_or_interface_key" yaml:"from_class_or_interface_key"`
	FromMethodName           *string                       `json:"from_method_name" yaml:"from_method_name"`
	FromMethodKey            *string                       `json:"from_method_key" yaml:"from_method_key"`
	ToFilePath               string                        `json:"to_file_path" yaml:"to_file_path"`
	ToClassOrInterfaceName   string                        `json:"to_class_or_interface_name" yaml:"to_class_or_interface_name"`
	ToClassOrInterfaceKey    string                        `json:"to_class_or_interface_key" yaml:"to_class_or_interface_key"`
	ToMethodName             *string                       `json:"to_method_name" yaml:"to_method_name"`
	ToMethodKey              *string                       `json:"to_method_key" yaml:"to_method_key"`
	DataClumpType            DataClumpType                 `json:"data_clump_type" yaml:"data_clump_type"`
	DataClumpData            map[string]*DataClumpVariable `json:"data_clump_data" yaml:"data_clump_data"`
}

// ReportSummary holds aggregate counts
type ReportSummary struct {
	AmountDataClumps int `json:"amount_data_clumps" yaml:"amount_data_clumps"`
}

// ProjectInfo identifies the analyzed project. Additional is an open map of
// primitive values supplied by the caller.
type ProjectInfo struct {
	ProjectName    string                    `json:"project_name" yaml:"project_name"`
	ProjectVersion string                    `json:"project_version" yaml:"project_version"`
	ProjectCommit  string                    `json:"project_commit" yaml:"project_commit"`
	Additional     map[string]PrimitiveValue `json:"additional" yaml:"additional"`
}

// DetectorInfo identifies the detector and echoes the options it ran with
type DetectorInfo struct {
	Name    string         `json:"name" yaml:"name"`
	Version string         `json:"version" yaml:"version"`
	Options map[string]any `json:"options" yaml:"options"`
}

// DataClumpsReport is the complete detection output
type DataClumpsReport struct {
	ReportVersion   string                `json:"report_version" yaml:"report_version"`
	ReportTimestamp string                `json:"report_timestamp" yaml:"report_timestamp"`
	TargetLanguage  string                `json:"target_language" yaml:"target_language"`
	ReportSummary   ReportSummary         `json:"report_summary" yaml:"report_summary"`
	ProjectInfo     ProjectInfo           `json:"project_info" yaml:"project_info"`
	Detector        DetectorInfo          `json:"detector" yaml:"detector"`
	DataClumps      map[string]*DataClump `json:"data_clumps" yaml:"data_clumps"`
}

// PrimitiveValue is a string, bool, int64 or float64 carried in free-form metadata
type PrimitiveValue struct {
	value any
}

// StringValue wraps a string
func StringValue(s string) PrimitiveValue { return PrimitiveValue{value: s} }

// IntValue wraps an integer
func IntValue(i int64) PrimitiveValue { return PrimitiveValue{value: i} }

// FloatValue wraps a float
func FloatValue(f float64) PrimitiveValue { return PrimitiveValue{value: f} }

// BoolPrimitive wraps a boolean
func BoolPrimitive(b bool) PrimitiveValue { return PrimitiveValue{value: b} }

// Value returns the wrapped value (nil for the zero PrimitiveValue)
func (p PrimitiveValue) Value() any {
	return p.value
}

// String renders the value for text output
func (p PrimitiveValue) String() string {
	switch v := p.value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return formatPrimitive(v)
	}
}

// MarshalJSON encodes the wrapped value directly
func (p PrimitiveValue) MarshalJSON() ([]byte, error) {
	return marshalPrimitiveJSON(p.value)
}

// UnmarshalJSON accepts only JSON primitives
func (p *PrimitiveValue) UnmarshalJSON(data []byte) error {
	v, err := unmarshalPrimitiveJSON(data)
	if err != nil {
		return err
	}
	p.value = v
	return nil
}

// MarshalYAML encodes the wrapped value directly
func (p PrimitiveValue) MarshalYAML() (interface{}, error) {
	return p.value, nil
}

// PrimitiveFromAny converts a decoded scalar into a PrimitiveValue.
// ok is false for maps, slices and other composite values.
func PrimitiveFromAny(v any) (PrimitiveValue, bool) {
	switch t := v.(type) {
	case string:
		return StringValue(t), true
	case bool:
		return BoolPrimitive(t), true
	case int:
		return IntValue(int64(t)), true
	case int32:
		return IntValue(int64(t)), true
	case int64:
		return IntValue(t), true
	case float32:
		return FloatValue(float64(t)), true
	case float64:
		if t == float64(int64(t)) {
			return IntValue(int64(t)), true
		}
		return FloatValue(t), true
	default:
		return PrimitiveValue{}, false
	}
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}

func formatPrimitive(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func marshalPrimitiveJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalPrimitiveJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	switch t := raw.(type) {
	case nil, string, bool:
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		return nil, fmt.Errorf("additional metadata must be a primitive value, got %T", raw)
	}
}
