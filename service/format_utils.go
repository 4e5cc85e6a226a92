package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/clumpscan/domain"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data), nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// EncodeYAML returns a YAML string for the given value.
func EncodeYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML", err)
	}
	return string(data), nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth    = 40
	LabelWidth     = 25
	SectionPadding = 2
	ItemPadding    = 4
)

// FormatUtils provides shared formatting utilities for text reports.
// Colors follow fatih/color, which disables itself when stdout is not a terminal.
type FormatUtils struct {
	header  *color.Color
	section *color.Color
	field   *color.Color
	param   *color.Color
	muted   *color.Color
}

// NewFormatUtils creates a new format utilities instance
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{
		header:  color.New(color.FgCyan, color.Bold),
		section: color.New(color.Bold),
		field:   color.New(color.FgYellow),
		param:   color.New(color.FgMagenta),
		muted:   color.New(color.Faint),
	}
}

// FormatMainHeader creates a standardized main header
func (f *FormatUtils) FormatMainHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(f.header.Sprint(title) + "\n")
	builder.WriteString(strings.Repeat("=", HeaderWidth) + "\n\n")
	return builder.String()
}

// FormatSectionHeader creates a standardized section header
func (f *FormatUtils) FormatSectionHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(f.section.Sprint(strings.ToUpper(title)) + "\n")
	builder.WriteString(strings.Repeat("-", len(title)) + "\n")
	return builder.String()
}

// FormatSectionSeparator creates a section separator
func (f *FormatUtils) FormatSectionSeparator() string {
	return "\n"
}

// FormatLabelWithIndent creates a formatted label with specific indentation
func (f *FormatUtils) FormatLabelWithIndent(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}

// FormatCount renders an integer with thousands separators
func (f *FormatUtils) FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatPlural renders "n unit" with the unit pluralized as needed
func (f *FormatUtils) FormatPlural(n int, singular, plural string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, singular, plural)
}

// FormatClumpType colors the short classification of a data clump type
func (f *FormatUtils) FormatClumpType(t domain.DataClumpType) string {
	switch t {
	case domain.DataClumpTypeFields:
		return f.field.Sprint(t.Classification())
	case domain.DataClumpTypeParameters:
		return f.param.Sprint(t.Classification())
	default:
		return string(t)
	}
}

// FormatMuted renders secondary information
func (f *FormatUtils) FormatMuted(s string) string {
	return f.muted.Sprint(s)
}

// NewTable returns a borderless go-pretty table writer
func (f *FormatUtils) NewTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	return tbl
}

