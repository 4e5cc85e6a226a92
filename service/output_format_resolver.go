package service

import (
	"github.com/ludo-technologies/clumpscan/domain"
)

// OutputFormatResolver resolves the report format and file extension from CLI flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format and extension.
// At most one of html/json/csv/yaml may be true; if none are, the format is text
// and the extension is empty (text goes to stdout).
func (r *OutputFormatResolver) Determine(html, json, csv, yaml bool) (domain.OutputFormat, string, error) {
	selected := make([]domain.OutputFormat, 0, 1)
	for _, candidate := range []struct {
		set    bool
		format domain.OutputFormat
	}{
		{html, domain.OutputFormatHTML},
		{json, domain.OutputFormatJSON},
		{csv, domain.OutputFormatCSV},
		{yaml, domain.OutputFormatYAML},
	} {
		if candidate.set {
			selected = append(selected, candidate.format)
		}
	}

	switch len(selected) {
	case 0:
		return domain.OutputFormatText, "", nil
	case 1:
		return selected[0], r.Extension(selected[0]), nil
	default:
		return "", "", domain.NewInvalidInputError("only one output format flag can be specified", nil)
	}
}

// Extension returns the file extension used when a report of the given format
// is written to disk
func (r *OutputFormatResolver) Extension(format domain.OutputFormat) string {
	switch format {
	case domain.OutputFormatText:
		return "txt"
	default:
		return string(format)
	}
}
