package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/clumpscan/domain"
)

func TestOutputFormatResolver_Determine(t *testing.T) {
	r := NewOutputFormatResolver()

	tests := []struct {
		name                  string
		html, json, csv, yaml bool
		format                domain.OutputFormat
		ext                   string
	}{
		{name: "none selects text", format: domain.OutputFormatText, ext: ""},
		{name: "html", html: true, format: domain.OutputFormatHTML, ext: "html"},
		{name: "json", json: true, format: domain.OutputFormatJSON, ext: "json"},
		{name: "csv", csv: true, format: domain.OutputFormatCSV, ext: "csv"},
		{name: "yaml", yaml: true, format: domain.OutputFormatYAML, ext: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ext, err := r.Determine(tt.html, tt.json, tt.csv, tt.yaml)
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestOutputFormatResolver_DetermineConflict(t *testing.T) {
	_, _, err := NewOutputFormatResolver().Determine(true, true, false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one output format")
}

func TestOutputFormatResolver_Extension(t *testing.T) {
	r := NewOutputFormatResolver()
	assert.Equal(t, "txt", r.Extension(domain.OutputFormatText))
	assert.Equal(t, "yaml", r.Extension(domain.OutputFormatYAML))
}
