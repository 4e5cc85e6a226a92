package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/clumpscan/domain"
)

func init() {
	color.NoColor = true
}

func variable(owner, name, typ string, line int) *domain.DataClumpVariable {
	return &domain.DataClumpVariable{
		Key:         owner + "/" + name,
		Name:        name,
		Type:        typ,
		Probability: 1,
		Modifiers:   []string{},
		Position:    domain.Position{StartLine: line, EndLine: line},
		ToVariable: &domain.DataClumpVariableTo{
			Key:       "Other/" + name,
			Name:      name,
			Type:      typ,
			Modifiers: []string{},
			Position:  domain.Position{StartLine: line + 10, EndLine: line + 10},
		},
	}
}

func sampleReport() *domain.DataClumpsReport {
	fieldClump := &domain.DataClump{
		Type:                     domain.DataClumpKind,
		Key:                      "fields_to_fields_data_clump-Customer.java-Customer-Employee-ageemailname",
		Probability:              1,
		FromFilePath:             "Customer.java",
		FromClassOrInterfaceName: "Customer",
		FromClassOrInterfaceKey:  "Customer",
		ToFilePath:               "Employee.java",
		ToClassOrInterfaceName:   "Employee",
		ToClassOrInterfaceKey:    "Employee",
		DataClumpType:            domain.DataClumpTypeFields,
		DataClumpData: map[string]*domain.DataClumpVariable{
			"Customer/age":   variable("Customer", "age", "int", 5),
			"Customer/email": variable("Customer", "email", "String", 6),
			"Customer/name":  variable("Customer", "name", "String", 4),
		},
	}
	paramClump := &domain.DataClump{
		Type:                     domain.DataClumpKind,
		Key:                      "parameters_to_parameters_data_clump-Billing.java-Billing-Shipping-Billing/charge-Shipping/ship-streetcityzip",
		Probability:              1,
		FromFilePath:             "Billing.java",
		FromClassOrInterfaceName: "Billing",
		FromClassOrInterfaceKey:  "Billing",
		FromMethodName:           domain.StrPtr("charge"),
		FromMethodKey:            domain.StrPtr("Billing/charge"),
		ToFilePath:               "Shipping.java",
		ToClassOrInterfaceName:   "Shipping",
		ToClassOrInterfaceKey:    "Shipping",
		ToMethodName:             domain.StrPtr("ship"),
		ToMethodKey:              domain.StrPtr("Shipping/ship"),
		DataClumpType:            domain.DataClumpTypeParameters,
		DataClumpData: map[string]*domain.DataClumpVariable{
			"Billing/charge/city":   variable("Billing/charge", "city", "String", 9),
			"Billing/charge/street": variable("Billing/charge", "street", "String", 9),
			"Billing/charge/zip":    variable("Billing/charge", "zip", "int", 9),
		},
	}

	return &domain.DataClumpsReport{
		ReportVersion:   domain.ReportVersion,
		ReportTimestamp: "2024-03-01T12:00:00Z",
		TargetLanguage:  "java",
		ReportSummary:   domain.ReportSummary{AmountDataClumps: 2},
		ProjectInfo: domain.ProjectInfo{
			ProjectName:    "shop",
			ProjectVersion: "1.0.0",
			ProjectCommit:  "abc123",
			Additional:     map[string]domain.PrimitiveValue{"input_digest": domain.StringValue("00ff00ff00ff00ff")},
		},
		Detector: domain.DetectorInfo{
			Name:    domain.DetectorName,
			Version: "1.0.0",
			Options: domain.DefaultDetectorOptions().Snapshot(),
		},
		DataClumps: map[string]*domain.DataClump{
			fieldClump.Key: fieldClump,
			paramClump.Key: paramClump,
		},
	}
}

func TestDataClumpsFormatter_Text(t *testing.T) {
	out, err := NewDataClumpsFormatter().Format(sampleReport(), domain.OutputFormatText)
	require.NoError(t, err)

	assert.Contains(t, out, "Data Clumps Report")
	assert.Contains(t, out, "Data clumps: 2")
	assert.Contains(t, out, "Field clumps: 1")
	assert.Contains(t, out, "Parameter clumps: 1")
	assert.Contains(t, out, "Billing.charge (Billing.java)")
	assert.Contains(t, out, "Customer (Customer.java)")
	assert.Contains(t, out, "age, email, name")
	assert.Contains(t, out, "2 CLUMPS")
	assert.Contains(t, out, "sharedFieldParametersMinimum")
	assert.Contains(t, out, "input_digest: 00ff00ff00ff00ff")
	assert.NotContains(t, out, "DETAILS")
}

func TestDataClumpsFormatter_TextDetails(t *testing.T) {
	f := NewDataClumpsFormatter()
	f.SetShowDetails(true)

	out, err := f.Format(sampleReport(), domain.OutputFormatText)
	require.NoError(t, err)
	assert.Contains(t, out, "DETAILS")
	assert.Contains(t, out, "fields_to_fields_data_clump-Customer.java-Customer-Employee-ageemailname")
}

func TestDataClumpsFormatter_TextEmpty(t *testing.T) {
	report := sampleReport()
	report.DataClumps = map[string]*domain.DataClump{}
	report.ReportSummary.AmountDataClumps = 0

	out, err := NewDataClumpsFormatter().Format(report, domain.OutputFormatText)
	require.NoError(t, err)
	assert.Contains(t, out, "No data clumps found.")
}

func TestDataClumpsFormatter_JSON(t *testing.T) {
	out, err := NewDataClumpsFormatter().Format(sampleReport(), domain.OutputFormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, domain.ReportVersion, decoded["report_version"])
	assert.Equal(t, float64(2), decoded["report_summary"].(map[string]any)["amount_data_clumps"])

	clumps := decoded["data_clumps"].(map[string]any)
	field := clumps["fields_to_fields_data_clump-Customer.java-Customer-Employee-ageemailname"].(map[string]any)
	assert.Nil(t, field["from_method_name"])
	assert.Equal(t, "fields_to_fields_data_clump", field["data_clump_type"])
}

func TestDataClumpsFormatter_WriteJSONMatchesFormat(t *testing.T) {
	f := NewDataClumpsFormatter()
	formatted, err := f.Format(sampleReport(), domain.OutputFormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(sampleReport(), domain.OutputFormatJSON, &buf))
	assert.JSONEq(t, formatted, buf.String())
}

func TestDataClumpsFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDataClumpsFormatter().Write(sampleReport(), domain.OutputFormatYAML, &buf))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "java", decoded["target_language"])
	assert.Equal(t, "00ff00ff00ff00ff", decoded["project_info"].(map[string]any)["additional"].(map[string]any)["input_digest"])
}

func TestDataClumpsFormatter_CSV(t *testing.T) {
	out, err := NewDataClumpsFormatter().Format(sampleReport(), domain.OutputFormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7, "header plus one row per matched member")
	assert.Equal(t, csvHeader, records[0])

	first := records[1]
	assert.Equal(t, "fields_to_fields_data_clump", first[1])
	assert.Equal(t, "", first[4], "field clumps have no method key")
	assert.Equal(t, "age", first[9])
	assert.Equal(t, "Other/age", first[11])

	last := records[6]
	assert.Equal(t, "Billing/charge", last[4])
	assert.Equal(t, "zip", last[9])
	assert.Equal(t, "1", last[14])
}

func TestDataClumpsFormatter_HTML(t *testing.T) {
	report := sampleReport()
	report.ProjectInfo.ProjectName = "<shop>"

	out, err := NewDataClumpsFormatter().Format(report, domain.OutputFormatHTML)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "badge-field")
	assert.Contains(t, out, "badge-parameter")
	assert.Contains(t, out, "street")
	assert.Contains(t, out, "&lt;shop&gt;")
	assert.NotContains(t, out, "<shop>")
}

func TestDataClumpsFormatter_Errors(t *testing.T) {
	f := NewDataClumpsFormatter()

	_, err := f.Format(nil, domain.OutputFormatJSON)
	assert.Error(t, err)

	_, err = f.Format(sampleReport(), domain.OutputFormat("pdf"))
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnsupportedFormat, domainErr.Code)

	assert.Error(t, f.Write(nil, domain.OutputFormatYAML, &bytes.Buffer{}))
}
