package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ludo-technologies/clumpscan/domain"
)

// DataClumpsFormatterImpl implements the DataClumpsOutputFormatter interface
type DataClumpsFormatterImpl struct {
	showDetails bool
}

// NewDataClumpsFormatter creates a new data clumps output formatter
func NewDataClumpsFormatter() *DataClumpsFormatterImpl {
	return &DataClumpsFormatterImpl{}
}

// SetShowDetails lists every matched member pair in text output
func (f *DataClumpsFormatterImpl) SetShowDetails(show bool) {
	f.showDetails = show
}

// Format formats the report according to the specified format
func (f *DataClumpsFormatterImpl) Format(report *domain.DataClumpsReport, format domain.OutputFormat) (string, error) {
	if report == nil {
		return "", domain.NewOutputError("no report to format", nil)
	}

	switch format {
	case domain.OutputFormatText, "":
		return f.formatText(report), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(report)
	case domain.OutputFormatYAML:
		return EncodeYAML(report)
	case domain.OutputFormatCSV:
		return f.formatCSV(report)
	case domain.OutputFormatHTML:
		return f.formatHTML(report)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// Write writes the formatted report to the writer
func (f *DataClumpsFormatterImpl) Write(report *domain.DataClumpsReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		if report == nil {
			return domain.NewOutputError("no report to format", nil)
		}
		return WriteJSON(writer, report)
	case domain.OutputFormatYAML:
		if report == nil {
			return domain.NewOutputError("no report to format", nil)
		}
		return WriteYAML(writer, report)
	}

	formatted, err := f.Format(report, format)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(writer, formatted); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// formatText renders the summary, the clump table and the detector options
func (f *DataClumpsFormatterImpl) formatText(report *domain.DataClumpsReport) string {
	var builder strings.Builder
	utils := NewFormatUtils()
	clumps := sortedClumps(report)
	fieldCount, paramCount := countByType(clumps)

	builder.WriteString(utils.FormatMainHeader("Data Clumps Report"))

	builder.WriteString(utils.FormatSectionHeader("Summary"))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Data clumps", utils.FormatCount(report.ReportSummary.AmountDataClumps)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Field clumps", utils.FormatCount(fieldCount)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Parameter clumps", utils.FormatCount(paramCount)))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Target language", report.TargetLanguage))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Project", projectLabel(report.ProjectInfo)))
	builder.WriteString(utils.FormatSectionSeparator())

	builder.WriteString(utils.FormatSectionHeader("Data Clumps"))
	if len(clumps) == 0 {
		builder.WriteString(strings.Repeat(" ", SectionPadding) + "No data clumps found.\n")
	} else {
		tbl := utils.NewTable()
		tbl.AppendHeader(table.Row{"#", "Type", "From", "To", "Shared"})
		for i, clump := range clumps {
			tbl.AppendRow(table.Row{
				i + 1,
				utils.FormatClumpType(clump.DataClumpType),
				clumpSide(clump.FromClassOrInterfaceName, clump.FromMethodName, clump.FromFilePath),
				clumpSide(clump.ToClassOrInterfaceName, clump.ToMethodName, clump.ToFilePath),
				strings.Join(sharedNames(clump), ", "),
			})
		}
		tbl.AppendFooter(table.Row{"", "", "", "Total", utils.FormatPlural(len(clumps), "clump", "clumps")})
		builder.WriteString(tbl.Render() + "\n")
	}
	builder.WriteString(utils.FormatSectionSeparator())

	if f.showDetails && len(clumps) > 0 {
		builder.WriteString(utils.FormatSectionHeader("Details"))
		for i, clump := range clumps {
			builder.WriteString(fmt.Sprintf("%s%d. %s\n", strings.Repeat(" ", SectionPadding), i+1, utils.FormatMuted(clump.Key)))
			tbl := utils.NewTable()
			tbl.AppendHeader(table.Row{"Member", "Type", "Line", "Counterpart", "Type", "Line"})
			for _, variable := range sortedVariables(clump) {
				row := table.Row{variable.Name, variable.Type, variable.Position.StartLine, "", "", ""}
				if to := variable.ToVariable; to != nil {
					row[3], row[4], row[5] = to.Name, to.Type, to.Position.StartLine
				}
				tbl.AppendRow(row)
			}
			builder.WriteString(indent(tbl.Render(), ItemPadding) + "\n\n")
		}
	}

	builder.WriteString(utils.FormatSectionHeader("Detector Options"))
	tbl := utils.NewTable()
	tbl.AppendHeader(table.Row{"Option", "Value"})
	for _, desc := range domain.OptionDescriptors() {
		tbl.AppendRow(table.Row{desc.Name, fmt.Sprintf("%v", report.Detector.Options[desc.Name])})
	}
	builder.WriteString(tbl.Render() + "\n")
	builder.WriteString(utils.FormatSectionSeparator())

	builder.WriteString(utils.FormatSectionHeader("Metadata"))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Generated at", report.ReportTimestamp))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Detector", report.Detector.Name+" "+report.Detector.Version))
	builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, "Report version", report.ReportVersion))
	for _, key := range sortedAdditionalKeys(report.ProjectInfo.Additional) {
		builder.WriteString(utils.FormatLabelWithIndent(SectionPadding, key, report.ProjectInfo.Additional[key].String()))
	}

	return builder.String()
}

// csvHeader lists one column per attribute of a matched member pair
var csvHeader = []string{
	"clump_key", "data_clump_type",
	"from_file_path", "from_class_or_interface_key", "from_method_key",
	"to_file_path", "to_class_or_interface_key", "to_method_key",
	"variable_key", "variable_name", "variable_type",
	"to_variable_key", "to_variable_name", "to_variable_type",
	"probability",
}

// formatCSV writes one row per matched member
func (f *DataClumpsFormatterImpl) formatCSV(report *domain.DataClumpsReport) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	if err := writer.Write(csvHeader); err != nil {
		return "", domain.NewOutputError("failed to write CSV header", err)
	}

	for _, clump := range sortedClumps(report) {
		for _, variable := range sortedVariables(clump) {
			record := []string{
				clump.Key,
				string(clump.DataClumpType),
				clump.FromFilePath,
				clump.FromClassOrInterfaceKey,
				derefOrEmpty(clump.FromMethodKey),
				clump.ToFilePath,
				clump.ToClassOrInterfaceKey,
				derefOrEmpty(clump.ToMethodKey),
				variable.Key,
				variable.Name,
				variable.Type,
				"", "", "",
				strconv.FormatFloat(variable.Probability, 'f', -1, 64),
			}
			if to := variable.ToVariable; to != nil {
				record[11], record[12], record[13] = to.Key, to.Name, to.Type
			}
			if err := writer.Write(record); err != nil {
				return "", domain.NewOutputError("failed to write CSV record", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", domain.NewOutputError("failed to flush CSV", err)
	}
	return builder.String(), nil
}

// sortedClumps returns the report's clumps ordered by key
func sortedClumps(report *domain.DataClumpsReport) []*domain.DataClump {
	keys := make([]string, 0, len(report.DataClumps))
	for k := range report.DataClumps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*domain.DataClump, 0, len(keys))
	for _, k := range keys {
		out = append(out, report.DataClumps[k])
	}
	return out
}

// sortedVariables returns the matched members of a clump ordered by key
func sortedVariables(clump *domain.DataClump) []*domain.DataClumpVariable {
	keys := make([]string, 0, len(clump.DataClumpData))
	for k := range clump.DataClumpData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*domain.DataClumpVariable, 0, len(keys))
	for _, k := range keys {
		out = append(out, clump.DataClumpData[k])
	}
	return out
}

func sharedNames(clump *domain.DataClump) []string {
	vars := sortedVariables(clump)
	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	return names
}

func countByType(clumps []*domain.DataClump) (fields, params int) {
	for _, c := range clumps {
		switch c.DataClumpType {
		case domain.DataClumpTypeFields:
			fields++
		case domain.DataClumpTypeParameters:
			params++
		}
	}
	return fields, params
}

func sortedAdditionalKeys(additional map[string]domain.PrimitiveValue) []string {
	keys := make([]string, 0, len(additional))
	for k := range additional {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clumpSide renders "Owner.method (file)" for one side of a clump
func clumpSide(owner string, method *string, file string) string {
	label := owner
	if method != nil && *method != "" {
		label += "." + *method
	}
	if file != "" {
		label += " (" + file + ")"
	}
	return label
}

func projectLabel(info domain.ProjectInfo) string {
	return fmt.Sprintf("%s %s (%s)", info.ProjectName, info.ProjectVersion, info.ProjectCommit)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func indent(text string, width int) string {
	pad := strings.Repeat(" ", width)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
