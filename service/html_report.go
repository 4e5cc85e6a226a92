package service

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/ludo-technologies/clumpscan/domain"
)

//go:embed templates/dataclumps.html.tmpl
var dataClumpsHTMLTemplate string

var htmlReportTemplate = template.Must(template.New("dataclumps").Parse(dataClumpsHTMLTemplate))

type htmlReportData struct {
	Title           string
	Project         domain.ProjectInfo
	TargetLanguage  string
	Timestamp       string
	DetectorName    string
	DetectorVersion string
	ReportVersion   string
	Total           int
	FieldClumps     int
	ParameterClumps int
	Clumps          []htmlClump
	Options         []htmlPair
	Additional      []htmlPair
}

type htmlClump struct {
	Index          int
	Key            string
	Classification string
	From           string
	To             string
	Shared         string
	Members        []htmlMember
}

type htmlMember struct {
	Name   string
	Type   string
	ToName string
	ToType string
}

type htmlPair struct {
	Name  string
	Value string
}

// formatHTML renders the report as a standalone HTML page
func (f *DataClumpsFormatterImpl) formatHTML(report *domain.DataClumpsReport) (string, error) {
	clumps := sortedClumps(report)
	fieldCount, paramCount := countByType(clumps)

	data := htmlReportData{
		Title:           "Data Clumps Report",
		Project:         report.ProjectInfo,
		TargetLanguage:  report.TargetLanguage,
		Timestamp:       report.ReportTimestamp,
		DetectorName:    report.Detector.Name,
		DetectorVersion: report.Detector.Version,
		ReportVersion:   report.ReportVersion,
		Total:           report.ReportSummary.AmountDataClumps,
		FieldClumps:     fieldCount,
		ParameterClumps: paramCount,
	}

	for i, clump := range clumps {
		hc := htmlClump{
			Index:          i + 1,
			Key:            clump.Key,
			Classification: clump.DataClumpType.Classification(),
			From:           clumpSide(clump.FromClassOrInterfaceName, clump.FromMethodName, clump.FromFilePath),
			To:             clumpSide(clump.ToClassOrInterfaceName, clump.ToMethodName, clump.ToFilePath),
			Shared:         strings.Join(sharedNames(clump), ", "),
		}
		for _, v := range sortedVariables(clump) {
			member := htmlMember{Name: v.Name, Type: v.Type}
			if v.ToVariable != nil {
				member.ToName, member.ToType = v.ToVariable.Name, v.ToVariable.Type
			}
			hc.Members = append(hc.Members, member)
		}
		data.Clumps = append(data.Clumps, hc)
	}

	for _, desc := range domain.OptionDescriptors() {
		data.Options = append(data.Options, htmlPair{Name: desc.Name, Value: fmt.Sprintf("%v", report.Detector.Options[desc.Name])})
	}
	for _, key := range sortedAdditionalKeys(report.ProjectInfo.Additional) {
		data.Additional = append(data.Additional, htmlPair{Name: key, Value: report.ProjectInfo.Additional[key].String()})
	}

	var builder strings.Builder
	if err := htmlReportTemplate.Execute(&builder, data); err != nil {
		return "", domain.NewOutputError("failed to render HTML report", err)
	}
	return builder.String(), nil
}
