package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/internal/version"
	"github.com/ludo-technologies/clumpscan/service"
)

const defaultMaxResults = 50

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("", nil)
	}
	return &HandlerSet{deps: deps}
}

// optionArgs maps tool arguments to the CLI flag names the config merge understands
var optionArgs = map[string]string{
	ArgMinFields:        service.FlagMinFields,
	ArgMinParams:        service.FlagMinParams,
	ArgTypeVariables:    service.FlagTypeVariables,
	ArgFieldSubtypes:    service.FlagFieldSubtypes,
	ArgInheritAll:       service.FlagInheritAll,
	ArgHierarchy:        service.FlagHierarchy,
	ArgUnknownHierarchy: service.FlagUnknownHierarchy,
	ArgRecursive:        service.FlagRecursive,
}

// HandleDetectDataClumps handles the detect_data_clumps tool
func (h *HandlerSet) HandleDetectDataClumps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args[ArgPath].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	outputMode := "summary"
	if om, ok := args[ArgOutputMode].(string); ok && om != "" {
		outputMode = om
	}
	if outputMode != "summary" && outputMode != "full" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid output_mode %q: expected summary or full", outputMode)), nil
	}

	maxResults := defaultMaxResults
	if raw, ok := args[ArgMaxResults]; ok {
		n, err := cast.ToIntE(raw)
		if err != nil || n < 0 {
			return mcp.NewToolResultError("max_results must be a non-negative number"), nil
		}
		maxResults = n
	}

	req, explicit, err := buildRequest(path, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.ConfigPath = h.deps.ConfigPath()

	uc, err := h.deps.BuildUseCase(explicit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create detector: %v", err)), nil
	}

	report, err := uc.AnalyzeAndReturn(ctx, *req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detection failed: %s", describeError(err))), nil
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = report
	default:
		responseData = summarizeReport(report, maxResults)
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// buildRequest converts tool arguments into a request and the set of
// options the caller supplied explicitly
func buildRequest(path string, args map[string]interface{}) (*domain.DataClumpsRequest, map[string]bool, error) {
	req := domain.DefaultDataClumpsRequest()
	req.Paths = []string{path}
	req.OutputFormat = domain.OutputFormatJSON
	req.DetectorVersion = version.Short()

	explicit := make(map[string]bool)
	for arg, flag := range optionArgs {
		if _, ok := args[arg]; ok {
			explicit[flag] = true
		}
	}

	intArg := func(name string, target *int) error {
		raw, ok := args[name]
		if !ok {
			return nil
		}
		n, err := cast.ToIntE(raw)
		if err != nil {
			return fmt.Errorf("%s must be a number", name)
		}
		*target = n
		return nil
	}
	boolArg := func(name string, target *bool) error {
		raw, ok := args[name]
		if !ok {
			return nil
		}
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("%s must be a boolean", name)
		}
		*target = b
		return nil
	}

	opts := &req.Options
	recursive := true
	for _, apply := range []func() error{
		func() error { return intArg(ArgMinFields, &opts.SharedFieldParametersMinimum) },
		func() error { return intArg(ArgMinParams, &opts.SharedMethodParametersMinimum) },
		func() error { return boolArg(ArgTypeVariables, &opts.TypeVariablesConsidered) },
		func() error { return boolArg(ArgFieldSubtypes, &opts.SharedFieldParametersCheckIfAreSubtypes) },
		func() error { return boolArg(ArgInheritAll, &opts.SubclassInheritsAllMembersFromSuperclass) },
		func() error { return boolArg(ArgHierarchy, &opts.SharedMethodParametersHierarchyConsidered) },
		func() error { return boolArg(ArgUnknownHierarchy, &opts.AnalyseMethodsWithUnknownHierarchy) },
		func() error { return boolArg(ArgRecursive, &recursive) },
	} {
		if err := apply(); err != nil {
			return nil, nil, err
		}
	}
	req.Recursive = domain.BoolPtr(recursive)

	return req, explicit, nil
}

// summarizeReport returns counts plus one entry per clump, ordered by key
func summarizeReport(report *domain.DataClumpsReport, maxResults int) map[string]interface{} {
	keys := make([]string, 0, len(report.DataClumps))
	fieldCount, paramCount := 0, 0
	for key, clump := range report.DataClumps {
		keys = append(keys, key)
		if clump.DataClumpType == domain.DataClumpTypeFields {
			fieldCount++
		} else {
			paramCount++
		}
	}
	sort.Strings(keys)

	limit := len(keys)
	if maxResults > 0 && maxResults < limit {
		limit = maxResults
	}

	clumps := make([]map[string]interface{}, 0, limit)
	for _, key := range keys[:limit] {
		clump := report.DataClumps[key]
		clumps = append(clumps, map[string]interface{}{
			"key":       clump.Key,
			"type":      clump.DataClumpType.Classification(),
			"from":      describeSide(clump.FromClassOrInterfaceName, clump.FromMethodName),
			"to":        describeSide(clump.ToClassOrInterfaceName, clump.ToMethodName),
			"from_file": clump.FromFilePath,
			"to_file":   clump.ToFilePath,
			"variables": variableNames(clump),
		})
	}

	return map[string]interface{}{
		"clumps": clumps,
		"summary": map[string]interface{}{
			"amount_data_clumps": report.ReportSummary.AmountDataClumps,
			"field_clumps":       fieldCount,
			"parameter_clumps":   paramCount,
			"listed":             len(clumps),
			"project_name":       report.ProjectInfo.ProjectName,
			"report_timestamp":   report.ReportTimestamp,
		},
		"options": report.Detector.Options,
	}
}

func describeSide(class string, method *string) string {
	if method == nil {
		return class
	}
	return class + "." + *method
}

func variableNames(clump *domain.DataClump) []string {
	names := make([]string, 0, len(clump.DataClumpData))
	for _, v := range clump.DataClumpData {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	return names
}

// describeError prefixes domain errors with their category and suggestions
func describeError(err error) string {
	if domain.ErrorCode(err) == "" {
		return err.Error()
	}
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	msg := fmt.Sprintf("[%s] %s", categorized.Category, err.Error())
	if suggestions := categorizer.GetRecoverySuggestions(categorized.Category); len(suggestions) > 0 {
		msg += " (" + strings.Join(suggestions, "; ") + ")"
	}
	return msg
}
