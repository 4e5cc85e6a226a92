package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool argument names
const (
	ArgPath             = "path"
	ArgMinFields        = "min_fields"
	ArgMinParams        = "min_params"
	ArgTypeVariables    = "type_variables"
	ArgFieldSubtypes    = "field_subtypes"
	ArgInheritAll       = "inherit_all"
	ArgHierarchy        = "hierarchy"
	ArgUnknownHierarchy = "unknown_hierarchy"
	ArgRecursive        = "recursive"
	ArgOutputMode       = "output_mode"
	ArgMaxResults       = "max_results"
)

// RegisterTools registers all clumpscan MCP tools with the server
func RegisterTools(s *server.MCPServer, handlers *HandlerSet) {
	if handlers == nil {
		handlers = NewHandlerSet(nil)
	}

	s.AddTool(mcp.NewTool("detect_data_clumps",
		mcp.WithDescription("Detect data clumps (groups of fields or method parameters that recur together) across parsed-AST JSON documents"),
		mcp.WithString(ArgPath,
			mcp.Required(),
			mcp.Description("Path to a parsed-AST JSON document or a directory of documents")),
		mcp.WithNumber(ArgMinFields,
			mcp.Description("Minimum number of shared fields for a field clump (default: 3)")),
		mcp.WithNumber(ArgMinParams,
			mcp.Description("Minimum number of shared parameters for a parameter clump (default: 3)")),
		mcp.WithBoolean(ArgTypeVariables,
			mcp.Description("Treat generic type variables as matchable types (default: false)")),
		mcp.WithBoolean(ArgFieldSubtypes,
			mcp.Description("Skip field clumps between classes in the same hierarchy (default: false)")),
		mcp.WithBoolean(ArgInheritAll,
			mcp.Description("Subclasses inherit every superclass field when comparing (default: false)")),
		mcp.WithBoolean(ArgHierarchy,
			mcp.Description("Compare methods that belong to the same inheritance hierarchy (default: false)")),
		mcp.WithBoolean(ArgUnknownHierarchy,
			mcp.Description("Analyse methods whose hierarchy cannot be fully resolved (default: false)")),
		mcp.WithBoolean(ArgRecursive,
			mcp.Description("Recursively scan directories (default: true)")),
		mcp.WithString(ArgOutputMode,
			mcp.Enum("summary", "full"),
			mcp.Description("summary returns counts and one line per clump, full returns the complete report (default: summary)")),
		mcp.WithNumber(ArgMaxResults,
			mcp.Description("Maximum clumps listed in summary mode, 0 = all (default: 50)")),
	), handlers.HandleDetectDataClumps)
}
