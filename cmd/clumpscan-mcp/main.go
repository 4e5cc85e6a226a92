package main

import (
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/clumpscan/internal/version"
	"github.com/ludo-technologies/clumpscan/mcp"
)

const serverName = "clumpscan"

func main() {
	configPath := pflag.StringP("config", "c", "", "Configuration file path (default: discover .clumpscan.toml next to the analyzed path)")
	debug := pflag.Bool("debug", false, "Log detection progress to stderr")
	pflag.Parse()

	// MCP uses stdout for JSON-RPC, so logs go to stderr
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(*configPath, logger)))

	logger.Info("starting MCP server", "name", serverName, "version", version.Short())
	logger.Info("registered tools", "tools", []string{"detect_data_clumps"})
	logger.Info("server ready, waiting for MCP client connection")

	// Blocks until the server is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
