package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/clumpscan/internal/version"
	"github.com/ludo-technologies/clumpscan/service"
)

var verbose bool

// NewRootCmd builds the clumpscan command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clumpscan",
		Short: "Detect data clumps in parsed source code",
		Long: `clumpscan finds data clumps: groups of fields or method parameters
that keep appearing together across classes and interfaces.

It reads parsed-AST JSON documents (one class or interface per document)
and reports every pair of owners sharing enough similar members.

Features:
  • Field clumps across classes, with optional subtype matching
  • Parameter clumps across methods, hierarchy aware
  • Text, JSON, YAML, CSV and HTML reports`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewDetectCmd())
	rootCmd.AddCommand(NewOptionsCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newLogger returns a text logger on stderr when --verbose is set
func newLogger(w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// printError reports err with its category and recovery suggestions
func printError(w io.Writer, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	fmt.Fprintf(w, "Error [%s]: %s\n", categorized.Category, categorized.Message)
	if categorized.Message != err.Error() {
		fmt.Fprintf(w, "  %v\n", err)
	}
	if suggestions := categorizer.GetRecoverySuggestions(categorized.Category); len(suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
