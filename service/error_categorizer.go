package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/clumpscan/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes:    initializeErrorCodes(),
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorCodes maps domain error codes to categories
func initializeErrorCodes() map[string]domain.ErrorCategory {
	return map[string]domain.ErrorCategory{
		domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
		domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
		domain.ErrCodeParseError:        domain.ErrorCategoryProcessing,
		domain.ErrCodeAnalysisError:     domain.ErrorCategoryProcessing,
		domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
		domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
		domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryConfig,
	}
}

// initializeErrorPatterns initializes error pattern mappings, checked in order
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{
			"timeout",
			"deadline",
			"context canceled",
			"operation timed out",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"configuration",
			"unknown detector option",
			"invalid settings",
			"toml",
			"yaml",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no documents found",
			"no files found",
			"file not found",
			"cannot access",
			"permission denied",
			"path",
			"directory",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"cannot create",
			"failed to generate",
			"report generation",
		}},
		{domain.ErrorCategoryProcessing, []string{
			"parse",
			"schema",
			"decode",
			"invalid json",
			"detection",
			"analysis",
		}},
	}
}

// Categorize determines the category of an error. Domain error codes and
// context errors take precedence over message patterns.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ec.categorized(domain.ErrorCategoryTimeout, err)
	}

	var domainErr domain.DomainError
	if errors.As(err, &domainErr) {
		if category, ok := ec.codes[domainErr.Code]; ok {
			return ec.categorized(category, err)
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, entry := range ec.patterns {
		if containsAnyPattern(errMsg, entry.patterns) {
			return ec.categorized(entry.category, err)
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categorized(category domain.ErrorCategory, err error) *domain.CategorizedError {
	return &domain.CategorizedError{
		Category: category,
		Message:  ec.getCategoryMessage(category),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the paths exist and contain parsed-AST .json documents",
			"Try: clumpscan detect . --verbose to see detailed file discovery",
			"Check include_patterns and exclude_patterns in .clumpscan.toml",
			"Use absolute paths if relative paths are causing issues",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: clumpscan init to generate a valid config file",
			"Try: clumpscan options to list the supported detector options",
			"Check for syntax errors in .clumpscan.toml",
		},
		domain.ErrorCategoryTimeout: {
			"The run was cancelled before all documents were read",
			"Try: Analyze a smaller set of documents",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions and output format validity",
			"Ensure output directory exists and is writable",
			"Try writing to a different location with --output",
		},
		domain.ErrorCategoryProcessing: {
			"Some documents may not match the parsed-AST schema",
			"Re-export the documents with the AST exporter and try again",
			"Run with --verbose to see which document failed",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Check the documentation for known issues",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read input documents",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Detection was cancelled",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while decoding or analyzing documents",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
