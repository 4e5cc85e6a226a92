package parser

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ludo-technologies/clumpscan/domain"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema every input document must satisfy
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// ValidationError lists the schema violations of one document
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document does not match schema: %s", strings.Join(e.Issues, "; "))
}

// Parser validates and decodes parsed-AST documents. It is safe for concurrent use.
type Parser struct {
	schema *gojsonschema.Schema
}

// New compiles the embedded schema and returns a parser
func New() (*Parser, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}
	return &Parser{schema: schema}, nil
}

// Validate checks data against the document schema
func (p *Parser) Validate(data []byte) error {
	result, err := p.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		issues = append(issues, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}
	return &ValidationError{Issues: issues}
}

// Parse validates data and decodes it into one entity per top-level object
func (p *Parser) Parse(data []byte) ([]*domain.ClassOrInterface, error) {
	if err := p.Validate(data); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entities []*domain.ClassOrInterface
		if err := json.Unmarshal(trimmed, &entities); err != nil {
			return nil, fmt.Errorf("failed to decode document array: %w", err)
		}
		return entities, nil
	}

	var entity domain.ClassOrInterface
	if err := json.Unmarshal(trimmed, &entity); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return []*domain.ClassOrInterface{&entity}, nil
}
