package llm

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is a compiled JSON Schema document.
type JSONSchema struct {
	name   string
	schema *gojsonschema.Schema
}

// CompileSchema compiles a JSON Schema source.
func CompileSchema(name string, source []byte) (*JSONSchema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(source))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &JSONSchema{name: name, schema: s}, nil
}

// MustCompileSchema is CompileSchema for package-level schemas.
func MustCompileSchema(name string, source []byte) *JSONSchema {
	s, err := CompileSchema(name, source)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate returns a *SchemaError listing every violation.
func (s *JSONSchema) Validate(raw json.RawMessage) error {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaError{Issues: []string{err.Error()}}
	}
	if res.Valid() {
		return nil
	}
	issues := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		issues = append(issues, e.Field()+": "+e.Description())
	}
	return &SchemaError{Issues: issues}
}

// Name is the schema's label, used in logs.
func (s *JSONSchema) Name() string {
	return s.name
}
