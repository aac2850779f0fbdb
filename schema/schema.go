// Package schema provides JSON Schema building and validation utilities for
// configuration and task documents.
//
// # Quick Start
//
//	s := schema.MustCompile(schema.Object(map[string]*schema.Property{
//	    "name":      schema.String("Task name").MinLength(1),
//	    "max_tries": schema.Integer("Retry bound").Min(0).Default(10),
//	}, "name")) // "name" is required
//
//	var doc map[string]any
//	_ = yaml.Unmarshal(data, &doc)
//	if err := s.Validate(doc); err != nil {
//	    // *schema.ValidationError
//	}
//
// See [Object], [Property], and individual builder functions for detailed documentation.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema represents a JSON Schema definition.
// It provides both the raw map representation and a compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates doc against the schema. doc may be anything that
// marshals to JSON, such as a YAML document decoded into map[string]any.
// Returns nil if valid, or a *ValidationError describing the failure.
func (s *Schema) Validate(doc any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	normalized, err := normalize(doc)
	if err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// normalize converts doc to the value types the validator expects.
func normalize(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("document is not JSON-compatible: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a compiled validator.
// Returns an error if the schema is invalid.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schemaData, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// MustCompile is like Compile but panics on error.
// Use this for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// -----------------------------------------------------------------------------
// Schema Builders
// -----------------------------------------------------------------------------

// Object creates a closed object schema with the given properties: keys not
// listed are rejected. Pass property names as variadic arguments to mark them
// as required.
//
// Example:
//
//	schema.Object(map[string]*schema.Property{
//	    "kind":  schema.String("Backend").Enum("openai", "ollama"),
//	    "model": schema.String("Model id"),
//	}, "kind")
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// Property represents a property in an object schema.
type Property struct {
	typ         string
	description string
	enum        []any
	minimum     *float64
	minLength   *int
	pattern     string
	items       map[string]any
	values      map[string]any
	object      map[string]any
	def         any // default value
}

func (p *Property) build() map[string]any {
	m := map[string]any{}
	for k, v := range p.object {
		m[k] = v
	}

	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.minLength != nil {
		m["minLength"] = *p.minLength
	}
	if p.pattern != "" {
		m["pattern"] = p.pattern
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.values != nil {
		m["additionalProperties"] = p.values
	}
	if p.def != nil {
		m["default"] = p.def
	}

	return m
}

// String creates a string property.
//
// Example:
//
//	schema.String("Model id")
//	schema.String("Log level").Enum("debug", "info", "warn", "error")
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
//
// Example:
//
//	schema.Integer("Retry bound").Min(0)
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Boolean creates a boolean property.
//
// Example:
//
//	schema.Boolean("Human-readable console output").Default(false)
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array creates an array property with the given item schema.
//
// Example:
//
//	schema.Array("Worked examples", schema.Object(map[string]*schema.Property{
//	    "question": schema.String("Question text"),
//	    "answer":   schema.String("Expected answer"),
//	}, "question", "answer"))
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// Map creates an object property whose keys are free-form and whose values
// all match values.
//
// Example:
//
//	schema.Map("API keys by service", map[string]any{"type": "string"})
func Map(description string, values map[string]any) *Property {
	return &Property{typ: "object", description: description, values: values}
}

// Nested creates a property from an object schema built with Object.
//
// Example:
//
//	schema.Nested("Logging", schema.Object(map[string]*schema.Property{
//	    "level": schema.String("Log level"),
//	}))
func Nested(description string, object map[string]any) *Property {
	return &Property{description: description, object: object}
}

// Enum sets allowed values for the property.
//
// Example:
//
//	schema.String("Backend").Enum("openai", "anthropic", "gemini", "ollama")
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Min sets the minimum value for integer properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// MinLength sets the minimum length for string properties.
func (p *Property) MinLength(min int) *Property {
	p.minLength = &min
	return p
}

// Pattern sets a regex pattern for string validation.
//
// Example:
//
//	schema.String("Event TTL").Pattern(`^[0-9]+(ns|us|ms|s|m|h)$`)
func (p *Property) Pattern(pattern string) *Property {
	p.pattern = pattern
	return p
}

// Default sets the default value for the property.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}
