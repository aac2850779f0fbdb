package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCompile(t *testing.T) {
	type input struct {
		raw map[string]any
	}

	type expected struct {
		isNil  bool
		hasErr bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "nil schema returns nil",
			input:    input{raw: nil},
			expected: expected{isNil: true},
		},
		{
			name: "valid schema compiles",
			input: input{
				raw: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
					},
				},
			},
		},
		{
			name:     "unknown type fails",
			input:    input{raw: map[string]any{"type": "widget"}},
			expected: expected{isNil: true, hasErr: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.input.raw)

			if tt.expected.hasErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.expected.isNil {
				assert.Nil(t, s)
			} else {
				require.NotNil(t, s)
				assert.NotNil(t, s.Raw())
			}
		})
	}
}

func TestSchema_Validate_NilSchema(t *testing.T) {
	var s *Schema
	err := s.Validate(map[string]any{"foo": "bar"})
	assert.NoError(t, err, "nil schema should always pass validation")
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile(map[string]any{"type": 42}) })
	assert.NotPanics(t, func() { MustCompile(map[string]any{"type": "object"}) })
}

func TestObject_Basic(t *testing.T) {
	schema := Object(map[string]*Property{
		"name": String("The name"),
		"age":  Integer("The age"),
	}, "name")

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok, "expected properties map")
	assert.Len(t, props, 2)

	required, ok := schema["required"].([]string)
	require.True(t, ok, "expected required array")
	assert.Equal(t, []string{"name"}, required)
}

func TestProperty_Build(t *testing.T) {
	tests := []struct {
		name     string
		input    *Property
		expected map[string]any
	}{
		{
			name:  "string with constraints",
			input: String("A name").MinLength(1).Pattern("^[a-z]+$"),
			expected: map[string]any{
				"type":        "string",
				"description": "A name",
				"minLength":   1,
				"pattern":     "^[a-z]+$",
			},
		},
		{
			name:  "integer with minimum and default",
			input: Integer("A count").Min(0).Default(10),
			expected: map[string]any{
				"type":        "integer",
				"description": "A count",
				"minimum":     float64(0),
				"default":     10,
			},
		},
		{
			name:  "enum",
			input: String("A status").Enum("pending", "active"),
			expected: map[string]any{
				"type":        "string",
				"description": "A status",
				"enum":        []any{"pending", "active"},
			},
		},
		{
			name:  "boolean",
			input: Boolean("A flag"),
			expected: map[string]any{
				"type":        "boolean",
				"description": "A flag",
			},
		},
		{
			name:  "array",
			input: Array("A list", map[string]any{"type": "string"}),
			expected: map[string]any{
				"type":        "array",
				"description": "A list",
				"items":       map[string]any{"type": "string"},
			},
		},
		{
			name:  "map",
			input: Map("Keys", map[string]any{"type": "string"}),
			expected: map[string]any{
				"type":                 "object",
				"description":          "Keys",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.build())
		})
	}
}

func TestNested(t *testing.T) {
	built := Nested("Logging", Object(map[string]*Property{
		"level": String("Level"),
	})).build()

	assert.Equal(t, "object", built["type"])
	assert.Equal(t, "Logging", built["description"])
	assert.Contains(t, built, "properties")
}

func TestValidationError(t *testing.T) {
	inner := errors.New("bad")
	err := &ValidationError{Err: inner}
	assert.Equal(t, "schema validation failed: bad", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestSchema_ValidateYAML(t *testing.T) {
	s, err := Compile(Object(map[string]*Property{
		"name":  String("Task name").MinLength(1),
		"tries": Integer("Retry bound").Min(0),
		"log": Nested("Logging", Object(map[string]*Property{
			"level":  String("Level").Enum("debug", "info"),
			"pretty": Boolean("Console output"),
		})),
		"keys": Map("Keys", map[string]any{"type": "string"}),
		"tags": Array("Tags", map[string]any{"type": "string"}),
	}, "name"))
	require.NoError(t, err)

	type expected struct {
		hasErr bool
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{
			name: "valid document",
			input: `
name: cat
tries: 3
log:
  level: debug
  pretty: true
keys:
  openai: sk-1
tags: [a, b]
`,
		},
		{name: "missing required", input: "tries: 3\n", expected: expected{hasErr: true}},
		{name: "wrong type", input: "name: cat\ntries: many\n", expected: expected{hasErr: true}},
		{name: "below minimum", input: "name: cat\ntries: -1\n", expected: expected{hasErr: true}},
		{name: "unknown key", input: "name: cat\ncolour: red\n", expected: expected{hasErr: true}},
		{name: "nested enum", input: "name: cat\nlog:\n  level: loud\n", expected: expected{hasErr: true}},
		{name: "map value type", input: "name: cat\nkeys:\n  openai: 12\n", expected: expected{hasErr: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &doc))

			err := s.Validate(doc)
			if tt.expected.hasErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
