package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	type input struct {
		raw map[string]any
	}

	type expected struct {
		isNil    bool
		hasErr   bool
		rawIsNil bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:  "nil schema returns nil",
			input: input{raw: nil},
			expected: expected{
				isNil:    true,
				hasErr:   false,
				rawIsNil: true,
			},
		},
		{
			name: "valid schema compiles",
			input: input{
				raw: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"strategy": map[string]any{"type": "string"},
					},
				},
			},
			expected: expected{
				isNil:    false,
				hasErr:   false,
				rawIsNil: false,
			},
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
				assert.NotNil(t, s)
				if !tt.expected.rawIsNil {
					assert.NotNil(t, s.Raw())
				}
			}
		})
	}
}

func TestSchema_Validate(t *testing.T) {
	type input struct {
		schema map[string]any
		data   map[string]any
	}

	type expected struct {
		hasErr          bool
		isValidationErr bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "valid data passes",
			input: input{
				schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"strategy": map[string]any{"type": "string"},
						"keep":     map[string]any{"type": "integer"},
					},
					"required": []any{"strategy"},
				},
				data: map[string]any{
					"strategy": "summarizer",
					"keep":     20,
				},
			},
			expected: expected{
				hasErr:          false,
				isValidationErr: false,
			},
		},
		{
			name: "missing required field fails",
			input: input{
				schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"strategy": map[string]any{"type": "string"},
					},
					"required": []any{"strategy"},
				},
				data: map[string]any{},
			},
			expected: expected{
				hasErr:          true,
				isValidationErr: true,
			},
		},
		{
			name: "wrong type fails",
			input: input{
				schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"keep": map[string]any{"type": "integer"},
					},
				},
				data: map[string]any{
					"keep": "not an integer",
				},
			},
			expected: expected{
				hasErr:          true,
				isValidationErr: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.input.schema)
			require.NoError(t, err)

			err = s.Validate(tt.input.data)

			if tt.expected.hasErr {
				assert.Error(t, err)
				if tt.expected.isValidationErr {
					_, ok := err.(*ValidationError)
					assert.True(t, ok, "expected *ValidationError, got %T", err)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchema_Validate_NilSchema(t *testing.T) {
	var s *Schema
	err := s.Validate(map[string]any{"foo": "bar"})
	assert.NoError(t, err, "nil schema should always pass validation")
}

func TestMustCompile(t *testing.T) {
	type input struct {
		raw map[string]any
	}

	type expected struct {
		isNil bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "valid schema returns non-nil",
			input:    input{raw: map[string]any{"type": "object"}},
			expected: expected{isNil: false},
		},
		{
			name:     "nil input returns nil",
			input:    input{raw: nil},
			expected: expected{isNil: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustCompile(tt.input.raw)

			if tt.expected.isNil {
				assert.Nil(t, s)
			} else {
				assert.NotNil(t, s)
			}
		})
	}
}

func TestObject_Basic(t *testing.T) {
	schema := Object(map[string]*Property{
		"strategy": String("The strategy"),
		"keep":     Integer("Turns to keep"),
	}, "strategy")

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok, "expected properties map")
	assert.Len(t, props, 2)

	required, ok := schema["required"].([]string)
	require.True(t, ok, "expected required array")
	assert.Equal(t, []string{"strategy"}, required)
}

func TestInteger_WithConstraints(t *testing.T) {
	prop := Integer("A count").Min(0).Max(100)

	built := prop.build()

	assert.Equal(t, "integer", built["type"])
	assert.Equal(t, float64(0), built["minimum"])
	assert.Equal(t, float64(100), built["maximum"])
}

func TestNumber_Basic(t *testing.T) {
	prop := Number("A threshold")
	built := prop.build()

	assert.Equal(t, "number", built["type"])
	assert.Equal(t, "A threshold", built["description"])
}

func TestArray_Basic(t *testing.T) {
	items := map[string]any{"type": "string"}
	prop := Array("A list", items)
	built := prop.build()

	assert.Equal(t, "array", built["type"])
	assert.Equal(t, "A list", built["description"])
	assert.NotNil(t, built["items"])
}

func TestObjectProp_Basic(t *testing.T) {
	prop := ObjectProp("Retention target", map[string]*Property{
		"kind":  String("Size kind"),
		"value": Number("Threshold"),
	}, "kind", "value")

	built := prop.build()

	assert.Equal(t, "object", built["type"])
	assert.Equal(t, "Retention target", built["description"])

	props, ok := built["properties"].(map[string]any)
	require.True(t, ok, "expected nested properties map")
	assert.Len(t, props, 2)

	required, ok := built["required"].([]string)
	require.True(t, ok, "expected required array")
	assert.Equal(t, []string{"kind", "value"}, required)
}

func TestProperty_Enum(t *testing.T) {
	prop := String("A strategy").Enum("summarizer", "sliding_window")
	built := prop.build()

	enum, ok := built["enum"].([]any)
	require.True(t, ok, "expected enum array")
	assert.Equal(t, []any{"summarizer", "sliding_window"}, enum)
}

func TestValidationError_Error(t *testing.T) {
	originalErr := &ValidationError{Err: nil}
	msg := originalErr.Error()
	assert.Equal(t, "schema validation failed: <nil>", msg)
}

func TestValidationError_Unwrap(t *testing.T) {
	inner := &ValidationError{}
	outer := &ValidationError{Err: inner}

	unwrapped := outer.Unwrap()
	assert.Equal(t, inner, unwrapped)
}

func TestBuilderSchema_Validation(t *testing.T) {
	type input struct {
		data map[string]any
	}

	type expected struct {
		hasErr bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "valid data passes",
			input: input{
				data: map[string]any{
					"strategy": "summarizer",
					"keep": map[string]any{
						"kind":  "messages",
						"value": 20,
					},
				},
			},
			expected: expected{hasErr: false},
		},
		{
			name: "missing required keep fails",
			input: input{
				data: map[string]any{
					"strategy": "summarizer",
				},
			},
			expected: expected{hasErr: true},
		},
		{
			name: "strategy outside enum fails",
			input: input{
				data: map[string]any{
					"strategy": "compactor",
					"keep": map[string]any{
						"kind":  "messages",
						"value": 20,
					},
				},
			},
			expected: expected{hasErr: true},
		},
	}

	raw := Object(map[string]*Property{
		"strategy": String("Reduction strategy").
			Enum("summarizer", "sliding_window"),
		"keep": ObjectProp("Retention target", map[string]*Property{
			"kind":  String("Size kind"),
			"value": Number("Threshold").Min(0),
		}, "kind", "value"),
	}, "strategy", "keep")

	s, err := Compile(raw)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.input.data)

			if tt.expected.hasErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
