// Package schema provides JSON Schema building and validation
// utilities.
//
// # Quick Start
//
//	documentSchema := schema.MustCompile(schema.Object(
//	    map[string]*schema.Property{
//	        "strategy": schema.String("Reduction strategy").
//	            Enum("summarizer", "sliding_window"),
//	        "keep": schema.ObjectProp(
//	            "Retention target",
//	            map[string]*schema.Property{
//	                "kind":  schema.String("Size kind"),
//	                "value": schema.Number("Threshold").Min(0),
//	            }, "kind", "value",
//	        ),
//	    }, "strategy", "keep",
//	))
//
//	if err := documentSchema.Validate(decoded); err != nil {
//	    // *schema.ValidationError describing the failure
//	}
//
// The policy package validates declarative reduction policies
// against a schema built this way before decoding them. See
// [Object], [Property], and the individual builder functions for
// detailed documentation.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema represents a JSON Schema definition.
// It provides both the raw map representation (for serialization
// and prompts) and a compiled validator (for runtime validation).
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
// This is useful for serialization and passing to LLMs.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates the given data against the schema.
// Returns nil if valid, or an error describing the validation
// failure.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	err := s.compiled.Validate(data)
	if err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError wraps a JSON Schema validation error with a
// cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a
// compiled validator. Returns an error if the schema is invalid.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	// Marshal the schema to JSON for the compiler
	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	// Unmarshal into the format expected by jsonschema
	schemaData, err := jsonschema.UnmarshalJSON(
		strings.NewReader(string(schemaJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	// Compile the schema
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

// Object creates an object schema with the given properties.
// Pass property names as variadic arguments to mark them as
// required.
//
// Example:
//
//	// All properties optional
//	schema.Object(map[string]*schema.Property{
//	    "strategy":         schema.String("Reduction strategy"),
//	    "max_input_tokens": schema.Integer("Context capacity"),
//	})
//
//	// "strategy" and "keep" are required
//	schema.Object(map[string]*schema.Property{
//	    "strategy": schema.String("Reduction strategy"),
//	    "keep":     schema.Number("Retention target"),
//	    "trigger":  schema.Number("Trigger threshold"),
//	}, "strategy", "keep")
func Object(
	properties map[string]*Property, required ...string,
) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
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
	maximum     *float64
	items       map[string]any
	properties  map[string]any
	required    []string
}

func (p *Property) build() map[string]any {
	m := map[string]any{}

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
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.properties != nil {
		m["properties"] = p.properties
	}
	if len(p.required) > 0 {
		m["required"] = p.required
	}

	return m
}

// String creates a string property.
//
// Example:
//
//	schema.String("Size kind").Enum("messages", "tokens", "fraction")
//	schema.String("Digest prompt template")
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
//
// Example:
//
//	schema.Integer("Context window capacity").Min(1)
//	schema.Integer("Digest input budget").Min(0)
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a number property (floating point).
//
// Example:
//
//	schema.Number("Threshold value").Min(0)
//	schema.Number("Capacity fraction").Min(0).Max(1)
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Array creates an array property with the given item schema.
//
// Example:
//
//	// Array of strings
//	schema.Array("Model names", map[string]any{"type": "string"})
//
//	// Array of objects
//	schema.Array("Trigger conditions", schema.Object(
//	    map[string]*schema.Property{
//	        "kind":  schema.String("Size kind"),
//	        "value": schema.Number("Threshold"),
//	    },
//	))
func Array(description string, items map[string]any) *Property {
	return &Property{
		typ: "array", description: description, items: items,
	}
}

// ObjectProp creates an object property with nested properties,
// for objects that appear as values inside another schema. Pass
// nested property names as variadic arguments to mark them as
// required.
//
// Example:
//
//	schema.ObjectProp("Retention target",
//	    map[string]*schema.Property{
//	        "kind":  schema.String("Size kind"),
//	        "value": schema.Number("Threshold"),
//	    }, "kind", "value",
//	)
func ObjectProp(
	description string,
	properties map[string]*Property,
	required ...string,
) *Property {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}
	return &Property{
		typ:         "object",
		description: description,
		properties:  props,
		required:    required,
	}
}

// Enum sets allowed values for the property.
//
// Example:
//
//	schema.String("Strategy").Enum("summarizer", "sliding_window")
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Min sets the minimum value for number/integer properties.
//
// Example:
//
//	schema.Integer("Capacity").Min(1)
//	schema.Number("Fraction").Min(0)
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the maximum value for number/integer properties.
//
// Example:
//
//	schema.Number("Fraction").Max(1)
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}
