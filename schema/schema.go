// Package schema declares and checks the shape of JSON returned by the tools.
//
// Each JSON tool states the top-level keys it needs; the value extracted from
// the model response is validated before it is decoded:
//
//	var briefShape = schema.MustCompile(schema.Object(map[string]*schema.Property{
//	    "company":   schema.Nested("Company facts", map[string]*schema.Property{
//	        "name": schema.String("Company name"),
//	    }, "name"),
//	    "painPoints": schema.Array("Pain points", schema.Items("string")),
//	}, "company"))
//
//	if err := briefShape.Validate(result.Value); err != nil {
//	    // *schema.ValidationError
//	}
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema document plus its compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the schema document.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// String returns the schema document as indented JSON, for prompts and logs.
func (s *Schema) String() string {
	if s == nil {
		return ""
	}
	b, err := json.MarshalIndent(s.raw, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

// Validate checks a decoded JSON value (as produced by encoding/json into an
// any) against the schema. A nil schema accepts everything.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(data); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError reports a value that does not match its schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a schema document. A nil document compiles to a nil
// Schema, which accepts everything.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Use it for package-level
// schemas.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// -----------------------------------------------------------------------------
// Builders
// -----------------------------------------------------------------------------

// Object creates an object schema. Names passed after properties are required.
func Object(properties map[string]*Property, required ...string) map[string]any {
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

// Items creates a bare item schema of the given JSON type, for [Array].
func Items(typ string) map[string]any {
	return map[string]any{"type": typ}
}

// Property is one property of an object schema.
type Property struct {
	typ         string
	description string
	minimum     *float64
	maximum     *float64
	items       map[string]any
	object      map[string]any
	values      map[string]any
}

func (p *Property) build() map[string]any {
	m := map[string]any{}

	// Nested objects carry their own type, properties and required list.
	for k, v := range p.object {
		m[k] = v
	}
	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
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
	if p.values != nil {
		m["additionalProperties"] = p.values
	}
	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
//
//	schema.Integer("Employee count").Min(0)
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a number property. Models frequently return whole numbers
// where a score or percentage is expected, so prefer Number over Integer for
// model output.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Array creates an array property with the given item schema.
//
//	schema.Array("Talking points", schema.Items("string"))
//	schema.Array("Key people", schema.Object(map[string]*schema.Property{
//	    "name": schema.String("Full name"),
//	}, "name"))
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// Nested creates an object property with its own properties and required list.
func Nested(description string, properties map[string]*Property, required ...string) *Property {
	return &Property{description: description, object: Object(properties, required...)}
}

// Map creates an object property whose keys are free-form and whose values all
// match values, e.g. talk tracks keyed by persona.
//
//	schema.Map("Talk tracks by persona", schema.Array("", schema.Items("string")).Schema())
func Map(description string, values map[string]any) *Property {
	return &Property{typ: "object", description: description, values: values}
}

// Schema returns the property as a standalone schema document, for use as
// [Array] items or [Map] values.
func (p *Property) Schema() map[string]any {
	return p.build()
}

// Min sets the minimum for number and integer properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the maximum for number and integer properties.
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}
