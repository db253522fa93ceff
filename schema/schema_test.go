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
			input: input{raw: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"answer": map[string]any{"type": "string"},
				},
			}},
			expected: expected{},
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
				assert.Equal(t, tt.input.raw, s.Raw())
			}
		})
	}
}

func TestSchema_Validate(t *testing.T) {
	shape := MustCompile(Object(map[string]*Property{
		"company": Nested("Company facts", map[string]*Property{
			"name":     String("Company name"),
			"industry": String("Industry"),
		}, "name"),
		"painPoints": Array("Pain points", Items("string")),
		"score":      Number("Priority").Min(0).Max(100),
		"talkTracks": Map("Talk tracks by persona", Array("", Items("string")).Schema()),
	}, "company"))

	type input struct {
		data any
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
			name: "valid value passes",
			input: input{data: map[string]any{
				"company":    map[string]any{"name": "Acme", "industry": "Fintech"},
				"painPoints": []any{"manual reconciliation"},
				"score":      float64(85),
				"talkTracks": map[string]any{"AE": []any{"open with ROI"}},
			}},
			expected: expected{hasErr: false},
		},
		{
			name:     "missing required key fails",
			input:    input{data: map[string]any{"painPoints": []any{}}},
			expected: expected{hasErr: true},
		},
		{
			name:     "nested required key fails",
			input:    input{data: map[string]any{"company": map[string]any{"industry": "Fintech"}}},
			expected: expected{hasErr: true},
		},
		{
			name: "wrong item type fails",
			input: input{data: map[string]any{
				"company":    map[string]any{"name": "Acme"},
				"painPoints": []any{float64(1)},
			}},
			expected: expected{hasErr: true},
		},
		{
			name: "score out of range fails",
			input: input{data: map[string]any{
				"company": map[string]any{"name": "Acme"},
				"score":   float64(140),
			}},
			expected: expected{hasErr: true},
		},
		{
			name: "map value type fails",
			input: input{data: map[string]any{
				"company":    map[string]any{"name": "Acme"},
				"talkTracks": map[string]any{"SDR": "not a list"},
			}},
			expected: expected{hasErr: true},
		},
		{
			name:     "array is not an object",
			input:    input{data: []any{"Acme"}},
			expected: expected{hasErr: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shape.Validate(tt.input.data)

			if tt.expected.hasErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchema_Validate_NilSchema(t *testing.T) {
	var s *Schema
	assert.NoError(t, s.Validate(map[string]any{"foo": "bar"}))
	assert.Equal(t, "", s.String())
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile(map[string]any{"type": 12}) })
}

func TestObject(t *testing.T) {
	raw := Object(map[string]*Property{
		"name": String("Account name"),
		"size": Integer("Employees").Min(0),
	}, "name")

	assert.Equal(t, "object", raw["type"])
	assert.Equal(t, []string{"name"}, raw["required"])

	props, ok := raw["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"type":        "integer",
		"description": "Employees",
		"minimum":     float64(0),
	}, props["size"])
}

func TestNested(t *testing.T) {
	built := Nested("Summary", map[string]*Property{
		"total": Integer("Total"),
	}, "total").build()

	assert.Equal(t, "object", built["type"])
	assert.Equal(t, "Summary", built["description"])
	assert.Equal(t, []string{"total"}, built["required"])
}

func TestSchema_String(t *testing.T) {
	s := MustCompile(Object(map[string]*Property{"a": Integer("count")}))
	assert.Contains(t, s.String(), `"type": "integer"`)
}

func TestValidationError(t *testing.T) {
	inner := &ValidationError{}
	outer := &ValidationError{Err: inner}

	assert.Equal(t, "schema validation failed: <nil>", inner.Error())
	assert.Equal(t, inner, outer.Unwrap())
}
