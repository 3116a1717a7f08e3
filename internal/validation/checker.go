package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Checker evaluates values against a compiled rule
type Checker struct {
	expr   string
	schema *jsonschema.Schema
}

// Compile parses an expression and compiles its schema with format
// assertions enabled.
func Compile(expr string) (*Checker, error) {
	rule, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rule.Schema())
	if err != nil {
		return nil, fmt.Errorf("marshaling schema for %q: %w", expr, err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource("rule.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("loading schema for %q: %w", expr, err)
	}
	schema, err := c.Compile("rule.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema for %q: %w", expr, err)
	}

	return &Checker{expr: expr, schema: schema}, nil
}

// Check validates a present value
func (c *Checker) Check(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}
	return c.CheckLiteral(string(data))
}

// CheckLiteral validates a value given as a JSON literal, as produced by
// mock synthesis.
func (c *Checker) CheckLiteral(literal string) error {
	var doc any
	dec := json.NewDecoder(strings.NewReader(literal))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decoding literal %s: %w", literal, err)
	}
	if dec.More() {
		return fmt.Errorf("decoding literal %s: trailing data", literal)
	}
	if err := c.schema.Validate(map[string]any{ValueProperty: doc}); err != nil {
		return fmt.Errorf("%s rejects %s: %w", c.expr, literal, err)
	}
	return nil
}

// CheckMissing validates the absence of a value
func (c *Checker) CheckMissing() error {
	if err := c.schema.Validate(map[string]any{}); err != nil {
		return fmt.Errorf("%s rejects missing input: %w", c.expr, err)
	}
	return nil
}
