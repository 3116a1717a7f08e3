package validation

import (
	"encoding/json"
	"math"

	"github.com/invopop/jsonschema"
)

// ValueProperty is the property a rule is attached to in its wrapping schema
const ValueProperty = "value"

const draft2020 = "https://json-schema.org/draft/2020-12/schema"

// Schema expresses the rule as a JSON Schema. The rule constrains property
// "value" of an object, which lets the required clause be checked as absence.
func (r Rule) Schema() *jsonschema.Schema {
	value := &jsonschema.Schema{}

	switch r.Kind {
	case "string":
		value.Type = "string"
	case "number":
		value.Type = "number"
		if r.Integer {
			value.Type = "integer"
		}
	case "boolean":
		value.Type = "boolean"
	case "date":
		value.Type = "string"
	case "object":
		value.Type = "object"
	case "array":
		value.Type = "array"
	}
	value.Format = r.Format
	value.Pattern = r.Pattern

	switch value.Type {
	case "string":
		if r.HasMin && r.Kind == "string" && r.Min > 0 {
			n := uint64(math.Ceil(r.Min))
			value.MinLength = &n
		}
		if r.HasMax && r.Kind == "string" {
			n := uint64(math.Max(math.Floor(r.Max), 0))
			value.MaxLength = &n
		}
	case "number", "integer":
		if r.HasMin {
			value.Minimum = json.Number(FormatNumber(r.Min))
		}
		if r.HasMax {
			value.Maximum = json.Number(FormatNumber(r.Max))
		}
	}

	root := &jsonschema.Schema{
		Version:    draft2020,
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	root.Properties.Set(ValueProperty, value)
	if r.Required {
		root.Required = []string{ValueProperty}
	}
	return root
}
