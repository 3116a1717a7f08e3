// Package validation builds chainable validation-rule expressions for
// generated service code and reads them back for checking.
//
// Expressions follow the Joi chaining syntax the service templates embed
// verbatim, e.g. Joi.number().integer().min(1).max(10).required().
package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is the input of rule synthesis. Clauses are emitted in a fixed order:
// base kind, add-on, min, max, required.
type Spec struct {
	Kind     string // structural kind, e.g. "string" or "number"
	AddOn    string // optional chained add-on, with or without a leading "."
	HasMin   bool
	Min      float64
	HasMax   bool
	Max      float64
	Required bool
}

// Clauses returns the rule's clauses without separators
func (s Spec) Clauses() []string {
	clauses := []string{fmt.Sprintf("Joi.%s()", s.Kind)}
	if addOn := strings.TrimPrefix(s.AddOn, "."); addOn != "" {
		clauses = append(clauses, addOn)
	}
	if s.HasMin {
		clauses = append(clauses, fmt.Sprintf("min(%s)", FormatNumber(s.Min)))
	}
	if s.HasMax {
		clauses = append(clauses, fmt.Sprintf("max(%s)", FormatNumber(s.Max)))
	}
	if s.Required {
		clauses = append(clauses, "required()")
	}
	return clauses
}

// Expression joins the clauses into one chain. Every clause boundary is a ".".
func (s Spec) Expression() string {
	return strings.Join(s.Clauses(), ".")
}

// FormatNumber renders a bound in its shortest decimal form (1, 2.5, -3)
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Rule is the interpreted form of an expression
type Rule struct {
	Kind     string
	Integer  bool
	Format   string // JSON Schema format, e.g. "email"
	Pattern  string // regular expression without delimiters
	HasMin   bool
	Min      float64
	HasMax   bool
	Max      float64
	Required bool
}

// methodFormats maps chained format methods to JSON Schema formats
var methodFormats = map[string]string{
	"email": "email",
	"uri":   "uri",
	"guid":  "uuid",
	"uuid":  "uuid",
	"iso":   "date-time",
}

// call is one ".name(arg)" link of a chain
type call struct {
	name string
	arg  string
}

// ParseExpression interprets a chain produced by Spec.Expression.
func ParseExpression(expr string) (Rule, error) {
	rest, ok := strings.CutPrefix(expr, "Joi.")
	if !ok {
		return Rule{}, fmt.Errorf("expression %q must start with 'Joi.'", expr)
	}

	calls, err := splitCalls(rest)
	if err != nil {
		return Rule{}, fmt.Errorf("parsing %q: %w", expr, err)
	}

	rule := Rule{Kind: calls[0].name}
	if calls[0].arg != "" {
		return Rule{}, fmt.Errorf("parsing %q: base rule %s() takes no arguments", expr, rule.Kind)
	}
	if rule.Kind == "date" {
		rule.Format = "date-time"
	}

	for _, c := range calls[1:] {
		switch c.name {
		case "integer":
			rule.Integer = true
		case "pattern", "regex":
			p, ok := strings.CutPrefix(c.arg, "/")
			if !ok || !strings.HasSuffix(p, "/") {
				return Rule{}, fmt.Errorf("parsing %q: pattern argument %q is not a /regex/ literal", expr, c.arg)
			}
			rule.Pattern = strings.TrimSuffix(p, "/")
		case "min", "max":
			v, err := strconv.ParseFloat(c.arg, 64)
			if err != nil {
				return Rule{}, fmt.Errorf("parsing %q: %s bound %q: %w", expr, c.name, c.arg, err)
			}
			if c.name == "min" {
				rule.HasMin, rule.Min = true, v
			} else {
				rule.HasMax, rule.Max = true, v
			}
		case "required":
			rule.Required = true
		case "optional", "trim":
		default:
			format, ok := methodFormats[c.name]
			if !ok {
				return Rule{}, fmt.Errorf("parsing %q: unsupported rule method %s()", expr, c.name)
			}
			rule.Format = format
		}
	}

	return rule, nil
}

// splitCalls tokenizes "a().b(1).c(/x/)" into calls. A missing "." between
// two calls is an error.
func splitCalls(s string) ([]call, error) {
	var calls []call
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("expected method name at offset %d", start)
		}
		name := s[start:i]

		if i >= len(s) || s[i] != '(' {
			return nil, fmt.Errorf("expected '(' after %s", name)
		}
		i++

		argStart := i
		if i < len(s) && s[i] == '/' {
			// Regex literal: skip to the closing unescaped '/'
			i++
			for i < len(s) && s[i] != '/' {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			i++
		}
		for i < len(s) && s[i] != ')' {
			i++
		}
		if i >= len(s) {
			return nil, fmt.Errorf("unterminated argument list for %s", name)
		}
		calls = append(calls, call{name: name, arg: strings.TrimSpace(s[argStart:i])})
		i++

		if i < len(s) {
			if s[i] != '.' {
				return nil, fmt.Errorf("missing '.' before offset %d (%q)", i, s[i:])
			}
			i++
			if i == len(s) {
				return nil, fmt.Errorf("trailing '.'")
			}
		}
	}
	if len(calls) == 0 {
		return nil, fmt.Errorf("empty chain")
	}
	return calls, nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
