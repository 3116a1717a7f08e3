package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/simonhull/firebird-suite/plume/internal/model"
	"github.com/simonhull/firebird-suite/plume/internal/types"
	"github.com/simonhull/firebird-suite/plume/internal/validation"
)

// MissingCollaboratorError is returned when a parameter's type cannot be
// resolved by the type system. It is never replaced by a default.
type MissingCollaboratorError struct {
	Class     model.ClassID
	Operation string
	Parameter string
	Type      string
	Err       error
}

func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("no type descriptor for %s.%s(%s) of type %q: %v",
		e.Class, e.Operation, e.Parameter, e.Type, e.Err)
}

func (e *MissingCollaboratorError) Unwrap() error {
	return e.Err
}

// JoiDefinition builds the validation rule for a parameter of type d
func JoiDefinition(p *model.Parameter, d types.Descriptor) string {
	return ruleSpec(p, d).Expression()
}

func ruleSpec(p *model.Parameter, d types.Descriptor) validation.Spec {
	return validation.Spec{
		Kind:     d.Kind,
		AddOn:    d.AddOn,
		HasMin:   p.HasMinValue,
		Min:      p.MinValue,
		HasMax:   p.HasMaxValue,
		Max:      p.MaxValue,
		Required: p.Required,
	}
}

// ErrNoFittingMock is returned when no mock value satisfies a parameter's
// bounds together with its type's format and pattern.
var ErrNoFittingMock = errors.New("no mock value fits the parameter rule")

// MockValue invokes d's generator once and returns the value as a JSON
// literal. A bounded parameter gets a value fitted into its bounds and
// checked against its own rule; when none fits, the error wraps
// ErrNoFittingMock.
func MockValue(p *model.Parameter, d types.Descriptor) (string, error) {
	v := d.Mock()
	if p.HasMinValue || p.HasMaxValue {
		fitted, err := fitBounds(v, p, d)
		if err != nil {
			return "", fmt.Errorf("mock for %s: %w", p.Name, err)
		}
		v = fitted
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding mock for %s: %w", p.Name, err)
	}
	return string(data), nil
}

// fitBounds returns the first candidate derived from v that the parameter's
// rule accepts
func fitBounds(v any, p *model.Parameter, d types.Descriptor) (any, error) {
	expr := JoiDefinition(p, d)
	checker, err := validation.Compile(expr)
	if err != nil {
		return nil, err
	}

	var candidates []any
	switch d.Kind {
	case "number":
		candidates, err = numberCandidates(v, p, d)
	case "string":
		candidates, err = stringCandidates(v, p, d)
	default:
		candidates = []any{v}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoFittingMock, expr, err)
	}

	for _, c := range candidates {
		if checker.Check(c) == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoFittingMock, expr)
}

func numberCandidates(v any, p *model.Parameter, d types.Descriptor) ([]any, error) {
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return []any{v}, nil
	}

	integer := strings.Contains(d.AddOn, ".integer()")
	lo, hi := math.Inf(-1), math.Inf(1)
	if p.HasMinValue {
		lo = p.MinValue
	}
	if p.HasMaxValue {
		hi = p.MaxValue
	}
	if integer {
		lo, hi = math.Ceil(lo), math.Floor(hi)
	}
	if lo > hi {
		return nil, fmt.Errorf("empty range [%s, %s]", validation.FormatNumber(p.MinValue), validation.FormatNumber(p.MaxValue))
	}

	fitted := math.Min(math.Max(n, lo), hi)
	switch {
	case fitted == n:
		return []any{v}, nil
	case integer:
		return []any{int64(fitted)}, nil
	default:
		return []any{fitted}, nil
	}
}

// fillers pad strings; digits are tried after letters for numeric patterns
var fillers = []string{"x", "0"}

func stringCandidates(v any, p *model.Parameter, d types.Descriptor) ([]any, error) {
	s, ok := v.(string)
	if !ok {
		return []any{v}, nil
	}

	lo, hi := 0, math.MaxInt
	if p.HasMinValue && p.MinValue > 0 {
		lo = int(math.Ceil(p.MinValue))
	}
	if p.HasMaxValue {
		if p.MaxValue < 0 {
			return nil, fmt.Errorf("negative maximum length %s", validation.FormatNumber(p.MaxValue))
		}
		hi = int(math.Floor(p.MaxValue))
	}
	if lo > hi {
		return nil, fmt.Errorf("empty length range [%d, %d]", lo, hi)
	}

	n := utf8.RuneCountInString(s)
	if n >= lo && n <= hi {
		return []any{s}, nil
	}
	if d.Format == "email" {
		return emailCandidates(s, lo, hi), nil
	}

	if n > hi {
		return []any{truncate(s, hi)}, nil
	}
	var out []any
	for _, fill := range fillers {
		out = append(out, s+strings.Repeat(fill, lo-n))
	}
	return out, nil
}

// shortDomains replace the mock's domain when the length limit leaves no
// room for it
var shortDomains = []string{"a.io", "a"}

// emailCandidates resize the local part, keeping the address well formed
func emailCandidates(s string, lo, hi int) []any {
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return []any{s}
	}
	local, domain := s[:at], s[at+1:]

	n := utf8.RuneCountInString(s)
	if n < lo {
		return []any{local + strings.Repeat("x", lo-n) + "@" + domain}
	}

	var out []any
	for _, dom := range append([]string{domain}, shortDomains...) {
		room := hi - 1 - utf8.RuneCountInString(dom)
		if room < 1 {
			continue
		}
		l := strings.TrimRight(truncate(local, room), ".")
		if l == "" {
			l = "x"
		}
		out = append(out, l+"@"+dom)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
