// Package types is the type-system collaborator: it maps semantic type names
// to a structural validation kind, an optional structural add-on and a mock
// generator.
package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/plume/internal/model"
)

// ErrUnknownType is returned when a type reference has no catalog entry
var ErrUnknownType = errors.New("unknown type")

// MockFunc produces a representative sample value for a type
type MockFunc func() any

// Descriptor is what a Resolver knows about one semantic type
type Descriptor struct {
	Kind    string   // Structural kind: "string", "number", "boolean", "date", "object", "any"
	AddOn   string   // Chainable add-on, e.g. ".email()" or ".integer()"; may be empty
	Format  string   // JSON Schema format asserted by the add-on, if any
	Pattern string   // Regular expression asserted by the add-on, if any
	Mock    MockFunc // Never nil for catalog entries
}

// Resolver resolves type references. Implementations must be free of shared
// mutable state so augmented models can be read from several goroutines, and
// comparable with ==, since capabilities built on a resolver are keyed by it.
type Resolver interface {
	Resolve(ref model.TypeRef) (Descriptor, error)
}

// Builtins contains the semantic types every catalog knows
var Builtins = map[string]Descriptor{
	"string":   {Kind: "string", Mock: mockWords(3)},
	"text":     {Kind: "string", Mock: mockWords(12)},
	"integer":  {Kind: "number", AddOn: ".integer()", Mock: mockInt(1, 1000)},
	"int":      {Kind: "number", AddOn: ".integer()", Mock: mockInt(1, 1000)},
	"number":   {Kind: "number", Mock: mockFloat(0, 1000)},
	"float":    {Kind: "number", Mock: mockFloat(0, 1000)},
	"boolean":  {Kind: "boolean", Mock: mockBool()},
	"bool":     {Kind: "boolean", Mock: mockBool()},
	"email":    {Kind: "string", AddOn: ".email()", Format: "email", Mock: mockEmail()},
	"url":      {Kind: "string", AddOn: ".uri()", Format: "uri", Mock: mockURL()},
	"uuid":     {Kind: "string", AddOn: ".guid()", Format: "uuid", Mock: mockUUID("uuid")},
	"date":     {Kind: "date", AddOn: ".iso()", Format: "date-time", Mock: mockDate()},
	"datetime": {Kind: "date", AddOn: ".iso()", Format: "date-time", Mock: mockDate()},
	"phone": {
		Kind:    "string",
		AddOn:   `.pattern(/^\+?[0-9]{7,15}$/)`,
		Pattern: `^\+?[0-9]{7,15}$`,
		Mock:    mockPhone(),
	},
	"object": {Kind: "object", Mock: mockObject()},
	"any":    {Kind: "any", Mock: mockConst(nil)},
}

// Catalog is a read-only table of semantic types. It is safe for concurrent use.
type Catalog struct {
	types map[string]Descriptor
}

// NewCatalog creates a catalog with the builtins plus custom entries.
// Custom entries override builtins of the same name.
func NewCatalog(custom map[string]Descriptor) *Catalog {
	c := &Catalog{types: make(map[string]Descriptor, len(Builtins)+len(custom))}
	for name, d := range Builtins {
		c.types[name] = d
	}
	for name, d := range custom {
		if d.Mock == nil {
			d.Mock = mockConst(nil)
		}
		c.types[name] = d
	}
	return c
}

// Lookup retrieves a descriptor by type name
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	d, ok := c.types[name]
	return d, ok
}

// Names returns the known type names, sorted
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements Resolver. Object references resolve to the generic
// object descriptor; primitives must be in the catalog.
func (c *Catalog) Resolve(ref model.TypeRef) (Descriptor, error) {
	if ref.Kind == model.TypeObject {
		return c.types["object"], nil
	}
	d, ok := c.types[ref.Name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownType, ref.Name)
	}
	return d, nil
}

// modelResolver resolves object refs against a model so a reference to a
// class that does not exist is reported instead of silently accepted.
type modelResolver struct {
	base  Resolver
	model *model.Model
}

// ForModel wraps a resolver so object references are checked against m
func ForModel(base Resolver, m *model.Model) Resolver {
	return &modelResolver{base: base, model: m}
}

func (r *modelResolver) Resolve(ref model.TypeRef) (Descriptor, error) {
	if ref.Kind == model.TypeObject {
		if _, ok := r.model.ClassByID(ref.Class); !ok {
			return Descriptor{}, fmt.Errorf("%w: class %q not in model %s", ErrUnknownType, ref.Class, r.model.Name)
		}
	}
	return r.base.Resolve(ref)
}

// structuralKinds are the base rules a descriptor may name
var structuralKinds = map[string]bool{
	"string": true, "number": true, "boolean": true, "date": true, "object": true, "any": true,
}

// formatAddOns maps JSON Schema formats onto their chainable add-on
var formatAddOns = map[string]string{
	"email":     ".email()",
	"uri":       ".uri()",
	"uuid":      ".guid()",
	"date-time": ".iso()",
}

// NewDescriptor builds a descriptor for a custom type. format and pattern
// are optional; when both are set the format add-on comes first.
func NewDescriptor(kind, format, pattern string, mock any) (Descriptor, error) {
	if !structuralKinds[kind] {
		return Descriptor{}, fmt.Errorf("unsupported structural kind %q", kind)
	}

	d := Descriptor{Kind: kind, Format: format, Pattern: pattern, Mock: ConstMock(mock)}
	if format != "" {
		addOn, ok := formatAddOns[format]
		if !ok {
			return Descriptor{}, fmt.Errorf("unsupported format %q", format)
		}
		d.AddOn = addOn
	}
	if pattern != "" {
		if strings.Contains(pattern, "/") {
			return Descriptor{}, fmt.Errorf("pattern %q must not contain '/'", pattern)
		}
		d.AddOn += fmt.Sprintf(".pattern(/%s/)", pattern)
	}
	return d, nil
}
