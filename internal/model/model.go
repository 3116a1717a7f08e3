// Package model holds the class-diagram graph plume augments.
//
// A Model owns every Class for one generation run. Edges between classes are
// stored as ClassID back-references and resolved through Model.ClassByID, so
// ownership stays acyclic while the graph remains navigable in both
// directions. Nothing in plume mutates a Model after it has been loaded.
package model

// ClassID identifies a Class within its Model.
type ClassID string

// TypeKind classifies the far end of a TypeRef.
type TypeKind int

const (
	// TypeUnknown marks a reference that is neither primitive nor object,
	// usually a malformed dependency in the exported diagram.
	TypeUnknown TypeKind = iota
	TypePrimitive
	TypeObject
)

// String returns the model-file spelling of the kind
func (k TypeKind) String() string {
	switch k {
	case TypePrimitive:
		return "primitive"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// TypeRef references a semantic type: a primitive by name, or another Class.
type TypeRef struct {
	Kind  TypeKind
	Name  string  // "email", "integer", or the class id for object refs
	Class ClassID // set when Kind == TypeObject
}

// IsObject reports whether the reference points at another Class
func (r TypeRef) IsObject() bool {
	return r.Kind == TypeObject && r.Class != ""
}

// Tag is a key/value annotation on a Class
type Tag struct {
	Name  string
	Value string
}

// Dependency is a directed design-time usage edge from a Class to a type.
type Dependency struct {
	Target TypeRef
}

// Parameter is an operation argument.
type Parameter struct {
	Name        string
	Type        TypeRef
	Required    bool
	HasMinValue bool
	MinValue    float64
	HasMaxValue bool
	MaxValue    float64
}

// Operation groups parameters under a named class operation
type Operation struct {
	Name       string
	Parameters []Parameter
}

// Class is a node of the class diagram.
type Class struct {
	ID           ClassID
	Name         string
	Stereotype   string
	Dependencies []Dependency
	Operations   []Operation
	Tags         []Tag
}

// HasTag reports whether the class carries a tag with the given name
func (c *Class) HasTag(name string) bool {
	_, ok := c.Tag(name)
	return ok
}

// Tag returns the value of the first tag with the given name
func (c *Class) Tag(name string) (string, bool) {
	for _, tag := range c.Tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

// Model owns all classes of one generation run.
type Model struct {
	Name     string
	Requires string // semver constraint on the plume version, optional

	classes []*Class
	byID    map[ClassID]*Class
}

// New builds a Model from classes in declaration order. Later classes with a
// duplicate ID shadow nothing: the first declaration wins the index.
func New(name string, classes ...*Class) *Model {
	m := &Model{
		Name:    name,
		classes: classes,
		byID:    make(map[ClassID]*Class, len(classes)),
	}
	for _, c := range classes {
		if _, exists := m.byID[c.ID]; !exists {
			m.byID[c.ID] = c
		}
	}
	return m
}

// Classes returns the classes in declaration order
func (m *Model) Classes() []*Class {
	return m.classes
}

// ClassByID resolves a back-reference
func (m *Model) ClassByID(id ClassID) (*Class, bool) {
	c, ok := m.byID[id]
	return c, ok
}

// Stereotypes returns the distinct stereotype names in first-seen order
func (m *Model) Stereotypes() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range m.classes {
		if c.Stereotype == "" || seen[c.Stereotype] {
			continue
		}
		seen[c.Stereotype] = true
		names = append(names, c.Stereotype)
	}
	return names
}
