package model

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a .plume.yml model export
type Document struct {
	APIVersion string          `yaml:"apiVersion"`
	Kind       string          `yaml:"kind"`
	Name       string          `yaml:"name"`
	Requires   string          `yaml:"requires,omitempty"`
	Classes    []ClassDocument `yaml:"classes"`
}

// ClassDocument is a class entry in a model file
type ClassDocument struct {
	ID           string               `yaml:"id,omitempty"`
	Name         string               `yaml:"name"`
	Stereotype   string               `yaml:"stereotype,omitempty"`
	Tags         []TagDocument        `yaml:"tags,omitempty"`
	Dependencies []DependencyDocument `yaml:"dependencies,omitempty"`
	Operations   []OperationDocument  `yaml:"operations,omitempty"`
}

// TagDocument is a tag entry. Value is kept as text; an absent value is "".
type TagDocument struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
}

// DependencyDocument is a dependency edge entry
type DependencyDocument struct {
	Kind  string `yaml:"kind"`            // "object" or "primitive"
	Class string `yaml:"class,omitempty"` // target class id for object edges
	Type  string `yaml:"type,omitempty"`  // type name for primitive edges
}

// OperationDocument is an operation entry
type OperationDocument struct {
	Name       string              `yaml:"name"`
	Parameters []ParameterDocument `yaml:"parameters,omitempty"`
}

// ParameterDocument is a parameter entry
type ParameterDocument struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Required bool     `yaml:"required,omitempty"`
	Min      *float64 `yaml:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty"`
}

// ValidationError represents a model file error with context
type ValidationError struct {
	Field      string // Field path (e.g., "classes[0].dependencies[1].class")
	Message    string
	Suggestion string
	Line       int // Line number in YAML (if available)
}

// Error returns a formatted error message
func (e *ValidationError) Error() string {
	var msg string
	if e.Line > 0 {
		msg = fmt.Sprintf("validation error at %s (line %d): %s", e.Field, e.Line, e.Message)
	} else {
		msg = fmt.Sprintf("validation error at %s: %s", e.Field, e.Message)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error returns all validation errors formatted with clear separation
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("found %d validation errors:\n", len(e)))
	for i, err := range e {
		buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return buf.String()
}

// Parse reads, validates and builds a model file
func Parse(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes reads, validates and builds a model from bytes
func ParseBytes(data []byte) (*Model, error) {
	// First pass: node API for line numbers
	var rootNode yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&rootNode); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	lineMap := make(map[string]int)
	extractLineNumbers(&rootNode, "", lineMap)

	// Second pass: strict decode
	var doc Document
	decoder = yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse model (check for unknown/misspelled fields): %w", err)
	}

	if err := Validate(&doc, lineMap); err != nil {
		return nil, err
	}

	return Build(&doc), nil
}

// Validate checks a decoded document. lineMap may be nil.
func Validate(doc *Document, lineMap map[string]int) error {
	var errs ValidationErrors

	if doc.APIVersion == "" {
		errs = append(errs, ValidationError{
			Field:   "apiVersion",
			Message: "apiVersion is required",
			Line:    getLineNumber(lineMap, "apiVersion"),
		})
	} else if doc.APIVersion != "v1" {
		errs = append(errs, ValidationError{
			Field:      "apiVersion",
			Message:    fmt.Sprintf("invalid apiVersion '%s'", doc.APIVersion),
			Suggestion: "use 'v1'",
			Line:       getLineNumber(lineMap, "apiVersion"),
		})
	}

	if doc.Kind != "Model" {
		errs = append(errs, ValidationError{
			Field:      "kind",
			Message:    fmt.Sprintf("invalid kind '%s'", doc.Kind),
			Suggestion: "use 'Model'",
			Line:       getLineNumber(lineMap, "kind"),
		})
	}

	if doc.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required",
			Line:    getLineNumber(lineMap, "name"),
		})
	}

	ids := make(map[string]int)
	for i, class := range doc.Classes {
		classPath := fmt.Sprintf("classes[%d]", i)
		if class.Name == "" {
			errs = append(errs, ValidationError{
				Field:   classPath + ".name",
				Message: "class name is required",
				Line:    getLineNumber(lineMap, fmt.Sprintf("classes.%d", i)),
			})
			continue
		}

		id := classID(class)
		if first, exists := ids[id]; exists {
			errs = append(errs, ValidationError{
				Field:      classPath + ".id",
				Message:    fmt.Sprintf("duplicate class id '%s' (first defined at classes[%d])", id, first),
				Suggestion: "give each class a unique id",
				Line:       getLineNumber(lineMap, fmt.Sprintf("classes.%d.name", i)),
			})
			continue
		}
		ids[id] = i
	}

	for i, class := range doc.Classes {
		for j, dep := range class.Dependencies {
			if !strings.EqualFold(dep.Kind, "object") {
				// Primitive and malformed edges are kept as-is; classification skips them.
				continue
			}
			depPath := fmt.Sprintf("classes[%d].dependencies[%d]", i, j)
			line := getLineNumber(lineMap, fmt.Sprintf("classes.%d.dependencies.%d", i, j))
			if dep.Class == "" {
				errs = append(errs, ValidationError{
					Field:      depPath + ".class",
					Message:    "object dependency requires a target class",
					Suggestion: "set 'class' to the id of the class this one depends on",
					Line:       line,
				})
			} else if _, ok := ids[dep.Class]; !ok {
				errs = append(errs, ValidationError{
					Field:      depPath + ".class",
					Message:    fmt.Sprintf("class '%s' not found in model", dep.Class),
					Suggestion: fmt.Sprintf("ensure '%s' is declared under classes", dep.Class),
					Line:       line,
				})
			}
		}

		for j, op := range class.Operations {
			for k, param := range op.Parameters {
				paramPath := fmt.Sprintf("classes[%d].operations[%d].parameters[%d]", i, j, k)
				line := getLineNumber(lineMap, fmt.Sprintf("classes.%d.operations.%d.parameters.%d", i, j, k))
				if param.Name == "" {
					errs = append(errs, ValidationError{
						Field:   paramPath + ".name",
						Message: "parameter name is required",
						Line:    line,
					})
				}
				if param.Type == "" {
					errs = append(errs, ValidationError{
						Field:      paramPath + ".type",
						Message:    "parameter type is required",
						Suggestion: "use a semantic type like 'string', 'integer' or 'email', or a class id",
						Line:       line,
					})
				}
				if param.Min != nil && param.Max != nil && *param.Min > *param.Max {
					errs = append(errs, ValidationError{
						Field:   paramPath,
						Message: fmt.Sprintf("min %v is greater than max %v", *param.Min, *param.Max),
						Line:    line,
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Build converts a validated document into a Model. Parameter types naming a
// class id become object references.
func Build(doc *Document) *Model {
	ids := make(map[string]bool, len(doc.Classes))
	for _, cd := range doc.Classes {
		ids[classID(cd)] = true
	}

	classes := make([]*Class, 0, len(doc.Classes))
	for _, cd := range doc.Classes {
		c := &Class{
			ID:         ClassID(classID(cd)),
			Name:       cd.Name,
			Stereotype: cd.Stereotype,
		}
		for _, td := range cd.Tags {
			c.Tags = append(c.Tags, Tag{Name: td.Name, Value: td.Value})
		}
		for _, dd := range cd.Dependencies {
			c.Dependencies = append(c.Dependencies, Dependency{Target: dependencyTarget(dd)})
		}
		for _, od := range cd.Operations {
			op := Operation{Name: od.Name}
			for _, pd := range od.Parameters {
				p := Parameter{
					Name:     pd.Name,
					Type:     parameterType(pd.Type, ids),
					Required: pd.Required,
				}
				if pd.Min != nil {
					p.HasMinValue = true
					p.MinValue = *pd.Min
				}
				if pd.Max != nil {
					p.HasMaxValue = true
					p.MaxValue = *pd.Max
				}
				op.Parameters = append(op.Parameters, p)
			}
			c.Operations = append(c.Operations, op)
		}
		classes = append(classes, c)
	}

	m := New(doc.Name, classes...)
	m.Requires = doc.Requires
	return m
}

func classID(cd ClassDocument) string {
	if cd.ID != "" {
		return cd.ID
	}
	return cd.Name
}

func dependencyTarget(dd DependencyDocument) TypeRef {
	switch strings.ToLower(dd.Kind) {
	case "object":
		return TypeRef{Kind: TypeObject, Name: dd.Class, Class: ClassID(dd.Class)}
	case "primitive":
		return TypeRef{Kind: TypePrimitive, Name: dd.Type}
	default:
		return TypeRef{Kind: TypeUnknown, Name: dd.Type}
	}
}

func parameterType(name string, ids map[string]bool) TypeRef {
	if ids[name] {
		return TypeRef{Kind: TypeObject, Name: name, Class: ClassID(name)}
	}
	return TypeRef{Kind: TypePrimitive, Name: name}
}

// extractLineNumbers walks the YAML node tree and builds a map of field paths to line numbers
func extractLineNumbers(node *yaml.Node, path string, lineMap map[string]int) {
	if node == nil {
		return
	}

	if path != "" {
		lineMap[path] = node.Line
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			extractLineNumbers(node.Content[0], path, lineMap)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			newPath := key
			if path != "" {
				newPath = path + "." + key
			}
			extractLineNumbers(node.Content[i+1], newPath, lineMap)
		}
	case yaml.SequenceNode:
		for i, child := range node.Content {
			extractLineNumbers(child, fmt.Sprintf("%s.%d", path, i), lineMap)
		}
	}
}

func getLineNumber(lineMap map[string]int, path string) int {
	if lineMap == nil {
		return 0
	}
	return lineMap[path]
}
