// Package render executes text templates over augmented models.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"
	"unicode"

	"github.com/simonhull/firebird-suite/plume/internal/model"
)

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with built-in helper functions
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	return r.render("string:"+name, name, func() (string, error) { return templateStr, nil }, data)
}

// RenderFS renders a template from an embedded filesystem
func (r *Renderer) RenderFS(fs embed.FS, path string, data any) ([]byte, error) {
	return r.render("fs:"+path, path, func() (string, error) {
		b, err := fs.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return string(b), nil
	}, data)
}

// RenderFile renders a template from a file path (for template overrides)
func (r *Renderer) RenderFile(path string, data any) ([]byte, error) {
	return r.render("file:"+path, path, func() (string, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file '%s': %w", path, err)
		}
		return string(b), nil
	}, data)
}

// ClearCache clears the template cache
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) render(key, name string, source func() (string, error), data any) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()

	if !ok {
		text, err := source()
		if err != nil {
			return nil, err
		}
		tmpl, err = template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
		}

		r.mu.Lock()
		r.cache[key] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase, // place_order → PlaceOrder
		"camelCase":  CamelCase,  // PlaceOrder → placeOrder
		"snakeCase":  SnakeCase,  // PlaceOrder → place_order
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"quote":      Quote,
		"indent":     Indent,
		"classNames": ClassNames,
		"dict":       Dict,
		"default":    Default,
	}
}

// PascalCase converts snake_case or camelCase to PascalCase
func PascalCase(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "_") {
		parts := strings.Split(s, "_")
		for i, part := range parts {
			if part != "" {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, "")
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CamelCase converts snake_case or PascalCase to camelCase
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// SnakeCase converts PascalCase or camelCase to snake_case.
// Acronyms stay together: HTTPServer → http_server.
func SnakeCase(s string) string {
	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}

	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Indent prefixes every non-empty line with n spaces
func Indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// ClassNames lists class ids separated by commas, or "-" when empty
func ClassNames(classes []*model.Class) string {
	if len(classes) == 0 {
		return "-"
	}
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = string(c.ID)
	}
	return strings.Join(names, ", ")
}

// Dict creates a map from alternating key-value pairs
// Usage in template: {{ template "partial" (dict "key1" val1 "key2" val2) }}
func Dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires an even number of arguments")
	}

	result := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings, got %T at position %d", values[i], i)
		}
		result[key] = values[i+1]
	}
	return result, nil
}

// Default returns defaultVal if val is nil or an empty string
func Default(defaultVal, val any) any {
	if val == nil {
		return defaultVal
	}
	if s, ok := val.(string); ok && s == "" {
		return defaultVal
	}
	return val
}
