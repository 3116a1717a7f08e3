// Package plugin defines the contract between the pipeline and stereotype
// plugins.
package plugin

import (
	"fmt"
	"sort"

	"github.com/simonhull/firebird-suite/plume/internal/capability"
	"github.com/simonhull/firebird-suite/plume/internal/config"
	"github.com/simonhull/firebird-suite/plume/internal/logger"
	"github.com/simonhull/firebird-suite/plume/internal/model"
	"github.com/simonhull/firebird-suite/plume/internal/types"
)

// Context is what the pipeline hands to a plugin. Registry and Types live
// for the whole run; Model is the model currently being processed.
type Context struct {
	Model    *model.Model
	Registry *capability.Registry
	Types    types.Resolver
	Config   *config.Config
	Log      logger.Logger
}

// Stereotype is a plugin bound to one stereotype name. InitStereotype runs
// once per run before the first class of that stereotype; InitClass runs
// once per class carrying it.
type Stereotype interface {
	Name() string
	InitStereotype(ctx *Context) error
	InitClass(ctx *Context, class *model.Class) error
}

// Set holds plugins by stereotype name
type Set struct {
	plugins map[string]Stereotype
}

// NewSet creates a set from plugins. Two plugins claiming the same
// stereotype is an error.
func NewSet(plugins ...Stereotype) (*Set, error) {
	s := &Set{plugins: make(map[string]Stereotype, len(plugins))}
	for _, p := range plugins {
		if _, exists := s.plugins[p.Name()]; exists {
			return nil, fmt.Errorf("stereotype %q claimed by more than one plugin", p.Name())
		}
		s.plugins[p.Name()] = p
	}
	return s, nil
}

// Lookup returns the plugin handling a stereotype
func (s *Set) Lookup(stereotype string) (Stereotype, bool) {
	p, ok := s.plugins[stereotype]
	return p, ok
}

// Names returns the handled stereotypes, sorted
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.plugins))
	for name := range s.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
