// Package pipeline drives one augmentation run: discover and load models,
// let stereotype plugins register their capabilities, then apply the
// registry to every model.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/simonhull/firebird-suite/plume"
	"github.com/simonhull/firebird-suite/plume/internal/capability"
	"github.com/simonhull/firebird-suite/plume/internal/config"
	"github.com/simonhull/firebird-suite/plume/internal/logger"
	"github.com/simonhull/firebird-suite/plume/internal/model"
	"github.com/simonhull/firebird-suite/plume/internal/plugin"
	"github.com/simonhull/firebird-suite/plume/internal/types"
)

// ErrIncompatibleModel is returned when a model's requires constraint does
// not accept the running plume version.
var ErrIncompatibleModel = errors.New("model requires a different plume version")

// ErrNoModels is returned when discovery finds nothing to load
var ErrNoModels = errors.New("no model files found")

// Pipeline runs the augmentation pass. A pipeline owns one registry and one
// engine, so it represents one run.
type Pipeline struct {
	cfg      *config.Config
	plugins  *plugin.Set
	types    types.Resolver
	log      logger.Logger
	version  *semver.Version
	registry *capability.Registry
	engine   *capability.Engine

	initialized map[string]bool
	visited     map[*model.Class]bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithVersion overrides the version requires constraints are checked against
func WithVersion(v *semver.Version) Option {
	return func(p *Pipeline) { p.version = v }
}

// New creates a pipeline
func New(cfg *config.Config, plugins *plugin.Set, resolver types.Resolver, opts ...Option) (*Pipeline, error) {
	version, err := semver.NewVersion(plume.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid plume version %q: %w", plume.Version, err)
	}

	p := &Pipeline{
		cfg:         cfg,
		plugins:     plugins,
		types:       resolver,
		log:         logger.NewSilentLogger(),
		version:     version,
		registry:    capability.NewRegistry(),
		initialized: make(map[string]bool),
		visited:     make(map[*model.Class]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.engine = capability.NewEngine(p.registry, p.log)
	return p, nil
}

// Registry returns the run's capability registry
func (p *Pipeline) Registry() *capability.Registry {
	return p.registry
}

// Discover expands the configured model globs below root. Results are
// sorted and unique.
func (p *Pipeline) Discover(root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range p.cfg.Models {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid model pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %q: %w", pattern, err)
		}
		for _, match := range matches {
			path := filepath.Join(root, filepath.FromSlash(match))
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s (patterns: %v)", ErrNoModels, root, p.cfg.Models)
	}
	sort.Strings(paths)
	p.log.Debug("discovered models", logger.F("root", root), logger.F("count", len(paths)))
	return paths, nil
}

// Load parses model files
func (p *Pipeline) Load(paths ...string) ([]*model.Model, error) {
	models := make([]*model.Model, 0, len(paths))
	for _, path := range paths {
		m, err := model.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		p.log.Debug("loaded model", logger.F("path", path), logger.F("model", m.Name), logger.F("classes", len(m.Classes())))
		models = append(models, m)
	}
	return models, nil
}

// Run checks each model's requires constraint, calls InitStereotype once per
// stereotype and InitClass once per class, then applies the registry to
// every model. Results are in the order of models. The context is checked
// between models.
func (p *Pipeline) Run(ctx context.Context, models ...*model.Model) ([]*capability.Augmented, error) {
	for _, m := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.checkRequires(m); err != nil {
			return nil, err
		}
		if err := p.initModel(m); err != nil {
			return nil, err
		}
	}

	out := make([]*capability.Augmented, 0, len(models))
	for _, m := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := p.engine.Apply(m)
		if err != nil {
			return nil, fmt.Errorf("applying capabilities to %s: %w", m.Name, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (p *Pipeline) checkRequires(m *model.Model) error {
	if m.Requires == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return fmt.Errorf("model %s: invalid requires constraint %q: %w", m.Name, m.Requires, err)
	}
	if !c.Check(p.version) {
		return fmt.Errorf("%w: model %s requires plume %s, running %s",
			ErrIncompatibleModel, m.Name, m.Requires, p.version)
	}
	return nil
}

func (p *Pipeline) initModel(m *model.Model) error {
	pctx := &plugin.Context{
		Model:    m,
		Registry: p.registry,
		Types:    p.types,
		Config:   p.cfg,
		Log:      p.log,
	}

	for _, class := range m.Classes() {
		handler, ok := p.plugins.Lookup(class.Stereotype)
		if !ok {
			continue
		}

		if !p.initialized[class.Stereotype] {
			if err := handler.InitStereotype(pctx); err != nil {
				return fmt.Errorf("initializing stereotype %s: %w", class.Stereotype, err)
			}
			p.initialized[class.Stereotype] = true
			p.log.Debug("stereotype initialized", logger.F("stereotype", class.Stereotype))
		}

		if p.visited[class] {
			continue
		}
		if err := handler.InitClass(pctx, class); err != nil {
			return fmt.Errorf("initializing class %s: %w", class.ID, err)
		}
		p.visited[class] = true
	}
	return nil
}
