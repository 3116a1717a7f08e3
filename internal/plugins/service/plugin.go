package service

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/simonhull/firebird-suite/plume/internal/capability"
	"github.com/simonhull/firebird-suite/plume/internal/config"
	"github.com/simonhull/firebird-suite/plume/internal/logger"
	"github.com/simonhull/firebird-suite/plume/internal/model"
	"github.com/simonhull/firebird-suite/plume/internal/plugin"
	"github.com/simonhull/firebird-suite/plume/internal/types"
)

// Capability names read by templates and later passes
const (
	AllowExternalAccessName = "allowExternalAccess"
	DependentServicesName   = "dependentServices"
	DependentDaosName       = "dependentDaos"
	GetDependentClassesName = "getDependentClasses"
	JoiDefinitionName       = "joiDefinition"
	MockValueName           = "mockValue"
)

// Plugin handles the Service stereotype. It holds no run state; the type
// resolver comes from the run's Context.
type Plugin struct {
	stereotypes config.StereotypeConfig
}

var _ plugin.Stereotype = (*Plugin)(nil)

// New creates the plugin. The Service stereotype name is the one it handles;
// the DAO name is what dependentDaos classifies by.
func New(stereotypes config.StereotypeConfig) *Plugin {
	return &Plugin{stereotypes: stereotypes}
}

// Name returns the handled stereotype
func (p *Plugin) Name() string {
	return p.stereotypes.Service
}

// InitStereotype registers the class capabilities for Service classes and
// the parameter capabilities for every parameter.
//
// Definitions that depend on configuration are keyed by it, so two plugins
// classifying by different stereotypes conflict instead of shadowing each
// other. Parameter capabilities are keyed by the run's resolver.
func (p *Plugin) InitStereotype(ctx *plugin.Context) error {
	if ctx.Types == nil {
		return errors.New("service plugin requires a type resolver")
	}

	err := ctx.Registry.Register(capability.KindClass, capability.Match{Stereotype: p.stereotypes.Service},
		[]capability.Accessor{
			capability.ClassAccessor(AllowExternalAccessName, allowExternalAccess),
			capability.ClassAccessor(DependentServicesName, p.dependentServices).WithKey(p.stereotypes),
			capability.ClassAccessor(DependentDaosName, p.dependentDaos).WithKey(p.stereotypes),
		},
		[]capability.Function{
			capability.ClassFunction(GetDependentClassesName, getDependentClasses),
		})
	if err != nil {
		return fmt.Errorf("registering class capabilities: %w", err)
	}

	resolver := ctx.Types
	err = ctx.Registry.Register(capability.KindParameter, capability.Match{},
		[]capability.Accessor{
			capability.ParameterAccessor(JoiDefinitionName, func(v *capability.ParameterView) (any, error) {
				d, err := descriptor(resolver, v)
				if err != nil {
					return nil, err
				}
				return JoiDefinition(v.Parameter(), d), nil
			}).WithKey(resolver),
			capability.ParameterAccessor(MockValueName, func(v *capability.ParameterView) (any, error) {
				d, err := descriptor(resolver, v)
				if err != nil {
					return nil, err
				}
				return MockValue(v.Parameter(), d)
			}).WithKey(resolver),
		}, nil)
	if err != nil {
		return fmt.Errorf("registering parameter capabilities: %w", err)
	}

	loggerFor(ctx).Debug("service capabilities registered", logger.F("stereotype", p.stereotypes.Service))
	return nil
}

// InitClass reports edges the classifier will skip and parameter types the
// type system does not know. Neither stops the run.
func (p *Plugin) InitClass(ctx *plugin.Context, class *model.Class) error {
	l := loggerFor(ctx).WithFields(logger.F("class", class.ID))

	for i, dep := range class.Dependencies {
		switch {
		case dep.Target.Kind == model.TypeUnknown:
			l.Warn("skipping malformed dependency", logger.F("index", i), logger.F("type", dep.Target.Name))
		case dep.Target.Kind == model.TypeObject:
			if _, ok := ctx.Model.ClassByID(dep.Target.Class); !ok {
				l.Warn("skipping dangling dependency", logger.F("index", i), logger.F("target", dep.Target.Class))
			}
		}
	}

	resolver := types.ForModel(ctx.Types, ctx.Model)
	for _, op := range class.Operations {
		for _, param := range op.Parameters {
			if _, err := resolver.Resolve(param.Type); err != nil {
				l.Warn("parameter type not resolvable",
					logger.F("operation", op.Name),
					logger.F("parameter", param.Name),
					logger.F("error", err))
			}
		}
	}
	return nil
}

func allowExternalAccess(v *capability.ClassView) (any, error) {
	return AllowExternalAccess(v.Class()), nil
}

func getDependentClasses(v *capability.ClassView, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s expects one stereotype argument, got %d", GetDependentClassesName, len(args))
	}
	stereotype, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", GetDependentClassesName, err)
	}
	return GetDependentClasses(v.Model(), v.Class(), stereotype), nil
}

func (p *Plugin) dependentServices(v *capability.ClassView) (any, error) {
	return v.Call(GetDependentClassesName, p.stereotypes.Service)
}

func (p *Plugin) dependentDaos(v *capability.ClassView) (any, error) {
	return v.Call(GetDependentClassesName, p.stereotypes.DAO)
}

func descriptor(resolver types.Resolver, v *capability.ParameterView) (types.Descriptor, error) {
	param := v.Parameter()
	d, err := types.ForModel(resolver, v.Owner().Model()).Resolve(param.Type)
	if err != nil {
		return types.Descriptor{}, &MissingCollaboratorError{
			Class:     v.Owner().ID(),
			Operation: v.Operation().Name,
			Parameter: param.Name,
			Type:      param.Type.Name,
			Err:       err,
		}
	}
	return d, nil
}

func loggerFor(ctx *plugin.Context) logger.Logger {
	if ctx.Log == nil {
		return logger.NewSilentLogger()
	}
	return ctx.Log
}
