package service

import (
	"fmt"

	"github.com/simonhull/firebird-suite/plume/internal/capability"
	"github.com/simonhull/firebird-suite/plume/internal/model"
)

// Service is a typed view of an augmented Service class. Templates call its
// methods as plain attributes.
type Service struct {
	view *capability.ClassView
}

// Services returns typed views of the classes carrying stereotype
func Services(a *capability.Augmented, stereotype string) []Service {
	views := a.WithStereotype(stereotype)
	out := make([]Service, len(views))
	for i, v := range views {
		out[i] = Service{view: v}
	}
	return out
}

func (s Service) ID() model.ClassID { return s.view.ID() }
func (s Service) Name() string { return s.view.Name() }

func (s Service) AllowExternalAccess() (bool, error) {
	return get[bool](s.view, AllowExternalAccessName)
}

func (s Service) DependentServices() ([]*model.Class, error) {
	return get[[]*model.Class](s.view, DependentServicesName)
}

func (s Service) DependentDaos() ([]*model.Class, error) {
	return get[[]*model.Class](s.view, DependentDaosName)
}

// Operations returns the service operations with typed parameter views
func (s Service) Operations() []Operation {
	ops := make([]Operation, len(s.view.Operations()))
	for i, ov := range s.view.Operations() {
		ops[i] = Operation{Name: ov.Name()}
		for _, pv := range ov.Parameters {
			ops[i].Parameters = append(ops[i].Parameters, Parameter{view: pv})
		}
	}
	return ops
}

// Operation is a service operation
type Operation struct {
	Name       string
	Parameters []Parameter
}

// Parameter is a typed view of an augmented parameter
type Parameter struct {
	view *capability.ParameterView
}

func (p Parameter) Name() string { return p.view.Name() }
func (p Parameter) Type() string { return p.view.Parameter().Type.Name }
func (p Parameter) Required() bool { return p.view.Parameter().Required }

func (p Parameter) JoiDefinition() (string, error) {
	return get[string](p.view, JoiDefinitionName)
}

func (p Parameter) MockValue() (string, error) {
	return get[string](p.view, MockValueName)
}

type getter interface {
	Get(name string) (any, error)
	String() string
}

func get[T any](n getter, name string) (T, error) {
	var zero T
	v, err := n.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s: capability %q is %T, not %T", n, name, v, zero)
	}
	return t, nil
}
