package capability

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/simonhull/firebird-suite/plume/internal/logger"
	"github.com/simonhull/firebird-suite/plume/internal/model"
)

// Node is a model node as seen by capabilities
type Node interface {
	Kind() NodeKind
	Stereotype() string
	String() string
}

// UnknownCapabilityError is returned when reading a name that was not
// installed on a node
type UnknownCapabilityError struct {
	Node string
	Name string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("%s has no capability %q", e.Node, e.Name)
}

// slot holds one installed capability of one node. Accessor results are
// written once.
type slot struct {
	e    entry
	once sync.Once
	val  any
	err  error
}

// capabilities is the capability table shared by all views
type capabilities struct {
	self  Node
	slots map[string]*slot
	names []string
}

// Get reads an accessor, evaluating it on first use
func (c *capabilities) Get(name string) (any, error) {
	s, ok := c.slots[name]
	if !ok || s.e.accessor == nil {
		return nil, &UnknownCapabilityError{Node: c.self.String(), Name: name}
	}
	s.once.Do(func() {
		s.val, s.err = s.e.accessor.eval(c.self)
	})
	return s.val, s.err
}

// Call invokes a function with arguments
func (c *capabilities) Call(name string, args ...any) (any, error) {
	s, ok := c.slots[name]
	if !ok || s.e.function == nil {
		return nil, &UnknownCapabilityError{Node: c.self.String(), Name: name}
	}
	return s.e.function.call(c.self, args)
}

// Has reports whether a capability is installed
func (c *capabilities) Has(name string) bool {
	_, ok := c.slots[name]
	return ok
}

// Capabilities returns the installed names, sorted
func (c *capabilities) Capabilities() []string {
	names := append([]string(nil), c.names...)
	sort.Strings(names)
	return names
}

func (c *capabilities) evaluateAll() error {
	var errs []error
	for _, name := range c.names {
		if c.slots[name].e.accessor == nil {
			continue
		}
		if _, err := c.Get(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ClassView composes a Class with its installed capabilities
type ClassView struct {
	capabilities
	class      *model.Class
	model      *model.Model
	operations []*OperationView
}

// Class returns the underlying node
func (v *ClassView) Class() *model.Class { return v.class }

// Model returns the model the class belongs to
func (v *ClassView) Model() *model.Model { return v.model }

// Operations returns the class operations with their parameter views
func (v *ClassView) Operations() []*OperationView { return v.operations }

func (v *ClassView) Kind() NodeKind { return KindClass }
func (v *ClassView) Stereotype() string { return v.class.Stereotype }
func (v *ClassView) Name() string { return v.class.Name }
func (v *ClassView) ID() model.ClassID { return v.class.ID }
func (v *ClassView) String() string { return fmt.Sprintf("class %s", v.class.ID) }

// OperationView groups parameter views under their operation
type OperationView struct {
	Operation  *model.Operation
	Parameters []*ParameterView
}

// Name returns the operation name
func (o *OperationView) Name() string { return o.Operation.Name }

// ParameterView composes a Parameter with its installed capabilities
type ParameterView struct {
	capabilities
	parameter *model.Parameter
	operation *model.Operation
	owner     *ClassView
}

// Parameter returns the underlying node
func (v *ParameterView) Parameter() *model.Parameter { return v.parameter }

// Operation returns the operation the parameter belongs to
func (v *ParameterView) Operation() *model.Operation { return v.operation }

// Owner returns the view of the class declaring the operation
func (v *ParameterView) Owner() *ClassView { return v.owner }

func (v *ParameterView) Kind() NodeKind { return KindParameter }
func (v *ParameterView) Stereotype() string { return v.owner.Stereotype() }
func (v *ParameterView) Name() string { return v.parameter.Name }
func (v *ParameterView) String() string {
	return fmt.Sprintf("parameter %s.%s(%s)", v.owner.class.ID, v.operation.Name, v.parameter.Name)
}

// Augmented is a model with capabilities installed
type Augmented struct {
	model   *model.Model
	classes []*ClassView
	byID    map[model.ClassID]*ClassView
}

// Model returns the base model
func (a *Augmented) Model() *model.Model { return a.model }

// Classes returns class views in declaration order
func (a *Augmented) Classes() []*ClassView { return a.classes }

// Class returns the view of a class by id
func (a *Augmented) Class(id model.ClassID) (*ClassView, bool) {
	v, ok := a.byID[id]
	return v, ok
}

// WithStereotype returns the class views carrying a stereotype
func (a *Augmented) WithStereotype(stereotype string) []*ClassView {
	var views []*ClassView
	for _, v := range a.classes {
		if v.Stereotype() == stereotype {
			views = append(views, v)
		}
	}
	return views
}

// EvaluateAll reads every accessor of every node and returns all failures
// joined. Useful to surface collaborator errors before rendering.
func (a *Augmented) EvaluateAll() error {
	var errs []error
	for _, cv := range a.classes {
		if err := cv.evaluateAll(); err != nil {
			errs = append(errs, err)
		}
		for _, op := range cv.operations {
			for _, pv := range op.Parameters {
				if err := pv.evaluateAll(); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Engine applies a registry to models. Applying is idempotent: the same
// model always yields the same *Augmented.
type Engine struct {
	registry *Registry
	log      logger.Logger

	mu      sync.Mutex
	applied map[*model.Model]*Augmented
}

// NewEngine creates an engine for one generation run
func NewEngine(registry *Registry, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Engine{
		registry: registry,
		log:      log,
		applied:  make(map[*model.Model]*Augmented),
	}
}

// Apply seals the registry and installs matching capabilities on every class
// and parameter of m. The model itself is not modified.
func (e *Engine) Apply(m *model.Model) (*Augmented, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a, ok := e.applied[m]; ok {
		e.log.Debug("model already augmented", logger.F("model", m.Name))
		return a, nil
	}

	e.registry.seal()

	a := &Augmented{
		model: m,
		byID:  make(map[model.ClassID]*ClassView, len(m.Classes())),
	}
	installed := 0

	for _, class := range m.Classes() {
		cv := &ClassView{class: class, model: m}
		if err := e.install(&cv.capabilities, cv, KindClass, class.Stereotype); err != nil {
			return nil, err
		}
		installed += len(cv.names)

		for i := range class.Operations {
			op := &class.Operations[i]
			ov := &OperationView{Operation: op}
			for j := range op.Parameters {
				pv := &ParameterView{parameter: &op.Parameters[j], operation: op, owner: cv}
				if err := e.install(&pv.capabilities, pv, KindParameter, class.Stereotype); err != nil {
					return nil, err
				}
				installed += len(pv.names)
				ov.Parameters = append(ov.Parameters, pv)
			}
			cv.operations = append(cv.operations, ov)
		}

		a.classes = append(a.classes, cv)
		if _, exists := a.byID[class.ID]; !exists {
			a.byID[class.ID] = cv
		}
		e.log.Debug("installed capabilities",
			logger.F("class", class.ID),
			logger.F("capabilities", cv.Capabilities()))
	}

	e.applied[m] = a
	e.log.Info("model augmented",
		logger.F("model", m.Name),
		logger.F("classes", len(a.classes)),
		logger.F("installed", installed))
	return a, nil
}

func (e *Engine) install(c *capabilities, self Node, kind NodeKind, stereotype string) error {
	entries, names, err := e.registry.resolve(kind, stereotype)
	if err != nil {
		return fmt.Errorf("augmenting %s: %w", self, err)
	}
	c.self = self
	c.names = names
	c.slots = make(map[string]*slot, len(entries))
	for name, en := range entries {
		c.slots[name] = &slot{e: en}
	}
	return nil
}
