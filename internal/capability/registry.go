// Package capability attaches derived, read-only properties to model nodes
// without changing the node types.
//
// A Registry records which named accessors and functions apply to which
// nodes: a node kind plus a Match filter on the stereotype. An Engine applies
// a sealed registry to a model once and returns views (ClassView,
// ParameterView) that compose each base node with its installed
// capabilities. Accessors are evaluated on first read and memoized per view;
// functions take arguments and are evaluated on every call.
package capability

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ErrSealed is returned when registering into a registry that has already
// been applied.
var ErrSealed = errors.New("capability registry is sealed")

// NodeKind is a kind of model node capabilities can attach to
type NodeKind int

const (
	KindClass NodeKind = iota + 1
	KindParameter
)

// String returns the kind name used in errors and logs
func (k NodeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindParameter:
		return "parameter"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Match filters nodes by stereotype. The zero Match matches every node of a
// kind. Parameters match on their owning class's stereotype.
type Match struct {
	Stereotype string
}

// Matches reports whether a node with the given stereotype passes the filter
func (m Match) Matches(stereotype string) bool {
	return m.Stereotype == "" || m.Stereotype == stereotype
}

func (m Match) String() string {
	if m.Stereotype == "" {
		return "*"
	}
	return "stereotype=" + m.Stereotype
}

// Accessor is a named, argument-less, memoized derivation
type Accessor struct {
	Name string
	kind NodeKind
	eval func(Node) (any, error)
	def  uintptr
	key  any
}

// WithKey returns a copy of a whose definition is also identified by key.
// Closures and method values share code between instances; the key names
// the state they capture. key must be comparable.
func (a Accessor) WithKey(key any) Accessor {
	a.key = key
	return a
}

// Function is a named derivation that takes arguments and is not memoized
type Function struct {
	Name string
	kind NodeKind
	call func(Node, []any) (any, error)
	def  uintptr
	key  any
}

// WithKey returns a copy of f whose definition is also identified by key
func (f Function) WithKey(key any) Function {
	f.key = key
	return f
}

// ClassAccessor declares an accessor for class nodes
func ClassAccessor(name string, fn func(*ClassView) (any, error)) Accessor {
	return Accessor{
		Name: name,
		kind: KindClass,
		eval: func(n Node) (any, error) { return fn(n.(*ClassView)) },
		def:  funcIdentity(fn),
	}
}

// ParameterAccessor declares an accessor for parameter nodes
func ParameterAccessor(name string, fn func(*ParameterView) (any, error)) Accessor {
	return Accessor{
		Name: name,
		kind: KindParameter,
		eval: func(n Node) (any, error) { return fn(n.(*ParameterView)) },
		def:  funcIdentity(fn),
	}
}

// ClassFunction declares a function for class nodes
func ClassFunction(name string, fn func(*ClassView, ...any) (any, error)) Function {
	return Function{
		Name: name,
		kind: KindClass,
		call: func(n Node, args []any) (any, error) { return fn(n.(*ClassView), args...) },
		def:  funcIdentity(fn),
	}
}

// ParameterFunction declares a function for parameter nodes
func ParameterFunction(name string, fn func(*ParameterView, ...any) (any, error)) Function {
	return Function{
		Name: name,
		kind: KindParameter,
		call: func(n Node, args []any) (any, error) { return fn(n.(*ParameterView), args...) },
		def:  funcIdentity(fn),
	}
}

// funcIdentity is the code half of a definition's identity. Every closure
// made from one literal shares it, so captured state must be named by a key.
func funcIdentity(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// ConfigurationError reports conflicting capability registrations. It is
// fatal for the pass.
type ConfigurationError struct {
	Kind   NodeKind
	Match  Match
	Name   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("capability %q on %s nodes (%s): %s", e.Name, e.Kind, e.Match, e.Reason)
}

// entry is one registered capability
type entry struct {
	name     string
	def      uintptr
	key      any
	accessor *Accessor
	function *Function
}

type registration struct {
	kind    NodeKind
	match   Match
	entries map[string]entry
	order   []string
}

// Registry maps (node kind, match) to named capabilities. Build one per
// generation run and hand it to an Engine.
type Registry struct {
	mu            sync.Mutex
	registrations map[NodeKind]map[Match]*registration
	order         []*registration
	sealed        bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{registrations: make(map[NodeKind]map[Match]*registration)}
}

// Register stores accessors and functions for nodes of kind that pass match.
// Two definitions are identical when they share code and key. Registering an
// identical definition again is a no-op. A name reused under
// the same kind and match with a different definition returns a
// *ConfigurationError and registers nothing from this call.
func (r *Registry) Register(kind NodeKind, match Match, accessors []Accessor, functions []Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}
	if kind != KindClass && kind != KindParameter {
		return &ConfigurationError{Kind: kind, Match: match, Reason: "unsupported node kind"}
	}

	incoming := make([]entry, 0, len(accessors)+len(functions))
	for i := range accessors {
		a := accessors[i]
		incoming = append(incoming, entry{name: a.Name, def: a.def, key: a.key, accessor: &a})
	}
	for i := range functions {
		f := functions[i]
		incoming = append(incoming, entry{name: f.Name, def: f.def, key: f.key, function: &f})
	}

	reg := r.registrations[kind][match]
	pending := make(map[string]entry, len(incoming))
	for _, e := range incoming {
		if err := validateEntry(kind, match, e); err != nil {
			return err
		}
		for _, existing := range []map[string]entry{pending, entriesOf(reg)} {
			if prev, ok := existing[e.name]; ok && !sameDefinition(prev, e) {
				return &ConfigurationError{
					Kind:   kind,
					Match:  match,
					Name:   e.name,
					Reason: "registered twice with different definitions",
				}
			}
		}
		pending[e.name] = e
	}

	if reg == nil {
		reg = &registration{kind: kind, match: match, entries: make(map[string]entry)}
		if r.registrations[kind] == nil {
			r.registrations[kind] = make(map[Match]*registration)
		}
		r.registrations[kind][match] = reg
		r.order = append(r.order, reg)
	}
	for _, e := range incoming {
		if _, ok := reg.entries[e.name]; ok {
			continue
		}
		reg.entries[e.name] = e
		reg.order = append(reg.order, e.name)
	}
	return nil
}

// Names returns the capability names registered for kind and match, sorted
func (r *Registry) Names(kind NodeKind, match Match) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg := r.registrations[kind][match]
	if reg == nil {
		return nil
	}
	names := append([]string(nil), reg.order...)
	sort.Strings(names)
	return names
}

// Sealed reports whether the registry has been applied
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

func (r *Registry) seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// resolve collects the capabilities a node of kind and stereotype receives,
// in registration order. Only called on a sealed registry.
func (r *Registry) resolve(kind NodeKind, stereotype string) (map[string]entry, []string, error) {
	entries := make(map[string]entry)
	var names []string
	sources := make(map[string]Match)

	for _, reg := range r.order {
		if reg.kind != kind || !reg.match.Matches(stereotype) {
			continue
		}
		for _, name := range reg.order {
			e := reg.entries[name]
			if prev, ok := entries[name]; ok {
				if !sameDefinition(prev, e) {
					return nil, nil, &ConfigurationError{
						Kind:   kind,
						Match:  reg.match,
						Name:   name,
						Reason: fmt.Sprintf("conflicts with the definition registered for %s", sources[name]),
					}
				}
				continue
			}
			entries[name] = e
			sources[name] = reg.match
			names = append(names, name)
		}
	}
	return entries, names, nil
}

func validateEntry(kind NodeKind, match Match, e entry) error {
	if e.name == "" {
		return &ConfigurationError{Kind: kind, Match: match, Reason: "capability name is required"}
	}
	var declared NodeKind
	var defined bool
	if e.accessor != nil {
		declared, defined = e.accessor.kind, e.accessor.eval != nil
	} else {
		declared, defined = e.function.kind, e.function.call != nil
	}
	if !defined {
		return &ConfigurationError{Kind: kind, Match: match, Name: e.name, Reason: "no definition"}
	}
	if e.key != nil && !reflect.TypeOf(e.key).Comparable() {
		return &ConfigurationError{
			Kind:   kind,
			Match:  match,
			Name:   e.name,
			Reason: fmt.Sprintf("definition key of type %T is not comparable", e.key),
		}
	}
	if declared != kind {
		return &ConfigurationError{
			Kind:   kind,
			Match:  match,
			Name:   e.name,
			Reason: fmt.Sprintf("declared for %s nodes", declared),
		}
	}
	return nil
}

func sameDefinition(a, b entry) bool {
	return a.def == b.def && a.key == b.key && (a.accessor != nil) == (b.accessor != nil)
}

func entriesOf(reg *registration) map[string]entry {
	if reg == nil {
		return nil
	}
	return reg.entries
}
