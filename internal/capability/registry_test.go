package capability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func className(v *ClassView) (any, error) { return v.Name(), nil }

func classNameUpper(v *ClassView) (any, error) { return "X" + v.Name(), nil }

func paramName(v *ParameterView) (any, error) { return v.Name(), nil }

func echo(v *ClassView, args ...any) (any, error) { return args, nil }

func TestRegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	service := Match{Stereotype: "Service"}

	require.NoError(t, r.Register(KindClass, service,
		[]Accessor{ClassAccessor("label", className)},
		[]Function{ClassFunction("echo", echo)}))
	require.NoError(t, r.Register(KindClass, service,
		[]Accessor{ClassAccessor("label", className)},
		[]Function{ClassFunction("echo", echo)}))

	assert.Equal(t, []string{"echo", "label"}, r.Names(KindClass, service))
}

func TestRegisterConflictingDefinition(t *testing.T) {
	r := NewRegistry()
	service := Match{Stereotype: "Service"}

	require.NoError(t, r.Register(KindClass, service, []Accessor{ClassAccessor("label", className)}, nil))

	err := r.Register(KindClass, service, []Accessor{
		ClassAccessor("other", className),
		ClassAccessor("label", classNameUpper),
	}, nil)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "label", cfgErr.Name)
	assert.Equal(t, KindClass, cfgErr.Kind)
	assert.Equal(t, service, cfgErr.Match)
	assert.Contains(t, err.Error(), "different definitions")

	// Nothing from the failed call was registered
	assert.Equal(t, []string{"label"}, r.Names(KindClass, service))
}

func TestRegisterConflictWithinOneCall(t *testing.T) {
	r := NewRegistry()

	err := r.Register(KindClass, Match{}, []Accessor{
		ClassAccessor("label", className),
		ClassAccessor("label", classNameUpper),
	}, nil)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, r.Names(KindClass, Match{}))
}

func TestRegisterAccessorAndFunctionShareName(t *testing.T) {
	r := NewRegistry()

	err := r.Register(KindClass, Match{},
		[]Accessor{ClassAccessor("echo", className)},
		[]Function{ClassFunction("echo", echo)})

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "echo", cfgErr.Name)
}

func TestRegisterSameNameDifferentMatchIsAllowed(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(KindClass, Match{Stereotype: "Service"}, []Accessor{ClassAccessor("label", className)}, nil))
	require.NoError(t, r.Register(KindClass, Match{Stereotype: "Entity"}, []Accessor{ClassAccessor("label", classNameUpper)}, nil))
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name        string
		kind        NodeKind
		accessors   []Accessor
		errContains string
	}{
		{
			name:        "unsupported kind",
			kind:        NodeKind(42),
			errContains: "unsupported node kind",
		},
		{
			name:        "kind mismatch",
			kind:        KindClass,
			accessors:   []Accessor{ParameterAccessor("p", paramName)},
			errContains: "declared for parameter nodes",
		},
		{
			name:        "missing name",
			kind:        KindParameter,
			accessors:   []Accessor{ParameterAccessor("", paramName)},
			errContains: "name is required",
		},
		{
			name:        "zero accessor",
			kind:        KindClass,
			accessors:   []Accessor{{Name: "empty"}},
			errContains: "no definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.kind, Match{}, tt.accessors, nil)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestMatch(t *testing.T) {
	assert.True(t, Match{}.Matches("Service"))
	assert.True(t, Match{}.Matches(""))
	assert.True(t, Match{Stereotype: "Service"}.Matches("Service"))
	assert.False(t, Match{Stereotype: "Service"}.Matches("Entity"))
	assert.Equal(t, "*", Match{}.String())
	assert.Equal(t, "stereotype=Service", Match{Stereotype: "Service"}.String())
}

func constLabel(label string) func(*ClassView) (any, error) {
	return func(*ClassView) (any, error) { return label, nil }
}

func TestRegisterKeyedClosures(t *testing.T) {
	r := NewRegistry()
	service := Match{Stereotype: "Service"}

	require.NoError(t, r.Register(KindClass, service,
		[]Accessor{ClassAccessor("label", constLabel("A")).WithKey("A")}, nil))
	require.NoError(t, r.Register(KindClass, service,
		[]Accessor{ClassAccessor("label", constLabel("A")).WithKey("A")}, nil), "same code and key")

	err := r.Register(KindClass, service,
		[]Accessor{ClassAccessor("label", constLabel("B")).WithKey("B")}, nil)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "label", cfgErr.Name)

	a, err := NewEngine(r, nil).Apply(testModel())
	require.NoError(t, err)
	svc, _ := a.Class("OrderService")
	label, err := svc.Get("label")
	require.NoError(t, err)
	assert.Equal(t, "A", label)
}

func TestRegisterKeyedAgainstUnkeyed(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(KindClass, Match{}, []Accessor{ClassAccessor("label", className)}, nil))
	err := r.Register(KindClass, Match{}, []Accessor{ClassAccessor("label", className).WithKey(1)}, nil)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRegisterKeyedFunctions(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(KindClass, Match{}, nil, []Function{ClassFunction("echo", echo).WithKey("x")}))
	require.NoError(t, r.Register(KindClass, Match{}, nil, []Function{ClassFunction("echo", echo).WithKey("x")}))

	err := r.Register(KindClass, Match{}, nil, []Function{ClassFunction("echo", echo).WithKey("y")})
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRegisterRejectsIncomparableKey(t *testing.T) {
	err := NewRegistry().Register(KindClass, Match{},
		[]Accessor{ClassAccessor("label", className).WithKey([]string{"a"})}, nil)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "not comparable")
}
