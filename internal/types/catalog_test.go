package types

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/plume/internal/model"
)

func TestCatalogResolve(t *testing.T) {
	c := NewCatalog(nil)

	tests := []struct {
		name      string
		ref       model.TypeRef
		wantKind  string
		wantAddOn string
		wantErr   error
	}{
		{name: "string", ref: model.TypeRef{Kind: model.TypePrimitive, Name: "string"}, wantKind: "string"},
		{name: "integer", ref: model.TypeRef{Kind: model.TypePrimitive, Name: "integer"}, wantKind: "number", wantAddOn: ".integer()"},
		{name: "email", ref: model.TypeRef{Kind: model.TypePrimitive, Name: "email"}, wantKind: "string", wantAddOn: ".email()"},
		{name: "object ref", ref: model.TypeRef{Kind: model.TypeObject, Name: "Customer", Class: "Customer"}, wantKind: "object"},
		{name: "unknown", ref: model.TypeRef{Kind: model.TypePrimitive, Name: "money"}, wantErr: ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := c.Resolve(tt.ref)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, tt.wantAddOn, d.AddOn)
			assert.NotNil(t, d.Mock)
		})
	}
}

func TestCatalogCustomOverridesBuiltin(t *testing.T) {
	zip, err := NewDescriptor("string", "", "^[0-9]{5}$", "90210")
	require.NoError(t, err)

	c := NewCatalog(map[string]Descriptor{
		"zip":    zip,
		"string": {Kind: "string", AddOn: ".trim()"},
	})

	d, ok := c.Lookup("zip")
	require.True(t, ok)
	assert.Equal(t, ".pattern(/^[0-9]{5}$/)", d.AddOn)
	assert.Equal(t, "90210", d.Mock())

	d, ok = c.Lookup("string")
	require.True(t, ok)
	assert.Equal(t, ".trim()", d.AddOn)
	assert.Nil(t, d.Mock(), "custom entries without a mock yield nil")

	assert.Contains(t, c.Names(), "zip")
}

func TestNewDescriptor(t *testing.T) {
	d, err := NewDescriptor("string", "email", "", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, ".email()", d.AddOn)

	d, err = NewDescriptor("string", "uri", "^https", nil)
	require.NoError(t, err)
	assert.Equal(t, ".uri().pattern(/^https/)", d.AddOn)

	_, err = NewDescriptor("decimal", "", "", nil)
	assert.ErrorContains(t, err, "unsupported structural kind")

	_, err = NewDescriptor("string", "ipv4", "", nil)
	assert.ErrorContains(t, err, "unsupported format")

	_, err = NewDescriptor("string", "", "a/b", nil)
	assert.ErrorContains(t, err, "must not contain '/'")
}

func TestForModelRejectsUnknownClass(t *testing.T) {
	m := model.New("Shop", &model.Class{ID: "Customer", Name: "Customer"})
	r := ForModel(NewCatalog(nil), m)

	_, err := r.Resolve(model.TypeRef{Kind: model.TypeObject, Name: "Customer", Class: "Customer"})
	require.NoError(t, err)

	_, err = r.Resolve(model.TypeRef{Kind: model.TypeObject, Name: "Ghost", Class: "Ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownType))
	assert.Contains(t, err.Error(), "Ghost")
}

func TestMocksAreDeterministic(t *testing.T) {
	for name, d := range Builtins {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, d.Mock(), d.Mock())
		})
	}
}

func TestMockShapes(t *testing.T) {
	email, ok := Builtins["email"].Mock().(string)
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(`^[a-z]+\.[a-z]+@example\.(com|org|net)$`), email)

	n, ok := Builtins["integer"].Mock().(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 1000)

	phone, ok := Builtins["phone"].Mock().(string)
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(Builtins["phone"].Pattern), phone)

	id, ok := Builtins["uuid"].Mock().(string)
	require.True(t, ok)
	assert.Len(t, id, 36)
}
