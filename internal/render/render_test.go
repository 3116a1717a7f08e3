package render

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/plume/internal/model"
)

func TestRenderString(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name        string
		templateStr string
		data        any
		expected    string
		errContains string
	}{
		{
			name:        "plain text",
			templateStr: "Hello World",
			expected:    "Hello World",
		},
		{
			name:        "field access",
			templateStr: "Hello {{ .Name }}",
			data:        map[string]string{"Name": "plume"},
			expected:    "Hello plume",
		},
		{
			name:        "case helpers",
			templateStr: `{{ pascalCase "place_order" }} {{ camelCase "PlaceOrder" }} {{ snakeCase "HTTPServer" }}`,
			expected:    "PlaceOrder placeOrder http_server",
		},
		{
			name:        "default",
			templateStr: `{{ default "-" .Missing }}`,
			data:        map[string]any{"Missing": ""},
			expected:    "-",
		},
		{
			name:        "parse error",
			templateStr: "{{ .Name",
			errContains: "failed to parse template",
		},
		{
			name:        "missing key",
			templateStr: "{{ .Name }}",
			data:        map[string]string{},
			errContains: "failed to render template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.RenderString(tt.name, tt.templateStr, tt.data)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestRenderStringCaches(t *testing.T) {
	r := NewRenderer()

	_, err := r.RenderString("greeting", "first", nil)
	require.NoError(t, err)

	// Same name serves the cached template
	out, err := r.RenderString("greeting", "second", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", string(out))

	r.ClearCache()
	out, err = r.RenderString("greeting", "second", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", string(out))
}

func TestRenderFileMissing(t *testing.T) {
	_, err := NewRenderer().RenderFile(filepath.Join("testdata", "missing.tmpl"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read template file")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "", PascalCase(""))
	assert.Equal(t, "OrderService", PascalCase("orderService"))
	assert.Equal(t, "order_service", SnakeCase("OrderService"))
	assert.Equal(t, "user_id", SnakeCase("userID"))
	assert.Equal(t, `"x"`, Quote("x"))
	assert.Equal(t, "  a\n\n  b", Indent(2, "a\n\nb"))

	assert.Equal(t, "-", ClassNames(nil))
	assert.Equal(t, "A, B", ClassNames([]*model.Class{{ID: "A"}, {ID: "B"}}))

	d, err := Dict("k", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 1}, d)
	_, err = Dict("k")
	assert.Error(t, err)
	_, err = Dict(1, 2)
	assert.Error(t, err)

	assert.Equal(t, "fallback", Default("fallback", nil))
	assert.Equal(t, 0, Default("fallback", 0))
	assert.True(t, strings.HasPrefix(Indent(4, "x"), "    "))
}
