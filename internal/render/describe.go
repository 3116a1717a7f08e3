package render

import (
	"embed"

	"github.com/simonhull/firebird-suite/plume/internal/capability"
	"github.com/simonhull/firebird-suite/plume/internal/plugins/service"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const describeTemplate = "templates/describe.tmpl"

// Describe is the template data for one augmented model
type Describe struct {
	Model    string
	Services []service.Service
}

// NewDescribe collects the services of an augmented model
func NewDescribe(a *capability.Augmented, serviceStereotype string) Describe {
	return Describe{
		Model:    a.Model().Name,
		Services: service.Services(a, serviceStereotype),
	}
}

// RenderDescribe renders the built-in describe template, or override when set
func (r *Renderer) RenderDescribe(d Describe, override string) ([]byte, error) {
	if override != "" {
		return r.RenderFile(override, d)
	}
	return r.RenderFS(templatesFS, describeTemplate, d)
}
