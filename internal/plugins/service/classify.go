// Package service is the stereotype plugin for service-layer classes. It
// classifies a service's collaborators by role, decides whether the service
// is reachable from outside, and synthesizes a validation rule and a mock
// value for every operation parameter.
package service

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/simonhull/firebird-suite/plume/internal/model"
)

// ExternalAccessTag is the class tag that can turn external access off
const ExternalAccessTag = "externalAccess"

// GetDependentClasses returns the classes class depends on whose stereotype
// equals stereotype, in declaration order. Duplicate edges yield duplicate
// entries. Primitive, malformed and dangling edges are skipped.
func GetDependentClasses(m *model.Model, class *model.Class, stereotype string) []*model.Class {
	var out []*model.Class
	for _, dep := range class.Dependencies {
		if !dep.Target.IsObject() {
			continue
		}
		target, ok := m.ClassByID(dep.Target.Class)
		if !ok {
			continue
		}
		if target.Stereotype == stereotype {
			out = append(out, target)
		}
	}
	return out
}

// AllowExternalAccess reports whether a service may be reached from outside.
// Only an externalAccess tag whose value reads as false turns it off; a tag
// with an empty or unparseable value leaves access on.
func AllowExternalAccess(class *model.Class) bool {
	value, ok := class.Tag(ExternalAccessTag)
	if !ok {
		return true
	}
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "":
		return true
	case "no", "off":
		return false
	case "yes", "on":
		return true
	}
	allowed, err := cast.ToBoolE(value)
	if err != nil {
		return true
	}
	return allowed
}
