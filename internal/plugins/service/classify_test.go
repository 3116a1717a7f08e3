package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simonhull/firebird-suite/plume/internal/model"
)

func object(id model.ClassID) model.Dependency {
	return model.Dependency{Target: model.TypeRef{Kind: model.TypeObject, Name: string(id), Class: id}}
}

func ids(classes []*model.Class) []model.ClassID {
	out := make([]model.ClassID, len(classes))
	for i, c := range classes {
		out[i] = c.ID
	}
	return out
}

func TestGetDependentClassesKeepsOrderAndDuplicates(t *testing.T) {
	owner := &model.Class{
		ID:           "Checkout",
		Stereotype:   "Service",
		Dependencies: []model.Dependency{object("A"), object("B"), object("A")},
	}
	m := model.New("m",
		owner,
		&model.Class{ID: "A", Stereotype: "Service"},
		&model.Class{ID: "B", Stereotype: "Entity"},
	)

	assert.Equal(t, []model.ClassID{"A", "A"}, ids(GetDependentClasses(m, owner, "Service")))
	assert.Equal(t, []model.ClassID{"B"}, ids(GetDependentClasses(m, owner, "Entity")))
	assert.Empty(t, GetDependentClasses(m, owner, "Controller"))
}

func TestGetDependentClassesSkipsUnusableEdges(t *testing.T) {
	owner := &model.Class{
		ID:         "Checkout",
		Stereotype: "Service",
		Dependencies: []model.Dependency{
			{Target: model.TypeRef{Kind: model.TypePrimitive, Name: "string"}},
			{Target: model.TypeRef{Kind: model.TypeUnknown, Name: "Service"}},
			{Target: model.TypeRef{Kind: model.TypeObject}},
			object("Ghost"),
			object("Orders"),
		},
	}
	m := model.New("m", owner, &model.Class{ID: "Orders", Stereotype: "Service"})

	assert.Equal(t, []model.ClassID{"Orders"}, ids(GetDependentClasses(m, owner, "Service")))
}

func TestGetDependentClassesNoDependencies(t *testing.T) {
	owner := &model.Class{ID: "Lonely", Stereotype: "Service"}
	m := model.New("m", owner)

	assert.Empty(t, GetDependentClasses(m, owner, "Service"))
}

func TestAllowExternalAccess(t *testing.T) {
	tests := []struct {
		name string
		tags []model.Tag
		want bool
	}{
		{name: "no tag", want: true},
		{name: "unrelated tag", tags: []model.Tag{{Name: "audit", Value: "false"}}, want: true},
		{name: "empty value", tags: []model.Tag{{Name: ExternalAccessTag}}, want: true},
		{name: "true", tags: []model.Tag{{Name: ExternalAccessTag, Value: "true"}}, want: true},
		{name: "false", tags: []model.Tag{{Name: ExternalAccessTag, Value: "false"}}, want: false},
		{name: "False padded", tags: []model.Tag{{Name: ExternalAccessTag, Value: " False "}}, want: false},
		{name: "zero", tags: []model.Tag{{Name: ExternalAccessTag, Value: "0"}}, want: false},
		{name: "no", tags: []model.Tag{{Name: ExternalAccessTag, Value: "no"}}, want: false},
		{name: "off", tags: []model.Tag{{Name: ExternalAccessTag, Value: "OFF"}}, want: false},
		{name: "unparseable", tags: []model.Tag{{Name: ExternalAccessTag, Value: "internal-only"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &model.Class{ID: "S", Stereotype: "Service", Tags: tt.tags}
			assert.Equal(t, tt.want, AllowExternalAccess(c))
		})
	}
}
