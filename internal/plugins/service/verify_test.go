package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/plume/internal/model"
	"github.com/simonhull/firebird-suite/plume/internal/types"
)

func TestVerifyMocks(t *testing.T) {
	a := augment(t, shopModel())
	assert.NoError(t, VerifyMocks(a))
}

func TestVerifyMocksReportsUnresolvableTypes(t *testing.T) {
	m := model.New("m", &model.Class{
		ID:         "Billing",
		Stereotype: "Service",
		Operations: []model.Operation{{
			Name: "charge",
			Parameters: []model.Parameter{
				{Name: "amount", Type: model.TypeRef{Kind: model.TypePrimitive, Name: "money"}},
				{Name: "note", Type: model.TypeRef{Kind: model.TypePrimitive, Name: "text"}},
			},
		}},
	})

	err := VerifyMocks(augment(t, m))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownType)
	assert.Contains(t, err.Error(), "parameter Billing.charge(amount)")
	assert.NotContains(t, err.Error(), "(note)")
}

func TestVerifyMocksWithBoundedFormats(t *testing.T) {
	param := func(name, typ string, lo, hi float64) model.Parameter {
		return model.Parameter{
			Name:        name,
			Type:        model.TypeRef{Kind: model.TypePrimitive, Name: typ},
			Required:    true,
			HasMinValue: lo > 0,
			MinValue:    lo,
			HasMaxValue: hi > 0,
			MaxValue:    hi,
		}
	}
	m := model.New("m", &model.Class{
		ID:         "Signup",
		Stereotype: "Service",
		Operations: []model.Operation{{
			Name: "register",
			Parameters: []model.Parameter{
				param("email", "email", 0, 8),
				param("phone", "phone", 14, 0),
				param("code", "phone", 0, 8),
				param("retries", "integer", 1.5, 1.7),
			},
		}},
	})

	err := VerifyMocks(augment(t, m))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoFittingMock)
	assert.Contains(t, err.Error(), "parameter Signup.register(retries)")
	for _, ok := range []string{"(email)", "(phone)", "(code)"} {
		assert.NotContains(t, err.Error(), ok)
	}
}
