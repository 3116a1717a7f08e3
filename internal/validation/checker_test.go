package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckerBoundedRequiredInteger(t *testing.T) {
	spec := Spec{Kind: "number", AddOn: ".integer()", HasMin: true, Min: 1, HasMax: true, Max: 10, Required: true}

	c, err := Compile(spec.Expression())
	require.NoError(t, err)

	assert.NoError(t, c.Check(5))
	assert.NoError(t, c.Check(1))
	assert.NoError(t, c.Check(10))
	assert.Error(t, c.Check(0))
	assert.Error(t, c.Check(11))
	assert.Error(t, c.Check(5.5))
	assert.Error(t, c.Check("5"))
	assert.Error(t, c.CheckMissing())
}

func TestCheckerOptionalAcceptsMissing(t *testing.T) {
	c, err := Compile(Spec{Kind: "string"}.Expression())
	require.NoError(t, err)

	assert.NoError(t, c.CheckMissing())
	assert.NoError(t, c.Check("anything"))
	assert.Error(t, c.Check(42))
}

func TestCheckerStringLengthAndFormat(t *testing.T) {
	c, err := Compile(Spec{Kind: "string", AddOn: ".email()", HasMax: true, Max: 20, Required: true}.Expression())
	require.NoError(t, err)

	assert.NoError(t, c.Check("ada@example.com"))
	assert.Error(t, c.Check("not-an-email"))
	assert.Error(t, c.Check("a-very-long-address@example.com"))
	assert.Error(t, c.CheckMissing())
}

func TestCheckerPattern(t *testing.T) {
	c, err := Compile(`Joi.string().pattern(/^[0-9]{5}$/).required()`)
	require.NoError(t, err)

	assert.NoError(t, c.CheckLiteral(`"90210"`))
	assert.Error(t, c.CheckLiteral(`"9021"`))
}

func TestCheckerDate(t *testing.T) {
	c, err := Compile("Joi.date().iso()")
	require.NoError(t, err)

	assert.NoError(t, c.Check("2024-05-01T10:00:00Z"))
	assert.Error(t, c.Check("yesterday"))
}

func TestCompileRejectsMalformedExpression(t *testing.T) {
	_, err := Compile("Joi.string()required()")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing '.'")
}

func TestCheckLiteralRejectsInvalidJSON(t *testing.T) {
	c, err := Compile("Joi.any()")
	require.NoError(t, err)

	err = c.CheckLiteral("{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding literal")
}

func TestCheckLiteralNumbers(t *testing.T) {
	c, err := Compile("Joi.number().integer().min(1).max(10).required()")
	require.NoError(t, err)

	assert.NoError(t, c.CheckLiteral("5"))
	assert.Error(t, c.CheckLiteral("5.5"))
	assert.Error(t, c.CheckLiteral("11"))
	assert.Error(t, c.CheckLiteral(`"5"`))

	ratio, err := Compile("Joi.number().max(2.5)")
	require.NoError(t, err)
	assert.NoError(t, ratio.CheckLiteral("2.5"))
	assert.Error(t, ratio.CheckLiteral("2.51"))
}

func TestCheckLiteralRejectsTrailingData(t *testing.T) {
	c, err := Compile("Joi.any()")
	require.NoError(t, err)

	err = c.CheckLiteral(`"a" "b"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}
