package mir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintScale(t *testing.T) {
	c := newConstraint(2)
	c.append(2, 0)
	c.append(-3, 1)
	c.RHS = 4
	c.Sense = SenseGE

	c.Scale(-2)

	assert.Equal(t, SenseLE, c.Sense, "negative scale flips >= to <=")
	assert.InDelta(t, -4.0, c.Coeffs[0], 1e-12)
	assert.InDelta(t, 6.0, c.Coeffs[1], 1e-12)
	assert.InDelta(t, -8.0, c.RHS, 1e-12)

	c.Scale(-1)
	assert.Equal(t, SenseGE, c.Sense, "second flip restores >=")
}

func TestConstraintScaleEquality(t *testing.T) {
	c := newConstraint(1)
	c.append(1, 0)
	c.RHS = 3
	c.Sense = SenseEQ

	c.Scale(-1)
	assert.Equal(t, SenseEQ, c.Sense, "equality sense survives negative scale")
}

func TestConstraintClone(t *testing.T) {
	c := newConstraint(3)
	c.append(1.5, 0)
	c.append(-2, 4)
	c.RHS = 7
	c.Sense = SenseGE

	d := c.Clone()
	d.Coeffs[0] = 99
	d.Index[1] = 99
	d.RHS = 99

	assert.InDelta(t, 1.5, c.Coeffs[0], 0, "clone mutation must not leak back")
	assert.Equal(t, 4, c.Index[1])
	assert.InDelta(t, 7.0, c.RHS, 0)
	assert.Equal(t, cap(c.Coeffs), cap(d.Coeffs), "clone keeps capacity headroom")
}

func TestConstraintLHS(t *testing.T) {
	c := newConstraint(2)
	c.append(2, 0)
	c.append(-1, 2)
	x := []float64{3, 100, 4}
	assert.InDelta(t, 2.0, c.LHS(x), 1e-12)
}

func TestConstraintValidate(t *testing.T) {
	c := newConstraint(3)
	c.append(1, 0)
	c.append(2, 1)
	require.NoError(t, c.Validate())

	c.append(3, 0)
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIndex)
}

func TestSenseString(t *testing.T) {
	assert.Equal(t, "<=", SenseLE.String())
	assert.Equal(t, ">=", SenseGE.String())
	assert.Equal(t, "=", SenseEQ.String())
	assert.Equal(t, "?", senseNone.String())
}
