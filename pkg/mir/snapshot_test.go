package mir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mircut/mircut/pkg/lp"
)

func TestNewSnapshot(t *testing.T) {
	m, state := fractionalFixture()
	snap, err := NewSnapshot(m, state, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.NCol)
	assert.Equal(t, 2, snap.NRow)

	// Structural values and basis.
	assert.InDelta(t, 1.8, snap.X[0], 0)
	assert.InDelta(t, 2.8, snap.X[1], 0)
	assert.True(t, snap.IsBasic(0))
	assert.True(t, snap.IsBasic(1))

	// Both rows are tight at the vertex, so both slacks are zero.
	assert.InDelta(t, 0.0, snap.X[2], 1e-9)
	assert.InDelta(t, 0.0, snap.X[3], 1e-9)
	assert.False(t, snap.IsBasic(2))
	assert.False(t, snap.IsBasic(3))

	// Row data is all-integral over integer columns, so both slacks are
	// implied integer: 2 columns + 2 slacks.
	assert.True(t, snap.IsInteger(2))
	assert.True(t, snap.IsInteger(3))
	assert.Equal(t, 4, snap.NIntegers)

	// Rows bounded above only.
	assert.True(t, snap.isBoundedAbove(2))
	assert.False(t, snap.isBoundedBelow(2))
	assert.False(t, snap.isEquality(2))

	// Slack duals.
	assert.InDelta(t, -0.2, snap.RC[2], 0)
	assert.InDelta(t, -0.6, snap.RC[3], 0)
}

func TestNewSnapshotTightensIntegerBounds(t *testing.T) {
	m := &lp.Model{}
	m.AddCol(0, 0.5, 9.5, true)
	m.AddCol(0, 0.5, 9.5, false)
	m.AddDenseRow(0, []float64{1, 1}, 10)

	state := &lp.RelaxationState{
		ColValues:    []float64{2, 3},
		ReducedCosts: []float64{0, 0},
		RowDuals:     []float64{0},
		ColBasis:     []lp.BasisStatus{lp.BasisBasic, lp.BasisAtLower},
		RowBasis:     []lp.BasisStatus{lp.BasisBasic},
	}
	snap, err := NewSnapshot(m, state, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, snap.LB[0], 0, "integer lower bound rounds up")
	assert.InDelta(t, 9.0, snap.UB[0], 0, "integer upper bound rounds down")
	assert.InDelta(t, 0.5, snap.LB[1], 0, "continuous bounds stay put")
	assert.InDelta(t, 9.5, snap.UB[1], 0)
	assert.Equal(t, 1, snap.NIntegers, "fractional row bound blocks the implied-integer slack")
}

func TestNewSnapshotRangeRow(t *testing.T) {
	m := &lp.Model{}
	m.AddCol(0, 0, 10, true)
	m.AddDenseRow(2, []float64{1}, 5)

	state := &lp.RelaxationState{
		ColValues:    []float64{3},
		ReducedCosts: []float64{0},
		RowDuals:     []float64{0},
		ColBasis:     []lp.BasisStatus{lp.BasisBasic},
		RowBasis:     []lp.BasisStatus{lp.BasisAtLower},
	}
	snap, err := NewSnapshot(m, state, nil)
	require.NoError(t, err)

	// Range row: slack lives in [0, ru-rl] and measures distance to the
	// upper bound.
	assert.InDelta(t, 0.0, snap.LB[1], 0)
	assert.InDelta(t, 3.0, snap.UB[1], 0)
	assert.InDelta(t, 2.0, snap.X[1], 1e-12)
	assert.True(t, snap.isBoundedAbove(1))
	assert.True(t, snap.isBoundedBelow(1))
}

func TestNewSnapshotEqualityRow(t *testing.T) {
	m := &lp.Model{}
	m.AddCol(0, 0, 10, true)
	m.AddDenseRow(4, []float64{2}, 4)

	state := &lp.RelaxationState{
		ColValues:    []float64{2},
		ReducedCosts: []float64{0},
		RowDuals:     []float64{0},
		ColBasis:     []lp.BasisStatus{lp.BasisBasic},
		RowBasis:     []lp.BasisStatus{lp.BasisAtLower},
	}
	snap, err := NewSnapshot(m, state, nil)
	require.NoError(t, err)
	assert.True(t, snap.isEquality(1))
}

func TestNewSnapshotErrors(t *testing.T) {
	m, state := fractionalFixture()

	noBasis := *state
	noBasis.ColBasis = nil
	noBasis.RowBasis = nil
	_, err := NewSnapshot(m, &noBasis, nil)
	assert.ErrorIs(t, err, ErrNoBasis)

	short := *state
	short.ColValues = []float64{1.8}
	_, err = NewSnapshot(m, &short, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, lp.ErrStateMismatch)
}

func TestBasisFlags(t *testing.T) {
	m, state := fractionalFixture()
	snap, err := NewSnapshot(m, state, nil)
	require.NoError(t, err)

	colBasic, rowBasic := snap.BasisFlags()
	assert.Equal(t, []bool{true, true}, colBasic)
	assert.Equal(t, []bool{false, false}, rowBasic)
}
