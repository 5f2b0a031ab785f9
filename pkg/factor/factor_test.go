package factor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mircut/mircut/pkg/lp"
)

// twoByTwo is a model whose basis {x0, x1} is
//
//	B = | -1  1 |
//	    |  3  2 |
func twoByTwo() *lp.Model {
	m := &lp.Model{}
	m.AddCol(0, 0, 10, true)
	m.AddCol(0, 0, 10, true)
	m.AddDenseRow(lp.NegInf(), []float64{-1, 1}, 1)
	m.AddDenseRow(lp.NegInf(), []float64{3, 2}, 11)
	return m
}

func solveDense(t *testing.T, f *LU, col, n int) []float64 {
	t.Helper()
	entries, err := f.SolveUnitTranspose(col)
	require.NoError(t, err)
	y := make([]float64, n)
	for _, e := range entries {
		y[e.Row] = e.Value
	}
	return y
}

func TestSolveUnitTranspose(t *testing.T) {
	m := twoByTwo()
	f, err := New(m, []bool{true, true}, []bool{false, false})
	require.NoError(t, err)
	require.Equal(t, 2, f.Dim())

	// B^T y = e0 has the solution (-0.4, 0.2).
	y := solveDense(t, f, 0, 2)
	assert.InDelta(t, -0.4, y[0], 1e-12)
	assert.InDelta(t, 0.2, y[1], 1e-12)

	// B^T y = e1 has the solution (0.6, 0.2).
	y = solveDense(t, f, 1, 2)
	assert.InDelta(t, 0.6, y[0], 1e-12)
	assert.InDelta(t, 0.2, y[1], 1e-12)
}

func TestSolveAgainstColumns(t *testing.T) {
	// y from column j must satisfy y . B_k = delta(j,k) for every basic
	// column k, which is the defining property of a tableau row solve.
	m := &lp.Model{}
	for j := 0; j < 3; j++ {
		m.AddCol(0, 0, 10, false)
	}
	m.AddDenseRow(lp.NegInf(), []float64{2, 1, 0}, 4)
	m.AddDenseRow(lp.NegInf(), []float64{1, 3, 1}, 5)
	m.AddDenseRow(lp.NegInf(), []float64{0, 1, 4}, 6)

	f, err := New(m, []bool{true, true, true}, []bool{false, false, false})
	require.NoError(t, err)

	cols := [][]float64{{2, 1, 0}, {1, 3, 1}, {0, 1, 4}}
	for j := 0; j < 3; j++ {
		y := solveDense(t, f, j, 3)
		for k := 0; k < 3; k++ {
			dot := 0.0
			for i := 0; i < 3; i++ {
				dot += y[i] * cols[k][i]
			}
			want := 0.0
			if j == k {
				want = 1.0
			}
			assert.InDelta(t, want, dot, 1e-10, "column %d against %d", j, k)
		}
	}
}

func TestLogicalColumns(t *testing.T) {
	// One basic structural column plus one basic row: the logical column
	// contributes a unit vector.
	m := &lp.Model{}
	m.AddCol(0, 0, 10, false)
	m.AddCol(0, 0, 10, false)
	m.AddDenseRow(lp.NegInf(), []float64{2, 1}, 4)
	m.AddDenseRow(lp.NegInf(), []float64{1, 3}, 5)

	f, err := New(m, []bool{true, false}, []bool{false, true})
	require.NoError(t, err)

	// B = [(2,1), e1], so B^T y = e0 gives y = (0.5, 0).
	y := solveDense(t, f, 0, 2)
	assert.InDelta(t, 0.5, y[0], 1e-12)
	assert.InDelta(t, 0.0, y[1], 1e-12)
}

func TestNewErrors(t *testing.T) {
	m := twoByTwo()

	_, err := New(m, []bool{true, false}, []bool{false, false})
	assert.ErrorIs(t, err, ErrNotSquare)

	// Duplicate columns make the basis singular.
	dup := &lp.Model{}
	dup.AddCol(0, 0, 10, false)
	dup.AddCol(0, 0, 10, false)
	dup.AddDenseRow(lp.NegInf(), []float64{1, 1}, 1)
	dup.AddDenseRow(lp.NegInf(), []float64{2, 2}, 2)
	_, err = New(dup, []bool{true, true}, []bool{false, false})
	assert.ErrorIs(t, err, ErrSingular)
}

func TestSolveNotBasic(t *testing.T) {
	m := twoByTwo()
	f, err := New(m, []bool{true, false}, []bool{false, true})
	require.NoError(t, err)

	_, err = f.SolveUnitTranspose(1)
	assert.ErrorIs(t, err, ErrNotBasic)
	_, err = f.SolveUnitTranspose(-1)
	assert.ErrorIs(t, err, ErrNotBasic)
}

func TestPivotingRequired(t *testing.T) {
	// A zero in the leading position forces a row swap; the solve must
	// still be exact.
	m := &lp.Model{}
	m.AddCol(0, 0, 1, false)
	m.AddCol(0, 0, 1, false)
	m.AddDenseRow(lp.NegInf(), []float64{0, 1}, 1)
	m.AddDenseRow(lp.NegInf(), []float64{1, 0}, 1)

	f, err := New(m, []bool{true, true}, []bool{false, false})
	require.NoError(t, err)

	// B = [[0,1],[1,0]]: B^T y = e0 gives y = (0, 1).
	y := solveDense(t, f, 0, 2)
	assert.InDelta(t, 0.0, y[0], 1e-12)
	assert.InDelta(t, 1.0, y[1], 1e-12)
}
