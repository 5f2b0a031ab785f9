// Package factor provides the basis factorization used to extract
// simplex tableau rows. It assembles the square basis matrix from the
// basic structural columns of a model plus a unit logical column per
// basic row, computes a dense LU decomposition with partial pivoting,
// and answers transpose solves against unit vectors.
//
// The factorization is dense and rebuilt from scratch per generation
// call, which is adequate for the problem sizes this library targets; a
// host with its own factorization engine can satisfy the consuming
// interface directly instead.
package factor

import (
	"errors"
	"fmt"
	"math"

	"github.com/mircut/mircut/pkg/lp"
)

var (
	// ErrSingular is returned by [New] when the basis matrix is singular
	// to working precision.
	ErrSingular = errors.New("basis matrix is singular")

	// ErrTooLarge is returned by [New] when the basis dimension exceeds
	// MaxDim; the dense factorization is not meant for problems that big.
	ErrTooLarge = errors.New("basis too large for dense factorization")

	// ErrNotSquare is returned by [New] when the number of basic columns
	// and rows does not equal the row count.
	ErrNotSquare = errors.New("basis is not square")

	// ErrNotBasic is returned by [LU.SolveUnitTranspose] when the
	// requested column is not part of the factorized basis.
	ErrNotBasic = errors.New("column is not in the basis")
)

// MaxDim caps the dense basis dimension accepted by [New].
const MaxDim = 4096

// pivotTol is the smallest pivot magnitude accepted during elimination.
const pivotTol = 1e-12

// Entry is one (row, value) pair of a sparse solve result.
type Entry struct {
	Row   int
	Value float64
}

// LU is a dense LU factorization of a simplex basis, with enough
// bookkeeping to locate any basic column's position in the basis.
type LU struct {
	n    int
	lu   []float64 // n×n, row-major, L below the diagonal (unit), U on and above
	perm []int     // perm[k] = source row eliminated at step k
	pos  []int     // pos[j] = basis position of structural column j, or -1
}

// New factorizes the basis defined by colBasic/rowBasic over the model's
// column-major matrix. Basic structural columns contribute their matrix
// column; each basic row contributes the unit column of its logical
// variable. The basis must be square: the number of true flags across
// both slices must equal the model's row count.
func New(m *lp.Model, colBasic, rowBasic []bool) (*LU, error) {
	n := m.NumRows()
	if n > MaxDim {
		return nil, fmt.Errorf("%w: %d rows", ErrTooLarge, n)
	}

	nb := 0
	for _, b := range colBasic {
		if b {
			nb++
		}
	}
	for _, b := range rowBasic {
		if b {
			nb++
		}
	}
	if nb != n {
		return nil, fmt.Errorf("%w: %d basic variables for %d rows", ErrNotSquare, nb, n)
	}

	f := &LU{
		n:    n,
		lu:   make([]float64, n*n),
		perm: make([]int, n),
		pos:  make([]int, m.NumCols()),
	}
	for j := range f.pos {
		f.pos[j] = -1
	}

	// Assemble B column by column: structural basics first, then logicals.
	byCol := m.ByCol()
	q := 0
	for j, basic := range colBasic {
		if !basic {
			continue
		}
		rows, vals := byCol.Vector(j)
		for k, i := range rows {
			f.lu[i*n+q] = vals[k]
		}
		f.pos[j] = q
		q++
	}
	for i, basic := range rowBasic {
		if !basic {
			continue
		}
		f.lu[i*n+q] = 1.0
		q++
	}

	if err := f.decompose(); err != nil {
		return nil, err
	}
	return f, nil
}

// decompose runs in-place Gaussian elimination with partial pivoting,
// after the fashion of the LINPACK dgefa kernel.
func (f *LU) decompose() error {
	n := f.n
	rowOf := make([]int, n) // physical row currently holding logical row k
	for i := range rowOf {
		rowOf[i] = i
	}
	for k := 0; k < n; k++ {
		// Select the largest pivot in column k.
		p, best := k, math.Abs(f.lu[rowOf[k]*n+k])
		for i := k + 1; i < n; i++ {
			if a := math.Abs(f.lu[rowOf[i]*n+k]); a > best {
				p, best = i, a
			}
		}
		if best < pivotTol {
			return fmt.Errorf("%w: pivot %g at step %d", ErrSingular, best, k)
		}
		rowOf[k], rowOf[p] = rowOf[p], rowOf[k]
		f.perm[k] = rowOf[k]

		piv := f.lu[rowOf[k]*n+k]
		for i := k + 1; i < n; i++ {
			ri := rowOf[i] * n
			mult := f.lu[ri+k] / piv
			f.lu[ri+k] = mult
			if mult == 0 {
				continue
			}
			rk := rowOf[k] * n
			for j := k + 1; j < n; j++ {
				f.lu[ri+j] -= mult * f.lu[rk+j]
			}
		}
	}
	return nil
}

// Dim returns the basis dimension.
func (f *LU) Dim() int { return f.n }

// SolveUnitTranspose solves Bᵀy = e_p where p is the basis position of
// the given basic structural column, and returns the nonzero entries of
// y indexed by constraint row. This is the classic BTran step that
// yields the tableau row of that column.
func (f *LU) SolveUnitTranspose(col int) ([]Entry, error) {
	if col < 0 || col >= len(f.pos) || f.pos[col] < 0 {
		return nil, fmt.Errorf("%w: column %d", ErrNotBasic, col)
	}
	p := f.pos[col]
	n := f.n

	// With PB = LU, Bᵀy = Uᵀ Lᵀ (Py) = e_p. Forward solve with Uᵀ
	// (lower triangular), back solve with Lᵀ (unit upper), then undo
	// the permutation.
	z := make([]float64, n)
	z[p] = 1.0
	for k := 0; k < n; k++ {
		rk := f.perm[k] * n
		z[k] /= f.lu[rk+k]
		if z[k] == 0 {
			continue
		}
		for j := k + 1; j < n; j++ {
			z[j] -= f.lu[rk+j] * z[k]
		}
	}
	for k := n - 1; k >= 0; k-- {
		if z[k] == 0 {
			continue
		}
		rk := f.perm[k] * n
		for j := 0; j < k; j++ {
			z[j] -= f.lu[rk+j] * z[k]
		}
	}

	y := make([]float64, n)
	for k := 0; k < n; k++ {
		y[f.perm[k]] = z[k]
	}

	var out []Entry
	for i, v := range y {
		if v != 0 {
			out = append(out, Entry{Row: i, Value: v})
		}
	}
	return out, nil
}
