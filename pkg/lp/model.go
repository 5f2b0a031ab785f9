package lp

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDimensionMismatch is returned by [Model.Validate] when the bound,
	// cost, or integrality slices disagree on the number of columns or rows.
	ErrDimensionMismatch = errors.New("model slice lengths disagree")

	// ErrBadCoefficient is returned by [Model.Validate] when a matrix entry
	// references a column or row outside the model, or carries a
	// non-finite value.
	ErrBadCoefficient = errors.New("matrix entry out of range or not finite")
)

// Nonzero is a single constraint-matrix entry in triplet form.
type Nonzero struct {
	Row int     `json:"row"`
	Col int     `json:"col"`
	Val float64 `json:"val"`
}

// Model is a mixed-integer linear program in the usual bounded form:
//
//	minimize  ColCosts · x
//	subject to RowLower ≤ A·x ≤ RowUpper
//	           ColLower ≤ x ≤ ColUpper
//	           x[j] integer where Integer[j]
//
// A is given in triplet form by Matrix. Use Inf and NegInf for missing
// bounds. The zero value is an empty model; populate the slices directly
// or through the Add*Row helpers.
type Model struct {
	Name string `json:"name,omitempty"`

	ColCosts []float64 `json:"col_costs"`
	ColLower []float64 `json:"col_lower"`
	ColUpper []float64 `json:"col_upper"`
	ColNames []string  `json:"col_names,omitempty"`

	RowLower []float64 `json:"row_lower"`
	RowUpper []float64 `json:"row_upper"`
	RowNames []string  `json:"row_names,omitempty"`

	Matrix []Nonzero `json:"matrix"`

	// Integer marks each column that must take an integral value.
	Integer []bool `json:"integer"`

	byRow *Compressed
	byCol *Compressed
}

// Inf returns positive infinity, the conventional "no upper bound".
func Inf() float64 { return math.Inf(1) }

// NegInf returns negative infinity, the conventional "no lower bound".
func NegInf() float64 { return math.Inf(-1) }

// NumCols returns the number of structural variables.
func (m *Model) NumCols() int { return len(m.ColLower) }

// NumRows returns the number of constraints.
func (m *Model) NumRows() int { return len(m.RowLower) }

// AddCol appends a column with the given objective coefficient, bounds,
// and integrality, and returns its index.
func (m *Model) AddCol(cost, lower, upper float64, integer bool) int {
	m.ColCosts = append(m.ColCosts, cost)
	m.ColLower = append(m.ColLower, lower)
	m.ColUpper = append(m.ColUpper, upper)
	m.Integer = append(m.Integer, integer)
	m.invalidate()
	return len(m.ColLower) - 1
}

// AddDenseRow appends the constraint lower ≤ coeffs·x ≤ upper, skipping
// zero coefficients, and returns the new row index.
func (m *Model) AddDenseRow(lower float64, coeffs []float64, upper float64) int {
	row := len(m.RowLower)
	m.RowLower = append(m.RowLower, lower)
	m.RowUpper = append(m.RowUpper, upper)
	for col, val := range coeffs {
		if val != 0 {
			m.Matrix = append(m.Matrix, Nonzero{Row: row, Col: col, Val: val})
		}
	}
	m.invalidate()
	return row
}

// AddSparseRow appends the constraint lower ≤ Σ vals[i]·x[cols[i]] ≤ upper
// and returns the new row index.
func (m *Model) AddSparseRow(lower float64, cols []int, vals []float64, upper float64) int {
	row := len(m.RowLower)
	m.RowLower = append(m.RowLower, lower)
	m.RowUpper = append(m.RowUpper, upper)
	for i, col := range cols {
		if vals[i] != 0 {
			m.Matrix = append(m.Matrix, Nonzero{Row: row, Col: col, Val: vals[i]})
		}
	}
	m.invalidate()
	return row
}

// Validate checks internal consistency: matching slice lengths and
// in-range, finite matrix entries.
func (m *Model) Validate() error {
	ncol, nrow := m.NumCols(), m.NumRows()
	if len(m.ColUpper) != ncol || len(m.Integer) != ncol ||
		(m.ColCosts != nil && len(m.ColCosts) != ncol) {
		return fmt.Errorf("%w: %d columns", ErrDimensionMismatch, ncol)
	}
	if len(m.RowUpper) != nrow {
		return fmt.Errorf("%w: %d rows", ErrDimensionMismatch, nrow)
	}
	for _, nz := range m.Matrix {
		if nz.Col < 0 || nz.Col >= ncol || nz.Row < 0 || nz.Row >= nrow ||
			math.IsNaN(nz.Val) || math.IsInf(nz.Val, 0) {
			return fmt.Errorf("%w: entry (%d,%d)=%g", ErrBadCoefficient, nz.Row, nz.Col, nz.Val)
		}
	}
	return nil
}

// ByRow returns the constraint matrix compressed by row (CSR). The view
// is built lazily and cached; it becomes stale if Matrix is mutated
// directly, in which case call Invalidate first.
func (m *Model) ByRow() *Compressed {
	if m.byRow == nil {
		m.byRow = compressByRow(m.Matrix, m.NumRows())
	}
	return m.byRow
}

// ByCol returns the constraint matrix compressed by column (CSC), built
// and cached like [Model.ByRow].
func (m *Model) ByCol() *Compressed {
	if m.byCol == nil {
		m.byCol = compressByCol(m.Matrix, m.NumCols())
	}
	return m.byCol
}

// Invalidate drops the cached compressed views. Call it after mutating
// Matrix directly.
func (m *Model) Invalidate() { m.invalidate() }

func (m *Model) invalidate() {
	m.byRow = nil
	m.byCol = nil
}

// RowActivity computes A_i·x for row i against the given solution vector.
func (m *Model) RowActivity(i int, x []float64) float64 {
	cols, vals := m.ByRow().Vector(i)
	activity := 0.0
	for k, col := range cols {
		activity += vals[k] * x[col]
	}
	return activity
}

// NumIntegers returns the number of integer-constrained columns.
func (m *Model) NumIntegers() int {
	n := 0
	for _, isInt := range m.Integer {
		if isInt {
			n++
		}
	}
	return n
}

// ColName returns the name of column j, or a synthetic "x<j>" when the
// model carries no names.
func (m *Model) ColName(j int) string {
	if j < len(m.ColNames) && m.ColNames[j] != "" {
		return m.ColNames[j]
	}
	return fmt.Sprintf("x%d", j)
}

// RowName returns the name of row i, or a synthetic "r<i>".
func (m *Model) RowName(i int) string {
	if i < len(m.RowNames) && m.RowNames[i] != "" {
		return m.RowNames[i]
	}
	return fmt.Sprintf("r%d", i)
}
