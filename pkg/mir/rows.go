package mir

import (
	"errors"
	"fmt"
	"math"

	"github.com/mircut/mircut/pkg/factor"
)

var (
	// ErrNotBasic is returned by tableau extraction when the requested
	// variable is not basic. This is a caller bug, not a degenerate case.
	ErrNotBasic = errors.New("tableau row requested for nonbasic variable")

	// ErrNotStructural is returned by tableau extraction when the index
	// does not name a structural column.
	ErrNotStructural = errors.New("tableau row requested for non-structural index")

	// ErrBadPivot is returned when the solved tableau row does not carry
	// a unit pivot on the requested column, indicating an inconsistent
	// basis or factorization.
	ErrBadPivot = errors.New("tableau pivot is not one")

	// ErrRowRange is returned for an out-of-range row index.
	ErrRowRange = errors.New("row index out of range")
)

// BasisSolver answers transpose solves against the factorized basis of
// the snapshot. *factor.LU satisfies it; a host solver with its own
// factorization can satisfy it directly.
type BasisSolver interface {
	// SolveUnitTranspose solves Bᵀy = e for the unit vector at the basis
	// position of the given basic structural column and returns the
	// nonzero entries of y by constraint row.
	SolveUnitTranspose(col int) ([]factor.Entry, error)
}

// formulationRow copies matrix row i verbatim into a base constraint.
// The sense follows the row's boundedness, and the row's own slack term
// is appended (+1 when bounded above, −1 otherwise) unless the row is an
// equality. No factorization is involved.
func formulationRow(s *Snapshot, i int) (*Constraint, error) {
	if i < 0 || i >= s.NRow {
		return nil, fmt.Errorf("%w: %d", ErrRowRange, i)
	}
	slackIdx := s.NCol + i
	cols, vals := s.model.ByRow().Vector(i)

	row := newConstraint(len(cols) + 1)
	for k, col := range cols {
		row.append(vals[k], col)
	}

	switch {
	case s.isEquality(slackIdx):
		row.Sense = SenseEQ
		row.RHS = s.model.RowUpper[i]
	case s.isBoundedAbove(slackIdx):
		row.Sense = SenseLE
		row.RHS = s.model.RowUpper[i]
	default:
		row.Sense = SenseGE
		row.RHS = s.model.RowLower[i]
	}

	if !s.isEquality(slackIdx) {
		if s.isBoundedAbove(slackIdx) {
			row.append(1, slackIdx)
		} else {
			row.append(-1, slackIdx)
		}
	}
	return row, nil
}

// tableauRow solves for the simplex tableau row of basic structural
// column col and assembles it over the unified index space: structural
// coefficients from the column-major matrix weighted by the solve
// vector, slack coefficients per touched row (sign flipped for rows not
// bounded above), and the rhs as the weighted sum of active bounds.
// Equality-row slacks are zeroed unless withEqualitySlacks is set.
// Coefficients below minTableauCoeff are dropped; the result is an
// equality.
func tableauRow(s *Snapshot, solver BasisSolver, col int, withEqualitySlacks bool) (*Constraint, error) {
	if col < 0 || col >= s.NCol {
		return nil, fmt.Errorf("%w: %d", ErrNotStructural, col)
	}
	if !s.IsBasic(col) {
		return nil, fmt.Errorf("%w: column %d", ErrNotBasic, col)
	}

	weights, err := solver.SolveUnitTranspose(col)
	if err != nil {
		return nil, fmt.Errorf("tableau solve for column %d: %w", col, err)
	}

	dense := make([]float64, s.NCol+s.NRow)
	y := make([]float64, s.NRow)
	for _, e := range weights {
		y[e.Row] = e.Value
	}

	byCol := s.model.ByCol()
	for j := 0; j < s.NCol; j++ {
		rows, vals := byCol.Vector(j)
		v := 0.0
		for k, i := range rows {
			v += vals[k] * y[i]
		}
		dense[j] = v
	}

	if math.Abs(dense[col]-1.0) > integralityTol {
		return nil, fmt.Errorf("%w: column %d has pivot %g", ErrBadPivot, col, dense[col])
	}

	rhs := 0.0
	for _, e := range weights {
		slackIdx := s.NCol + e.Row
		switch {
		case s.isEquality(slackIdx) && !withEqualitySlacks:
			dense[slackIdx] = 0
		case s.isBoundedAbove(slackIdx):
			dense[slackIdx] = e.Value
		default:
			dense[slackIdx] = -e.Value
		}
		if s.isBoundedAbove(slackIdx) {
			rhs += e.Value * s.model.RowUpper[e.Row]
		} else {
			rhs += e.Value * s.model.RowLower[e.Row]
		}
	}

	row := newConstraint(s.NCol + s.NRow)
	for j, v := range dense {
		if math.Abs(v) > minTableauCoeff {
			row.append(v, j)
		}
	}
	row.Sense = SenseEQ
	row.RHS = rhs
	return row, nil
}

// slackExpression rebuilds the structural expression a slack variable
// stands for: s = ub − A_i·x when row i is bounded above, s = A_i·x − lb
// otherwise. The returned constraint has negated coefficients in the
// bounded-above case so that substituting s is a plain accumulate.
func slackExpression(s *Snapshot, i int) *Constraint {
	slackIdx := s.NCol + i
	cols, vals := s.model.ByRow().Vector(i)

	row := newConstraint(len(cols))
	above := s.isBoundedAbove(slackIdx)
	for k, col := range cols {
		v := vals[k]
		if above {
			v = -v
		}
		row.append(v, col)
	}
	if above {
		row.RHS = s.model.RowUpper[i]
	} else {
		row.RHS = -s.model.RowLower[i]
	}
	row.Sense = senseNone
	return row
}

// substituteSlacks rewrites cut in place over structural variables only,
// expanding every slack term through its row's expression. Entries below
// minTableauCoeff are dropped during recompaction.
func substituteSlacks(s *Snapshot, cut *Constraint) {
	dense := make([]float64, s.NCol)
	rhs := cut.RHS

	for i, idx := range cut.Index {
		coeff := cut.Coeffs[i]
		if idx < s.NCol {
			dense[idx] += coeff
			continue
		}
		row := slackExpression(s, idx-s.NCol)
		for k, col := range row.Index {
			dense[col] += row.Coeffs[k] * coeff
		}
		rhs -= row.RHS * coeff
	}

	cut.Coeffs = cut.Coeffs[:0]
	cut.Index = cut.Index[:0]
	for j, v := range dense {
		if math.Abs(v) > minTableauCoeff {
			cut.append(v, j)
		}
	}
	cut.RHS = rhs
}
