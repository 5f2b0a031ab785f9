package mir

import "math"

// isCutDesirable reports whether a finished cut is worth keeping: sparse
// enough, and strictly violated by the snapshot's solution for its
// sense. A ≥ cut must have lhs < rhs − tol, a ≤ cut lhs > rhs + tol, and
// an equality |lhs − rhs| ≥ tol, with tol = nullSlackTol.
func isCutDesirable(s *Snapshot, c *Constraint) bool {
	if c.Nonzeros() > maxCutNonzeros {
		return false
	}

	lhs := c.LHS(s.X)
	switch c.Sense {
	case SenseGE:
		return lhs < c.RHS-nullSlackTol
	case SenseLE:
		return lhs > c.RHS+nullSlackTol
	case SenseEQ:
		return math.Abs(lhs-c.RHS) >= nullSlackTol
	}
	return false
}

// isBaseTrivial reports whether a scaled base cannot carry a rounding
// cut: its rhs fraction sits within gomoryTol of an integer.
func isBaseTrivial(c *Constraint) bool {
	frac := fracPart(c.RHS)
	return frac < gomoryTol || 1-frac < gomoryTol
}
