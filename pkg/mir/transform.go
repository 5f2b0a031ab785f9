package mir

import "math"

// transformInfo carries the per-variable side data produced by
// transformConstraint: the transformed solution value, the reduced cost,
// and the integrality flag for each kept term, aligned with the
// constraint's slices.
type transformInfo struct {
	x     []float64
	rc    []float64
	isInt []bool
}

// transformConstraint complements every variable of c onto its closer
// bound, in place: x' = ub − x when the variable sits in the upper half
// of its range (coefficient sign flips, coeff·ub leaves the rhs), else
// x' = x − lb (coeff·lb leaves the rhs). The resulting constraint lives
// in nonnegative variables near zero with the sense unchanged.
// Transformed values within boundTol of zero snap to exactly zero.
//
// The closer-bound choice is a pure function of the snapshot's bounds
// and solution, so untransformConstraint can recompute it exactly.
func (s *Snapshot) transformConstraint(c *Constraint) *transformInfo {
	info := &transformInfo{
		x:     make([]float64, len(c.Coeffs)),
		rc:    make([]float64, len(c.Coeffs)),
		isInt: make([]bool, len(c.Coeffs)),
	}

	for i, idx := range c.Index {
		info.rc[i] = s.RC[idx]
		info.isInt[i] = s.IsInteger(idx)

		half := (s.UB[idx] - s.LB[idx]) / 2
		if s.UB[idx]-s.X[idx] < half {
			info.x[i] = s.UB[idx] - s.X[idx]
			c.RHS -= c.Coeffs[i] * s.UB[idx]
			c.Coeffs[i] = -c.Coeffs[i]
		} else {
			info.x[i] = s.X[idx] - s.LB[idx]
			c.RHS -= c.Coeffs[i] * s.LB[idx]
		}
		if math.Abs(info.x[i]) <= boundTol {
			info.x[i] = 0
		}
	}
	return info
}

// untransformConstraint reverses transformConstraint in place, restoring
// the original variable space. It recomputes the closer-bound choice
// from the snapshot rather than trusting stored state, so it can be
// applied to any constraint derived from a transformed base (such as a
// built cut) as long as the snapshot has not changed.
func (s *Snapshot) untransformConstraint(c *Constraint) {
	for i, idx := range c.Index {
		half := (s.UB[idx] - s.LB[idx]) / 2
		if s.UB[idx]-s.X[idx] < half {
			c.RHS -= c.Coeffs[i] * s.UB[idx]
			c.Coeffs[i] = -c.Coeffs[i]
		} else {
			c.RHS += c.Coeffs[i] * s.LB[idx]
		}
	}
}
