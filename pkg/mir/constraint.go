package mir

import (
	"errors"
	"fmt"
	"math"
)

// Sense is the direction of a sparse constraint.
type Sense byte

const (
	// SenseLE is a ≤ constraint.
	SenseLE Sense = 'L'
	// SenseGE is a ≥ constraint.
	SenseGE Sense = 'G'
	// SenseEQ is an equality constraint.
	SenseEQ Sense = 'E'
	// senseNone marks a constraint whose direction is not meaningful,
	// such as a slack expression.
	senseNone Sense = '?'
)

// String returns the operator form of the sense.
func (s Sense) String() string {
	switch s {
	case SenseLE:
		return "<="
	case SenseGE:
		return ">="
	case SenseEQ:
		return "="
	}
	return "?"
}

// ErrDuplicateIndex is returned by [Constraint.Validate] when a variable
// index appears more than once.
var ErrDuplicateIndex = errors.New("duplicate variable index in constraint")

// Constraint is a sparse linear constraint over the unified index space
// (structural columns 0..ncol−1, slacks ncol..ncol+nrow−1). Parallel
// slices hold the coefficients and their variable indices; indices must
// be unique within one constraint. Slice capacity may exceed length so a
// slack term can be appended without reallocating.
type Constraint struct {
	Coeffs []float64
	Index  []int
	RHS    float64
	Sense  Sense
}

// newConstraint returns an empty constraint with room for capacity
// terms.
func newConstraint(capacity int) *Constraint {
	return &Constraint{
		Coeffs: make([]float64, 0, capacity),
		Index:  make([]int, 0, capacity),
		Sense:  senseNone,
	}
}

// Nonzeros returns the number of stored terms, including any that have
// been zeroed in place but not compacted away.
func (c *Constraint) Nonzeros() int { return len(c.Coeffs) }

// append adds one term. The caller is responsible for index uniqueness.
func (c *Constraint) append(coeff float64, index int) {
	c.Coeffs = append(c.Coeffs, coeff)
	c.Index = append(c.Index, index)
}

// Clone returns a deep copy with the same capacity headroom.
func (c *Constraint) Clone() *Constraint {
	nc := &Constraint{
		Coeffs: make([]float64, len(c.Coeffs), cap(c.Coeffs)),
		Index:  make([]int, len(c.Index), cap(c.Index)),
		RHS:    c.RHS,
		Sense:  c.Sense,
	}
	copy(nc.Coeffs, c.Coeffs)
	copy(nc.Index, c.Index)
	return nc
}

// Scale multiplies every coefficient and the rhs by t, flipping the
// sense when t is negative.
func (c *Constraint) Scale(t float64) {
	c.RHS *= t
	if t < 0 {
		switch c.Sense {
		case SenseGE:
			c.Sense = SenseLE
		case SenseLE:
			c.Sense = SenseGE
		}
	}
	for i := range c.Coeffs {
		c.Coeffs[i] *= t
	}
}

// LHS evaluates the left-hand side against a unified solution vector.
func (c *Constraint) LHS(x []float64) float64 {
	lhs := 0.0
	for i, idx := range c.Index {
		lhs += c.Coeffs[i] * x[idx]
	}
	return lhs
}

// Validate checks the index-uniqueness invariant.
func (c *Constraint) Validate() error {
	seen := make(map[int]struct{}, len(c.Index))
	for _, idx := range c.Index {
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateIndex, idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// maxAbsCoeff returns the largest coefficient magnitude, 0 for an empty
// constraint.
func (c *Constraint) maxAbsCoeff() float64 {
	m := 0.0
	for _, v := range c.Coeffs {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
