package mir

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBuilderSense is returned by the cut builders for a ≤ base; the
	// rounding formulas are only valid on ≥ form.
	ErrBuilderSense = errors.New("cut builder requires a >= base")

	// ErrEmptyBase is returned by the cut builders for a base with no
	// terms.
	ErrEmptyBase = errors.New("base constraint has no coefficients")

	// ErrNegativeFrac signals a negative fractional remainder, which
	// cannot happen for finite inputs and indicates corruption upstream.
	ErrNegativeFrac = errors.New("negative fractional remainder")
)

// buildMIR derives the classic mixed-integer-rounding cut from a
// transformed, nicefied ≥ base Σ cᵢxᵢ ≥ b. With f = b − floor(b):
//
//	rhs' = f·ceil(b)
//	continuous xᵢ:  cᵢ' = max(cᵢ, 0)
//	integer xᵢ:     cᵢ' = f·floor(cᵢ) + min(f, frac(cᵢ))
//
// Any integer scaling of the base is applied by the caller before this
// point.
func buildMIR(isInt []bool, base *Constraint) (*Constraint, error) {
	if base.Sense == SenseLE {
		return nil, ErrBuilderSense
	}
	if base.Nonzeros() == 0 {
		return nil, ErrEmptyBase
	}

	b := base.RHS
	f := fracPart(b)

	cut := newConstraint(base.Nonzeros())
	cut.Sense = SenseGE
	cut.RHS = f * math.Ceil(b)

	for i, v := range base.Coeffs {
		var coeff float64
		if !isInt[i] {
			if v > 0 {
				coeff = v
			}
		} else {
			vf := fracPart(v)
			if vf < 0 {
				return nil, fmt.Errorf("%w: coefficient %g", ErrNegativeFrac, v)
			}
			coeff = f*math.Floor(v) + math.Min(f, vf)
		}
		cut.append(coeff, base.Index[i])
	}
	return cut, nil
}
