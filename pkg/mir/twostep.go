package mir

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadAlpha is returned by build2Step when alpha falls outside
	// (0, f) for the base's rhs fraction f.
	ErrBadAlpha = errors.New("alpha outside (0, rhs fraction)")

	// ErrAlphaDivides is returned when alpha divides the rhs fraction
	// exactly, the degenerate limit where the two-step formula collapses.
	ErrAlphaDivides = errors.New("alpha divides rhs fraction")

	// ErrSmallRho is returned when the two-step remainder rho falls under
	// minRho, too small to carry a numerically trustworthy cut.
	ErrSmallRho = errors.New("two-step remainder too small")
)

// build2Step derives the two-step MIR cut for split point alpha from a
// transformed, nicefied ≥ base Σ cᵢxᵢ ≥ b. With f = frac(b),
// τ = ceil(f/alpha) and ρ = f − alpha·floor(f/alpha):
//
//	rhs' = ceil(b)·τ·ρ
//	continuous xᵢ:  cᵢ' = max(cᵢ, 0)
//	integer xᵢ:     v = frac(cᵢ), k = min(τ−1, floor(v/alpha))
//	                cᵢ' = floor(cᵢ)·τ·ρ + k·ρ + min(ρ, v − k·alpha)
//
// Validity requires f > alpha > 0, alpha not an exact divisor of f, and
// ρ ≥ minRho; failures of those are degenerate conditions the caller
// skips, not programming errors.
func build2Step(alpha float64, isInt []bool, base *Constraint) (*Constraint, error) {
	if base.Sense == SenseLE {
		return nil, ErrBuilderSense
	}
	if base.Nonzeros() == 0 {
		return nil, ErrEmptyBase
	}

	b := base.RHS
	f := fracPart(b)
	bup := math.Ceil(b)
	tau := math.Ceil(f / alpha)
	rho := f - alpha*math.Floor(f/alpha)

	if f <= alpha || alpha <= 0 {
		return nil, fmt.Errorf("%w: alpha %g, fraction %g", ErrBadAlpha, alpha, f)
	}
	if isMultipleOf(alpha, f) {
		return nil, fmt.Errorf("%w: alpha %g, fraction %g", ErrAlphaDivides, alpha, f)
	}
	if rho < minRho {
		return nil, fmt.Errorf("%w: rho %g", ErrSmallRho, rho)
	}

	cut := newConstraint(base.Nonzeros())
	cut.Sense = SenseGE
	cut.RHS = bup * tau * rho

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
			k := math.Min(tau-1, math.Floor(vf/alpha))
			coeff = math.Floor(v)*tau*rho + k*rho + math.Min(rho, vf-k*alpha)
		}
		cut.append(coeff, base.Index[i])
	}
	return cut, nil
}

// is2StepValid reports whether alpha is an admissible two-step split
// point for rhs fraction f: alpha ≥ minAlpha, f > alpha, alpha not a
// near-exact divisor of f, and ceil(f/alpha) ≤ 1/alpha.
func is2StepValid(alpha, f float64) bool {
	if alpha < minAlpha {
		return false
	}
	if isMultipleOf(alpha, f) {
		return false
	}
	if f > alpha && alpha > 0 {
		tau := math.Ceil(f / alpha)
		if 1/alpha >= tau {
			return true
		}
	}
	return false
}
