package mir

import (
	"errors"
	"fmt"
	"math"
)

// ErrNicefySense is returned when a ≤ constraint reaches the nicefier;
// bases are flipped to ≥ (or =) before cleanup.
var ErrNicefySense = errors.New("cannot nicefy a <= constraint")

// nicefyConstraint cleans numerical noise out of a transformed base, in
// place. Magnitudes below nicefyNoise are zeroed. Integer-variable
// coefficients within nicefyFix of an integer are rounded: rounding down
// absorbs frac·ub into the rhs when that padding stays under
// nicefyMaxPadding, otherwise the coefficient is inflated back up by
// nicefyFix so no unsafe error enters the rhs; rounding up needs no
// compensation since it only weakens the ≥ constraint. Continuous
// variables lose negative and noise coefficients outright, and tiny
// positive ones are either absorbed the same way or floored to
// nicefyFix. The sense is forced to ≥ on exit.
func nicefyConstraint(s *Snapshot, c *Constraint) error {
	if c.Sense == SenseLE {
		return fmt.Errorf("%w: rhs %g", ErrNicefySense, c.RHS)
	}

	for i := range c.Coeffs {
		if math.Abs(c.Coeffs[i]) < nicefyNoise {
			c.Coeffs[i] = 0
		}
	}

	for i, idx := range c.Index {
		if s.IsInteger(idx) {
			frac := fracPart(c.Coeffs[i])
			ub := s.UB[idx]

			if frac == 0 {
				continue
			}
			if frac < nicefyFix {
				c.Coeffs[i] = math.Floor(c.Coeffs[i])
				if padding := frac * ub; padding < nicefyMaxPadding {
					c.RHS -= padding
				} else {
					c.Coeffs[i] += nicefyFix
				}
			} else if 1-frac < nicefyFix {
				c.Coeffs[i] = math.Ceil(c.Coeffs[i])
			}
			continue
		}

		// Continuous: negative or noise-level coefficients contribute
		// nothing to a ≥ constraint over nonnegative variables.
		if c.Coeffs[i] < nicefyNoise {
			c.Coeffs[i] = 0
		} else if c.Coeffs[i] < nicefyFix {
			if padding := c.Coeffs[i] * s.UB[idx]; padding < nicefyMaxPadding {
				c.Coeffs[i] = 0
				c.RHS -= padding
			} else {
				c.Coeffs[i] = nicefyFix
			}
		}
	}

	c.Sense = SenseGE
	return nil
}
