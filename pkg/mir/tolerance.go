package mir

import "math"

// Numeric thresholds used throughout cut generation. These are fixed
// properties of the algorithm, not tunables: loosening them risks
// emitting invalid cuts, tightening them starves the generator.
const (
	// boundTol is the slack allowed when deciding a variable sits on a
	// bound or two row bounds coincide (equality row detection).
	boundTol = 1e-6

	// nullSlackTol is the amount by which a cut must be violated before
	// it counts as cutting off the current point.
	nullSlackTol = 1e-5

	// integralityTol bounds the distance from integrality when testing
	// implied-integer rows and the unit pivot of a tableau row.
	integralityTol = 1e-7

	// gomoryTol is the minimum fractionality of a basic variable (or a
	// scaled rhs) for a rounding cut to be worth deriving.
	gomoryTol = 0.005

	// rhsFracTol is the minimum fractionality of a transformed base rhs;
	// below it the base cannot yield a useful cut.
	rhsFracTol = 0.005

	// minTableauCoeff is the magnitude below which tableau and
	// substituted coefficients are dropped as numerical noise.
	minTableauCoeff = 1e-8

	// minRho is the smallest admissible two-step remainder rho; it also
	// decides when alpha divides the rhs fraction exactly.
	minRho = 1e-7

	// minAlpha is the smallest admissible two-step split point.
	minAlpha = 1e-7

	// nicefyNoise is the absolute magnitude below which any coefficient
	// is zeroed outright.
	nicefyNoise = 1e-13

	// nicefyFix is the near-integer window: integer-variable coefficients
	// within nicefyFix of an integer are rounded.
	nicefyFix = 1e-7

	// nicefyMaxPadding caps the rhs error absorbed when rounding a
	// coefficient away instead of inflating it.
	nicefyMaxPadding = 1e-6

	// maxCutNonzeros rejects cuts (and base rows) denser than this.
	maxCutNonzeros = 500
)

// fracPart returns v − floor(v), the fractional remainder in [0, 1).
func fracPart(v float64) float64 { return v - math.Floor(v) }

// isMultipleOf reports whether b is an integer multiple of a to within
// the minRho tolerance.
func isMultipleOf(a, b float64) bool {
	return b-a*math.Floor(b/a) < minRho
}
