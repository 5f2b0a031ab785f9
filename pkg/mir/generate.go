package mir

import (
	"errors"
	"math"

	"github.com/charmbracelet/log"
)

// Params is the configuration surface of one generation call.
// Disabling a cut family collapses its scale range to empty (max < min),
// which is also how DoMIR/Do2MIR are applied internally.
type Params struct {
	// DoTableau and DoFormulation toggle the two base-row sources.
	DoTableau     bool
	DoFormulation bool

	// DoMIR and Do2Step toggle the two cut formulas.
	DoMIR   bool
	Do2Step bool

	// TMin..TMax is the integer scale range explored for classic MIR
	// cuts; QMin..QMax the range for two-step cuts. Zero is skipped, and
	// the floor is raised to 1 for ≥-sense bases.
	TMin, TMax int
	QMin, QMax int

	// AMax caps the ratio between the rhs fraction and the two-step
	// split point alpha.
	AMax int

	// Depth and Pass gate tableau-row generation: tableau rows are only
	// extracted at shallow depth (Depth < 1) in an early pass (Pass < 6),
	// where they pay off most.
	Depth, Pass int

	// FormulationRows caps how many formulation rows are scanned.
	// Negative means all rows.
	FormulationRows int

	// Seed initializes the pseudo-random sub-selection of formulation
	// scale candidates, making runs reproducible.
	Seed uint64
}

// DefaultParams returns the conventional settings: both sources and both
// formulas enabled with single-scale ranges and an alpha ratio cap of 2.
func DefaultParams() Params {
	return Params{
		DoTableau:       true,
		DoFormulation:   true,
		DoMIR:           true,
		Do2Step:         true,
		TMin:            1,
		TMax:            1,
		QMin:            1,
		QMax:            1,
		AMax:            2,
		FormulationRows: -1,
		Seed:            1983747,
	}
}

// effective returns a copy with the family toggles folded into the scale
// ranges.
func (p Params) effective() Params {
	if !p.DoMIR {
		p.TMax = p.TMin - 1
	}
	if !p.Do2Step {
		p.QMax = p.QMin - 1
	}
	if p.Seed == 0 {
		p.Seed = DefaultParams().Seed
	}
	return p
}

// lcg is the linear-congruential generator used to sub-select
// formulation scale candidates. The recurrence and output mapping are
// fixed so runs are reproducible across hosts given the same seed.
type lcg struct {
	state uint64
}

// uniform01 draws from [0, 1), redrawing while the value underflows.
func (r *lcg) uniform01() float64 {
	for {
		r.state = r.state*1103515245 + 12345
		v := float64((r.state / 65536) % 32768)
		if u := v / 32768; u >= 1e-18 {
			return u
		}
	}
}

// minImprovement is the objective-improvement floor a reduced-cost-best
// two-step cut must clear, and the positivity threshold for coefficients
// entering the improvement estimate.
const minImprovement = 1e-6

// Generator runs one cut-generation call over a snapshot. It is
// single-use and single-threaded: build one per generation call.
type Generator struct {
	snap   *Snapshot
	basis  BasisSolver
	params Params
	logger *log.Logger
	rng    lcg
}

// NewGenerator prepares a generation call. basis may be nil, in which
// case tableau-row generation is skipped (formulation rows need no
// factorization). logger may be nil.
func NewGenerator(snap *Snapshot, basis BasisSolver, params Params, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	p := params.effective()
	return &Generator{
		snap:   snap,
		basis:  basis,
		params: p,
		logger: logger,
		rng:    lcg{state: p.Seed},
	}
}

// Generate runs both enabled passes and returns the surviving cuts,
// expressed over structural variables. An error aborts the whole call;
// degenerate candidates are skipped silently.
func (g *Generator) Generate() (*CutList, error) {
	list := &CutList{}

	if g.params.DoTableau && g.basis != nil && g.params.Depth < 1 && g.params.Pass < 6 {
		if err := g.generateTableauCuts(list); err != nil {
			return nil, err
		}
	}
	if g.params.DoFormulation {
		if err := g.generateFormulationCuts(list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// generateTableauCuts derives cuts from the tableau row of every basic
// integer structural variable whose value is usefully fractional.
func (g *Generator) generateTableauCuts(list *CutList) error {
	before := list.Len()
	for col := 0; col < g.snap.NCol; col++ {
		if !g.snap.IsBasic(col) || !g.snap.IsInteger(col) {
			continue
		}
		frac := fracPart(g.snap.X[col])
		if frac < gomoryTol || frac > 1-gomoryTol {
			continue
		}

		base, err := tableauRow(g.snap, g.basis, col, false)
		if err != nil {
			g.logger.Debug("skipping tableau row", "col", col, "err", err)
			continue
		}
		if base.Nonzeros() == 0 || base.Nonzeros() > maxCutNonzeros {
			continue
		}

		if err := g.generateCutsFromBase(base, list, FamilyTableauMIR, FamilyTableauTwoStep); err != nil {
			return err
		}
	}
	g.logger.Debug("tableau pass done", "cuts", list.Len()-before)
	return nil
}

// generateFormulationCuts derives cuts directly from formulation rows,
// without a basis solve.
func (g *Generator) generateFormulationCuts(list *CutList) error {
	before := list.Len()
	nrows := g.snap.NRow
	if g.params.FormulationRows >= 0 && g.params.FormulationRows < nrows {
		nrows = g.params.FormulationRows
	}
	for i := 0; i < nrows; i++ {
		base, err := formulationRow(g.snap, i)
		if err != nil {
			return err
		}
		if base.Nonzeros() == 0 {
			continue
		}
		slack := g.snap.X[g.snap.NCol+i]
		if err := g.formulationCutsFromBase(base, slack, list); err != nil {
			return err
		}
	}
	g.logger.Debug("formulation pass done", "cuts", list.Len()-before)
	return nil
}

// formulationCutsFromBase sub-selects integer variables of a transformed
// formulation row at random, and uses each chosen variable's coefficient
// magnitude as a scale divisor for one targeted build pass. This bounds
// the combinatorial blowup over many formulation rows.
func (g *Generator) formulationCutsFromBase(base *Constraint, slack float64, list *CutList) error {
	info := g.snap.transformConstraint(base)

	totInt := 0
	for i := range base.Coeffs {
		if info.isInt[i] {
			totInt++
		}
	}
	if totInt == 0 {
		return nil
	}
	probChoose := 5.0 / float64(totInt)

	var tried []int
	for p := range base.Coeffs {
		if !info.isInt[p] || g.rng.uniform01() >= probChoose {
			continue
		}
		if info.x[p] < 0.01 {
			continue
		}
		skala := math.Abs(base.Coeffs[p])
		if skala < 0.01 {
			continue
		}
		// A row slack much larger than the scale drowns the cut.
		if math.Abs(slack/skala) > 0.5 {
			continue
		}

		scaled := base.Clone()
		if base.Sense == SenseLE {
			skala = -skala
			scaled.Sense = SenseGE
		}

		key := int(100 * skala)
		if containsInt(tried, key) {
			continue
		}
		tried = append(tried, key)

		scaled.RHS = base.RHS / skala
		for i := range base.Coeffs {
			scaled.Coeffs[i] = base.Coeffs[i] / skala
		}

		g.snap.untransformConstraint(scaled)
		if err := g.generateCutsFromBase(scaled, list, FamilyFormulationMIR, FamilyFormulationTwoStep); err != nil {
			return err
		}
	}
	return nil
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// generateCutsFromBase runs the full per-base pipeline: transform, the
// fractionality gate, optional up-front nicefy, both scale loops, and
// the reverse post-pass that untransforms, substitutes slacks, and
// filters every cut produced from this base. The base is consumed as
// scratch space.
func (g *Generator) generateCutsFromBase(base *Constraint, list *CutList, mirFamily, twoStepFamily Family) error {
	if base.Sense == SenseLE || base.Nonzeros() == 0 {
		return nil
	}
	newPos := list.Len()

	info := g.snap.transformConstraint(base)
	frac := fracPart(base.RHS)
	if frac < rhsFracTol || frac > 1-rhsFracTol {
		return nil
	}

	minT, minQ := g.params.TMin, g.params.QMin
	if base.Sense == SenseGE {
		if minT < 1 {
			minT = 1
		}
		if minQ < 1 {
			minQ = 1
		}
	}

	// Nicefy once up front when every scale is positive; with negative
	// scales in play the cleanup must wait until after scaling so the
	// fractional structure survives.
	nicefied := false
	if minT > 0 && minQ > 0 {
		nicefied = true
		if err := nicefyConstraint(g.snap, base); err != nil {
			return err
		}
		if base.Nonzeros() == 0 {
			return nil
		}
	}

	for t := minT; t <= g.params.TMax; t++ {
		if t == 0 {
			continue
		}
		scaled := base.Clone()
		scaled.Scale(float64(t))
		if !nicefied {
			if err := nicefyConstraint(g.snap, scaled); err != nil {
				return err
			}
		}
		if scaled.Nonzeros() == 0 || isBaseTrivial(scaled) {
			continue
		}
		cut, err := buildMIR(info.isInt, scaled)
		if err != nil {
			return err
		}
		list.Add(cut, mirFamily, float64(t))
	}

	for q := minQ; q <= g.params.QMax; q++ {
		if q == 0 {
			continue
		}
		scaled := base.Clone()
		scaled.Scale(float64(q))
		if !nicefied {
			if err := nicefyConstraint(g.snap, scaled); err != nil {
				return err
			}
		}
		if scaled.Nonzeros() == 0 || isBaseTrivial(scaled) {
			continue
		}
		if err := g.addTwoStepCut(scaled, info, list, twoStepFamily); err != nil {
			return err
		}
	}

	for i := list.Len() - 1; i >= newPos; i-- {
		cut := list.At(i).Constraint
		g.snap.untransformConstraint(cut)
		substituteSlacks(g.snap, cut)
		if !isCutDesirable(g.snap, cut) {
			list.RemoveAt(i)
		}
	}
	return nil
}

// addTwoStepCut searches alpha candidates for one scaled base and emits
// at most one two-step cut: the best by estimated objective improvement
// when that estimate clears minImprovement, otherwise the best by
// normalized coefficient norm. Candidate alphas come from the fractional
// parts of integer-variable coefficients, shrunk by successive integer
// divisors until admissible or the ratio cap is exceeded.
func (g *Generator) addTwoStepCut(base *Constraint, info *transformInfo, list *CutList, family Family) error {
	bht := fracPart(base.RHS)
	aMax := float64(g.params.AMax)

	bestRC := 0.0
	for i := range base.Coeffs {
		if info.isInt[i] {
			bestRC = math.Max(bestRC, math.Abs(info.rc[i]))
		}
	}
	rcCutoff := bestRC / 10

	bestRCVal, bestNormVal := math.MaxFloat64, math.MaxFloat64
	bestRCAlpha, bestNormAlpha := -1.0, -1.0
	var tried []int

	for i := range base.Coeffs {
		if !info.isInt[i] {
			continue
		}
		// Variables with negligible reduced cost cannot move the
		// objective enough to rank.
		if math.Abs(info.rc[i]) <= rcCutoff {
			continue
		}

		vht := fracPart(base.Coeffs[i])
		if vht >= bht || vht < bht/aMax {
			continue
		}

		alpha := vht
		for kk := 1; !is2StepValid(alpha, bht) && bht/alpha <= aMax; kk++ {
			alpha = vht / float64(kk)
		}
		if !is2StepValid(alpha, bht) {
			continue
		}

		// Near-equal alphas produce near-identical cuts; dedup on a
		// per-hundredth key.
		key := int(100 * alpha)
		if containsInt(tried, key) {
			continue
		}
		tried = append(tried, key)

		cut, err := build2Step(alpha, info.isInt, base)
		if err != nil {
			if isDegenerate2Step(err) {
				continue
			}
			return err
		}

		// Lower bound on objective improvement from this cut.
		rcVal := math.MaxFloat64
		for j := range cut.Coeffs {
			if cut.Coeffs[j] > minImprovement {
				rcVal = math.Min(rcVal, math.Abs(info.rc[j])/cut.Coeffs[j])
			}
		}
		rcVal *= cut.RHS

		// Squared L2 norm, normalized by the rhs.
		normVal := 0.0
		for j := range cut.Coeffs {
			if cut.Coeffs[j] > minImprovement {
				normVal += cut.Coeffs[j] * cut.Coeffs[j]
			}
		}
		normVal /= cut.RHS * cut.RHS

		if rcVal < bestRCVal {
			bestRCVal, bestRCAlpha = rcVal, alpha
		}
		if normVal < bestNormVal {
			bestNormVal, bestNormAlpha = normVal, alpha
		}
	}

	var alpha float64
	switch {
	case bestRCVal > minImprovement && bestRCAlpha != -1.0:
		alpha = bestRCAlpha
	case bestNormAlpha != -1.0:
		alpha = bestNormAlpha
	default:
		return nil
	}

	cut, err := build2Step(alpha, info.isInt, base)
	if err != nil {
		if isDegenerate2Step(err) {
			return nil
		}
		return err
	}
	list.Add(cut, family, alpha)
	return nil
}

// isDegenerate2Step classifies the recoverable build2Step failures: the
// candidate is skipped and the search continues.
func isDegenerate2Step(err error) bool {
	return errors.Is(err, ErrBadAlpha) ||
		errors.Is(err, ErrAlphaDivides) ||
		errors.Is(err, ErrSmallRho)
}
